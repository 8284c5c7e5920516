package leads

// Palette used by the default dataset.
const (
	ColorDestructive = "#EF4444"
	ColorYellow      = "#FACC15"
	ColorAmber       = "#FBBF24"
	ColorPrimary     = "#3B82F6"
	ColorAccentGreen = "#10B981"
	ColorTeal        = "#2DD4BF"
	ColorPurple      = "#9333EA"
)

// StageHintAverageTime is the tooltip shown on the in-conversation duration.
const StageHintAverageTime = "average time on this stage"

// DefaultDataset returns the constant leads overview dataset.
func DefaultDataset() Dataset {
	return Dataset{
		Funnel: FunnelOverview{
			ActiveLeads: 600,
			Stages: []FunnelStage{
				{ID: "discovery", Name: "Discovery", Count: 200, Value: 200, Days: 2, Color: ColorDestructive},
				{ID: "qualified", Name: "Qualified", Count: 100, Value: 100, Days: 2, Color: ColorYellow},
				{ID: "inConversation", Name: "In conversation", Count: 50, Value: 100, Days: 2, Color: ColorPrimary, Hint: StageHintAverageTime},
				{ID: "negotiations", Name: "Negotiations", Count: 20, Value: 50, Days: 8, Color: ColorAccentGreen},
				{ID: "closedWon", Name: "Closed won", Count: 20, Value: 50, Days: 10, Color: ColorPurple},
			},
		},
		Reasons: []LostReason{
			{ID: "unclearProposal1", Percentage: 40, Description: "The proposal is unclear"},
			{ID: "venturePursuit", Percentage: 20, Description: "However venture pursuit"},
			{ID: "other", Percentage: 10, Description: "Other"},
			{ID: "unclearProposal2", Percentage: 30, Description: "The proposal is unclear"},
		},
		Other: []OtherStat{
			{ID: "totalLeads", Value: 900, Label: "total leads count"},
			{ID: "avgConvertTime", Value: 12, Label: "days in average to convert lead"},
			{ID: "inactiveLeads", Value: 30, Label: "inactive leads", InfoText: "Leads with no activity for 30+ days"},
		},
		Sources: []Source{
			{Name: "Clutch", DealValue: 3000, LeadShare: 50, Color: ColorDestructive},
			{Name: "Behance", DealValue: 1000, LeadShare: 16.67, Color: ColorAmber},
			{Name: "Instagram", DealValue: 1000, LeadShare: 16.67, Color: ColorTeal},
			{Name: "Dribbble", DealValue: 1000, LeadShare: 16.67, Color: ColorAccentGreen},
		},
		Tracking: TrackingSummary{
			TotalClosed: 680,
			TotalLost:   70,
			Points: []TrackingPoint{
				{Month: "March", ClosedWon: 65, ClosedLost: 82},
				{Month: "April", ClosedWon: 52, ClosedLost: 70},
				{Month: "May", ClosedWon: 78, ClosedLost: 40},
				{Month: "June", ClosedWon: 60, ClosedLost: 15},
				{Month: "July", ClosedWon: 75, ClosedLost: 42},
				{Month: "August", ClosedWon: 95, ClosedLost: 30},
			},
		},
	}
}
