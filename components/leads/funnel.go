package leads

// FunnelStage is one step of the sales pipeline.
type FunnelStage struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
	// Value is the monetary value of the stage in dollars.
	Value float64 `json:"value" yaml:"value"`
	// Days is the average time leads spend on the stage.
	Days  int    `json:"days" yaml:"days"`
	Color string `json:"color" yaml:"color"`
	// Percentage is derived from Count; see WithPercentages.
	Percentage float64 `json:"percentage" yaml:"-"`
	Hint       string  `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// FunnelOverview groups the headline counter with the pipeline stages.
type FunnelOverview struct {
	ActiveLeads int           `json:"active_leads" yaml:"active_leads"`
	Stages      []FunnelStage `json:"stages" yaml:"stages"`
}

// TotalCount sums the lead count of every stage.
func TotalCount(stages []FunnelStage) int {
	total := 0
	for _, stage := range stages {
		total += stage.Count
	}
	return total
}

// WithPercentages returns a copy of stages with Percentage set to the share of
// the stage count in the total count. Every percentage is 0 when the total is 0.
func WithPercentages(stages []FunnelStage) []FunnelStage {
	out := make([]FunnelStage, len(stages))
	copy(out, stages)
	total := TotalCount(stages)
	for i := range out {
		if total > 0 {
			out[i].Percentage = float64(out[i].Count) / float64(total) * 100
		} else {
			out[i].Percentage = 0
		}
	}
	return out
}

// StageByID finds a stage by identifier.
func StageByID(stages []FunnelStage, id string) (FunnelStage, bool) {
	for _, stage := range stages {
		if stage.ID == id {
			return stage, true
		}
	}
	return FunnelStage{}, false
}
