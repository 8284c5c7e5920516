package leads

// LostReason is a static "reasons of leads lost" tile. Percentages are set
// independently and are not expected to sum to 100.
type LostReason struct {
	ID          string  `json:"id" yaml:"id"`
	Percentage  float64 `json:"percentage" yaml:"percentage"`
	Description string  `json:"description" yaml:"description"`
}

// OtherStat is an aggregate statistic tile with an optional info tooltip.
type OtherStat struct {
	ID       string  `json:"id" yaml:"id"`
	Value    float64 `json:"value" yaml:"value"`
	Label    string  `json:"label" yaml:"label"`
	InfoText string  `json:"info_text,omitempty" yaml:"info_text,omitempty"`
}

// HasInfo reports whether the tile renders an info tooltip.
func (s OtherStat) HasInfo() bool {
	return s.InfoText != ""
}
