package leads

import (
	"errors"
	"strings"
)

// Source is a lead acquisition channel.
type Source struct {
	Name string `json:"name" yaml:"name"`
	// DealValue is the total deals value in dollars.
	DealValue float64 `json:"deal_value" yaml:"deal_value"`
	// LeadShare is the percentage of leads attributed to the source.
	LeadShare float64 `json:"lead_share" yaml:"lead_share"`
	Color     string  `json:"color" yaml:"color"`
}

// Caption of the legend shares and its tooltip.
const (
	ShareCaption = "from leads total"
	ShareHint    = "Percentage of total leads converted"
)

// ShareTotal sums the lead shares. Shares are assumed, not enforced, to add up to 100.
func ShareTotal(sources []Source) float64 {
	total := 0.0
	for _, src := range sources {
		total += src.LeadShare
	}
	return total
}

// SourceTab selects the metric label of the sources widget.
type SourceTab string

const (
	TabLeadsCame      SourceTab = "leadsCame"
	TabLeadsConverted SourceTab = "leadsConverted"
	TabTotalDealsSize SourceTab = "totalDealsSize"
)

// DefaultSourceTab is active until the viewer picks another tab.
const DefaultSourceTab = TabLeadsConverted

// ErrUnknownSourceTab is returned for tab identifiers outside SourceTabs.
var ErrUnknownSourceTab = errors.New("leads: unknown sources tab")

var sourceTabLabels = map[SourceTab]string{
	TabLeadsCame:      "Leads came",
	TabLeadsConverted: "Leads Converted",
	TabTotalDealsSize: "Total deals size",
}

// SourceTabs lists the tabs in display order.
func SourceTabs() []SourceTab {
	return []SourceTab{TabLeadsCame, TabLeadsConverted, TabTotalDealsSize}
}

// Label returns the display label of the tab.
func (t SourceTab) Label() string {
	return sourceTabLabels[t]
}

// Valid reports whether t is one of SourceTabs.
func (t SourceTab) Valid() bool {
	_, ok := sourceTabLabels[t]
	return ok
}

// ParseSourceTab matches tab identifiers case-insensitively.
func ParseSourceTab(value string) (SourceTab, error) {
	value = strings.TrimSpace(value)
	for _, tab := range SourceTabs() {
		if strings.EqualFold(string(tab), value) {
			return tab, nil
		}
	}
	return "", ErrUnknownSourceTab
}
