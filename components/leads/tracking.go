package leads

import (
	"errors"
	"strings"
)

// TrackingPoint is a monthly closed won/lost count.
type TrackingPoint struct {
	Month      string `json:"month" yaml:"month"`
	ClosedWon  int    `json:"closed_won" yaml:"closed_won"`
	ClosedLost int    `json:"closed_lost" yaml:"closed_lost"`
}

// TrackingSummary carries the headline counters and the monthly series.
type TrackingSummary struct {
	TotalClosed int             `json:"total_closed" yaml:"total_closed"`
	TotalLost   int             `json:"total_lost" yaml:"total_lost"`
	Points      []TrackingPoint `json:"points" yaml:"points"`
}

// Months returns the month labels in series order.
func (s TrackingSummary) Months() []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Month
	}
	return out
}

// TimeRange is one of the literal options offered by the range dropdowns.
type TimeRange string

const (
	RangeLast24Hours  TimeRange = "last 24 hours"
	RangeLast7Days    TimeRange = "last 7 days"
	RangeLast30Days   TimeRange = "last 30 days"
	RangeLast6Months  TimeRange = "last 6 months"
	RangeLast12Months TimeRange = "last 12 months"
)

// DefaultTimeRange is selected until the viewer picks another option.
const DefaultTimeRange = RangeLast6Months

// ErrUnknownTimeRange is returned for values outside TimeRanges.
var ErrUnknownTimeRange = errors.New("leads: unknown time range")

// TimeRanges lists the dropdown options in display order.
func TimeRanges() []TimeRange {
	return []TimeRange{
		RangeLast24Hours,
		RangeLast7Days,
		RangeLast30Days,
		RangeLast6Months,
		RangeLast12Months,
	}
}

// ParseTimeRange accepts only the literal option text (surrounding spaces ignored).
func ParseTimeRange(value string) (TimeRange, error) {
	value = strings.TrimSpace(value)
	for _, r := range TimeRanges() {
		if string(r) == value {
			return r, nil
		}
	}
	return "", ErrUnknownTimeRange
}

// Valid reports whether r is one of TimeRanges.
func (r TimeRange) Valid() bool {
	_, err := ParseTimeRange(string(r))
	return err == nil
}
