package analytics

import (
	"context"

	"github.com/goliatone/go-leads-dashboard/components/leads"
)

// FunnelClient fetches the pipeline funnel from an upstream CRM reporting service.
type FunnelClient interface {
	FetchFunnel(ctx context.Context) (leads.FunnelOverview, error)
}

// SourcesClient fetches the lead acquisition breakdown.
type SourcesClient interface {
	FetchSources(ctx context.Context) ([]leads.Source, error)
}

// TrackingClient fetches the monthly closed won/lost series.
type TrackingClient interface {
	FetchTracking(ctx context.Context) (leads.TrackingSummary, error)
}

// StatsClient fetches lost reasons and the other aggregate tiles.
type StatsClient interface {
	FetchStats(ctx context.Context) (StatsReport, error)
}

// Client is a convenience union for services that implement all leads calls.
type Client interface {
	FunnelClient
	SourcesClient
	TrackingClient
	StatsClient
}

// StatsReport groups both statistic tile sets returned by the stats endpoint.
type StatsReport struct {
	LostReasons []leads.LostReason
	OtherStats  []leads.OtherStat
}
