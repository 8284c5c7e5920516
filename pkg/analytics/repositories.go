package analytics

import (
	"context"

	"github.com/goliatone/go-leads-dashboard/components/leads"
)

// NewRepository adapts a leads client into a leads.Repository for the widget providers.
func NewRepository(client Client) leads.Repository {
	return &repository{client: client}
}

type repository struct {
	client Client
}

var _ leads.StatsReader = (*repository)(nil)

func (r *repository) FunnelOverview(ctx context.Context) (leads.FunnelOverview, error) {
	return r.client.FetchFunnel(ctx)
}

func (r *repository) LostReasons(ctx context.Context) ([]leads.LostReason, error) {
	report, err := r.client.FetchStats(ctx)
	if err != nil {
		return nil, err
	}
	return report.LostReasons, nil
}

func (r *repository) OtherStats(ctx context.Context) ([]leads.OtherStat, error) {
	report, err := r.client.FetchStats(ctx)
	if err != nil {
		return nil, err
	}
	return report.OtherStats, nil
}

// Stats answers both tile sets from one stats request.
func (r *repository) Stats(ctx context.Context) (leads.Stats, error) {
	report, err := r.client.FetchStats(ctx)
	if err != nil {
		return leads.Stats{}, err
	}
	return leads.Stats{LostReasons: report.LostReasons, OtherStats: report.OtherStats}, nil
}

func (r *repository) Sources(ctx context.Context) ([]leads.Source, error) {
	return r.client.FetchSources(ctx)
}

func (r *repository) Tracking(ctx context.Context) (leads.TrackingSummary, error) {
	return r.client.FetchTracking(ctx)
}
