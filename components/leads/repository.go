package leads

import "context"

// Repository serves the datasets rendered by the leads overview widgets.
type Repository interface {
	FunnelOverview(ctx context.Context) (FunnelOverview, error)
	LostReasons(ctx context.Context) ([]LostReason, error)
	OtherStats(ctx context.Context) ([]OtherStat, error)
	Sources(ctx context.Context) ([]Source, error)
	Tracking(ctx context.Context) (TrackingSummary, error)
}

// Stats groups both statistic tile sets.
type Stats struct {
	LostReasons []LostReason
	OtherStats  []OtherStat
}

// StatsReader is implemented by repositories that load both tile sets in a
// single call.
type StatsReader interface {
	Stats(ctx context.Context) (Stats, error)
}

// LoadStats reads both tile sets, in one call when repo is a StatsReader.
func LoadStats(ctx context.Context, repo Repository) (Stats, error) {
	if reader, ok := repo.(StatsReader); ok {
		return reader.Stats(ctx)
	}
	reasons, err := repo.LostReasons(ctx)
	if err != nil {
		return Stats{}, err
	}
	other, err := repo.OtherStats(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{LostReasons: reasons, OtherStats: other}, nil
}

// Dataset is the full set of values a Repository serves.
type Dataset struct {
	Funnel   FunnelOverview  `json:"funnel" yaml:"funnel"`
	Reasons  []LostReason    `json:"reasons" yaml:"reasons"`
	Other    []OtherStat     `json:"other" yaml:"other"`
	Sources  []Source        `json:"sources" yaml:"sources"`
	Tracking TrackingSummary `json:"tracking" yaml:"tracking"`
}

// StaticRepository serves a fixed Dataset. Callers receive copies.
type StaticRepository struct {
	data Dataset
}

// NewStaticRepository returns a repository backed by DefaultDataset.
func NewStaticRepository() *StaticRepository {
	return NewDatasetRepository(DefaultDataset())
}

// NewDatasetRepository returns a repository backed by the given dataset.
func NewDatasetRepository(data Dataset) *StaticRepository {
	return &StaticRepository{data: data}
}

func (r *StaticRepository) FunnelOverview(context.Context) (FunnelOverview, error) {
	return FunnelOverview{
		ActiveLeads: r.data.Funnel.ActiveLeads,
		Stages:      append([]FunnelStage(nil), r.data.Funnel.Stages...),
	}, nil
}

func (r *StaticRepository) LostReasons(context.Context) ([]LostReason, error) {
	return append([]LostReason(nil), r.data.Reasons...), nil
}

func (r *StaticRepository) OtherStats(context.Context) ([]OtherStat, error) {
	return append([]OtherStat(nil), r.data.Other...), nil
}

func (r *StaticRepository) Sources(context.Context) ([]Source, error) {
	return append([]Source(nil), r.data.Sources...), nil
}

func (r *StaticRepository) Tracking(context.Context) (TrackingSummary, error) {
	return TrackingSummary{
		TotalClosed: r.data.Tracking.TotalClosed,
		TotalLost:   r.data.Tracking.TotalLost,
		Points:      append([]TrackingPoint(nil), r.data.Tracking.Points...),
	}, nil
}

// Snapshot loads every dataset from repo.
func Snapshot(ctx context.Context, repo Repository) (Dataset, error) {
	var (
		data Dataset
		err  error
	)
	if data.Funnel, err = repo.FunnelOverview(ctx); err != nil {
		return Dataset{}, err
	}
	stats, err := LoadStats(ctx, repo)
	if err != nil {
		return Dataset{}, err
	}
	data.Reasons, data.Other = stats.LostReasons, stats.OtherStats
	if data.Sources, err = repo.Sources(ctx); err != nil {
		return Dataset{}, err
	}
	if data.Tracking, err = repo.Tracking(ctx); err != nil {
		return Dataset{}, err
	}
	return data, nil
}
