package dashboard

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/goliatone/go-leads-dashboard/components/leads"
)

type leadsWidget struct {
	repo   leads.Repository
	charts *EChartsRenderer
}

func newLeadsWidget(repo leads.Repository, charts *EChartsRenderer) leadsWidget {
	if repo == nil {
		repo = leads.NewStaticRepository()
	}
	if charts == nil {
		charts = NewEChartsRenderer()
	}
	return leadsWidget{repo: repo, charts: charts}
}

func (w leadsWidget) title(ctx context.Context, meta WidgetContext, key, fallback string) string {
	if key == "title" && meta.Definition.Code != "" {
		fallback = meta.Definition.NameForLocale(meta.Viewer.Locale)
	}
	fallback = stringValue(meta.Instance.Configuration[key], fallback)
	translationKey := fmt.Sprintf("dashboard.widget.%s.%s", meta.Instance.DefinitionID, key)
	return translateOrFallback(ctx, meta.Translator, translationKey, meta.Viewer.Locale, fallback, nil)
}

func (w leadsWidget) chartKey(meta WidgetContext) string {
	return meta.Instance.DefinitionID + ":" + meta.Instance.ID
}

// FunnelCountProvider renders the pipeline funnel with derived stage percentages.
type FunnelCountProvider struct {
	leadsWidget
}

// NewFunnelCountProvider builds the funnel widget provider.
func NewFunnelCountProvider(repo leads.Repository, charts *EChartsRenderer) *FunnelCountProvider {
	return &FunnelCountProvider{leadsWidget: newLeadsWidget(repo, charts)}
}

// Fetch loads the funnel overview and computes stage shares.
func (p *FunnelCountProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	overview, err := p.repo.FunnelOverview(ctx)
	if err != nil {
		return nil, fmt.Errorf("funnel count provider: %w", err)
	}
	stages := leads.WithPercentages(overview.Stages)
	rows := make([]map[string]any, 0, len(stages))
	points := make([]ChartPoint, 0, len(stages))
	for _, stage := range stages {
		rows = append(rows, map[string]any{
			"id":          stage.ID,
			"name":        stage.Name,
			"count":       stage.Count,
			"value":       stage.Value,
			"value_label": fmt.Sprintf("$ %.0f", stage.Value),
			"days":        stage.Days,
			"days_label":  fmt.Sprintf("%d days", stage.Days),
			"color":       stage.Color,
			"percentage":  stage.Percentage,
			"bar_width":   fmt.Sprintf("%.2f%%", stage.Percentage),
			"hint":        stage.Hint,
		})
		points = append(points, ChartPoint{Label: stage.Name, Value: float64(stage.Count), Color: stage.Color})
	}

	theme := p.charts.ResolveTheme(meta.Viewer, meta.Theme)
	data := WidgetData{
		"title":        p.title(ctx, meta, "title", "Funnel count"),
		"active_leads": overview.ActiveLeads,
		"active_label": "active leads",
		"total_count":  leads.TotalCount(stages),
		"stages":       rows,
		"theme":        theme,
	}
	if boolValue(meta.Instance.Configuration["show_chart"], true) && len(points) > 0 {
		html, err := p.charts.Render(ChartSpec{
			Kind:   ChartFunnel,
			Key:    p.chartKey(meta),
			Series: []ChartSeries{{Name: "Leads", Points: points}},
			Theme:  theme,
		})
		if err != nil {
			return nil, err
		}
		data["chart_html"] = html
		data["chart_type"] = string(ChartFunnel)
	}
	return data, nil
}

// SourcesOverviewProvider renders the lead source breakdown and its tabs.
type SourcesOverviewProvider struct {
	leadsWidget
}

// NewSourcesOverviewProvider builds the sources widget provider.
func NewSourcesOverviewProvider(repo leads.Repository, charts *EChartsRenderer) *SourcesOverviewProvider {
	return &SourcesOverviewProvider{leadsWidget: newLeadsWidget(repo, charts)}
}

// Fetch loads the sources and marks the viewer's active tab. The dataset is the
// same for every tab.
func (p *SourcesOverviewProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	sources, err := p.repo.Sources(ctx)
	if err != nil {
		return nil, fmt.Errorf("sources provider: %w", err)
	}
	active := activeSourceTab(meta)
	tabs := make([]map[string]any, 0, len(leads.SourceTabs()))
	for _, tab := range leads.SourceTabs() {
		tabs = append(tabs, map[string]any{
			"id":     string(tab),
			"label":  tab.Label(),
			"active": tab == active,
		})
	}
	legend := make([]map[string]any, 0, len(sources))
	points := make([]ChartPoint, 0, len(sources))
	for _, src := range sources {
		legend = append(legend, map[string]any{
			"name":        src.Name,
			"share":       src.LeadShare,
			"share_label": fmt.Sprintf("%.0f%%", src.LeadShare),
			"deal_value":  src.DealValue,
			"deal_label":  dealLabel(src.DealValue),
			"color":       src.Color,
		})
		points = append(points, ChartPoint{Label: src.Name, Value: src.LeadShare, Color: src.Color})
	}

	theme := p.charts.ResolveTheme(meta.Viewer, meta.Theme)
	data := WidgetData{
		"title":      p.title(ctx, meta, "title", "Sources"),
		"active_tab": string(active),
		"tabs":       tabs,
		"sources":    legend,
		"share_note": p.title(ctx, meta, "share_caption", leads.ShareCaption),
		"share_hint": p.title(ctx, meta, "share_hint", leads.ShareHint),
		"theme":      theme,
	}
	if len(points) > 0 {
		html, err := p.charts.Render(ChartSpec{
			Kind:   ChartPie,
			Key:    p.chartKey(meta),
			Series: []ChartSeries{{Name: "Sources", Points: points}},
			Theme:  theme,
		})
		if err != nil {
			return nil, err
		}
		data["chart_html"] = html
		data["chart_type"] = string(ChartPie)
	}
	return data, nil
}

// dealLabel formats whole dollars with thousands separators ("$ 3,000").
func dealLabel(value float64) string {
	return message.NewPrinter(language.English).Sprintf("$ %d", int64(math.Round(value)))
}

func activeSourceTab(meta WidgetContext) leads.SourceTab {
	if meta.Shell.SourcesTab.Valid() {
		return meta.Shell.SourcesTab
	}
	if tab, err := leads.ParseSourceTab(stringValue(meta.Instance.Configuration["tab"], "")); err == nil {
		return tab
	}
	return leads.DefaultSourceTab
}

// LeadsTrackingProvider renders monthly closed won/lost leads as an area chart.
type LeadsTrackingProvider struct {
	leadsWidget
}

// NewLeadsTrackingProvider builds the tracking widget provider.
func NewLeadsTrackingProvider(repo leads.Repository, charts *EChartsRenderer) *LeadsTrackingProvider {
	return &LeadsTrackingProvider{leadsWidget: newLeadsWidget(repo, charts)}
}

// Fetch loads the tracking series and the widget's own time range selection.
func (p *LeadsTrackingProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	summary, err := p.repo.Tracking(ctx)
	if err != nil {
		return nil, fmt.Errorf("leads tracking provider: %w", err)
	}
	won := make([]ChartPoint, len(summary.Points))
	lost := make([]ChartPoint, len(summary.Points))
	for i, point := range summary.Points {
		won[i] = ChartPoint{Label: point.Month, Value: float64(point.ClosedWon)}
		lost[i] = ChartPoint{Label: point.Month, Value: float64(point.ClosedLost)}
	}
	selected := trackingRange(meta)

	theme := p.charts.ResolveTheme(meta.Viewer, meta.Theme)
	data := WidgetData{
		"title":        p.title(ctx, meta, "title", "Leads tracking"),
		"total_closed": summary.TotalClosed,
		"total_lost":   summary.TotalLost,
		"time_range":   string(selected),
		"time_ranges":  timeRangeValues(),
		"months":       summary.Months(),
		"theme":        theme,
	}
	if len(summary.Points) > 0 {
		html, err := p.charts.Render(ChartSpec{
			Kind:  ChartArea,
			Key:   p.chartKey(meta),
			XAxis: summary.Months(),
			Series: []ChartSeries{
				{Name: "Closed won", Color: leads.ColorPrimary, Points: won},
				{Name: "Closed lost", Color: leads.ColorDestructive, Points: lost},
			},
			Theme: theme,
		})
		if err != nil {
			return nil, err
		}
		data["chart_html"] = html
		data["chart_type"] = string(ChartArea)
	}
	return data, nil
}

func trackingRange(meta WidgetContext) leads.TimeRange {
	if meta.Shell.TrackingRange.Valid() {
		return meta.Shell.TrackingRange
	}
	if r, err := leads.ParseTimeRange(stringValue(meta.Instance.Configuration["range"], "")); err == nil {
		return r
	}
	return leads.DefaultTimeRange
}

// LeadsStatsProvider renders the lost reasons and other aggregate tiles.
type LeadsStatsProvider struct {
	leadsWidget
}

// NewLeadsStatsProvider builds the statistics widget provider.
func NewLeadsStatsProvider(repo leads.Repository) *LeadsStatsProvider {
	return &LeadsStatsProvider{leadsWidget: newLeadsWidget(repo, nil)}
}

// Fetch loads both tile groups.
func (p *LeadsStatsProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	stats, err := leads.LoadStats(ctx, p.repo)
	if err != nil {
		return nil, fmt.Errorf("leads stats provider: %w", err)
	}
	reasonTiles := make([]map[string]any, 0, len(stats.LostReasons))
	for _, r := range stats.LostReasons {
		reasonTiles = append(reasonTiles, map[string]any{
			"id":          r.ID,
			"percentage":  r.Percentage,
			"value_label": fmt.Sprintf("%.0f%%", r.Percentage),
			"description": r.Description,
		})
	}
	otherTiles := make([]map[string]any, 0, len(stats.OtherStats))
	for _, s := range stats.OtherStats {
		otherTiles = append(otherTiles, map[string]any{
			"id":          s.ID,
			"value":       s.Value,
			"value_label": fmt.Sprintf("%g", s.Value),
			"label":       s.Label,
			"has_info":    s.HasInfo(),
			"info_text":   s.InfoText,
		})
	}
	return WidgetData{
		"reasons_title": p.title(ctx, meta, "reasons_title", "Reasons of leads lost"),
		"other_title":   p.title(ctx, meta, "other_title", "Other data"),
		"reasons":       reasonTiles,
		"other":         otherTiles,
	}, nil
}
