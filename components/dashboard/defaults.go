package dashboard

import (
	"github.com/goliatone/go-leads-dashboard/components/leads"
)

// Area codes of the leads overview page, top to bottom.
const (
	AreaPipeline = "leads.overview.pipeline"
	AreaTracking = "leads.overview.tracking"
	AreaStats    = "leads.overview.stats"
)

// Widget definition codes.
const (
	WidgetFunnelCount     = "leads.widget.funnel_count"
	WidgetSourcesOverview = "leads.widget.sources_overview"
	WidgetLeadsTracking   = "leads.widget.leads_tracking"
	WidgetLeadsStats      = "leads.widget.leads_stats"
)

var defaultAreaDefinitions = []WidgetAreaDefinition{
	{Code: AreaPipeline, Name: "Pipeline", Description: "Funnel and sources side by side", Columns: 2},
	{Code: AreaTracking, Name: "Tracking", Description: "Closed won/lost over time", Columns: 1},
	{Code: AreaStats, Name: "Statistics", Description: "Lost reasons and other aggregates", Columns: 1},
}

var defaultWidgetDefinitions = []WidgetDefinition{
	{
		Code: WidgetFunnelCount,
		Name: "Funnel count",
		NameLocalized: map[string]string{
			"es": "Embudo de ventas",
		},
		Description: "Active leads per pipeline stage",
		DescriptionLocalized: map[string]string{
			"es": "Leads activos por etapa",
		},
		Category: "pipeline",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":      map[string]any{"type": "string", "minLength": 1},
				"show_chart": map[string]any{"type": "boolean", "default": true},
			},
			"additionalProperties": false,
		},
	},
	{
		Code: WidgetSourcesOverview,
		Name: "Sources",
		NameLocalized: map[string]string{
			"es": "Fuentes",
		},
		Description: "Lead share and deal value per acquisition channel",
		Category:    "pipeline",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string", "minLength": 1},
				"tab":   map[string]any{"type": "string", "enum": sourceTabValues()},
			},
			"additionalProperties": false,
		},
	},
	{
		Code: WidgetLeadsTracking,
		Name: "Leads tracking",
		NameLocalized: map[string]string{
			"es": "Seguimiento de leads",
		},
		Description: "Closed won and closed lost leads per month",
		Category:    "charts",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string", "minLength": 1},
				"range": map[string]any{"type": "string", "enum": timeRangeValues()},
			},
			"additionalProperties": false,
		},
	},
	{
		Code: WidgetLeadsStats,
		Name: "Leads statistics",
		NameLocalized: map[string]string{
			"es": "Estadísticas de leads",
		},
		Description: "Reasons of leads lost and other aggregates",
		Category:    "stats",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"reasons_title": map[string]any{"type": "string"},
				"other_title":   map[string]any{"type": "string"},
			},
			"additionalProperties": false,
		},
	},
}

var defaultSeedWidgets = []AddWidgetRequest{
	{DefinitionID: WidgetFunnelCount, AreaCode: AreaPipeline, Configuration: map[string]any{"show_chart": true}},
	{DefinitionID: WidgetSourcesOverview, AreaCode: AreaPipeline, Configuration: map[string]any{}},
	{DefinitionID: WidgetLeadsTracking, AreaCode: AreaTracking, Configuration: map[string]any{}},
	{DefinitionID: WidgetLeadsStats, AreaCode: AreaStats, Configuration: map[string]any{}},
}

// DefaultAreaDefinitions exposes the leads overview rows.
func DefaultAreaDefinitions() []WidgetAreaDefinition {
	return append([]WidgetAreaDefinition(nil), defaultAreaDefinitions...)
}

// DefaultAreaCodes returns the area codes in page order.
func DefaultAreaCodes() []string {
	codes := make([]string, len(defaultAreaDefinitions))
	for i, area := range defaultAreaDefinitions {
		codes[i] = area.Code
	}
	return codes
}

// DefaultWidgetDefinitions exposes the built-in widget definitions.
func DefaultWidgetDefinitions() []WidgetDefinition {
	return append([]WidgetDefinition(nil), defaultWidgetDefinitions...)
}

// DefaultSeedWidgets returns the widget placements of the leads overview page.
func DefaultSeedWidgets() []AddWidgetRequest {
	out := make([]AddWidgetRequest, len(defaultSeedWidgets))
	for i, req := range defaultSeedWidgets {
		cfg := make(map[string]any, len(req.Configuration))
		for k, v := range req.Configuration {
			cfg[k] = v
		}
		req.Configuration = cfg
		out[i] = req
	}
	return out
}

func sourceTabValues() []string {
	tabs := leads.SourceTabs()
	out := make([]string, len(tabs))
	for i, tab := range tabs {
		out[i] = string(tab)
	}
	return out
}

func timeRangeValues() []string {
	ranges := leads.TimeRanges()
	out := make([]string, len(ranges))
	for i, r := range ranges {
		out[i] = string(r)
	}
	return out
}
