package dashboard

import "github.com/goliatone/go-leads-dashboard/components/leads"

func defaultProviders(repo leads.Repository, chartOpts ...EChartsOption) map[string]Provider {
	renderer := NewEChartsRenderer(chartOpts...)
	return map[string]Provider{
		WidgetFunnelCount:     NewFunnelCountProvider(repo, renderer),
		WidgetSourcesOverview: NewSourcesOverviewProvider(repo, renderer),
		WidgetLeadsTracking:   NewLeadsTrackingProvider(repo, renderer),
		WidgetLeadsStats:      NewLeadsStatsProvider(repo),
	}
}
