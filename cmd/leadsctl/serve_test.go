package main

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-leads-dashboard/components/dashboard"
)

func TestBuildAppSeedsLayout(t *testing.T) {
	cfg := defaultConfig()
	wired, err := buildApp(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, wired.admin.Dashboard())

	page, err := wired.controller.Page(context.Background(), dashboard.ViewerContext{UserID: "demo"})
	require.NoError(t, err)
	require.Len(t, page.Rows, 3)
	assert.Len(t, page.Rows[0].Widgets, 2)
	assert.Equal(t, dashboard.AreaPipeline, page.Rows[0].Code)
}

func TestBuildAppWithManifestAndActivity(t *testing.T) {
	cfg := defaultConfig()
	cfg.Manifest = sampleManifest
	cfg.Activity.Enabled = true
	cfg.Translations = map[string]map[string]string{"es": {"k": "v"}}
	wired, err := buildApp(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	state, err := wired.service.ToggleSidebar(context.Background(), dashboard.ViewerContext{UserID: "demo"})
	require.NoError(t, err)
	assert.True(t, state.SidebarCollapsed)

	layout, err := wired.service.ConfigureLayout(context.Background(), dashboard.ViewerContext{UserID: "demo"})
	require.NoError(t, err)
	assert.Len(t, layout.Areas[dashboard.AreaTracking], 1)
}

func TestBuildAppRejectsBadManifest(t *testing.T) {
	cfg := defaultConfig()
	cfg.Manifest = "does-not-exist.yaml"
	_, err := buildApp(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestEventsMuxStreamsShellChanges(t *testing.T) {
	wired, err := buildApp(context.Background(), defaultConfig(), zerolog.Nop())
	require.NoError(t, err)
	srv := httptest.NewServer(eventsMux(wired.broadcast))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events/sse?user_id=demo", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	_, err = wired.service.SelectSourcesTab(ctx, dashboard.ViewerContext{UserID: "demo"}, "totalDealsSize")
	require.NoError(t, err)

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: state\n", line)
}

func TestRefreshAreasReachesSubscribers(t *testing.T) {
	wired, err := buildApp(context.Background(), defaultConfig(), zerolog.Nop())
	require.NoError(t, err)
	events, cancel := wired.broadcast.Subscribe()
	defer cancel()

	refreshAreas(context.Background(), wired.executor, wired.areas, zerolog.Nop())
	require.Len(t, events, 3)
	first := <-events
	assert.Equal(t, dashboard.AreaPipeline, first.AreaCode)
	assert.Equal(t, "schedule", first.Reason)
}

func TestRefreshSchedulerRejectsBadSchedule(t *testing.T) {
	wired, err := buildApp(context.Background(), defaultConfig(), zerolog.Nop())
	require.NoError(t, err)
	_, err = refreshScheduler(context.Background(), "every tuesday", wired, zerolog.Nop())
	assert.Error(t, err)

	scheduler, err := refreshScheduler(context.Background(), "@every 1h", wired, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, scheduler.Entries(), 1)
}

func TestPageAreasAppendsManifestAreas(t *testing.T) {
	doc := &dashboard.WidgetManifestDocument{Areas: []dashboard.WidgetAreaDefinition{
		{Code: dashboard.AreaStats},
		{Code: "leads.overview.forecast"},
	}}
	assert.Equal(t, []string{dashboard.AreaPipeline, dashboard.AreaTracking, dashboard.AreaStats, "leads.overview.forecast"}, pageAreas(doc))
}
