package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-leads-dashboard/components/leads"
)

func TestToggleSidebarAlternatesBetweenTwoStates(t *testing.T) {
	t.Parallel()
	service := NewService(Options{WidgetStore: NewInMemoryWidgetStore()})
	viewer := ViewerContext{UserID: "user-1"}
	ctx := context.Background()

	seen := map[int]bool{}
	state, err := service.ShellState(ctx, viewer)
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		prev := state
		state, err = service.ToggleSidebar(ctx, viewer)
		require.NoError(t, err)
		assert.NotEqual(t, prev.SidebarCollapsed, state.SidebarCollapsed)

		view := BuildShellView("", state)
		seen[view.Sidebar.Width] = true
		assert.Equal(t, view.Sidebar.Width, view.ContentOffset)
		assert.Equal(t, view.Sidebar.Width, view.Header.LeftOffset)
		for _, item := range view.Sidebar.Main {
			assert.Equal(t, !state.SidebarCollapsed, item.ShowLabel)
		}
	}
	assert.Equal(t, map[int]bool{SidebarExpandedWidth: true, SidebarCollapsedWidth: true}, seen)
	assert.False(t, state.SidebarCollapsed, "even number of toggles restores the expanded sidebar")
}

func TestSelectNavItemKeepsExactlyOneActive(t *testing.T) {
	t.Parallel()
	service := NewService(Options{WidgetStore: NewInMemoryWidgetStore()})
	viewer := ViewerContext{UserID: "user-2"}
	ctx := context.Background()

	for _, item := range NavItems() {
		state, err := service.SelectNavItem(ctx, viewer, item.Label)
		require.NoError(t, err)

		view := BuildShellView("", state)
		active := 0
		for _, v := range append(view.Sidebar.Main, view.Sidebar.Bottom...) {
			if v.Active {
				active++
				assert.Equal(t, item.Label, v.Label)
			}
		}
		assert.Equal(t, 1, active, "selecting %s", item.Label)
	}

	before, err := service.ShellState(ctx, viewer)
	require.NoError(t, err)
	_, err = service.SelectNavItem(ctx, viewer, "Reports")
	assert.ErrorIs(t, err, ErrUnknownNavItem)
	after, err := service.ShellState(ctx, viewer)
	require.NoError(t, err)
	assert.Equal(t, before, after, "rejected selections leave the state untouched")
}

func TestNavItemsSlugsAndSections(t *testing.T) {
	t.Parallel()
	items := NavItems()
	require.Len(t, items, 11)
	assert.Equal(t, "dashboard", items[0].Slug)
	assert.Equal(t, "main", items[0].Section)
	last := items[len(items)-1]
	assert.Equal(t, "bottom", last.Section)
}

func TestSelectTimeRangeShowsLiteralLabel(t *testing.T) {
	t.Parallel()
	service := NewService(Options{WidgetStore: NewInMemoryWidgetStore()})
	viewer := ViewerContext{UserID: "user-3"}
	ctx := context.Background()

	for _, r := range leads.TimeRanges() {
		state, err := service.SelectTimeRange(ctx, viewer, ScopeHeader, string(r))
		require.NoError(t, err)
		assert.Equal(t, string(r), BuildShellView("", state).Header.TimeRange)
	}

	state, err := service.SelectTimeRange(ctx, viewer, "", "last 30 days")
	require.NoError(t, err)
	assert.Equal(t, "last 30 days", BuildShellView("", state).Header.TimeRange)

	state, err = service.SelectTimeRange(ctx, viewer, ScopeTracking, "last 7 days")
	require.NoError(t, err)
	assert.Equal(t, leads.RangeLast7Days, state.TrackingRange)
	assert.Equal(t, leads.RangeLast30Days, state.TimeRange, "tracking scope leaves the header untouched")

	_, err = service.SelectTimeRange(ctx, viewer, ScopeHeader, "Last 30 Days")
	assert.ErrorIs(t, err, leads.ErrUnknownTimeRange)
	_, err = service.SelectTimeRange(ctx, viewer, "footer", "last 30 days")
	assert.ErrorIs(t, err, ErrUnknownScope)
}

func TestSelectSourcesTabKeepsDataset(t *testing.T) {
	t.Parallel()
	repo := leads.NewStaticRepository()
	provider := NewSourcesOverviewProvider(repo, NewEChartsRenderer())
	service := NewService(Options{WidgetStore: NewInMemoryWidgetStore()})
	viewer := ViewerContext{UserID: "user-4"}
	ctx := context.Background()
	instance := WidgetInstance{ID: "sources", DefinitionID: WidgetSourcesOverview}

	var baseline any
	for _, tab := range leads.SourceTabs() {
		state, err := service.SelectSourcesTab(ctx, viewer, string(tab))
		require.NoError(t, err)
		assert.Equal(t, tab, state.SourcesTab)

		data, err := provider.Fetch(ctx, WidgetContext{Instance: instance, Viewer: viewer, Shell: state})
		require.NoError(t, err)
		assert.Equal(t, string(tab), data["active_tab"])

		active := 0
		for _, entry := range data["tabs"].([]map[string]any) {
			if entry["active"].(bool) {
				active++
			}
		}
		assert.Equal(t, 1, active)

		if baseline == nil {
			baseline = data["sources"]
			continue
		}
		assert.Equal(t, baseline, data["sources"], "tab %s must not change the sources", tab)
	}

	_, err := service.SelectSourcesTab(ctx, viewer, "revenue")
	assert.ErrorIs(t, err, leads.ErrUnknownSourceTab)
}

func TestShellTransitionsRequireViewer(t *testing.T) {
	t.Parallel()
	service := NewService(Options{WidgetStore: NewInMemoryWidgetStore()})
	_, err := service.ToggleSidebar(context.Background(), ViewerContext{})
	assert.ErrorIs(t, err, ErrMissingViewer)

	state, err := service.ShellState(context.Background(), ViewerContext{})
	require.NoError(t, err)
	assert.Equal(t, DefaultShellState(), state)
}

func TestShellStateIsPerViewer(t *testing.T) {
	t.Parallel()
	service := NewService(Options{WidgetStore: NewInMemoryWidgetStore()})
	ctx := context.Background()
	_, err := service.ToggleSidebar(ctx, ViewerContext{UserID: "alice"})
	require.NoError(t, err)

	other, err := service.ShellState(ctx, ViewerContext{UserID: "bob"})
	require.NoError(t, err)
	assert.False(t, other.SidebarCollapsed)
}

// laggingShellStore delays every load so unserialized transitions overlap.
type laggingShellStore struct {
	*InMemoryShellStore
	delay time.Duration
}

func (s laggingShellStore) LoadShell(ctx context.Context, viewer ViewerContext) (ShellState, error) {
	time.Sleep(s.delay)
	return s.InMemoryShellStore.LoadShell(ctx, viewer)
}

func TestConcurrentTogglesOnOneViewerAreNotLost(t *testing.T) {
	t.Parallel()
	service := NewService(Options{
		WidgetStore: NewInMemoryWidgetStore(),
		ShellStore:  laggingShellStore{InMemoryShellStore: NewInMemoryShellStore(), delay: time.Millisecond},
	})
	viewer := ViewerContext{UserID: "rep-4"}
	ctx := context.Background()

	const toggles = 8
	var wg sync.WaitGroup
	errs := make(chan error, toggles)
	for range toggles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.ToggleSidebar(ctx, viewer)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	state, err := service.ShellState(ctx, viewer)
	require.NoError(t, err)
	assert.False(t, state.SidebarCollapsed, "an even number of toggles leaves the sidebar expanded")
}

func TestWidgetTransitionsNotifyRefreshHook(t *testing.T) {
	t.Parallel()
	store := NewInMemoryWidgetStore()
	ctx := context.Background()
	require.NoError(t, RegisterAreas(ctx, store))
	require.NoError(t, RegisterDefinitions(ctx, store, nil))

	hook := NewBroadcastHook()
	service := NewService(Options{WidgetStore: store, RefreshHook: hook})
	require.NoError(t, SeedLayout(ctx, service))

	events, cancel := hook.SubscribeViewer("user-5")
	defer cancel()
	viewer := ViewerContext{UserID: "user-5"}

	_, err := service.SelectTimeRange(ctx, viewer, ScopeHeader, "last 24 hours")
	require.NoError(t, err)
	_, err = service.SelectTimeRange(ctx, viewer, ScopeTracking, "last 24 hours")
	require.NoError(t, err)
	_, err = service.SelectSourcesTab(ctx, viewer, string(leads.TabTotalDealsSize))
	require.NoError(t, err)

	first := <-events
	assert.Equal(t, "state", first.Reason)
	assert.Equal(t, AreaTracking, first.AreaCode)
	assert.Equal(t, WidgetLeadsTracking, first.Instance.DefinitionID)
	assert.NotEmpty(t, first.Instance.ID)

	second := <-events
	assert.Equal(t, AreaPipeline, second.AreaCode)
	assert.Equal(t, WidgetSourcesOverview, second.Instance.DefinitionID)

	select {
	case extra := <-events:
		t.Fatalf("header range changes should not notify widgets, got %+v", extra)
	default:
	}
}

func TestShellStateNormalize(t *testing.T) {
	t.Parallel()
	state := ShellState{ActiveNav: "Nope", TimeRange: "forever", TrackingRange: "soon", SourcesTab: "bogus"}.Normalize()
	assert.Equal(t, DefaultShellState(), state)
}
