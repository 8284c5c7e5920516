package dashboard

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-leads-dashboard/components/leads"
)

func pipelineStore() *fakeWidgetStore {
	return &fakeWidgetStore{
		resolved: map[string][]WidgetInstance{
			AreaPipeline: {
				{ID: "funnel", DefinitionID: WidgetFunnelCount},
				{ID: "sources", DefinitionID: WidgetSourcesOverview},
			},
		},
	}
}

func TestConfigureLayoutViewerAdjustments(t *testing.T) {
	cases := []struct {
		name      string
		auth      Authorizer
		overrides *LayoutOverrides
		want      []string
	}{
		{
			name: "store order",
			want: []string{"funnel", "sources"},
		},
		{
			name: "authorizer filters",
			auth: allowListAuthorizer{allowed: map[string]bool{"sources": true}},
			want: []string{"sources"},
		},
		{
			name:      "saved order",
			overrides: &LayoutOverrides{AreaOrder: map[string][]string{AreaPipeline: {"sources", "funnel"}}},
			want:      []string{"sources", "funnel"},
		},
		{
			name: "hidden widgets",
			overrides: &LayoutOverrides{
				AreaOrder:     map[string][]string{AreaPipeline: {"funnel", "sources"}},
				HiddenWidgets: map[string]bool{"sources": true},
			},
			want: []string{"funnel"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			viewer := ViewerContext{UserID: "rep-" + tc.name}
			prefs := NewInMemoryPreferenceStore()
			if tc.overrides != nil {
				require.NoError(t, prefs.SaveLayoutOverrides(context.Background(), viewer, *tc.overrides))
			}
			service := NewService(Options{WidgetStore: pipelineStore(), Authorizer: tc.auth, PreferenceStore: prefs})
			layout, err := service.ConfigureLayout(context.Background(), viewer)
			require.NoError(t, err)
			got := make([]string, 0, len(layout.Areas[AreaPipeline]))
			for _, inst := range layout.Areas[AreaPipeline] {
				got = append(got, inst.ID)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAddWidgetAssignsAndNotifies(t *testing.T) {
	store := &fakeWidgetStore{}
	hook := &collectingHook{}
	service := NewService(Options{WidgetStore: store, RefreshHook: hook})
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	err := service.AddWidget(context.Background(), AddWidgetRequest{
		DefinitionID:  WidgetFunnelCount,
		AreaCode:      AreaPipeline,
		Configuration: map[string]any{"show_chart": false},
		Roles:         []string{"sales"},
		StartAt:       &start,
		Position:      intPtr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, hook.events)
	require.Len(t, store.assignCalls, 1)
	assert.Equal(t, AreaPipeline, store.assignCalls[0].AreaCode)
	assert.Equal(t, WidgetFunnelCount+"-instance", store.assignCalls[0].InstanceID)
}

func intPtr(v int) *int { return &v }

func TestAddWidgetRejectsBadRequests(t *testing.T) {
	cases := []struct {
		name string
		req  AddWidgetRequest
		want error
	}{
		{name: "no area", req: AddWidgetRequest{DefinitionID: WidgetFunnelCount}, want: errInvalidArea},
		{name: "no definition", req: AddWidgetRequest{AreaCode: AreaPipeline}, want: errInvalidDefinition},
		{
			name: "unknown sources tab",
			req: AddWidgetRequest{
				DefinitionID:  WidgetSourcesOverview,
				AreaCode:      AreaPipeline,
				Configuration: map[string]any{"tab": "revenue"},
			},
			want: ErrInvalidConfiguration,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeWidgetStore{}
			err := NewService(Options{WidgetStore: store}).AddWidget(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, store.assignCalls, "rejected widgets are never placed")
		})
	}
}

func TestConfigureLayoutAttachesProviderData(t *testing.T) {
	store := &fakeWidgetStore{
		resolved: map[string][]WidgetInstance{
			AreaPipeline: {{ID: "funnel", DefinitionID: WidgetFunnelCount, Configuration: map[string]any{"show_chart": false}}},
			AreaStats:    {{ID: "stats", DefinitionID: WidgetLeadsStats}},
		},
	}
	layout, err := NewService(Options{WidgetStore: store}).ConfigureLayout(context.Background(), ViewerContext{UserID: "rep-5"})
	require.NoError(t, err)

	funnel := layout.Areas[AreaPipeline]
	require.Len(t, funnel, 1)
	assert.Equal(t, AreaPipeline, funnel[0].AreaCode)
	data, ok := funnel[0].Metadata["data"].(WidgetData)
	require.True(t, ok, "funnel widget carries provider data")
	assert.Equal(t, leads.DefaultDataset().Funnel.ActiveLeads, data["active_leads"])

	_, ok = layout.Areas[AreaStats][0].Metadata["data"].(WidgetData)
	assert.True(t, ok, "stats widget carries provider data")
	assert.Empty(t, layout.Areas[AreaTracking])
	assert.Equal(t, DefaultShellState(), layout.Shell)
	require.NotNil(t, layout.Theme)
	assert.Equal(t, "leads", layout.Theme.Name)
	assert.Nil(t, store.resolved[AreaPipeline][0].Metadata, "store widgets are not mutated")
}

func TestConfigureLayoutKeepsWidgetsWhenProvidersFail(t *testing.T) {
	store := &fakeWidgetStore{resolved: map[string][]WidgetInstance{
		AreaStats: {{ID: "stats", DefinitionID: WidgetLeadsStats}},
	}}
	registry := NewRegistry()
	require.NoError(t, registry.RegisterProvider(WidgetLeadsStats, ProviderFunc(func(context.Context, WidgetContext) (WidgetData, error) {
		return nil, errors.New("analytics offline")
	})))
	telemetry := &eventTelemetry{}
	service := NewService(Options{WidgetStore: store, Providers: registry, Telemetry: telemetry})

	layout, err := service.ConfigureLayout(context.Background(), ViewerContext{})
	require.NoError(t, err, "provider errors must not fail the layout")
	require.Len(t, layout.Areas[AreaStats], 1)
	assert.NotContains(t, layout.Areas[AreaStats][0].Metadata, "data")
	assert.True(t, telemetry.has("dashboard.widget.provider_error"), "events: %v", telemetry.events)
}

func TestResolveAreaAppliesShellState(t *testing.T) {
	store := pipelineStore()
	service := NewService(Options{WidgetStore: store})
	viewer := ViewerContext{UserID: "rep-2"}
	_, err := service.SelectSourcesTab(context.Background(), viewer, string(leads.TabLeadsCame))
	require.NoError(t, err)

	resolved, err := service.ResolveArea(context.Background(), viewer, AreaPipeline)
	require.NoError(t, err)
	require.Len(t, resolved.Widgets, 2)
	data, ok := resolved.Widgets[1].Metadata["data"].(WidgetData)
	require.True(t, ok)
	assert.Equal(t, string(leads.TabLeadsCame), data["active_tab"])

	_, err = service.ResolveArea(context.Background(), viewer, "")
	assert.ErrorIs(t, err, errInvalidArea)
}

func TestServiceRequiresWidgetStore(t *testing.T) {
	service := NewService(Options{})
	_, err := service.ConfigureLayout(context.Background(), ViewerContext{})
	assert.ErrorIs(t, err, errMissingWidgetStore)
	assert.ErrorIs(t, service.RemoveWidget(context.Background(), "w1"), errMissingWidgetStore)
}

func TestNotifyWidgetUpdatedRecordsTelemetry(t *testing.T) {
	hook := &collectingHook{}
	telemetry := &eventTelemetry{}
	service := NewService(Options{WidgetStore: &fakeWidgetStore{}, RefreshHook: hook, Telemetry: telemetry})

	err := service.NotifyWidgetUpdated(context.Background(), WidgetEvent{AreaCode: AreaPipeline, Instance: WidgetInstance{ID: "w1"}, Reason: "custom"})
	require.NoError(t, err)
	assert.Equal(t, 1, hook.events)
	assert.Equal(t, []string{"dashboard.widget.event"}, telemetry.events)
}

func TestSavePreferences(t *testing.T) {
	prefs := NewInMemoryPreferenceStore()
	service := NewService(Options{PreferenceStore: prefs})

	assert.ErrorIs(t, service.SavePreferences(context.Background(), ViewerContext{}, LayoutOverrides{}), ErrMissingViewer)

	viewer := ViewerContext{UserID: "rep-4"}
	require.NoError(t, service.SavePreferences(context.Background(), viewer, LayoutOverrides{
		AreaOrder:     map[string][]string{AreaPipeline: {"w2", "w1"}},
		HiddenWidgets: map[string]bool{"w3": true},
	}))
	stored, err := prefs.LayoutOverrides(context.Background(), viewer)
	require.NoError(t, err)
	assert.True(t, stored.HiddenWidgets["w3"])
	assert.Equal(t, []string{"w2", "w1"}, stored.AreaOrder[AreaPipeline])
}

// fakeWidgetStore serves fixed widgets per area and records placements.
type fakeWidgetStore struct {
	resolved     map[string][]WidgetInstance
	assignCalls  []AssignWidgetInput
	reorderCalls []ReorderAreaInput
}

func (f *fakeWidgetStore) EnsureArea(context.Context, WidgetAreaDefinition) (bool, error) {
	return true, nil
}

func (f *fakeWidgetStore) EnsureDefinition(context.Context, WidgetDefinition) (bool, error) {
	return true, nil
}

func (f *fakeWidgetStore) CreateInstance(_ context.Context, input CreateWidgetInstanceInput) (WidgetInstance, error) {
	return WidgetInstance{ID: input.DefinitionID + "-instance", DefinitionID: input.DefinitionID}, nil
}

func (f *fakeWidgetStore) DeleteInstance(context.Context, string) error { return nil }

func (f *fakeWidgetStore) AssignInstance(_ context.Context, input AssignWidgetInput) error {
	f.assignCalls = append(f.assignCalls, input)
	return nil
}

func (f *fakeWidgetStore) ReorderArea(_ context.Context, input ReorderAreaInput) error {
	f.reorderCalls = append(f.reorderCalls, input)
	return nil
}

func (f *fakeWidgetStore) ResolveArea(_ context.Context, input ResolveAreaInput) (ResolvedArea, error) {
	widgets := slices.Clone(f.resolved[input.AreaCode])
	return ResolvedArea{AreaCode: input.AreaCode, Widgets: widgets}, nil
}

type allowListAuthorizer struct {
	allowed map[string]bool
}

func (a allowListAuthorizer) CanViewWidget(_ context.Context, _ ViewerContext, instance WidgetInstance) bool {
	return a.allowed[instance.ID]
}

type collectingHook struct {
	events int
}

func (h *collectingHook) WidgetUpdated(context.Context, WidgetEvent) error {
	h.events++
	return nil
}

type eventTelemetry struct {
	events []string
}

func (t *eventTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	t.events = append(t.events, event)
}

func (t *eventTelemetry) has(event string) bool {
	return slices.Contains(t.events, event)
}
