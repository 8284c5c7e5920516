package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingAreaStore struct {
	*InMemoryWidgetStore
}

func (failingAreaStore) EnsureArea(context.Context, WidgetAreaDefinition) (bool, error) {
	return false, errors.New("store offline")
}

func TestRegisterAreasIdempotent(t *testing.T) {
	store := NewInMemoryWidgetStore()
	ctx := context.Background()
	require.NoError(t, RegisterAreas(ctx, store))
	require.NoError(t, RegisterAreas(ctx, store))

	for _, code := range DefaultAreaCodes() {
		created, err := store.EnsureArea(ctx, WidgetAreaDefinition{Code: code})
		require.NoError(t, err)
		assert.False(t, created, code)
	}
	assert.Equal(t, []string{AreaPipeline, AreaTracking, AreaStats}, DefaultAreaCodes())
}

func TestRegisterAreasErrors(t *testing.T) {
	assert.ErrorIs(t, RegisterAreas(context.Background(), nil), errMissingWidgetStore)

	err := RegisterAreas(context.Background(), failingAreaStore{NewInMemoryWidgetStore()})
	assert.ErrorContains(t, err, "register area "+AreaPipeline)
}

func TestRegisterDefinitionsIncludesManifestWidgets(t *testing.T) {
	store := NewInMemoryWidgetStore()
	registry := NewRegistry()
	extra := WidgetDefinition{Code: "leads.widget.win_rate", Name: "Win rate"}
	require.NoError(t, registry.RegisterDefinition(extra))
	require.NoError(t, RegisterDefinitions(context.Background(), store, registry))

	for _, def := range append(DefaultWidgetDefinitions(), extra) {
		created, err := store.EnsureDefinition(context.Background(), def)
		require.NoError(t, err)
		assert.False(t, created, def.Code)
	}
}

func TestSeedLayoutPlacesLeadsWidgets(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryWidgetStore()
	registry := NewRegistry()
	require.NoError(t, RegisterAreas(ctx, store))
	require.NoError(t, RegisterDefinitions(ctx, store, registry))
	service := NewService(Options{WidgetStore: store, Providers: registry})
	require.NoError(t, SeedLayout(ctx, service))

	expected := map[string][]string{
		AreaPipeline: {WidgetFunnelCount, WidgetSourcesOverview},
		AreaTracking: {WidgetLeadsTracking},
		AreaStats:    {WidgetLeadsStats},
	}
	for area, defs := range expected {
		resolved, err := store.ResolveArea(ctx, ResolveAreaInput{AreaCode: area})
		require.NoError(t, err)
		got := make([]string, 0, len(resolved.Widgets))
		for _, w := range resolved.Widgets {
			got = append(got, w.DefinitionID)
		}
		assert.Equal(t, defs, got, area)
	}
}

func TestSeedLayoutReportsFailures(t *testing.T) {
	store := NewInMemoryWidgetStore()
	service := NewService(Options{WidgetStore: store})
	err := SeedLayout(context.Background(), service)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")

	assert.Error(t, SeedLayout(context.Background(), nil))
}
