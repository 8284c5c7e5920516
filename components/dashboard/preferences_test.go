package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPreferenceStoreScopesByLocale(t *testing.T) {
	store := NewInMemoryPreferenceStore()
	ctx := context.Background()
	english := ViewerContext{UserID: "ana", Locale: "en"}
	spanish := ViewerContext{UserID: "ana", Locale: "es"}

	require.NoError(t, store.SaveLayoutOverrides(ctx, english, LayoutOverrides{
		AreaOrder:     map[string][]string{AreaPipeline: {"sources", "funnel"}},
		HiddenWidgets: map[string]bool{"stats": true},
	}))

	got, err := store.LayoutOverrides(ctx, english)
	require.NoError(t, err)
	assert.Equal(t, "en", got.Locale)
	assert.Equal(t, []string{"sources", "funnel"}, got.AreaOrder[AreaPipeline])
	assert.True(t, got.HiddenWidgets["stats"])

	other, err := store.LayoutOverrides(ctx, spanish)
	require.NoError(t, err)
	assert.Equal(t, "es", other.Locale)
	assert.Empty(t, other.AreaOrder)
}

func TestInMemoryPreferenceStoreAnonymousViewer(t *testing.T) {
	store := NewInMemoryPreferenceStore()
	out, err := store.LayoutOverrides(context.Background(), ViewerContext{Locale: "es"})
	require.NoError(t, err)
	assert.NotNil(t, out.AreaOrder)
	assert.NotNil(t, out.HiddenWidgets)
	assert.Equal(t, "es", out.Locale)
	assert.ErrorIs(t, store.SaveLayoutOverrides(context.Background(), ViewerContext{}, out), errPreferencesNeedViewer)
}

func TestLayoutOverridesArrange(t *testing.T) {
	widgets := []WidgetInstance{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	overrides := LayoutOverrides{
		AreaOrder:     map[string][]string{AreaPipeline: {"c", "a", "c", "missing"}},
		HiddenWidgets: map[string]bool{"a": true},
	}
	ids := func(ws []WidgetInstance) []string {
		out := make([]string, len(ws))
		for i, w := range ws {
			out[i] = w.ID
		}
		return out
	}
	assert.Equal(t, []string{"c", "b", "d"}, ids(overrides.Arrange(AreaPipeline, widgets)))
	assert.Equal(t, []string{"b", "c", "d"}, ids(overrides.Arrange(AreaTracking, widgets)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(LayoutOverrides{}.Arrange(AreaPipeline, widgets)))
}
