package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededStore(t *testing.T) *InMemoryWidgetStore {
	t.Helper()
	store := NewInMemoryWidgetStore()
	ctx := context.Background()
	_, err := store.EnsureArea(ctx, WidgetAreaDefinition{Code: AreaPipeline, Name: "Pipeline"})
	require.NoError(t, err)
	_, err = store.EnsureDefinition(ctx, WidgetDefinition{Code: WidgetFunnelCount, Name: "Funnel count"})
	require.NoError(t, err)
	return store
}

func createAssigned(t *testing.T, store *InMemoryWidgetStore, vis WidgetVisibility) WidgetInstance {
	t.Helper()
	ctx := context.Background()
	inst, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{DefinitionID: WidgetFunnelCount, Visibility: vis})
	require.NoError(t, err)
	require.NoError(t, store.AssignInstance(ctx, AssignWidgetInput{AreaCode: AreaPipeline, InstanceID: inst.ID}))
	return inst
}

func TestInMemoryStoreEnsureReportsCreation(t *testing.T) {
	store := NewInMemoryWidgetStore()
	ctx := context.Background()

	created, err := store.EnsureArea(ctx, WidgetAreaDefinition{Code: AreaStats})
	require.NoError(t, err)
	assert.True(t, created)
	created, err = store.EnsureArea(ctx, WidgetAreaDefinition{Code: AreaStats})
	require.NoError(t, err)
	assert.False(t, created)

	_, err = store.EnsureArea(ctx, WidgetAreaDefinition{})
	assert.ErrorIs(t, err, errInvalidArea)
	_, err = store.EnsureDefinition(ctx, WidgetDefinition{})
	assert.ErrorIs(t, err, errInvalidDefinition)
}

func TestInMemoryStoreRequiresRegisteredDefinitionAndArea(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	_, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{DefinitionID: "leads.widget.unknown"})
	assert.Error(t, err)

	inst, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{DefinitionID: WidgetFunnelCount})
	require.NoError(t, err)
	assert.Error(t, store.AssignInstance(ctx, AssignWidgetInput{AreaCode: "missing", InstanceID: inst.ID}))
	assert.Error(t, store.AssignInstance(ctx, AssignWidgetInput{AreaCode: AreaPipeline, InstanceID: "missing"}))
}

func TestInMemoryStoreInstanceReportsArea(t *testing.T) {
	store := newSeededStore(t)
	inst := createAssigned(t, store, WidgetVisibility{})

	found, ok, err := store.Instance(context.Background(), inst.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, AreaPipeline, found.AreaCode)

	_, ok, err = store.Instance(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryStoreAssignPositionAndReorder(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()
	first := createAssigned(t, store, WidgetVisibility{})
	second := createAssigned(t, store, WidgetVisibility{})

	inst, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{DefinitionID: WidgetFunnelCount})
	require.NoError(t, err)
	pos := 0
	require.NoError(t, store.AssignInstance(ctx, AssignWidgetInput{AreaCode: AreaPipeline, InstanceID: inst.ID, Position: &pos}))

	ids := func() []string {
		resolved, err := store.ResolveArea(ctx, ResolveAreaInput{AreaCode: AreaPipeline})
		require.NoError(t, err)
		out := make([]string, 0, len(resolved.Widgets))
		for _, w := range resolved.Widgets {
			out = append(out, w.ID)
		}
		return out
	}
	assert.Equal(t, []string{inst.ID, first.ID, second.ID}, ids())

	require.NoError(t, store.ReorderArea(ctx, ReorderAreaInput{AreaCode: AreaPipeline, WidgetIDs: []string{second.ID, "ghost", second.ID}}))
	assert.Equal(t, []string{second.ID, inst.ID, first.ID}, ids())

	require.NoError(t, store.DeleteInstance(ctx, inst.ID))
	assert.Equal(t, []string{second.ID, first.ID}, ids())
	assert.Error(t, store.DeleteInstance(ctx, inst.ID))
}

func TestInMemoryStoreVisibility(t *testing.T) {
	store := newSeededStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	open := createAssigned(t, store, WidgetVisibility{})
	managers := createAssigned(t, store, WidgetVisibility{Roles: []string{"manager"}})
	createAssigned(t, store, WidgetVisibility{StartAt: &future})
	createAssigned(t, store, WidgetVisibility{EndAt: &past})

	resolve := func(roles ...string) []string {
		resolved, err := store.ResolveArea(context.Background(), ResolveAreaInput{AreaCode: AreaPipeline, Audience: roles, Now: now})
		require.NoError(t, err)
		out := []string{}
		for _, w := range resolved.Widgets {
			assert.Equal(t, AreaPipeline, w.AreaCode)
			out = append(out, w.ID)
		}
		return out
	}
	assert.Equal(t, []string{open.ID}, resolve())
	assert.Equal(t, []string{open.ID, managers.ID}, resolve("manager"))
}
