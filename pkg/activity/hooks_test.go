package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooksDropIncompleteEvents(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture, nil}

	require.NoError(t, hooks.Notify(context.Background(), Event{Verb: "dashboard.shell.sidebar"}))
	assert.Empty(t, capture.Events)

	require.NoError(t, hooks.Notify(context.Background(), Event{
		Verb:       " dashboard.shell.sources_tab ",
		UserID:     " ana ",
		ObjectType: " shell_state ",
		ObjectID:   " ana ",
	}))
	require.Len(t, capture.Events, 1)
	got := capture.Events[0]
	assert.Equal(t, "dashboard.shell.sources_tab", got.Verb)
	assert.Equal(t, "ana", got.UserID)
	assert.Equal(t, "shell_state", got.ObjectType)
	assert.False(t, got.OccurredAt.IsZero())
}

func TestHooksJoinErrors(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{
		HookFunc(func(context.Context, Event) error { return errors.New("sink a down") }),
		capture,
		HookFunc(func(context.Context, Event) error { return errors.New("sink b down") }),
	}
	err := hooks.Notify(context.Background(), Event{Verb: "v", ObjectType: "widget_instance", ObjectID: "w1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink a down")
	assert.Contains(t, err.Error(), "sink b down")
	assert.Len(t, capture.Events, 1)
}

func TestNormalizeEventDetachesCallerState(t *testing.T) {
	occurred := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	meta := map[string]any{"sources_tab": "leadsCame"}
	recipients := []string{"sales@example.com"}
	evt := NormalizeEvent(Event{
		Verb:       "dashboard.widget.add",
		ObjectType: "widget_instance",
		ObjectID:   "w1",
		Metadata:   meta,
		Recipients: recipients,
		OccurredAt: occurred,
	})

	evt.Metadata["sources_tab"] = "totalDealsSize"
	evt.Recipients[0] = "ops@example.com"
	assert.Equal(t, "leadsCame", meta["sources_tab"])
	assert.Equal(t, "sales@example.com", recipients[0])
	assert.True(t, evt.OccurredAt.Equal(occurred))
}
