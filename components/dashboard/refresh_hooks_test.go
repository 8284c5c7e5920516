package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	published []WidgetEvent
	err       error
}

func (n *recordingNotifier) PublishDashboardEvent(_ context.Context, event WidgetEvent) error {
	n.published = append(n.published, event)
	return n.err
}

func TestNotificationsHookSkipsShellState(t *testing.T) {
	notifier := &recordingNotifier{}
	hook := &NotificationsHook{Client: notifier}
	ctx := context.Background()

	require.NoError(t, hook.WidgetUpdated(ctx, WidgetEvent{AreaCode: AreaTracking, Reason: "state"}))
	require.NoError(t, hook.WidgetUpdated(ctx, WidgetEvent{AreaCode: AreaStats, Reason: "refresh"}))
	require.Len(t, notifier.published, 1)
	assert.Equal(t, AreaStats, notifier.published[0].AreaCode)

	hook.IncludeState = true
	require.NoError(t, hook.WidgetUpdated(ctx, WidgetEvent{AreaCode: AreaTracking, Reason: "state"}))
	assert.Len(t, notifier.published, 2)

	var unset *NotificationsHook
	assert.NoError(t, unset.WidgetUpdated(ctx, WidgetEvent{}))
}

func TestRefreshHooksJoinErrors(t *testing.T) {
	broadcast := NewBroadcastHook()
	events, cancel := broadcast.Subscribe()
	defer cancel()
	failing := &NotificationsHook{Client: &recordingNotifier{err: errors.New("queue full")}}

	err := RefreshHooks{broadcast, nil, failing}.WidgetUpdated(context.Background(), WidgetEvent{AreaCode: AreaPipeline, Reason: "add"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue full")
	assert.Len(t, events, 1)
}
