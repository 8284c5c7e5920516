package dashboard

import (
	"context"
	"errors"
)

// RefreshHooks fans a widget event out to several hooks, e.g. the broadcast
// hook plus an external notifier.
type RefreshHooks []RefreshHook

// WidgetUpdated calls every hook and joins their errors.
func (hooks RefreshHooks) WidgetUpdated(ctx context.Context, event WidgetEvent) error {
	var errs error
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook.WidgetUpdated(ctx, event); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// NotificationsClient publishes dashboard events to an external channel.
type NotificationsClient interface {
	PublishDashboardEvent(ctx context.Context, event WidgetEvent) error
}

// NotificationsHook forwards widget events to a notifications client. Shell
// state events stay local unless IncludeState is set.
type NotificationsHook struct {
	Client       NotificationsClient
	IncludeState bool
}

// WidgetUpdated publishes the event to the configured client.
func (h *NotificationsHook) WidgetUpdated(ctx context.Context, event WidgetEvent) error {
	if h == nil || h.Client == nil {
		return nil
	}
	if event.Reason == "state" && !h.IncludeState {
		return nil
	}
	return h.Client.PublishDashboardEvent(ctx, event)
}
