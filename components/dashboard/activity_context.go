package dashboard

import (
	"context"
	"time"

	"github.com/goliatone/go-leads-dashboard/pkg/activity"
)

// ActivityContext identifies who performed a dashboard action. Commands attach
// it to the request context so the service can stamp activity events.
type ActivityContext struct {
	ActorID  string
	UserID   string
	TenantID string
}

// ActivityFor derives the activity identifiers of a viewer acting on their
// own dashboard.
func ActivityFor(viewer ViewerContext) ActivityContext {
	return ActivityContext{ActorID: viewer.UserID, UserID: viewer.UserID}
}

type activityKey struct{}

// ContextWithActivity returns ctx carrying meta.
func ContextWithActivity(ctx context.Context, meta ActivityContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, activityKey{}, meta)
}

func activityFromContext(ctx context.Context) ActivityContext {
	if ctx == nil {
		return ActivityContext{}
	}
	meta, _ := ctx.Value(activityKey{}).(ActivityContext)
	return meta
}

// stamp fills the identifiers the event is missing. The actor defaults to the
// user the event concerns.
func (meta ActivityContext) stamp(evt activity.Event, now time.Time) activity.Event {
	if evt.ActorID == "" {
		evt.ActorID = meta.ActorID
	}
	if evt.UserID == "" {
		evt.UserID = meta.UserID
	}
	if evt.TenantID == "" {
		evt.TenantID = meta.TenantID
	}
	if evt.ActorID == "" {
		evt.ActorID = evt.UserID
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = now.UTC()
	}
	return evt
}
