package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-leads-dashboard/components/dashboard"
)

// Actor identifies who issues a widget command. Its fields are stamped on the
// activity events the service emits.
type Actor struct {
	ActorID  string `json:"actor_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
}

func (a Actor) bind(ctx context.Context) context.Context {
	return dashboard.ContextWithActivity(ctx, dashboard.ActivityContext{
		ActorID:  a.ActorID,
		UserID:   a.UserID,
		TenantID: a.TenantID,
	})
}

// RemoveWidgetInput identifies the widget instance to remove.
type RemoveWidgetInput struct {
	Actor
	WidgetID string `json:"widget_id"`
}

// ReorderWidgetsInput is the new widget order of one overview area.
type ReorderWidgetsInput struct {
	Actor
	AreaCode  string   `json:"area_code"`
	WidgetIDs []string `json:"widget_ids"`
}

// RefreshWidgetInput asks subscribers to reload a widget. WidgetID and
// Definition are optional; the whole area refreshes when both are empty.
type RefreshWidgetInput struct {
	Actor
	AreaCode   string `json:"area_code"`
	WidgetID   string `json:"widget_id,omitempty"`
	Definition string `json:"definition,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// Event converts the input into the widget event sent to refresh hooks.
func (in RefreshWidgetInput) Event() dashboard.WidgetEvent {
	reason := in.Reason
	if reason == "" {
		reason = "refresh"
	}
	return dashboard.WidgetEvent{
		AreaCode: in.AreaCode,
		Instance: dashboard.WidgetInstance{
			ID:           in.WidgetID,
			DefinitionID: in.Definition,
			AreaCode:     in.AreaCode,
		},
		Reason: reason,
		UserID: in.UserID,
	}
}

type widgetService interface {
	AddWidget(ctx context.Context, req dashboard.AddWidgetRequest) error
	RemoveWidget(ctx context.Context, widgetID string) error
	ReorderWidgets(ctx context.Context, areaCode string, widgetIDs []string) error
	NotifyWidgetUpdated(ctx context.Context, event dashboard.WidgetEvent) error
}

var errWidgetService = errors.New("widget command requires service")

// Input validation errors.
var (
	ErrMissingWidgetID = errors.New("widget command requires widget id")
	ErrMissingArea     = errors.New("widget command requires area code")
)

// widgetCommand is shared by the widget commands: it checks the service is
// wired and records a telemetry event once the service call succeeded.
type widgetCommand struct {
	service   widgetService
	telemetry Telemetry
}

func newWidgetCommand(service widgetService, telemetry Telemetry) widgetCommand {
	return widgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

func (c widgetCommand) run(ctx context.Context, event string, payload map[string]any, call func(widgetService) error) error {
	if c.service == nil {
		return errWidgetService
	}
	if err := call(c.service); err != nil {
		return err
	}
	c.telemetry.Record(ctx, event, payload)
	return nil
}

// AssignWidgetCommand places a widget definition into one of the overview areas.
type AssignWidgetCommand struct{ widgetCommand }

func NewAssignWidgetCommand(service widgetService, telemetry Telemetry) *AssignWidgetCommand {
	return &AssignWidgetCommand{newWidgetCommand(service, telemetry)}
}

var _ gocommand.Commander[dashboard.AddWidgetRequest] = (*AssignWidgetCommand)(nil)

func (c *AssignWidgetCommand) Execute(ctx context.Context, msg dashboard.AddWidgetRequest) error {
	actor := Actor{ActorID: msg.ActorID, UserID: msg.UserID, TenantID: msg.TenantID}
	return c.run(ctx, "dashboard.widget.assign", map[string]any{
		"definition_id": msg.DefinitionID,
		"area_code":     msg.AreaCode,
	}, func(s widgetService) error {
		return s.AddWidget(actor.bind(ctx), msg)
	})
}

// RemoveWidgetCommand deletes a widget instance from the overview.
type RemoveWidgetCommand struct{ widgetCommand }

func NewRemoveWidgetCommand(service widgetService, telemetry Telemetry) *RemoveWidgetCommand {
	return &RemoveWidgetCommand{newWidgetCommand(service, telemetry)}
}

var _ gocommand.Commander[RemoveWidgetInput] = (*RemoveWidgetCommand)(nil)

func (c *RemoveWidgetCommand) Execute(ctx context.Context, msg RemoveWidgetInput) error {
	if msg.WidgetID == "" {
		return ErrMissingWidgetID
	}
	return c.run(ctx, "dashboard.widget.remove", map[string]any{"widget_id": msg.WidgetID}, func(s widgetService) error {
		return s.RemoveWidget(msg.bind(ctx), msg.WidgetID)
	})
}

// ReorderWidgetsCommand applies a new widget order to an area.
type ReorderWidgetsCommand struct{ widgetCommand }

func NewReorderWidgetsCommand(service widgetService, telemetry Telemetry) *ReorderWidgetsCommand {
	return &ReorderWidgetsCommand{newWidgetCommand(service, telemetry)}
}

var _ gocommand.Commander[ReorderWidgetsInput] = (*ReorderWidgetsCommand)(nil)

func (c *ReorderWidgetsCommand) Execute(ctx context.Context, msg ReorderWidgetsInput) error {
	if msg.AreaCode == "" {
		return ErrMissingArea
	}
	return c.run(ctx, "dashboard.widget.reorder", map[string]any{
		"area_code": msg.AreaCode,
		"count":     len(msg.WidgetIDs),
	}, func(s widgetService) error {
		return s.ReorderWidgets(msg.bind(ctx), msg.AreaCode, msg.WidgetIDs)
	})
}

// RefreshWidgetCommand tells refresh hooks to reload a widget or a whole area.
type RefreshWidgetCommand struct{ widgetCommand }

func NewRefreshWidgetCommand(service widgetService, telemetry Telemetry) *RefreshWidgetCommand {
	return &RefreshWidgetCommand{newWidgetCommand(service, telemetry)}
}

var _ gocommand.Commander[RefreshWidgetInput] = (*RefreshWidgetCommand)(nil)

func (c *RefreshWidgetCommand) Execute(ctx context.Context, msg RefreshWidgetInput) error {
	if msg.AreaCode == "" {
		return ErrMissingArea
	}
	event := msg.Event()
	return c.run(ctx, "dashboard.widget.refresh", map[string]any{
		"area_code": event.AreaCode,
		"widget_id": event.Instance.ID,
		"reason":    event.Reason,
	}, func(s widgetService) error {
		return s.NotifyWidgetUpdated(ctx, event)
	})
}
