package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-leads-dashboard/components/dashboard"
)

// ToggleSidebarInput flips the sidebar of the viewer.
type ToggleSidebarInput struct {
	Viewer dashboard.ViewerContext `json:"viewer"`
}

// SelectNavInput activates a sidebar menu entry.
type SelectNavInput struct {
	Viewer dashboard.ViewerContext `json:"viewer"`
	Label  string                  `json:"label"`
}

// SelectTimeRangeInput changes the header or tracking time range. An empty
// scope targets the header dropdown.
type SelectTimeRangeInput struct {
	Viewer dashboard.ViewerContext `json:"viewer"`
	Scope  string                  `json:"scope"`
	Value  string                  `json:"value"`
}

// SelectSourcesTabInput changes the tab of the sources widget.
type SelectSourcesTabInput struct {
	Viewer dashboard.ViewerContext `json:"viewer"`
	Tab    string                  `json:"tab"`
}

type shellService interface {
	ToggleSidebar(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.ShellState, error)
	SelectNavItem(ctx context.Context, viewer dashboard.ViewerContext, label string) (dashboard.ShellState, error)
	SelectTimeRange(ctx context.Context, viewer dashboard.ViewerContext, scope dashboard.RangeScope, value string) (dashboard.ShellState, error)
	SelectSourcesTab(ctx context.Context, viewer dashboard.ViewerContext, tab string) (dashboard.ShellState, error)
}

var errShellService = errors.New("shell command requires service")

// ToggleSidebarCommand wraps Service.ToggleSidebar.
type ToggleSidebarCommand struct {
	service   shellService
	telemetry Telemetry
}

// NewToggleSidebarCommand builds the command.
func NewToggleSidebarCommand(service shellService, telemetry Telemetry) *ToggleSidebarCommand {
	return &ToggleSidebarCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleSidebarInput] = (*ToggleSidebarCommand)(nil)

// Execute toggles the sidebar.
func (c *ToggleSidebarCommand) Execute(ctx context.Context, msg ToggleSidebarInput) error {
	if c.service == nil {
		return errShellService
	}
	state, err := c.service.ToggleSidebar(asViewer(ctx, msg.Viewer), msg.Viewer)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.sidebar", map[string]any{
		"user_id":   msg.Viewer.UserID,
		"collapsed": state.SidebarCollapsed,
	})
	return nil
}

// SelectNavCommand wraps Service.SelectNavItem.
type SelectNavCommand struct {
	service   shellService
	telemetry Telemetry
}

// NewSelectNavCommand builds the command.
func NewSelectNavCommand(service shellService, telemetry Telemetry) *SelectNavCommand {
	return &SelectNavCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SelectNavInput] = (*SelectNavCommand)(nil)

// Execute selects the nav item.
func (c *SelectNavCommand) Execute(ctx context.Context, msg SelectNavInput) error {
	if c.service == nil {
		return errShellService
	}
	state, err := c.service.SelectNavItem(asViewer(ctx, msg.Viewer), msg.Viewer, msg.Label)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.nav", map[string]any{
		"user_id":    msg.Viewer.UserID,
		"active_nav": state.ActiveNav,
	})
	return nil
}

// SelectTimeRangeCommand wraps Service.SelectTimeRange.
type SelectTimeRangeCommand struct {
	service   shellService
	telemetry Telemetry
}

// NewSelectTimeRangeCommand builds the command.
func NewSelectTimeRangeCommand(service shellService, telemetry Telemetry) *SelectTimeRangeCommand {
	return &SelectTimeRangeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SelectTimeRangeInput] = (*SelectTimeRangeCommand)(nil)

// Execute applies the time range to the requested scope.
func (c *SelectTimeRangeCommand) Execute(ctx context.Context, msg SelectTimeRangeInput) error {
	if c.service == nil {
		return errShellService
	}
	if _, err := c.service.SelectTimeRange(asViewer(ctx, msg.Viewer), msg.Viewer, dashboard.RangeScope(msg.Scope), msg.Value); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.time_range", map[string]any{
		"user_id": msg.Viewer.UserID,
		"scope":   msg.Scope,
		"value":   msg.Value,
	})
	return nil
}

// SelectSourcesTabCommand wraps Service.SelectSourcesTab.
type SelectSourcesTabCommand struct {
	service   shellService
	telemetry Telemetry
}

// NewSelectSourcesTabCommand builds the command.
func NewSelectSourcesTabCommand(service shellService, telemetry Telemetry) *SelectSourcesTabCommand {
	return &SelectSourcesTabCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SelectSourcesTabInput] = (*SelectSourcesTabCommand)(nil)

// Execute switches the sources tab.
func (c *SelectSourcesTabCommand) Execute(ctx context.Context, msg SelectSourcesTabInput) error {
	if c.service == nil {
		return errShellService
	}
	if _, err := c.service.SelectSourcesTab(asViewer(ctx, msg.Viewer), msg.Viewer, msg.Tab); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.sources_tab", map[string]any{
		"user_id": msg.Viewer.UserID,
		"tab":     msg.Tab,
	})
	return nil
}

// asViewer attributes the activity of a shell command to the viewer.
func asViewer(ctx context.Context, viewer dashboard.ViewerContext) context.Context {
	return dashboard.ContextWithActivity(ctx, dashboard.ActivityFor(viewer))
}
