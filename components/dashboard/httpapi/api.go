package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-leads-dashboard/components/dashboard"
	"github.com/goliatone/go-leads-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-leads-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-leads-dashboard/components/leads"
)

// Executor is the transport-neutral surface of the dashboard write API plus
// the shell state read used to answer shell mutations.
type Executor interface {
	Assign(ctx context.Context, req dashboard.AddWidgetRequest) error
	Remove(ctx context.Context, input commands.RemoveWidgetInput) error
	Reorder(ctx context.Context, input commands.ReorderWidgetsInput) error
	Refresh(ctx context.Context, input commands.RefreshWidgetInput) error
	Preferences(ctx context.Context, input commands.SaveLayoutPreferencesInput) error
	ToggleSidebar(ctx context.Context, input commands.ToggleSidebarInput) error
	SelectNav(ctx context.Context, input commands.SelectNavInput) error
	SelectTimeRange(ctx context.Context, input commands.SelectTimeRangeInput) error
	SelectSourcesTab(ctx context.Context, input commands.SelectSourcesTabInput) error
	Shell(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.ShellState, error)
}

var errNotConfigured = errors.New("httpapi: command not configured")

// CommandExecutor adapts go-command commanders and queriers to Executor.
type CommandExecutor struct {
	AssignCommander           gocommand.Commander[dashboard.AddWidgetRequest]
	RemoveCommander           gocommand.Commander[commands.RemoveWidgetInput]
	ReorderCommander          gocommand.Commander[commands.ReorderWidgetsInput]
	RefreshCommander          gocommand.Commander[commands.RefreshWidgetInput]
	PreferencesCommander      gocommand.Commander[commands.SaveLayoutPreferencesInput]
	ToggleSidebarCommander    gocommand.Commander[commands.ToggleSidebarInput]
	SelectNavCommander        gocommand.Commander[commands.SelectNavInput]
	SelectTimeRangeCommander  gocommand.Commander[commands.SelectTimeRangeInput]
	SelectSourcesTabCommander gocommand.Commander[commands.SelectSourcesTabInput]
	ShellQuerier              gocommand.Querier[dashboard.ViewerContext, dashboard.ShellState]
}

var _ Executor = (*CommandExecutor)(nil)

// NewCommandExecutor wires every command and query against a single service.
func NewCommandExecutor(service *dashboard.Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		AssignCommander:           commands.NewAssignWidgetCommand(service, telemetry),
		RemoveCommander:           commands.NewRemoveWidgetCommand(service, telemetry),
		ReorderCommander:          commands.NewReorderWidgetsCommand(service, telemetry),
		RefreshCommander:          commands.NewRefreshWidgetCommand(service, telemetry),
		PreferencesCommander:      commands.NewSaveLayoutPreferencesCommand(service, telemetry),
		ToggleSidebarCommander:    commands.NewToggleSidebarCommand(service, telemetry),
		SelectNavCommander:        commands.NewSelectNavCommand(service, telemetry),
		SelectTimeRangeCommander:  commands.NewSelectTimeRangeCommand(service, telemetry),
		SelectSourcesTabCommander: commands.NewSelectSourcesTabCommand(service, telemetry),
		ShellQuerier:              queries.NewShellStateQuery(service),
	}
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return errNotConfigured
	}
	return cmd.Execute(ctx, msg)
}

func (e *CommandExecutor) Assign(ctx context.Context, req dashboard.AddWidgetRequest) error {
	return execute(ctx, e.AssignCommander, req)
}

func (e *CommandExecutor) Remove(ctx context.Context, input commands.RemoveWidgetInput) error {
	return execute(ctx, e.RemoveCommander, input)
}

func (e *CommandExecutor) Reorder(ctx context.Context, input commands.ReorderWidgetsInput) error {
	return execute(ctx, e.ReorderCommander, input)
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshWidgetInput) error {
	return execute(ctx, e.RefreshCommander, input)
}

func (e *CommandExecutor) Preferences(ctx context.Context, input commands.SaveLayoutPreferencesInput) error {
	return execute(ctx, e.PreferencesCommander, input)
}

func (e *CommandExecutor) ToggleSidebar(ctx context.Context, input commands.ToggleSidebarInput) error {
	return execute(ctx, e.ToggleSidebarCommander, input)
}

func (e *CommandExecutor) SelectNav(ctx context.Context, input commands.SelectNavInput) error {
	return execute(ctx, e.SelectNavCommander, input)
}

func (e *CommandExecutor) SelectTimeRange(ctx context.Context, input commands.SelectTimeRangeInput) error {
	return execute(ctx, e.SelectTimeRangeCommander, input)
}

func (e *CommandExecutor) SelectSourcesTab(ctx context.Context, input commands.SelectSourcesTabInput) error {
	return execute(ctx, e.SelectSourcesTabCommander, input)
}

func (e *CommandExecutor) Shell(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.ShellState, error) {
	if e.ShellQuerier == nil {
		return dashboard.ShellState{}, errNotConfigured
	}
	return e.ShellQuerier.Query(ctx, viewer)
}

// StatusFor maps dashboard errors onto HTTP status codes. Invalid user input
// is a 400; anything else is a 500.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, dashboard.ErrInvalidConfiguration),
		errors.Is(err, dashboard.ErrUnknownNavItem),
		errors.Is(err, dashboard.ErrUnknownScope),
		errors.Is(err, dashboard.ErrMissingViewer),
		errors.Is(err, leads.ErrUnknownTimeRange),
		errors.Is(err, leads.ErrUnknownSourceTab),
		errors.Is(err, commands.ErrMissingWidgetID),
		errors.Is(err, commands.ErrMissingArea):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Handlers exposes net/http endpoints backed by shared commands.
type Handlers struct {
	Assign  gocommand.Commander[dashboard.AddWidgetRequest]
	Remove  gocommand.Commander[commands.RemoveWidgetInput]
	Reorder gocommand.Commander[commands.ReorderWidgetsInput]
	Refresh gocommand.Commander[commands.RefreshWidgetInput]
	Shell   Executor
	// Viewer resolves the viewer of a request. Shell endpoints require it.
	Viewer func(*http.Request) dashboard.ViewerContext
}

func (h *Handlers) HandleAssignWidget(w http.ResponseWriter, r *http.Request) {
	var payload dashboard.AddWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Assign.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) HandleRemoveWidget(w http.ResponseWriter, r *http.Request, widgetID string) {
	input := commands.RemoveWidgetInput{WidgetID: widgetID}
	if err := h.Remove.Execute(r.Context(), input); err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleReorderWidgets(w http.ResponseWriter, r *http.Request) {
	var payload commands.ReorderWidgetsInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Reorder.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleRefreshWidget(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshWidgetInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Refresh.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleSelectTimeRange applies a time range and answers with the new shell state.
func (h *Handlers) HandleSelectTimeRange(w http.ResponseWriter, r *http.Request) {
	var payload commands.SelectTimeRangeInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload.Viewer = h.viewer(r)
	if err := h.Shell.SelectTimeRange(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	h.writeShell(w, r, payload.Viewer)
}

// HandleToggleSidebar flips the sidebar and answers with the new shell state.
func (h *Handlers) HandleToggleSidebar(w http.ResponseWriter, r *http.Request) {
	viewer := h.viewer(r)
	if err := h.Shell.ToggleSidebar(r.Context(), commands.ToggleSidebarInput{Viewer: viewer}); err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	h.writeShell(w, r, viewer)
}

func (h *Handlers) viewer(r *http.Request) dashboard.ViewerContext {
	if h.Viewer == nil {
		return dashboard.ViewerContext{}
	}
	return h.Viewer(r)
}

func (h *Handlers) writeShell(w http.ResponseWriter, r *http.Request, viewer dashboard.ViewerContext) {
	state, err := h.Shell.Shell(r.Context(), viewer)
	if err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(state)
}
