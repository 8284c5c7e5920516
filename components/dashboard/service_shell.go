package dashboard

import (
	"context"
	"sync"

	"github.com/goliatone/go-leads-dashboard/pkg/activity"
)

// ShellState returns the viewer's shell state, defaults included.
func (s *Service) ShellState(ctx context.Context, viewer ViewerContext) (ShellState, error) {
	state, err := s.opts.ShellStore.LoadShell(ctx, viewer)
	if err != nil {
		return ShellState{}, err
	}
	return state.Normalize(), nil
}

// ToggleSidebar collapses or expands the viewer's sidebar.
func (s *Service) ToggleSidebar(ctx context.Context, viewer ViewerContext) (ShellState, error) {
	return s.transitionShell(ctx, viewer, shellTransition{
		verb: "dashboard.shell.sidebar",
		apply: func(state ShellState) (ShellState, error) {
			return state.ToggleSidebar(), nil
		},
		payload: func(state ShellState) map[string]any {
			return map[string]any{
				"collapsed": state.SidebarCollapsed,
				"width":     state.SidebarWidth(),
			}
		},
	})
}

// SelectNavItem marks a sidebar item as the active one.
func (s *Service) SelectNavItem(ctx context.Context, viewer ViewerContext, label string) (ShellState, error) {
	return s.transitionShell(ctx, viewer, shellTransition{
		verb: "dashboard.shell.nav",
		apply: func(state ShellState) (ShellState, error) {
			return state.SelectNav(label)
		},
		payload: func(state ShellState) map[string]any {
			return map[string]any{"active_nav": state.ActiveNav}
		},
	})
}

// SelectTimeRange changes the header or the tracking widget time range.
func (s *Service) SelectTimeRange(ctx context.Context, viewer ViewerContext, scope RangeScope, value string) (ShellState, error) {
	if scope == "" {
		scope = ScopeHeader
	}
	transition := shellTransition{
		verb: "dashboard.shell.time_range",
		apply: func(state ShellState) (ShellState, error) {
			return state.SelectTimeRange(scope, value)
		},
		payload: func(state ShellState) map[string]any {
			selected := state.TimeRange
			if scope == ScopeTracking {
				selected = state.TrackingRange
			}
			return map[string]any{
				"scope":      string(scope),
				"time_range": string(selected),
			}
		},
	}
	if scope == ScopeTracking {
		transition.area = AreaTracking
		transition.definition = WidgetLeadsTracking
	}
	return s.transitionShell(ctx, viewer, transition)
}

// SelectSourcesTab changes the active tab of the sources widget.
func (s *Service) SelectSourcesTab(ctx context.Context, viewer ViewerContext, tab string) (ShellState, error) {
	return s.transitionShell(ctx, viewer, shellTransition{
		verb:       "dashboard.shell.sources_tab",
		area:       AreaPipeline,
		definition: WidgetSourcesOverview,
		apply: func(state ShellState) (ShellState, error) {
			return state.SelectSourcesTab(tab)
		},
		payload: func(state ShellState) map[string]any {
			return map[string]any{"sources_tab": string(state.SourcesTab)}
		},
	})
}

type shellTransition struct {
	verb       string
	area       string
	definition string
	apply      func(ShellState) (ShellState, error)
	payload    func(ShellState) map[string]any
}

func (s *Service) transitionShell(ctx context.Context, viewer ViewerContext, t shellTransition) (ShellState, error) {
	if viewer.UserID == "" {
		return ShellState{}, ErrMissingViewer
	}
	current, next, err := s.updateShell(ctx, viewer, t.apply)
	if err != nil {
		return current, err
	}
	payload := t.payload(next)
	payload["viewer"] = viewer.UserID
	s.recordTelemetry(ctx, t.verb, payload)
	s.emitActivity(ctx, activity.Event{
		Verb:       t.verb,
		UserID:     viewer.UserID,
		ObjectType: "shell_state",
		ObjectID:   viewer.UserID,
		Metadata:   payload,
	})
	if t.area != "" {
		event := WidgetEvent{
			AreaCode: t.area,
			Instance: s.findWidget(ctx, viewer, t.area, t.definition),
			Reason:   "state",
			UserID:   viewer.UserID,
		}
		if err := s.opts.RefreshHook.WidgetUpdated(ctx, event); err != nil {
			return next, err
		}
	}
	return next, nil
}

// updateShell loads, changes and saves the viewer's state while holding the
// viewer's lock. On failure current is the state before the change.
func (s *Service) updateShell(ctx context.Context, viewer ViewerContext, apply func(ShellState) (ShellState, error)) (current, next ShellState, err error) {
	mu, _ := s.shellLocks.LoadOrStore(viewer.UserID, &sync.Mutex{})
	lock := mu.(*sync.Mutex)
	lock.Lock()
	defer lock.Unlock()

	current, err = s.ShellState(ctx, viewer)
	if err != nil {
		return ShellState{}, ShellState{}, err
	}
	if next, err = apply(current); err != nil {
		return current, ShellState{}, err
	}
	if err = s.opts.ShellStore.SaveShell(ctx, viewer, next); err != nil {
		return current, ShellState{}, err
	}
	return current, next, nil
}

// findWidget returns the first instance of a definition in an area, or a
// placeholder carrying only the definition id.
func (s *Service) findWidget(ctx context.Context, viewer ViewerContext, area, definition string) WidgetInstance {
	placeholder := WidgetInstance{DefinitionID: definition, AreaCode: area}
	store, err := s.widgetStore()
	if err != nil {
		return placeholder
	}
	resolved, err := store.ResolveArea(ctx, ResolveAreaInput{
		AreaCode: area,
		Audience: viewer.Roles,
		Locale:   viewer.Locale,
		Now:      s.opts.Now(),
	})
	if err != nil {
		return placeholder
	}
	for _, inst := range resolved.Widgets {
		if inst.DefinitionID == definition {
			inst.AreaCode = area
			return inst
		}
	}
	return placeholder
}
