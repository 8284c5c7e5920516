package dashboard

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/goliatone/go-leads-dashboard/pkg/activity"
)

var (
	errMissingWidgetStore = errors.New("dashboard: widget store not configured")
	errInvalidArea        = errors.New("dashboard: area code is required")
	errInvalidDefinition  = errors.New("dashboard: definition id is required")
	errInvalidWidget      = errors.New("dashboard: widget id is required")
)

// Options configures the dashboard Service. Collaborators left nil get
// in-memory or no-op defaults.
type Options struct {
	WidgetStore     WidgetStore
	Authorizer      Authorizer
	PreferenceStore PreferenceStore
	ShellStore      ShellStore
	Providers       ProviderRegistry
	ConfigValidator ConfigValidator
	RefreshHook     RefreshHook
	Telemetry       Telemetry
	Translator      TranslationService
	ThemeProvider   ThemeProvider
	ThemeSelector   ThemeSelectorFunc
	ActivityHooks   activity.Hooks
	ActivityConfig  activity.Config
	Areas           []string
	Now             func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Authorizer == nil {
		o.Authorizer = allowAllAuthorizer{}
	}
	if o.RefreshHook == nil {
		o.RefreshHook = noopRefreshHook{}
	}
	if o.Providers == nil {
		o.Providers = NewRegistry()
	}
	if o.ConfigValidator == nil {
		o.ConfigValidator = NewJSONSchemaValidator()
	}
	if o.PreferenceStore == nil {
		o.PreferenceStore = NewInMemoryPreferenceStore()
	}
	if o.ShellStore == nil {
		o.ShellStore = NewInMemoryShellStore()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if len(o.Areas) == 0 {
		o.Areas = DefaultAreaCodes()
	}
	o.Telemetry = normalizeTelemetry(o.Telemetry)
	return o
}

// Service orchestrates the leads overview widgets and the per-viewer shell state.
type Service struct {
	opts     Options
	activity *activity.Emitter
	// shellLocks holds one *sync.Mutex per viewer id. A shell transition
	// keeps it from load to save.
	shellLocks sync.Map
}

// NewService builds a Service.
func NewService(opts Options) *Service {
	opts = opts.withDefaults()
	return &Service{
		opts:     opts,
		activity: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
	}
}

// AddWidgetRequest places a new instance of a definition in an area.
type AddWidgetRequest struct {
	DefinitionID  string         `json:"definition_id"`
	AreaCode      string         `json:"area_code"`
	Configuration map[string]any `json:"configuration,omitempty"`
	Position      *int           `json:"position,omitempty"`
	Roles         []string       `json:"roles,omitempty"`
	StartAt       *time.Time     `json:"start_at,omitempty"`
	EndAt         *time.Time     `json:"end_at,omitempty"`
	ActorID       string         `json:"actor_id,omitempty"`
	UserID        string         `json:"user_id,omitempty"`
	TenantID      string         `json:"tenant_id,omitempty"`
}

func (req AddWidgetRequest) check() error {
	switch {
	case req.AreaCode == "":
		return errInvalidArea
	case req.DefinitionID == "":
		return errInvalidDefinition
	}
	return nil
}

// widgetChange describes a layout mutation once it has been stored.
type widgetChange struct {
	verb       string
	reason     string
	event      WidgetEvent
	objectType string
	objectID   string
	payload    map[string]any
	actor      activity.Event
}

// announce pushes the change to the refresh hook, then records telemetry and
// activity. A refresh hook error is returned; activity errors are not.
func (s *Service) announce(ctx context.Context, c widgetChange) error {
	c.event.Reason = c.reason
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, c.event); err != nil {
		return err
	}
	s.recordTelemetry(ctx, c.verb, c.payload)
	evt := c.actor
	evt.Verb = c.verb
	evt.ObjectType = c.objectType
	evt.ObjectID = c.objectID
	evt.Metadata = c.payload
	s.emitActivity(ctx, evt)
	return nil
}

// AddWidget creates a widget instance and assigns it to an area.
func (s *Service) AddWidget(ctx context.Context, req AddWidgetRequest) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if err := req.check(); err != nil {
		return err
	}
	if err := s.validateConfiguration(req.DefinitionID, req.Configuration); err != nil {
		return err
	}
	inst, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{
		DefinitionID:  req.DefinitionID,
		Configuration: req.Configuration,
		Visibility:    WidgetVisibility{Roles: req.Roles, StartAt: req.StartAt, EndAt: req.EndAt},
		Metadata:      map[string]any{"user_id": req.UserID},
	})
	if err != nil {
		return err
	}
	if err := store.AssignInstance(ctx, AssignWidgetInput{AreaCode: req.AreaCode, InstanceID: inst.ID, Position: req.Position}); err != nil {
		return err
	}
	inst.AreaCode = req.AreaCode
	return s.announce(ctx, widgetChange{
		verb:       "dashboard.widget.add",
		reason:     "add",
		event:      WidgetEvent{AreaCode: req.AreaCode, Instance: inst, UserID: req.UserID},
		objectType: "widget_instance",
		objectID:   inst.ID,
		payload:    map[string]any{"area_code": req.AreaCode, "definition_id": req.DefinitionID},
		actor:      activity.Event{ActorID: req.ActorID, UserID: req.UserID, TenantID: req.TenantID},
	})
}

type instanceLookup interface {
	Instance(ctx context.Context, instanceID string) (WidgetInstance, bool, error)
}

// RemoveWidget deletes the widget instance. Subscribers learn the area and
// definition of the removed widget when the store can look it up.
func (s *Service) RemoveWidget(ctx context.Context, widgetID string) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if widgetID == "" {
		return errInvalidWidget
	}
	removed := WidgetInstance{ID: widgetID}
	if lookup, ok := store.(instanceLookup); ok {
		if inst, found, err := lookup.Instance(ctx, widgetID); err == nil && found {
			removed = inst
		}
	}
	if err := store.DeleteInstance(ctx, widgetID); err != nil {
		return err
	}
	payload := map[string]any{"widget_id": widgetID}
	if removed.DefinitionID != "" {
		payload["definition_id"] = removed.DefinitionID
	}
	return s.announce(ctx, widgetChange{
		verb:       "dashboard.widget.remove",
		reason:     "delete",
		event:      WidgetEvent{AreaCode: removed.AreaCode, Instance: removed},
		objectType: "widget_instance",
		objectID:   widgetID,
		payload:    payload,
	})
}

// ReorderWidgets changes widget ordering within an area.
func (s *Service) ReorderWidgets(ctx context.Context, areaCode string, widgetIDs []string) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if areaCode == "" {
		return errInvalidArea
	}
	if err := store.ReorderArea(ctx, ReorderAreaInput{AreaCode: areaCode, WidgetIDs: widgetIDs}); err != nil {
		return err
	}
	return s.announce(ctx, widgetChange{
		verb:       "dashboard.widget.reorder",
		reason:     "reorder",
		event:      WidgetEvent{AreaCode: areaCode},
		objectType: "widget_area",
		objectID:   areaCode,
		payload:    map[string]any{"area_code": areaCode, "count": len(widgetIDs)},
	})
}

// viewScope is what every widget of one request is rendered against.
type viewScope struct {
	viewer ViewerContext
	shell  ShellState
	theme  *ThemeSelection
	now    time.Time
}

func (s *Service) scopeFor(ctx context.Context, viewer ViewerContext) (viewScope, error) {
	shell, err := s.ShellState(ctx, viewer)
	if err != nil {
		return viewScope{}, err
	}
	return viewScope{
		viewer: viewer,
		shell:  shell,
		theme:  s.resolveTheme(ctx, viewer),
		now:    s.opts.Now(),
	}, nil
}

// visibleWidgets resolves an area for the scope's viewer and drops the
// widgets the authorizer rejects.
func (s *Service) visibleWidgets(ctx context.Context, store WidgetStore, scope viewScope, area string) (ResolvedArea, error) {
	resolved, err := store.ResolveArea(ctx, ResolveAreaInput{
		AreaCode: area,
		Audience: scope.viewer.Roles,
		Locale:   scope.viewer.Locale,
		Now:      scope.now,
	})
	if err != nil {
		return ResolvedArea{}, err
	}
	allowed := resolved.Widgets[:0:0]
	for _, w := range resolved.Widgets {
		w.AreaCode = area
		if s.opts.Authorizer.CanViewWidget(ctx, scope.viewer, w) {
			allowed = append(allowed, w)
		}
	}
	resolved.Widgets = allowed
	return resolved, nil
}

// ConfigureLayout resolves every area for the viewer: visibility, saved
// order, hidden widgets and provider data driven by the shell state.
func (s *Service) ConfigureLayout(ctx context.Context, viewer ViewerContext) (Layout, error) {
	store, err := s.widgetStore()
	if err != nil {
		return Layout{}, err
	}
	overrides, err := s.opts.PreferenceStore.LayoutOverrides(ctx, viewer)
	if err != nil {
		return Layout{}, err
	}
	scope, err := s.scopeFor(ctx, viewer)
	if err != nil {
		return Layout{}, err
	}
	layout := Layout{
		Areas: make(map[string][]WidgetInstance, len(s.opts.Areas)),
		Shell: scope.shell,
		Theme: scope.theme,
	}
	for _, area := range s.opts.Areas {
		resolved, err := s.visibleWidgets(ctx, store, scope, area)
		if err != nil {
			return Layout{}, err
		}
		layout.Areas[area] = s.attachProviderData(ctx, scope, overrides.Arrange(area, resolved.Widgets))
	}
	s.recordTelemetry(ctx, "dashboard.layout.resolve", map[string]any{"viewer": viewer.UserID})
	return layout, nil
}

// ResolveArea resolves a single area for the viewer. Saved preferences are
// not applied.
func (s *Service) ResolveArea(ctx context.Context, viewer ViewerContext, areaCode string) (ResolvedArea, error) {
	store, err := s.widgetStore()
	if err != nil {
		return ResolvedArea{}, err
	}
	if areaCode == "" {
		return ResolvedArea{}, errInvalidArea
	}
	scope, err := s.scopeFor(ctx, viewer)
	if err != nil {
		return ResolvedArea{}, err
	}
	resolved, err := s.visibleWidgets(ctx, store, scope, areaCode)
	if err != nil {
		return ResolvedArea{}, err
	}
	resolved.Widgets = s.attachProviderData(ctx, scope, resolved.Widgets)
	s.recordTelemetry(ctx, "dashboard.area.resolve", map[string]any{
		"viewer":    viewer.UserID,
		"area_code": areaCode,
	})
	return resolved, nil
}

// attachProviderData stores each provider's output under Metadata["data"].
// A failing provider leaves its widget without data.
func (s *Service) attachProviderData(ctx context.Context, scope viewScope, widgets []WidgetInstance) []WidgetInstance {
	out := make([]WidgetInstance, 0, len(widgets))
	for _, inst := range widgets {
		provider, ok := s.opts.Providers.Provider(inst.DefinitionID)
		if !ok || provider == nil {
			out = append(out, inst)
			continue
		}
		def, _ := s.opts.Providers.Definition(inst.DefinitionID)
		data, err := provider.Fetch(ctx, WidgetContext{
			Instance:   inst,
			Definition: def,
			Viewer:     scope.viewer,
			Shell:      scope.shell,
			Translator: s.opts.Translator,
			Theme:      scope.theme,
		})
		if err != nil {
			s.recordTelemetry(ctx, "dashboard.widget.provider_error", map[string]any{
				"definition_id": inst.DefinitionID,
				"error":         err.Error(),
			})
			out = append(out, inst)
			continue
		}
		meta := maps.Clone(inst.Metadata)
		if meta == nil {
			meta = map[string]any{}
		}
		meta["data"] = data
		inst.Metadata = meta
		out = append(out, inst)
	}
	return out
}

func (s *Service) resolveTheme(ctx context.Context, viewer ViewerContext) *ThemeSelection {
	if s.opts.ThemeProvider == nil {
		return DefaultThemeSelection()
	}
	var selector ThemeSelector
	if s.opts.ThemeSelector != nil {
		selector = s.opts.ThemeSelector(ctx, viewer)
	}
	selection, err := s.opts.ThemeProvider.SelectTheme(ctx, selector)
	if err != nil {
		s.recordTelemetry(ctx, "dashboard.theme.error", map[string]any{
			"theme": selector.Name,
			"error": err.Error(),
		})
	}
	if err != nil || selection == nil {
		return DefaultThemeSelection()
	}
	return cloneThemeSelection(selection)
}

// NotifyWidgetUpdated forwards an event from a command or transport to the
// refresh hook.
func (s *Service) NotifyWidgetUpdated(ctx context.Context, event WidgetEvent) error {
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, event); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.widget.event", map[string]any{
		"area_code": event.AreaCode,
		"widget_id": event.Instance.ID,
		"reason":    event.Reason,
	})
	return nil
}

// SavePreferences stores the viewer's layout overrides for their locale.
func (s *Service) SavePreferences(ctx context.Context, viewer ViewerContext, overrides LayoutOverrides) error {
	if viewer.UserID == "" {
		return ErrMissingViewer
	}
	overrides = overrides.withDefaults(viewer.Locale)
	if err := s.opts.PreferenceStore.SaveLayoutOverrides(ctx, viewer, overrides); err != nil {
		return err
	}
	s.emitActivity(ctx, activity.Event{
		Verb:       "dashboard.preferences.save",
		UserID:     viewer.UserID,
		ObjectType: "layout_preferences",
		ObjectID:   viewer.UserID,
		Metadata: map[string]any{
			"areas":  len(overrides.AreaOrder),
			"hidden": len(overrides.HiddenWidgets),
		},
	})
	return nil
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

// emitActivity stamps the caller identity from ctx. Hook failures only reach
// telemetry.
func (s *Service) emitActivity(ctx context.Context, evt activity.Event) {
	if !s.activity.Enabled() {
		return
	}
	evt = activityFromContext(ctx).stamp(evt, s.opts.Now())
	if err := s.activity.Emit(ctx, evt); err != nil {
		s.recordTelemetry(ctx, "dashboard.activity.error", map[string]any{
			"verb":  evt.Verb,
			"error": err.Error(),
		})
	}
}

func (s *Service) widgetStore() (WidgetStore, error) {
	if s.opts.WidgetStore == nil {
		return nil, errMissingWidgetStore
	}
	return s.opts.WidgetStore, nil
}

func (s *Service) validateConfiguration(definitionID string, config map[string]any) error {
	def, ok := s.opts.Providers.Definition(definitionID)
	if !ok {
		return nil
	}
	return s.opts.ConfigValidator.Validate(def, config)
}

type allowAllAuthorizer struct{}

func (allowAllAuthorizer) CanViewWidget(context.Context, ViewerContext, WidgetInstance) bool {
	return true
}

type noopRefreshHook struct{}

func (noopRefreshHook) WidgetUpdated(context.Context, WidgetEvent) error {
	return nil
}
