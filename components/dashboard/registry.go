package dashboard

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-leads-dashboard/components/leads"
)

// WidgetHook attaches providers to a registry. Hooks run when a registry is
// built and again after every manifest load, so a hook may find its
// definition only on a later run.
type WidgetHook func(reg *Registry) error

var (
	widgetHooksMu sync.Mutex
	widgetHooks   []WidgetHook
)

// RegisterWidgetHook adds a hook for every registry, typically from init()
// in a scaffolded provider file.
func RegisterWidgetHook(h WidgetHook) {
	widgetHooksMu.Lock()
	widgetHooks = append(widgetHooks, h)
	widgetHooksMu.Unlock()
}

// Registry implements ProviderRegistry. Besides definitions and providers it
// keeps the manifest metadata of each widget and the leads repository the
// built-in providers read from.
type Registry struct {
	mu           sync.RWMutex
	repo         leads.Repository
	definitions  map[string]WidgetDefinition
	providers    map[string]Provider
	manifestMeta map[string]ManifestProvider
}

// RegistryOption customizes the built-in providers.
type RegistryOption func(*registryConfig)

type registryConfig struct {
	repo   leads.Repository
	charts []EChartsOption
}

// WithLeadsRepository sets the data source of the leads widgets.
func WithLeadsRepository(repo leads.Repository) RegistryOption {
	return func(cfg *registryConfig) { cfg.repo = repo }
}

// WithChartOptions forwards options to the chart renderer of the leads widgets.
func WithChartOptions(opts ...EChartsOption) RegistryOption {
	return func(cfg *registryConfig) { cfg.charts = append(cfg.charts, opts...) }
}

// NewRegistry returns a registry holding the four leads widgets, with any
// widget hooks applied. The static dataset backs the providers unless
// WithLeadsRepository says otherwise.
func NewRegistry(opts ...RegistryOption) *Registry {
	var cfg registryConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.repo == nil {
		cfg.repo = leads.NewStaticRepository()
	}
	reg := &Registry{
		repo:         cfg.repo,
		definitions:  map[string]WidgetDefinition{},
		providers:    map[string]Provider{},
		manifestMeta: map[string]ManifestProvider{},
	}
	providers := defaultProviders(cfg.repo, cfg.charts...)
	for _, def := range defaultWidgetDefinitions {
		_ = reg.RegisterDefinition(def)
		_ = reg.RegisterProvider(def.Code, providers[def.Code])
	}
	_ = reg.ApplyHooks()
	return reg
}

// Repository returns the leads data source of the registry.
func (r *Registry) Repository() leads.Repository {
	return r.repo
}

// ApplyHooks runs the registered widget hooks and joins their errors.
func (r *Registry) ApplyHooks() error {
	widgetHooksMu.Lock()
	hooks := slices.Clone(widgetHooks)
	widgetHooksMu.Unlock()
	var errs []string
	for _, hook := range hooks {
		if err := hook(r); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("dashboard: widget hooks: %s", strings.Join(errs, "; "))
	}
	return nil
}

// RegisterDefinition adds or replaces a definition.
func (r *Registry) RegisterDefinition(def WidgetDefinition) error {
	if def.Code == "" {
		return fmt.Errorf("dashboard: widget definition code is required")
	}
	def.normalizeLocalizedFields()
	r.mu.Lock()
	r.definitions[def.Code] = def
	r.mu.Unlock()
	return nil
}

// RegisterProvider binds a provider to an already registered definition.
func (r *Registry) RegisterProvider(code string, provider Provider) error {
	if provider == nil {
		return fmt.Errorf("dashboard: nil provider for %q", code)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.definitions[code]; !ok {
		return fmt.Errorf("dashboard: widget definition %q not found", code)
	}
	r.providers[code] = provider
	return nil
}

func (r *Registry) Definition(code string) (WidgetDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[code]
	return def, ok
}

func (r *Registry) Provider(code string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.providers[code]
	return provider, ok
}

// ProviderMetadata returns the manifest provider block of a widget.
func (r *Registry) ProviderMetadata(code string) (ManifestProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.manifestMeta[code]
	return meta, ok
}

// Definitions returns every definition ordered by code.
func (r *Registry) Definitions() []WidgetDefinition {
	r.mu.RLock()
	defs := make([]WidgetDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	r.mu.RUnlock()
	slices.SortFunc(defs, func(a, b WidgetDefinition) int { return strings.Compare(a.Code, b.Code) })
	return defs
}
