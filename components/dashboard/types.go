package dashboard

import (
	"context"
	"time"
)

// WidgetStore holds the overview rows, the widget catalogue and the placed
// widget instances. Ensure calls report whether they created the record.
type WidgetStore interface {
	EnsureArea(ctx context.Context, def WidgetAreaDefinition) (bool, error)
	EnsureDefinition(ctx context.Context, def WidgetDefinition) (bool, error)
	CreateInstance(ctx context.Context, input CreateWidgetInstanceInput) (WidgetInstance, error)
	DeleteInstance(ctx context.Context, instanceID string) error
	AssignInstance(ctx context.Context, input AssignWidgetInput) error
	ReorderArea(ctx context.Context, input ReorderAreaInput) error
	ResolveArea(ctx context.Context, input ResolveAreaInput) (ResolvedArea, error)
}

// Authorizer filters widgets per viewer after the store resolved them.
type Authorizer interface {
	CanViewWidget(ctx context.Context, viewer ViewerContext, instance WidgetInstance) bool
}

// PreferenceStore keeps each viewer's LayoutOverrides.
type PreferenceStore interface {
	LayoutOverrides(ctx context.Context, viewer ViewerContext) (LayoutOverrides, error)
	SaveLayoutOverrides(ctx context.Context, viewer ViewerContext, overrides LayoutOverrides) error
}

// ProviderRegistry maps widget codes to their definition and data provider.
type ProviderRegistry interface {
	RegisterDefinition(def WidgetDefinition) error
	RegisterProvider(code string, provider Provider) error
	Definition(code string) (WidgetDefinition, bool)
	Provider(code string) (Provider, bool)
	Definitions() []WidgetDefinition
}

// RefreshHook is told about every widget change so open pages can reload.
type RefreshHook interface {
	WidgetUpdated(ctx context.Context, event WidgetEvent) error
}

// WidgetAreaDefinition is one row of the overview page.
type WidgetAreaDefinition struct {
	Code        string `json:"code" yaml:"code"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Columns is the grid width of the row on large screens.
	Columns int `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// WidgetDefinition is a catalogue entry: display names and the JSON schema
// instance configuration must satisfy.
type WidgetDefinition struct {
	Code                 string            `json:"code" yaml:"code"`
	Name                 string            `json:"name" yaml:"name"`
	NameLocalized        map[string]string `json:"name_localized,omitempty" yaml:"name_localized,omitempty"`
	Description          string            `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionLocalized map[string]string `json:"description_localized,omitempty" yaml:"description_localized,omitempty"`
	Schema               map[string]any    `json:"schema,omitempty" yaml:"schema,omitempty"`
	Category             string            `json:"category,omitempty" yaml:"category,omitempty"`
}

// WidgetInstance is a placed widget. Provider output is attached under
// Metadata["data"] when a layout is resolved.
type WidgetInstance struct {
	ID            string           `json:"id"`
	DefinitionID  string           `json:"definition_id"`
	AreaCode      string           `json:"area_code"`
	Configuration map[string]any   `json:"configuration,omitempty"`
	Metadata      map[string]any   `json:"metadata,omitempty"`
	Visibility    WidgetVisibility `json:"-"`
}

type CreateWidgetInstanceInput struct {
	DefinitionID  string
	Configuration map[string]any
	Visibility    WidgetVisibility
	Metadata      map[string]any
}

// WidgetVisibility limits an instance to some roles and a time window. Zero
// values mean no limit.
type WidgetVisibility struct {
	Roles   []string
	StartAt *time.Time
	EndAt   *time.Time
}

// AssignWidgetInput places an instance in an area, appended unless Position
// is set.
type AssignWidgetInput struct {
	AreaCode   string
	InstanceID string
	Position   *int
}

type ReorderAreaInput struct {
	AreaCode  string
	WidgetIDs []string
}

// ResolveAreaInput selects the instances of an area visible to an audience
// at a point in time.
type ResolveAreaInput struct {
	AreaCode string
	Audience []string
	Locale   string
	Now      time.Time
}

type ResolvedArea struct {
	AreaCode string           `json:"area_code"`
	Widgets  []WidgetInstance `json:"widgets"`
}

// ViewerContext identifies who is looking at the overview.
type ViewerContext struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles,omitempty"`
	Locale string   `json:"locale,omitempty"`
}

// Layout is a fully resolved overview: widgets per area plus the shell
// state and theme they were rendered with.
type Layout struct {
	Areas map[string][]WidgetInstance `json:"areas"`
	Shell ShellState                  `json:"shell"`
	Theme *ThemeSelection             `json:"theme,omitempty"`
}

// WidgetEvent tells subscribers which widget changed and why ("add",
// "delete", "reorder", "refresh", "state", "schedule").
type WidgetEvent struct {
	AreaCode string         `json:"area_code,omitempty"`
	Instance WidgetInstance `json:"instance"`
	Reason   string         `json:"reason"`
	UserID   string         `json:"user_id,omitempty"`
}
