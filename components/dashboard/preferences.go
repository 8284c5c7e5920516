package dashboard

import (
	"context"
	"errors"
	"slices"
	"sync"
)

var errPreferencesNeedViewer = errors.New("dashboard: saving preferences requires a viewer user id")

// LayoutOverrides are one viewer's adjustments to the overview: widget order
// per area and widgets hidden by id.
type LayoutOverrides struct {
	Locale        string              `json:"locale,omitempty"`
	AreaOrder     map[string][]string `json:"area_order"`
	HiddenWidgets map[string]bool     `json:"hidden_widgets"`
}

type preferenceKey struct {
	user   string
	locale string
}

// InMemoryPreferenceStore keeps layout overrides per viewer and locale.
type InMemoryPreferenceStore struct {
	mu   sync.RWMutex
	data map[preferenceKey]LayoutOverrides
}

// NewInMemoryPreferenceStore creates an empty preference store.
func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{data: map[preferenceKey]LayoutOverrides{}}
}

// LayoutOverrides returns the viewer's saved overrides. Anonymous viewers and
// viewers without saved preferences get empty overrides.
func (s *InMemoryPreferenceStore) LayoutOverrides(_ context.Context, viewer ViewerContext) (LayoutOverrides, error) {
	var saved LayoutOverrides
	if viewer.UserID != "" {
		s.mu.RLock()
		saved = s.data[preferenceKey{viewer.UserID, viewer.Locale}]
		s.mu.RUnlock()
	}
	return saved.withDefaults(viewer.Locale), nil
}

// SaveLayoutOverrides replaces the viewer's overrides.
func (s *InMemoryPreferenceStore) SaveLayoutOverrides(_ context.Context, viewer ViewerContext, overrides LayoutOverrides) error {
	if viewer.UserID == "" {
		return errPreferencesNeedViewer
	}
	s.mu.Lock()
	s.data[preferenceKey{viewer.UserID, viewer.Locale}] = overrides.withDefaults(viewer.Locale)
	s.mu.Unlock()
	return nil
}

func (o LayoutOverrides) withDefaults(locale string) LayoutOverrides {
	if o.Locale == "" {
		o.Locale = locale
	}
	if o.AreaOrder == nil {
		o.AreaOrder = map[string][]string{}
	}
	if o.HiddenWidgets == nil {
		o.HiddenWidgets = map[string]bool{}
	}
	return o
}

// Arrange applies the saved order of an area and drops hidden widgets.
// Widgets missing from the saved order keep their relative position after the
// ordered ones.
func (o LayoutOverrides) Arrange(area string, widgets []WidgetInstance) []WidgetInstance {
	order := o.AreaOrder[area]
	rank := func(id string) int {
		if i := slices.Index(order, id); i >= 0 {
			return i
		}
		return len(order)
	}
	out := make([]WidgetInstance, 0, len(widgets))
	for _, w := range widgets {
		if !o.HiddenWidgets[w.ID] {
			out = append(out, w)
		}
	}
	slices.SortStableFunc(out, func(a, b WidgetInstance) int {
		return rank(a.ID) - rank(b.ID)
	})
	return out
}
