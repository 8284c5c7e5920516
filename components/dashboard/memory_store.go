package dashboard

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryWidgetStore is a WidgetStore kept in process memory.
type InMemoryWidgetStore struct {
	mu          sync.Mutex
	areas       map[string]WidgetAreaDefinition
	definitions map[string]WidgetDefinition
	instances   map[string]WidgetInstance
	assignments map[string][]string
}

// NewInMemoryWidgetStore creates an empty store.
func NewInMemoryWidgetStore() *InMemoryWidgetStore {
	return &InMemoryWidgetStore{
		areas:       map[string]WidgetAreaDefinition{},
		definitions: map[string]WidgetDefinition{},
		instances:   map[string]WidgetInstance{},
		assignments: map[string][]string{},
	}
}

func (s *InMemoryWidgetStore) EnsureArea(_ context.Context, def WidgetAreaDefinition) (bool, error) {
	if def.Code == "" {
		return false, errInvalidArea
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.areas[def.Code]
	s.areas[def.Code] = def
	return !exists, nil
}

func (s *InMemoryWidgetStore) EnsureDefinition(_ context.Context, def WidgetDefinition) (bool, error) {
	if def.Code == "" {
		return false, errInvalidDefinition
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.definitions[def.Code]
	s.definitions[def.Code] = def
	return !exists, nil
}

func (s *InMemoryWidgetStore) CreateInstance(_ context.Context, input CreateWidgetInstanceInput) (WidgetInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.definitions[input.DefinitionID]; !ok {
		return WidgetInstance{}, fmt.Errorf("dashboard: definition %s not registered", input.DefinitionID)
	}
	instance := WidgetInstance{
		ID:            uuid.NewString(),
		DefinitionID:  input.DefinitionID,
		Configuration: input.Configuration,
		Metadata:      input.Metadata,
		Visibility:    input.Visibility,
	}
	s.instances[instance.ID] = instance
	return instance, nil
}

func (s *InMemoryWidgetStore) DeleteInstance(_ context.Context, instanceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[instanceID]; !ok {
		return fmt.Errorf("dashboard: widget %s not found", instanceID)
	}
	delete(s.instances, instanceID)
	for area, ids := range s.assignments {
		s.assignments[area] = slices.DeleteFunc(ids, func(id string) bool { return id == instanceID })
	}
	return nil
}

func (s *InMemoryWidgetStore) AssignInstance(_ context.Context, input AssignWidgetInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.areas[input.AreaCode]; !ok {
		return fmt.Errorf("dashboard: area %s not registered", input.AreaCode)
	}
	if _, ok := s.instances[input.InstanceID]; !ok {
		return fmt.Errorf("dashboard: widget %s not found", input.InstanceID)
	}
	order := s.assignments[input.AreaCode]
	if input.Position != nil && *input.Position >= 0 && *input.Position <= len(order) {
		order = slices.Insert(order, *input.Position, input.InstanceID)
	} else {
		order = append(order, input.InstanceID)
	}
	s.assignments[input.AreaCode] = order
	return nil
}

// Instance returns a stored widget instance by id.
func (s *InMemoryWidgetStore) Instance(_ context.Context, instanceID string) (WidgetInstance, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[instanceID]
	if !ok {
		return WidgetInstance{}, false, nil
	}
	for area, ids := range s.assignments {
		if slices.Contains(ids, instanceID) {
			inst.AreaCode = area
			break
		}
	}
	return inst, true, nil
}

func (s *InMemoryWidgetStore) ReorderArea(_ context.Context, input ReorderAreaInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.assignments[input.AreaCode]
	s.assignments[input.AreaCode] = applyOrderIDs(current, input.WidgetIDs)
	return nil
}

func (s *InMemoryWidgetStore) ResolveArea(_ context.Context, input ResolveAreaInput) (ResolvedArea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}
	resolved := ResolvedArea{AreaCode: input.AreaCode}
	for _, id := range s.assignments[input.AreaCode] {
		inst, ok := s.instances[id]
		if !ok || !visibleTo(inst.Visibility, input.Audience, now) {
			continue
		}
		inst.AreaCode = input.AreaCode
		resolved.Widgets = append(resolved.Widgets, inst)
	}
	return resolved, nil
}

func applyOrderIDs(current, order []string) []string {
	known := make(map[string]bool, len(current))
	for _, id := range current {
		known[id] = true
	}
	out := make([]string, 0, len(current))
	placed := make(map[string]bool, len(current))
	for _, id := range order {
		if known[id] && !placed[id] {
			out = append(out, id)
			placed[id] = true
		}
	}
	for _, id := range current {
		if !placed[id] {
			out = append(out, id)
		}
	}
	return out
}

func visibleTo(v WidgetVisibility, audience []string, now time.Time) bool {
	if v.StartAt != nil && now.Before(*v.StartAt) {
		return false
	}
	if v.EndAt != nil && now.After(*v.EndAt) {
		return false
	}
	if len(v.Roles) == 0 {
		return true
	}
	for _, role := range v.Roles {
		if slices.Contains(audience, role) {
			return true
		}
	}
	return false
}
