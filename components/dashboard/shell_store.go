package dashboard

import (
	"context"
	"errors"
	"sync"
)

// ErrMissingViewer is returned when a per-viewer operation has no user id.
var ErrMissingViewer = errors.New("dashboard: viewer context missing user id")

// ShellStore persists ShellState per viewer.
type ShellStore interface {
	LoadShell(ctx context.Context, viewer ViewerContext) (ShellState, error)
	SaveShell(ctx context.Context, viewer ViewerContext, state ShellState) error
}

// InMemoryShellStore keeps shell state in process memory.
type InMemoryShellStore struct {
	mu     sync.RWMutex
	states map[string]ShellState
}

// NewInMemoryShellStore creates an empty store.
func NewInMemoryShellStore() *InMemoryShellStore {
	return &InMemoryShellStore{states: make(map[string]ShellState)}
}

// LoadShell returns the stored state or the defaults. Anonymous viewers always get defaults.
func (s *InMemoryShellStore) LoadShell(_ context.Context, viewer ViewerContext) (ShellState, error) {
	if viewer.UserID == "" {
		return DefaultShellState(), nil
	}
	s.mu.RLock()
	state, ok := s.states[viewer.UserID]
	s.mu.RUnlock()
	if !ok {
		return DefaultShellState(), nil
	}
	return state.Normalize(), nil
}

// SaveShell stores the state for the viewer.
func (s *InMemoryShellStore) SaveShell(_ context.Context, viewer ViewerContext, state ShellState) error {
	if viewer.UserID == "" {
		return ErrMissingViewer
	}
	s.mu.Lock()
	s.states[viewer.UserID] = state.Normalize()
	s.mu.Unlock()
	return nil
}
