package registry

import (
	"context"
	"sync"

	"github.com/debleena1993/KPIChatbot/pkg/apperrors"
)

// MemoryStore is an in-memory Store for tests and local development.
// Set FailSave to force persistence failures.
type MemoryStore struct {
	mu       sync.Mutex
	states   map[string]*State
	FailSave error // if non-nil, Save returns this error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]*State)}
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[sessionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return state.Clone(), nil
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, sessionID string, state *State) error {
	if s.FailSave != nil {
		return s.FailSave
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[sessionID] = state.Clone()
	return nil
}

// Ensure MemoryStore implements Store at compile time.
var _ Store = (*MemoryStore)(nil)
