package preferences

import (
	"context"
	"sync"
)

// MemoryStore keeps themes for the life of the process
type MemoryStore struct {
	mu     sync.RWMutex
	themes map[string]Theme
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{themes: make(map[string]Theme)}
}

// Get implements Store
func (s *MemoryStore) Get(_ context.Context, clientID string) (Theme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.themes[clientID]; ok {
		return t, nil
	}
	return DefaultTheme, nil
}

// Set implements Store
func (s *MemoryStore) Set(_ context.Context, clientID string, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}
	s.mu.Lock()
	s.themes[clientID] = theme
	s.mu.Unlock()
	return nil
}

// Close implements Store
func (s *MemoryStore) Close() error { return nil }
