package facility

import (
	"context"
	"sync"

	"docvault/pkg/platform/sentinel"
)

// InMemoryStore keeps directory entries in process memory, preserving
// insertion order for listings.
type InMemoryStore struct {
	mu        sync.RWMutex
	byAddress map[string]Facility
	ordered   []string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byAddress: make(map[string]Facility)}
}

func (s *InMemoryStore) Save(_ context.Context, f Facility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	addr := f.Address.String()
	if _, exists := s.byAddress[addr]; !exists {
		s.ordered = append(s.ordered, addr)
	}
	s.byAddress[addr] = f
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Facility, 0, len(s.ordered))
	for _, addr := range s.ordered {
		out = append(out, s.byAddress[addr])
	}
	return out, nil
}

func (s *InMemoryStore) FindByAddress(_ context.Context, address string) (Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.byAddress[address]
	if !ok {
		return Facility{}, sentinel.ErrNotFound
	}
	return f, nil
}
