package store

import (
	"context"
	"sync"

	"docvault/internal/registry"
)

// InMemoryLog keeps committed commands in process memory. It backs local
// development and tests; production uses PostgresLog for durability.
type InMemoryLog struct {
	mu      sync.RWMutex
	entries []registry.Command
}

func NewInMemoryLog() *InMemoryLog {
	return &InMemoryLog{}
}

func (l *InMemoryLog) Append(_ context.Context, cmd registry.Command) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, cmd)
	return nil
}

func (l *InMemoryLog) Replay(ctx context.Context, fn func(registry.Command) error) error {
	l.mu.RLock()
	entries := append([]registry.Command(nil), l.entries...)
	l.mu.RUnlock()

	for _, cmd := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(cmd); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of committed commands. Test helper.
func (l *InMemoryLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
