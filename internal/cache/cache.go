// Package cache keeps the computed class results of a game between
// closures.
package cache

import (
	"context"
	"sync"
	"time"

	"tragedy-commons/internal/commons"
)

type Results interface {
	Get(ctx context.Context, gameID uint) ([]commons.RoundResult, bool, error)
	Set(ctx context.Context, gameID uint, results []commons.RoundResult) error
	Invalidate(ctx context.Context, gameID uint) error
}

type memoryEntry struct {
	results []commons.RoundResult
	expires time.Time
}

// Memory is the single-process fallback used when no Redis is configured.
type Memory struct {
	ttl     time.Duration
	mu      sync.Mutex
	entries map[uint]memoryEntry
	now     func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[uint]memoryEntry),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, gameID uint) ([]commons.RoundResult, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[gameID]
	if !ok {
		return nil, false, nil
	}
	if m.ttl > 0 && m.now().After(entry.expires) {
		delete(m.entries, gameID)
		return nil, false, nil
	}
	return entry.results, true, nil
}

func (m *Memory) Set(_ context.Context, gameID uint, results []commons.RoundResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[gameID] = memoryEntry{
		results: results,
		expires: m.now().Add(m.ttl),
	}
	return nil
}

func (m *Memory) Invalidate(_ context.Context, gameID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, gameID)
	return nil
}
