// Package store contains the counter persistence adapters. Every
// adapter implements the atomic increment-below-limit primitive so the
// facade never has to read-modify-write a count.
package store

import (
	"context"
	"sync"

	"github.com/appfit/quotad/internal/quota/domain"
)

type memoryKey struct {
	identity string
	day      string
}

// MemoryStore keeps counters in process memory. It backs tests and
// deployments with no database or redis configured.
type MemoryStore struct {
	mu    sync.Mutex
	items map[memoryKey]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[memoryKey]int)}
}

func (s *MemoryStore) Load(ctx context.Context, identity, day string) (domain.DailyUsage, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, ok := s.items[memoryKey{identity: identity, day: day}]
	if !ok {
		return domain.DailyUsage{}, false, nil
	}
	return domain.DailyUsage{Identity: identity, Day: day, Count: count}, true, nil
}

func (s *MemoryStore) IncrementBelow(ctx context.Context, identity, day string, limit int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{identity: identity, day: day}
	count := s.items[key]
	if count >= limit {
		return count, false, nil
	}
	count++
	s.items[key] = count
	return count, true, nil
}

func (s *MemoryStore) DeleteBefore(ctx context.Context, day string, batchSize int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for key := range s.items {
		if batchSize > 0 && deleted >= int64(batchSize) {
			break
		}
		if key.day < day {
			delete(s.items, key)
			deleted++
		}
	}
	return deleted, nil
}
