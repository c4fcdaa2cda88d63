package server

import (
	"sync"
	"time"
)

// burstLimiter is a fixed-window in-memory limiter keyed by identity.
// It sits in front of the daily counter as cheap protection against
// request floods; the daily quota remains the authoritative cap.
type burstLimiter struct {
	limit  int
	window time.Duration
	mu     sync.Mutex
	items  map[string]*burstEntry
}

type burstEntry struct {
	windowStart time.Time
	count       int
}

func newBurstLimiter(limit int, window time.Duration) *burstLimiter {
	return &burstLimiter{
		limit:  limit,
		window: window,
		items:  make(map[string]*burstEntry),
	}
}

func (b *burstLimiter) Allow(key string) bool {
	if key == "" {
		return false
	}

	now := time.Now().UTC()
	b.mu.Lock()
	defer b.mu.Unlock()

	entry := b.items[key]
	if entry == nil || now.Sub(entry.windowStart) > b.window {
		entry = &burstEntry{windowStart: now}
		b.items[key] = entry
	}

	if entry.count >= b.limit {
		return false
	}

	entry.count++
	return true
}
