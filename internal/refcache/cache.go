// Package refcache is a best-effort, time-boxed cache for slow-changing
// reference data such as hub and journal lists. Entries expire purely
// by TTL; there is no cross-component invalidation.
package refcache

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL bounds how stale reference data may get.
const DefaultTTL = 5 * time.Minute

// Cache is a read-through byte cache keyed by request parameters.
// Implementations are safe for concurrent use and best-effort: a failed
// backend read is reported as a miss, never as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
}

// Nop caches nothing; every Get is a miss. Used in tests and when
// caching is disabled.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (Nop) Set(context.Context, string, []byte, time.Duration) {}

// Memory is an in-process TTL cache with lazy expiry.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	val       []byte
	expiresAt time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || m.now().After(e.expiresAt) {
		return nil, false
	}
	return e.val, true
}

func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m.mu.Lock()
	m.entries[key] = memoryEntry{val: val, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
}
