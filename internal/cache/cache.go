package cache

import (
	"sync"
	"time"
)

// Slot is a single-value TTL cache. The read API has exactly one
// logical "all stats" view and one logical "full heatmap" view, so each
// gets its own slot instead of a keyed cache. Population is lazy: a
// write to storage does not invalidate a slot, readers may observe data
// up to one TTL stale.
type Slot struct {
	mu        sync.RWMutex
	data      interface{}
	expiresAt time.Time
	ttl       time.Duration
}

func NewSlot(ttl time.Duration) *Slot {
	return &Slot{ttl: ttl}
}

// Get returns the cached value, or false when empty or expired.
func (s *Slot) Get() (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil || time.Now().After(s.expiresAt) {
		return nil, false
	}

	return s.data, true
}

// Set replaces the slot's value wholesale and restarts the TTL.
func (s *Slot) Set(data interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = data
	s.expiresAt = time.Now().Add(s.ttl)
}

func (s *Slot) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = nil
	s.expiresAt = time.Time{}
}
