package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps the sliding window in a process-local map. One mutex
// guards the whole map, so the check-and-append is atomic per identity;
// it also serializes distinct identities, which is fine for a small
// client population but a known scalability trade-off.
type MemoryStore struct {
	mu      sync.Mutex
	clients map[string][]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{clients: make(map[string][]time.Time)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Allow(ctx context.Context, identity string, now time.Time, window time.Duration, limit int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.clients[identity]
	kept := ts[:0]
	for _, t := range ts {
		if now.Sub(t) < window {
			kept = append(kept, t)
		}
	}
	if len(kept) < limit {
		kept = append(kept, now)
		s.clients[identity] = kept
		return true, nil
	}
	s.clients[identity] = kept
	return false, nil
}
