// Package ratelimit admits or rejects requests per client identity under
// a sliding window: at most R admissions within any trailing window of
// length T. State lives behind the Store interface so the window can be
// kept in process memory or in redis.
package ratelimit

import (
	"context"
	"time"

	"github.com/FilipObrijan/LAB2-PR/internal/obs"
)

// Store holds per-identity admission timestamps.
type Store interface {
	// Allow atomically prunes entries older than now-window for identity
	// and, if fewer than limit remain, records now as an admission. It
	// reports whether the request was admitted. Concurrent calls for the
	// same identity must never over-admit.
	Allow(ctx context.Context, identity string, now time.Time, window time.Duration, limit int) (bool, error)
}

type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	log    obs.Logger
}

func New(store Store, limit int, window time.Duration, log obs.Logger) *Limiter {
	if log == nil {
		log = obs.NopLogger{}
	}
	return &Limiter{store: store, limit: limit, window: window, log: log}
}

// Allow reports whether a request from identity may proceed. Store
// failures fail open: the limiter is a politeness mechanism, not an auth
// boundary, and a storage outage must not take the server down.
func (l *Limiter) Allow(ctx context.Context, identity string, now time.Time) bool {
	ok, err := l.store.Allow(ctx, identity, now, l.window, l.limit)
	if err != nil {
		l.log.Logf(obs.Warn, "rate limit store failed for %s, allowing: %v", identity, err)
		return true
	}
	return ok
}
