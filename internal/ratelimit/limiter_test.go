package ratelimit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestLimiter(limit int, window time.Duration) *Limiter {
	return New(NewMemoryStore(), limit, window, nil)
}

func TestLimiter_AdmitsUpToLimit(t *testing.T) {
	l := newTestLimiter(5, time.Second)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 5; i++ {
		if !l.Allow(ctx, "192.0.2.1", now) {
			t.Fatalf("request %d should be admitted", i+1)
		}
	}
	if l.Allow(ctx, "192.0.2.1", now) {
		t.Fatal("6th request within the window should be rejected")
	}
}

func TestLimiter_WindowSlides(t *testing.T) {
	l := newTestLimiter(5, time.Second)
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 5; i++ {
		if !l.Allow(ctx, "192.0.2.1", base) {
			t.Fatalf("warmup request %d rejected", i+1)
		}
	}
	if l.Allow(ctx, "192.0.2.1", base.Add(900*time.Millisecond)) {
		t.Fatal("request still inside the window should be rejected")
	}
	if !l.Allow(ctx, "192.0.2.1", base.Add(time.Second)) {
		t.Fatal("request a full window after the first admission should pass")
	}
}

func TestLimiter_IdentitiesAreIndependent(t *testing.T) {
	l := newTestLimiter(1, time.Second)
	ctx := context.Background()
	now := time.Now()

	if !l.Allow(ctx, "192.0.2.1", now) {
		t.Fatal("first identity should be admitted")
	}
	if l.Allow(ctx, "192.0.2.1", now) {
		t.Fatal("first identity should now be limited")
	}
	if !l.Allow(ctx, "192.0.2.2", now) {
		t.Fatal("second identity must not be affected by the first")
	}
}

func TestLimiter_ConcurrentSameIdentity(t *testing.T) {
	const limit = 5
	l := newTestLimiter(limit, time.Second)
	ctx := context.Background()
	now := time.Now()

	var admitted int64
	var wg sync.WaitGroup
	for i := 0; i < 4*limit; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow(ctx, "192.0.2.1", now) {
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	wg.Wait()
	if admitted != limit {
		t.Fatalf("admitted=%d, want exactly %d", admitted, limit)
	}
}

type failingStore struct{}

func (failingStore) Allow(ctx context.Context, identity string, now time.Time, window time.Duration, limit int) (bool, error) {
	return false, errors.New("store down")
}

func TestLimiter_FailsOpenOnStoreError(t *testing.T) {
	l := New(failingStore{}, 1, time.Second, nil)
	if !l.Allow(context.Background(), "192.0.2.1", time.Now()) {
		t.Fatal("limiter must fail open when the store errors")
	}
}
