package hits

import (
	"sync"
	"testing"
	"time"
)

func TestCounter_Bump(t *testing.T) {
	c := NewCounter(0)
	if got := c.Get("/"); got != 0 {
		t.Fatalf("fresh counter Get=%d, want 0", got)
	}
	c.Bump("/")
	c.Bump("/")
	c.Bump("/books/")
	if got := c.Get("/"); got != 2 {
		t.Fatalf("Get(/)=%d, want 2", got)
	}
	if got := c.Get("/books/"); got != 1 {
		t.Fatalf("Get(/books/)=%d, want 1", got)
	}
}

func TestCounter_LiteralKeys(t *testing.T) {
	// /books and /books/ are distinct keys on purpose.
	c := NewCounter(0)
	c.Bump("/books")
	c.Bump("/books/")
	if c.Get("/books") != 1 || c.Get("/books/") != 1 {
		t.Fatalf("trailing-slash variants must count separately: %v", c.Snapshot())
	}
}

func TestCounter_ConcurrentBumpsExact(t *testing.T) {
	const n = 100
	c := NewCounter(0)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Bump("/index.html")
		}()
	}
	wg.Wait()
	if got := c.Get("/index.html"); got != n {
		t.Fatalf("count=%d, want %d", got, n)
	}
}

func TestCounter_DelaySerializesAllPaths(t *testing.T) {
	const delay = 20 * time.Millisecond
	c := NewCounter(delay)

	// Five bumps to five different paths still serialize through the one
	// lock, so the wall time is at least 5x the delay.
	paths := []string{"/a", "/b", "/c", "/d", "/e"}
	start := time.Now()
	var wg sync.WaitGroup
	for _, p := range paths {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			c.Bump(p)
		}(p)
	}
	wg.Wait()
	if elapsed := time.Since(start); elapsed < 5*delay {
		t.Fatalf("elapsed=%v, want >= %v (bumps must serialize)", elapsed, 5*delay)
	}
	for _, p := range paths {
		if c.Get(p) != 1 {
			t.Fatalf("path %s count=%d, want 1", p, c.Get(p))
		}
	}
}

func TestCounter_Snapshot(t *testing.T) {
	c := NewCounter(0)
	c.Bump("/x")
	snap := c.Snapshot()
	snap["/x"] = 99
	if c.Get("/x") != 1 {
		t.Fatal("Snapshot must return a copy")
	}
}
