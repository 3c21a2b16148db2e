// Package hits counts visits per request path. Counts are keyed by the
// literal percent-decoded target string, so /books and /books/ count
// separately; targets that later redirect or 404 are counted too.
package hits

import (
	"sync"
	"time"
)

type Counter struct {
	mu     sync.Mutex
	delay  time.Duration
	counts map[string]int
}

// NewCounter returns a counter that spends delay inside the lock on each
// bump. The delay serializes every bump behind the one lock and shows up
// in end-to-end latency. Pass zero for no delay.
func NewCounter(delay time.Duration) *Counter {
	return &Counter{delay: delay, counts: make(map[string]int)}
}

// Bump increments the count for path. The read-sleep-write sequence runs
// under the lock, so concurrent bumps never lose updates and all bumps
// across all paths are serialized.
func (c *Counter) Bump(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.counts[path]
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	c.counts[path] = current + 1
}

// Get returns the current count for path, zero if never visited.
func (c *Counter) Get(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[path]
}

// Snapshot copies the full count map.
func (c *Counter) Snapshot() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}
