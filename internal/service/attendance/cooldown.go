package attendance

import (
	"sync"
	"time"
)

// cooldown remembers when each employee+entry type was last recorded.
type cooldown struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]time.Time
}

func newCooldown(window time.Duration) *cooldown {
	return &cooldown{
		window: window,
		last:   make(map[string]time.Time),
	}
}

func cooldownKey(employeeID, entryType string) string {
	return employeeID + "_" + entryType
}

// reserve claims key at now unless it was claimed within the window.
func (c *cooldown) reserve(key string, now time.Time) bool {
	if c.window <= 0 {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if last, ok := c.last[key]; ok && now.Sub(last) < c.window {
		return false
	}
	c.last[key] = now
	c.prune(now)
	return true
}

// release undoes a reservation whose insert failed.
func (c *cooldown) release(key string, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last[key].Equal(at) {
		delete(c.last, key)
	}
}

func (c *cooldown) prune(now time.Time) {
	if len(c.last) < 1024 {
		return
	}
	for key, last := range c.last {
		if now.Sub(last) >= c.window {
			delete(c.last, key)
		}
	}
}
