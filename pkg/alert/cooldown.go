package alert

import (
	"sync"
	"time"
)

// Cooldown tracks the last emission time per dedup key. Entries never
// expire explicitly; stale keys simply stop mattering.
type Cooldown struct {
	mu   sync.Mutex
	last map[string]time.Time
}

// NewCooldown creates an empty table.
func NewCooldown() *Cooldown {
	return &Cooldown{last: make(map[string]time.Time)}
}

// Allow reports whether key may emit at now given the window, and stamps
// the emission time when it may. A zero or negative window always allows.
func (c *Cooldown) Allow(key string, now time.Time, window time.Duration) bool {
	if window <= 0 {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ts, ok := c.last[key]; ok && now.Sub(ts) < window {
		return false
	}
	c.last[key] = now
	return true
}

// Blocked reports whether key is inside its window at now, without
// stamping anything.
func (c *Cooldown) Blocked(key string, now time.Time, window time.Duration) bool {
	if window <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ts, ok := c.last[key]
	return ok && now.Sub(ts) < window
}
