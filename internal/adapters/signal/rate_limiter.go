package signal

import (
	"sync"
	"time"
)

// EmitRateLimiter is a sliding-window limit on outbound events, counted
// per event name.
type EmitRateLimiter struct {
	mu       sync.Mutex
	history  map[string][]time.Time
	limit    int
	interval time.Duration
	now      func() time.Time
}

func NewEmitRateLimiter(limit int, interval time.Duration) *EmitRateLimiter {
	return &EmitRateLimiter{
		history:  make(map[string][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

func (rl *EmitRateLimiter) Allow(event string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[event]
	fresh := make([]time.Time, 0, len(attempts)+1)
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[event] = fresh
		return false
	}

	rl.history[event] = append(fresh, now)
	return true
}
