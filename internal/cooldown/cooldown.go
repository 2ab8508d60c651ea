// internal/cooldown/cooldown.go
package cooldown

import "time"

// DefaultDuration is the time a toggle suppresses further toggles.
const DefaultDuration = 3 * time.Second

// Governor suppresses repeated toggles while a token stays in range.
// Keyed globally by time, not per identifier.
type Governor struct {
	duration time.Duration
	last     time.Time
	recorded bool
}

// New creates a governor. A non-positive duration uses DefaultDuration.
func New(d time.Duration) *Governor {
	if d <= 0 {
		d = DefaultDuration
	}
	return &Governor{duration: d}
}

// Duration returns the configured cooldown.
func (g *Governor) Duration() time.Duration { return g.duration }

// Allow reports whether a toggle may happen at now.
func (g *Governor) Allow(now time.Time) bool {
	if !g.recorded {
		return true
	}
	return now.Sub(g.last) >= g.duration
}

// Record marks a successful toggle at now.
func (g *Governor) Record(now time.Time) {
	g.last = now
	g.recorded = true
}

// Remaining returns how long until Allow turns true. Zero when allowed.
func (g *Governor) Remaining(now time.Time) time.Duration {
	if g.Allow(now) {
		return 0
	}
	return g.duration - now.Sub(g.last)
}
