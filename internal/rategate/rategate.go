// Package rategate implements a per-user admission throttle. Each event
// class carries its own minimum interval; events arriving before the
// interval has elapsed are dropped without touching any state.
package rategate

import (
	"sync"
	"time"
)

type Class int

const (
	ClassMessage Class = iota
	ClassAction
)

const (
	DefaultMessageInterval = 800 * time.Millisecond
	DefaultActionInterval  = 300 * time.Millisecond
)

type Config struct {
	MessageInterval time.Duration
	ActionInterval  time.Duration
}

type key struct {
	userID int64
	class  Class
}

type Gate struct {
	cfg Config

	mu   sync.Mutex
	last map[key]time.Time
}

func New(cfg Config) *Gate {
	if cfg.MessageInterval <= 0 {
		cfg.MessageInterval = DefaultMessageInterval
	}
	if cfg.ActionInterval <= 0 {
		cfg.ActionInterval = DefaultActionInterval
	}
	return &Gate{
		cfg:  cfg,
		last: make(map[key]time.Time),
	}
}

// Admit reports whether an event from userID in the given class may proceed.
// The last-admitted timestamp is updated only when the event is admitted, so
// a burst of rejected events does not extend the quiet period.
func (g *Gate) Admit(userID int64, class Class, now time.Time) bool {
	interval := g.cfg.MessageInterval
	if class == ClassAction {
		interval = g.cfg.ActionInterval
	}

	k := key{userID: userID, class: class}

	g.mu.Lock()
	defer g.mu.Unlock()

	if last, ok := g.last[k]; ok && now.Sub(last) < interval {
		return false
	}
	g.last[k] = now
	return true
}

// Sweep drops entries not admitted since now-maxAge and returns how many
// were removed. Intervals are sub-second, so anything older than a few
// minutes is dead weight kept only to bound memory for departed users.
func (g *Gate) Sweep(now time.Time, maxAge time.Duration) int {
	if maxAge <= 0 {
		return 0
	}
	cutoff := now.Add(-maxAge)

	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	for k, last := range g.last {
		if last.Before(cutoff) {
			delete(g.last, k)
			removed++
		}
	}
	return removed
}
