package smoothink

import (
	"sync"
	"time"
)

// Automatic reload limits.
const (
	defaultReloadFailureThreshold = 3
	defaultReloadCooldown         = 10 * time.Second
)

// guardState is the state of a reloadGuard.
type guardState int

const (
	guardClosed guardState = iota
	guardOpen
	guardTrial
)

func (s guardState) String() string {
	switch s {
	case guardClosed:
		return "closed"
	case guardOpen:
		return "open"
	case guardTrial:
		return "trial"
	default:
		return "unknown"
	}
}

// reloadGuard suspends automatic reloads after repeated failures so a file
// saved over and over in a broken state does not flood the error handler.
// Once the cooldown passes a single trial reload is let through; success
// closes the guard, failure restarts the cooldown.
type reloadGuard struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	failures  int
	openedAt  time.Time
	rejected  int64
	now       func() time.Time
}

func newReloadGuard(threshold int, cooldown time.Duration) *reloadGuard {
	if threshold <= 0 {
		threshold = defaultReloadFailureThreshold
	}
	if cooldown <= 0 {
		cooldown = defaultReloadCooldown
	}
	return &reloadGuard{threshold: threshold, cooldown: cooldown, now: time.Now}
}

// Do runs fn unless the guard is open. It returns ErrReloadSuspended
// without calling fn while open.
func (g *reloadGuard) Do(fn func() error) error {
	g.mu.Lock()
	if g.stateLocked() == guardOpen {
		g.rejected++
		g.mu.Unlock()
		return ErrReloadSuspended
	}
	g.mu.Unlock()

	err := fn()

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.failures++
		if g.failures >= g.threshold {
			g.openedAt = g.now()
		}
		return err
	}
	g.failures = 0
	return nil
}

// State returns the current state.
func (g *reloadGuard) State() guardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked()
}

func (g *reloadGuard) stateLocked() guardState {
	if g.failures < g.threshold {
		return guardClosed
	}
	if g.now().Sub(g.openedAt) < g.cooldown {
		return guardOpen
	}
	return guardTrial
}

// Rejected returns the number of reloads refused while open.
func (g *reloadGuard) Rejected() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rejected
}
