// Package ratelimit tracks per-app intervention cooldowns and the global
// daily cap. It is safe for concurrent use.
package ratelimit

import (
	"sync"
	"time"
)

// Reason strings surfaced in decision explanations.
const (
	ReasonOK       = "ok"
	ReasonCooldown = "cooldown_active"
	ReasonDailyCap = "daily_cap_reached"
)

// Tracker remembers when interventions were last shown, per app and
// globally, so the engine can enforce minimum spacing.
type Tracker struct {
	mu        sync.Mutex
	lastShown map[string]time.Time
	shown     []time.Time      // global show times, pruned past 24h
	nowFunc   func() time.Time // injectable clock for testing
}

// NewTracker creates an empty cooldown tracker.
func NewTracker() *Tracker {
	return &Tracker{
		lastShown: make(map[string]time.Time),
		nowFunc:   time.Now,
	}
}

// SetNowFunc overrides the tracker's clock. Test use only.
func (t *Tracker) SetNowFunc(f func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nowFunc = f
}

// Check reports whether an intervention for app is currently permitted.
// cooldown is the effective minimum gap since the last show for this app,
// already scaled by persona frequency and burden multipliers. dailyCap
// bounds total shows across all apps in the trailing 24 hours; zero means
// no cap.
func (t *Tracker) Check(app string, cooldown time.Duration, dailyCap int) (bool, string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.nowFunc()
	t.prune(now)

	if dailyCap > 0 && len(t.shown) >= dailyCap {
		return false, ReasonDailyCap
	}
	if last, ok := t.lastShown[app]; ok && now.Sub(last) < cooldown {
		return false, ReasonCooldown
	}
	return true, ReasonOK
}

// Record marks an intervention as shown for app at the current time.
// The engine calls this only on SHOW decisions.
func (t *Tracker) Record(app string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.nowFunc()
	t.lastShown[app] = now
	t.shown = append(t.shown, now)
	t.prune(now)
}

// TimeUntilAllowed returns how long until the per-app cooldown clears.
// Zero means the app is not on cooldown.
func (t *Tracker) TimeUntilAllowed(app string, cooldown time.Duration) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.lastShown[app]
	if !ok {
		return 0
	}
	remaining := cooldown - t.nowFunc().Sub(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ShownLast24h returns the global show count in the trailing 24 hours.
func (t *Tracker) ShownLast24h() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prune(t.nowFunc())
	return len(t.shown)
}

// prune drops global show records older than 24 hours. Caller holds mu.
func (t *Tracker) prune(now time.Time) {
	cutoff := now.Add(-24 * time.Hour)
	i := 0
	for i < len(t.shown) && t.shown[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		t.shown = t.shown[i:]
	}
}
