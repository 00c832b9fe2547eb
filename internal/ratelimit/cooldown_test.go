package ratelimit

import (
	"testing"
	"time"
)

// fakeClock returns a settable nowFunc.
func fakeClock(start time.Time) (func() time.Time, func(time.Duration)) {
	now := start
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func TestCheck_FirstShowAllowed(t *testing.T) {
	tr := NewTracker()
	ok, reason := tr.Check("com.example.app", time.Hour, 10)
	if !ok || reason != ReasonOK {
		t.Errorf("Check = %t/%s, want true/%s", ok, reason, ReasonOK)
	}
}

func TestCheck_CooldownBlocks(t *testing.T) {
	tr := NewTracker()
	clock, advance := fakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	tr.SetNowFunc(clock)

	tr.Record("com.example.app")

	ok, reason := tr.Check("com.example.app", time.Hour, 0)
	if ok || reason != ReasonCooldown {
		t.Errorf("immediately after show: Check = %t/%s, want false/%s", ok, reason, ReasonCooldown)
	}

	// A different app is not affected.
	if ok, _ := tr.Check("com.other.app", time.Hour, 0); !ok {
		t.Error("cooldown should be per-app")
	}

	advance(59 * time.Minute)
	if ok, _ := tr.Check("com.example.app", time.Hour, 0); ok {
		t.Error("Check allowed 1 minute before cooldown expiry")
	}

	advance(2 * time.Minute)
	if ok, _ := tr.Check("com.example.app", time.Hour, 0); !ok {
		t.Error("Check blocked after cooldown expiry")
	}
}

func TestCheck_DailyCap(t *testing.T) {
	tr := NewTracker()
	clock, advance := fakeClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	tr.SetNowFunc(clock)

	for i := 0; i < 3; i++ {
		tr.Record("com.example.app")
		advance(2 * time.Hour)
	}

	// Cooldown long expired but the cap of 3 is hit.
	ok, reason := tr.Check("com.fresh.app", time.Minute, 3)
	if ok || reason != ReasonDailyCap {
		t.Errorf("Check = %t/%s, want false/%s", ok, reason, ReasonDailyCap)
	}

	// 24h after the first show the oldest record ages out.
	advance(19 * time.Hour)
	if ok, _ := tr.Check("com.fresh.app", time.Minute, 3); !ok {
		t.Error("Check blocked after oldest show aged past 24h")
	}
	if n := tr.ShownLast24h(); n != 2 {
		t.Errorf("ShownLast24h = %d, want 2", n)
	}
}

func TestTimeUntilAllowed(t *testing.T) {
	tr := NewTracker()
	clock, advance := fakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	tr.SetNowFunc(clock)

	if d := tr.TimeUntilAllowed("com.example.app", time.Hour); d != 0 {
		t.Errorf("TimeUntilAllowed before any show = %v, want 0", d)
	}

	tr.Record("com.example.app")
	advance(15 * time.Minute)

	if d := tr.TimeUntilAllowed("com.example.app", time.Hour); d != 45*time.Minute {
		t.Errorf("TimeUntilAllowed = %v, want 45m", d)
	}

	advance(time.Hour)
	if d := tr.TimeUntilAllowed("com.example.app", time.Hour); d != 0 {
		t.Errorf("TimeUntilAllowed after expiry = %v, want 0", d)
	}
}
