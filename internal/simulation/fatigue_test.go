package simulation

import (
	"testing"

	"github.com/intently-app/intently/internal/engine"
)

// A user who dismisses everything should see fewer interventions than a
// receptive one: the burden gates stretch the cooldown and eventually
// stop showing entirely.
func TestFatigue_HostileUserSeesFewer(t *testing.T) {
	receptive := baseScenario()
	receptive.Name = "receptive"

	hostile := baseScenario()
	hostile.Name = "hostile"
	hostile.Profile = HostileUser()

	runner := NewRunner(t)
	rr := runner.Run(receptive)
	hr := runner.Run(hostile)

	if hr.Shows >= rr.Shows {
		t.Errorf("hostile user saw %d interventions, receptive saw %d; backoff not engaging",
			hr.Shows, rr.Shows)
	}

	burdenSkips := hr.ReasonCounts[engine.ReasonCriticalBurden] + hr.ReasonCounts[engine.ReasonBurdenCooldown]
	if burdenSkips == 0 {
		t.Error("hostile week never skipped for burden reasons")
	}
}

// Burden recorded in explanations should trend upward across a hostile
// week: the last day's evaluations carry a higher burden score than the
// first day's.
func TestFatigue_BurdenScoreRises(t *testing.T) {
	hostile := baseScenario()
	hostile.Profile = HostileUser()

	result := NewRunner(t).Run(hostile)

	perDay := hostile.SessionsPerDay
	if len(result.Explanations) < perDay*hostile.Days {
		t.Fatalf("expected %d explanations, got %d", perDay*hostile.Days, len(result.Explanations))
	}

	firstDay := avgBurden(result, 0, perDay)
	lastDay := avgBurden(result, (hostile.Days-1)*perDay, hostile.Days*perDay)
	if lastDay <= firstDay {
		t.Errorf("burden did not rise over a hostile week: day 1 avg %.1f, day 7 avg %.1f",
			firstDay, lastDay)
	}
}

func avgBurden(r Result, from, to int) float64 {
	total := 0
	for _, exp := range r.Explanations[from:to] {
		total += exp.BurdenScore
	}
	return float64(total) / float64(to-from)
}
