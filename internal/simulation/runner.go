package simulation

import (
	"context"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/intently-app/intently/internal/engine"
	"github.com/intently-app/intently/internal/logging"
	"github.com/intently-app/intently/internal/models"
	"github.com/intently-app/intently/internal/store"
)

// Runner orchestrates multi-day simulation experiments against a real
// engine and an in-memory store, on a simulated clock.
type Runner struct {
	t *testing.T
}

// NewRunner creates a simulation runner.
func NewRunner(t *testing.T) *Runner {
	t.Helper()
	return &Runner{t: t}
}

// Run executes the scenario and returns the collected results.
func (r *Runner) Run(scenario Scenario) Result {
	r.t.Helper()
	ctx := context.Background()

	cfg := scenario.Engine
	if cfg.BaseCooldown == 0 && cfg.DailyCap == 0 {
		cfg = engine.DefaultConfig()
	}
	gap := scenario.SessionGap
	if gap == 0 {
		gap = 30 * time.Minute
	}

	mem := store.NewMemoryStore()
	rng := rand.New(rand.NewSource(scenario.Seed))
	outcomes := rand.New(rand.NewSource(scenario.Seed + 1))
	logger := logging.NewLogger("info", io.Discard)
	eng := engine.New(cfg, mem, rng, logger, nil)

	clock := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	eng.SetNowFunc(func() time.Time { return clock })

	result := Result{
		ReasonCounts: make(map[string]int),
		ShowsPerDay:  make([]int, scenario.Days),
	}

	for day := 0; day < scenario.Days; day++ {
		dayStart := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC).Add(time.Duration(day) * 24 * time.Hour)
		for i := 0; i < scenario.SessionsPerDay; i++ {
			clock = dayStart.Add(time.Duration(i) * gap)

			sc := GenerateForSession(rng, scenario.App, day, i)
			sc.Timestamp = clock

			exp, err := eng.Evaluate(ctx, sc, models.InterventionReminder)
			if err != nil {
				r.t.Fatalf("day %d session %d: Evaluate: %v", day, i, err)
			}
			result.Evaluations++
			result.ReasonCounts[exp.Reason]++
			result.Explanations = append(result.Explanations, exp)

			if exp.Decision == models.DecisionShow {
				result.Shows++
				result.ShowsPerDay[day]++
				result.ShowTimes = append(result.ShowTimes, clock)
				r.respond(ctx, eng, exp.ID, scenario.Profile, outcomes)
			} else {
				result.Skips++
			}

			if err := eng.RecordSession(ctx, models.UsageSession{
				AppPackage:  scenario.App,
				StartedAt:   clock,
				Duration:    time.Duration(sc.SessionMinutes * float64(time.Minute)),
				QuickReopen: sc.QuickReopen,
			}); err != nil {
				r.t.Fatalf("day %d session %d: RecordSession: %v", day, i, err)
			}
		}
	}

	return result
}

// respond samples an outcome from the profile and records it.
func (r *Runner) respond(ctx context.Context, eng *engine.Engine, id string, p UserProfile, rng *rand.Rand) {
	r.t.Helper()
	if err := eng.RecordOutcome(ctx, id, p.Sample(rng)); err != nil {
		r.t.Fatalf("RecordOutcome(%s): %v", id, err)
	}
}
