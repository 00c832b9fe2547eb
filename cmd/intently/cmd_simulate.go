package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/intently-app/intently/internal/engine"
	"github.com/intently-app/intently/internal/logging"
	"github.com/intently-app/intently/internal/models"
	"github.com/intently-app/intently/internal/simulation"
	"github.com/intently-app/intently/internal/store"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a synthetic multi-day scenario against an in-memory engine",
		Long: `Run a reproducible simulation of a synthetic user.

The simulation uses an in-memory store and a simulated clock; nothing
is written to the data directory.

Examples:
  intently simulate --days 7 --sessions 20
  intently simulate --profile hostile --seed 99 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			sessions, _ := cmd.Flags().GetInt("sessions")
			seed, _ := cmd.Flags().GetInt64("seed")
			gap, _ := cmd.Flags().GetDuration("gap")
			profileName, _ := cmd.Flags().GetString("profile")
			app, _ := cmd.Flags().GetString("app")
			jsonOut, _ := cmd.Flags().GetBool("json")

			var profile simulation.UserProfile
			switch profileName {
			case "receptive":
				profile = simulation.ReceptiveUser()
			case "hostile":
				profile = simulation.HostileUser()
			default:
				return fmt.Errorf("invalid profile %q (valid: receptive, hostile)", profileName)
			}

			result, err := runSimulation(cmd.Context(), simulation.Scenario{
				Seed:           seed,
				App:            app,
				Days:           days,
				SessionsPerDay: sessions,
				SessionGap:     gap,
				Profile:        profile,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"evaluations":   result.Evaluations,
					"shows":         result.Shows,
					"skips":         result.Skips,
					"shows_per_day": result.ShowsPerDay,
					"reason_counts": result.ReasonCounts,
				})
			}

			fmt.Printf("Simulated %d days, %d sessions/day, %s user (seed %d)\n",
				days, sessions, profileName, seed)
			fmt.Printf("  evaluations: %d\n", result.Evaluations)
			fmt.Printf("  shows:       %d (%.1f/day)\n", result.Shows, float64(result.Shows)/float64(days))
			fmt.Printf("  skips:       %d\n", result.Skips)

			reasons := make([]string, 0, len(result.ReasonCounts))
			for reason := range result.ReasonCounts {
				reasons = append(reasons, reason)
			}
			sort.Strings(reasons)
			for _, reason := range reasons {
				fmt.Printf("    %-28s %d\n", reason, result.ReasonCounts[reason])
			}
			return nil
		},
	}

	cmd.Flags().Int("days", 7, "Simulated days")
	cmd.Flags().Int("sessions", 20, "App opens per day")
	cmd.Flags().Int64("seed", 42, "Random seed")
	cmd.Flags().Duration("gap", 30*time.Minute, "Simulated time between app opens")
	cmd.Flags().String("profile", "receptive", "Synthetic user profile: receptive, hostile")
	cmd.Flags().String("app", "com.example.social", "Simulated app package")

	return cmd
}

// runSimulation mirrors the simulation runner's loop without the test
// harness so the CLI can drive it.
func runSimulation(ctx context.Context, scenario simulation.Scenario) (simulation.Result, error) {
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
	logger := logging.NewLogger("error", io.Discard)
	eng := engine.New(cfg, mem, rng, logger, nil)

	clock := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	eng.SetNowFunc(func() time.Time { return clock })

	result := simulation.Result{
		ReasonCounts: make(map[string]int),
		ShowsPerDay:  make([]int, scenario.Days),
	}

	for day := 0; day < scenario.Days; day++ {
		dayStart := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC).Add(time.Duration(day) * 24 * time.Hour)
		for i := 0; i < scenario.SessionsPerDay; i++ {
			clock = dayStart.Add(time.Duration(i) * gap)

			sc := simulation.GenerateForSession(rng, scenario.App, day, i)
			sc.Timestamp = clock

			exp, err := eng.Evaluate(ctx, sc, models.InterventionReminder)
			if err != nil {
				return result, fmt.Errorf("day %d session %d: %w", day, i, err)
			}
			result.Evaluations++
			result.ReasonCounts[exp.Reason]++

			if exp.Decision == models.DecisionShow {
				result.Shows++
				result.ShowsPerDay[day]++
				result.ShowTimes = append(result.ShowTimes, clock)
				if err := eng.RecordOutcome(ctx, exp.ID, scenario.Profile.Sample(outcomes)); err != nil {
					return result, fmt.Errorf("recording outcome %s: %w", exp.ID, err)
				}
			} else {
				result.Skips++
			}

			if err := eng.RecordSession(ctx, models.UsageSession{
				AppPackage:  scenario.App,
				StartedAt:   clock,
				Duration:    time.Duration(sc.SessionMinutes * float64(time.Minute)),
				QuickReopen: sc.QuickReopen,
			}); err != nil {
				return result, fmt.Errorf("recording session: %w", err)
			}
		}
	}

	return result, nil
}
