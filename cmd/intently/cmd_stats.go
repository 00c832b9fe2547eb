package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/intently-app/intently/internal/burden"
	"github.com/intently-app/intently/internal/history"
	"github.com/intently-app/intently/internal/persona"
	"github.com/intently-app/intently/internal/store"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the current persona, burden state, and outcome aggregates",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			s, err := store.NewSQLiteStore(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer s.Close()

			ctx := cmd.Context()
			now := time.Now()
			since := now.Add(-14 * 24 * time.Hour)

			results, err := s.ResultsSince(ctx, since)
			if err != nil {
				return err
			}
			sessions, err := s.SessionsSince(ctx, since)
			if err != nil {
				return err
			}

			installedAt := now
			if raw, err := s.GetMeta(ctx, store.MetaInstalledAt); err == nil && raw != "" {
				if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
					installedAt = t
				}
			}

			snap, _ := history.SnapshotFromSessions(sessions, installedAt, now)
			p, conf := persona.Classify(snap)
			metrics := history.MetricsFromResults(results, now)
			pCfg := persona.Lookup(p)

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"persona":             p,
					"confidence":          conf,
					"frequency":           pCfg.Frequency,
					"snapshot":            snap,
					"burden_score":        burden.Score(metrics),
					"burden_level":        burden.Level(metrics),
					"cooldown_multiplier": burden.CooldownMultiplier(metrics),
					"metrics":             metrics,
				})
			}

			fmt.Printf("Persona:    %s (%s confidence, %s pacing)\n", p, conf, pCfg.Frequency)
			fmt.Printf("Usage:      %.1f sessions/day, %.1f min avg, %.0f%% quick reopens, trend %s\n",
				snap.AvgDailySessions, snap.AvgSessionMinutes, snap.QuickReopenRate*100, snap.Trend)
			fmt.Printf("Burden:     score %d (%s), cooldown x%.1f\n",
				burden.Score(metrics), burden.Level(metrics), burden.CooldownMultiplier(metrics))
			fmt.Printf("Outcomes:   %d shown (7d: %d), dismiss %.0f%%, timeout %.0f%%, effective %.0f%%\n",
				metrics.SampleSize, metrics.InterventionsLast7d,
				metrics.DismissRate*100, metrics.TimeoutRate*100, metrics.EffectivenessRolling7d*100)
			if metrics.FeedbackCount() > 0 {
				fmt.Printf("Feedback:   %d helpful, %d disruptive\n", metrics.HelpfulCount, metrics.DisruptiveCount)
			}
			if !metrics.Reliable() {
				fmt.Println("Note: fewer than 10 recorded outcomes; aggregates are provisional")
			}
			return nil
		},
	}
}
