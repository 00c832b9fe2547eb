package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/intently-app/intently/internal/bandit"
	"github.com/intently-app/intently/internal/config"
	"github.com/intently-app/intently/internal/engine"
	"github.com/intently-app/intently/internal/logging"
	"github.com/intently-app/intently/internal/store"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "intently",
		Short: "Intently - just-in-time intervention decision engine",
		Long: `intently decides when and how to interrupt compulsive app usage.

It classifies usage patterns into personas, scores how receptive the
current moment is, tracks intervention fatigue, and picks intervention
content, recording a full explanation for every decision.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (default ~/.intently)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newEvaluateCmd(),
		newRecordCmd(),
		newStatsCmd(),
		newExplainCmd(),
		newSimulateCmd(),
		newCleanupCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads configuration and applies the --data-dir flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openEngine opens the store and builds an engine from config. The
// caller must Close the returned store.
func openEngine(cmd *cobra.Command) (*engine.Engine, store.Store, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	s, err := store.NewSQLiteStore(cfg.DataDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening store: %w", err)
	}

	logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)
	decLog := logging.NewDecisionLogger(cfg.DataDir, cfg.Logging.Level)

	engCfg := engine.Config{
		BaseCooldown: cfg.Engine.BaseCooldown,
		DailyCap:     cfg.Engine.DailyCap,
		Bandit: bandit.Config{
			PriorAlpha:  1.0,
			PriorBeta:   1.0,
			Exploration: cfg.Learning.Exploration,
			MinPulls:    cfg.Learning.MinPulls,
		},
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	eng := engine.New(engCfg, s, rng, logger, decLog)

	if err := eng.RestoreLearner(cmd.Context()); err != nil {
		logger.Warn("could not restore learner state", "error", err)
	}

	return eng, s, cfg, nil
}
