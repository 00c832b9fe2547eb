package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/intently-app/intently/internal/models"
)

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run one intervention decision for an app-open or timer event",
		Long: `Evaluate whether to show an intervention right now.

Context flags default from the current clock; pass them explicitly to
replay a specific moment.

Examples:
  intently evaluate --app com.instagram.android --quick-reopen
  intently evaluate --app com.tiktok.android --timer --session-minutes 25`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _ := cmd.Flags().GetString("app")
			if app == "" {
				return fmt.Errorf("--app is required")
			}
			jsonOut, _ := cmd.Flags().GetBool("json")

			eng, s, _, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			sc := contextFromFlags(cmd, app)
			itype := models.InterventionReminder
			if timer, _ := cmd.Flags().GetBool("timer"); timer {
				itype = models.InterventionTimer
			}

			exp, err := eng.Evaluate(cmd.Context(), sc, itype)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(exp)
			}
			fmt.Printf("%s: %s\n", exp.Decision, exp.Short)
			if exp.Decision == models.DecisionShow {
				fmt.Printf("  id:      %s\n", exp.ID)
				fmt.Printf("  content: %s (%s)\n", exp.ChosenContent, exp.SelectionReason)
			}
			return nil
		},
	}

	cmd.Flags().String("app", "", "App package name (required)")
	cmd.Flags().Bool("timer", false, "Timer event instead of app open")
	cmd.Flags().Int("hour", -1, "Hour of day 0-23 (default: now)")
	cmd.Flags().Bool("weekend", false, "Weekend flag (default: derived from clock)")
	cmd.Flags().Bool("quick-reopen", false, "App was reopened shortly after closing")
	cmd.Flags().Duration("reopen-delay", 0, "Time since the app was closed")
	cmd.Flags().Int("session-count", 0, "Opens of this app today")
	cmd.Flags().Float64("session-minutes", 0, "Minutes the current session has run")
	cmd.Flags().Int("streak", 0, "Current goal-met streak in days")

	return cmd
}

// contextFromFlags builds a session context, deriving clock-dependent
// fields from the current time when not given.
func contextFromFlags(cmd *cobra.Command, app string) models.SessionContext {
	now := time.Now()

	hour, _ := cmd.Flags().GetInt("hour")
	if hour < 0 || hour > 23 {
		hour = now.Hour()
	}
	weekend, _ := cmd.Flags().GetBool("weekend")
	if !cmd.Flags().Changed("weekend") {
		wd := now.Weekday()
		weekend = wd == time.Saturday || wd == time.Sunday
	}

	quickReopen, _ := cmd.Flags().GetBool("quick-reopen")
	reopenDelay, _ := cmd.Flags().GetDuration("reopen-delay")
	sessionCount, _ := cmd.Flags().GetInt("session-count")
	sessionMinutes, _ := cmd.Flags().GetFloat64("session-minutes")
	streak, _ := cmd.Flags().GetInt("streak")

	return models.SessionContext{
		AppPackage:        app,
		Timestamp:         now,
		HourOfDay:         hour,
		IsWeekend:         weekend,
		IsLateNight:       hour >= 23 || hour < 5,
		SessionCountToday: sessionCount,
		SessionMinutes:    sessionMinutes,
		QuickReopen:       quickReopen,
		ReopenDelay:       reopenDelay,
		CurrentStreak:     streak,
	}
}
