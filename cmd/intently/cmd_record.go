package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/intently-app/intently/internal/models"
	"github.com/intently-app/intently/internal/store"
)

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record an intervention outcome or a usage session",
	}
	cmd.AddCommand(newRecordOutcomeCmd(), newRecordSessionCmd())
	return cmd
}

func newRecordOutcomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outcome <intervention-id>",
		Short: "Record the user's response to a shown intervention",
		Long: `Record how the user responded to an intervention.

Examples:
  intently record outcome 3f2a... --choice go_back --latency 3s
  intently record outcome 3f2a... --choice dismiss --feedback disruptive
  intently record outcome 3f2a... --choice go_back --final-minutes 3 --reopen-delay 10m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			choiceStr, _ := cmd.Flags().GetString("choice")
			choice, err := parseChoice(choiceStr)
			if err != nil {
				return err
			}
			feedbackStr, _ := cmd.Flags().GetString("feedback")
			feedback, err := parseFeedback(feedbackStr)
			if err != nil {
				return err
			}
			latency, _ := cmd.Flags().GetDuration("latency")
			snoozed, _ := cmd.Flags().GetBool("snoozed")
			snoozeDur, _ := cmd.Flags().GetDuration("snooze-duration")
			jsonOut, _ := cmd.Flags().GetBool("json")

			eng, s, _, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			outcome := store.ResultOutcome{
				Choice:          choice,
				DecisionLatency: latency,
				Feedback:        feedback,
				Snoozed:         snoozed,
				SnoozeDuration:  snoozeDur,
			}
			// Post-hoc signals stay nil unless their flag was given, so an
			// unobserved window never reads as a zero observation.
			if cmd.Flags().Changed("continued") {
				v, _ := cmd.Flags().GetBool("continued")
				outcome.SessionContinued = &v
			}
			if cmd.Flags().Changed("final-minutes") {
				v, _ := cmd.Flags().GetFloat64("final-minutes")
				outcome.FinalSessionMinutes = &v
			}
			if cmd.Flags().Changed("reopened-quickly") {
				v, _ := cmd.Flags().GetBool("reopened-quickly")
				outcome.ReopenedQuickly = &v
			}
			if cmd.Flags().Changed("reopen-delay") {
				v, _ := cmd.Flags().GetDuration("reopen-delay")
				outcome.ReopenDelay = &v
			}
			if err := eng.RecordOutcome(cmd.Context(), args[0], outcome); err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]string{
					"id": args[0], "choice": string(choice),
				})
			}
			fmt.Printf("Recorded %s for %s\n", choice, args[0])
			return nil
		},
	}

	cmd.Flags().String("choice", "", "User choice: go_back, continue, dismiss, timeout (required)")
	cmd.Flags().String("feedback", "", "Explicit feedback: helpful, disruptive")
	cmd.Flags().Duration("latency", 0, "Time from show to response")
	cmd.Flags().Bool("snoozed", false, "Intervention was snoozed")
	cmd.Flags().Duration("snooze-duration", 0, "How long it was snoozed")
	cmd.Flags().Bool("continued", false, "User kept using the app after the intervention")
	cmd.Flags().Float64("final-minutes", 0, "Session length after the intervention, in minutes")
	cmd.Flags().Bool("reopened-quickly", false, "App was reopened shortly after the session ended")
	cmd.Flags().Duration("reopen-delay", 0, "Time away before the app was reopened")

	return cmd
}

func newRecordSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Record a completed usage session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _ := cmd.Flags().GetString("app")
			if app == "" {
				return fmt.Errorf("--app is required")
			}
			minutes, _ := cmd.Flags().GetFloat64("minutes")
			quickReopen, _ := cmd.Flags().GetBool("quick-reopen")
			jsonOut, _ := cmd.Flags().GetBool("json")

			eng, s, _, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			session := models.UsageSession{
				AppPackage:  app,
				StartedAt:   time.Now().Add(-time.Duration(minutes * float64(time.Minute))),
				Duration:    time.Duration(minutes * float64(time.Minute)),
				QuickReopen: quickReopen,
			}
			if err := eng.RecordSession(cmd.Context(), session); err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(session)
			}
			fmt.Printf("Recorded %.1f minute session of %s\n", minutes, app)
			return nil
		},
	}

	cmd.Flags().String("app", "", "App package name (required)")
	cmd.Flags().Float64("minutes", 0, "Session length in minutes")
	cmd.Flags().Bool("quick-reopen", false, "Session began shortly after the previous one ended")

	return cmd
}

func parseChoice(s string) (models.UserChoice, error) {
	switch models.UserChoice(s) {
	case models.ChoiceGoBack, models.ChoiceContinue, models.ChoiceDismiss, models.ChoiceTimeout:
		return models.UserChoice(s), nil
	default:
		return "", fmt.Errorf("invalid choice %q (valid: go_back, continue, dismiss, timeout)", s)
	}
}

func parseFeedback(s string) (models.Feedback, error) {
	switch models.Feedback(s) {
	case models.FeedbackHelpful, models.FeedbackDisruptive:
		return models.Feedback(s), nil
	case "", models.FeedbackNone:
		return models.FeedbackNone, nil
	default:
		return "", fmt.Errorf("invalid feedback %q (valid: helpful, disruptive)", s)
	}
}
