package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/intently-app/intently/internal/models"
	"github.com/intently-app/intently/internal/store"
)

func newExplainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain [decision-id]",
		Short: "Show decision explanations",
		Long: `Show why a decision went the way it did.

With an ID, prints that decision's full explanation. Without one,
lists recent decisions.

Examples:
  intently explain
  intently explain --limit 20
  intently explain 3f2a...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			s, err := store.NewSQLiteStore(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer s.Close()

			if len(args) == 1 {
				exp, err := s.GetExplanation(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return json.NewEncoder(os.Stdout).Encode(exp)
				}
				printExplanation(*exp)
				return nil
			}

			exps, err := s.RecentExplanations(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(exps)
			}
			for _, exp := range exps {
				fmt.Printf("%s  %s  %-4s  %-28s %s\n",
					exp.EvaluatedAt.Format("2006-01-02 15:04"),
					exp.ID[:8], exp.Decision, exp.Reason, exp.AppPackage)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "How many recent decisions to list")
	return cmd
}

func printExplanation(exp models.DecisionExplanation) {
	fmt.Printf("%s %s at %s\n", exp.Decision, exp.AppPackage, exp.EvaluatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  reason:  %s\n", exp.Reason)
	if exp.Short != "" {
		fmt.Printf("  summary: %s\n", exp.Short)
	}
	fmt.Printf("  persona: %s (%s)\n", exp.Persona, exp.Confidence)
	fmt.Printf("  burden:  %d (%s)\n", exp.BurdenScore, exp.BurdenLevel)

	printGate := func(name string, v *bool) {
		if v == nil {
			fmt.Printf("  %s: not evaluated\n", name)
			return
		}
		fmt.Printf("  %s: %t\n", name, *v)
	}
	printGate("rate limit ", exp.RateLimitPassed)
	printGate("frequency  ", exp.FrequencyPassed)
	printGate("burden gate", exp.BurdenGatePassed)

	if exp.FactorBreakdown != nil {
		fmt.Printf("  opportunity: %d (%s)\n", exp.OpportunityScore, exp.OpportunityLevel)
		for factor, pts := range exp.FactorBreakdown {
			fmt.Printf("    %-22s %d\n", factor, pts)
		}
	}
	if exp.ChosenContent != "" {
		fmt.Printf("  content: %s via %s\n", exp.ChosenContent, exp.SelectionReason)
	}
	if exp.Long != "" {
		fmt.Printf("  detail:  %s\n", exp.Long)
	}
}
