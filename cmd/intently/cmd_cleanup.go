package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/intently-app/intently/internal/store"
)

func newCleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete records older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			days, _ := cmd.Flags().GetInt("days")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if days <= 0 {
				days = cfg.Retention.Days
			}

			s, err := store.NewSQLiteStore(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer s.Close()

			cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
			removed, err := s.Cleanup(cmd.Context(), cutoff)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"removed": removed,
					"cutoff":  cutoff,
				})
			}
			fmt.Printf("Removed %d records older than %d days\n", removed, days)
			return nil
		},
	}

	cmd.Flags().Int("days", 0, "Retention window in days (default: config)")
	return cmd
}
