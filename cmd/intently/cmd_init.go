package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/intently-app/intently/internal/config"
	"github.com/intently-app/intently/internal/store"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the data directory and database",
		Long: `Initialize the intently data directory.

This creates the data directory (default ~/.intently), the SQLite
database, and a config.yaml with defaults if one does not exist.

Examples:
  intently init
  intently init --data-dir /tmp/intently`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")

			s, err := store.NewSQLiteStore(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("initializing store: %w", err)
			}
			defer s.Close()

			configPath := filepath.Join(cfg.DataDir, "config.yaml")
			created := false
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				data, err := yaml.Marshal(config.Default())
				if err != nil {
					return fmt.Errorf("marshaling default config: %w", err)
				}
				if err := os.WriteFile(configPath, data, 0600); err != nil {
					return fmt.Errorf("writing config: %w", err)
				}
				created = true
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"data_dir":       cfg.DataDir,
					"config_created": created,
				})
			}
			fmt.Printf("Initialized %s\n", cfg.DataDir)
			if created {
				fmt.Printf("Wrote default config to %s\n", configPath)
			}
			return nil
		},
	}
}
