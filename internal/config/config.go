// Package config provides unified configuration loading for intently.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all engine configuration settings.
type Config struct {
	// DataDir is where the database and decision log live.
	// Defaults to ~/.intently.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Engine contains decision pacing settings.
	Engine EngineConfig `json:"engine" yaml:"engine"`

	// Learning contains bandit learner settings.
	Learning LearningConfig `json:"learning" yaml:"learning"`

	// Retention controls how long outcome history is kept.
	Retention RetentionConfig `json:"retention" yaml:"retention"`

	// Logging contains settings for operational and decision logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// EngineConfig configures intervention pacing.
type EngineConfig struct {
	// BaseCooldown is the minimum gap between interventions for one app
	// before persona and burden multipliers apply.
	BaseCooldown time.Duration `json:"base_cooldown" yaml:"base_cooldown"`

	// DailyCap bounds total interventions across all apps per 24 hours.
	// Zero disables the cap.
	DailyCap int `json:"daily_cap" yaml:"daily_cap"`
}

// LearningConfig configures the content-type bandit.
type LearningConfig struct {
	// Exploration is the blend fraction given to learned posteriors over
	// persona base weights. Range 0.0 to 1.0.
	Exploration float64 `json:"exploration" yaml:"exploration"`

	// MinPulls is how many recorded outcomes are needed before learning
	// influences content selection.
	MinPulls int `json:"min_pulls" yaml:"min_pulls"`
}

// RetentionConfig configures history cleanup.
type RetentionConfig struct {
	// Days is how long results, sessions, and explanations are kept.
	Days int `json:"days" yaml:"days"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables decision logging to <data_dir>/decisions.jsonl.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			BaseCooldown: time.Hour,
			DailyCap:     12,
		},
		Learning: LearningConfig{
			Exploration: 0.3,
			MinPulls:    10,
		},
		Retention: RetentionConfig{
			Days: 90,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default locations and environment
// variables. Order: defaults -> ~/.intently/config.yaml -> environment.
func Load() (*Config, error) {
	cfg := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".intently", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			cfg = fileConfig
		}
	}

	applyEnvOverrides(cfg)

	if cfg.DataDir == "" && homeDir != "" {
		cfg.DataDir = filepath.Join(homeDir, ".intently")
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Engine.BaseCooldown < 0 {
		return fmt.Errorf("base_cooldown must be non-negative, got %v", c.Engine.BaseCooldown)
	}
	if c.Engine.DailyCap < 0 {
		return fmt.Errorf("daily_cap must be non-negative, got %d", c.Engine.DailyCap)
	}
	if c.Learning.Exploration < 0 || c.Learning.Exploration > 1 {
		return fmt.Errorf("exploration must be between 0 and 1, got %f", c.Learning.Exploration)
	}
	if c.Learning.MinPulls < 0 {
		return fmt.Errorf("min_pulls must be non-negative, got %d", c.Learning.MinPulls)
	}
	if c.Retention.Days < 1 {
		return fmt.Errorf("retention days must be at least 1, got %d", c.Retention.Days)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies INTENTLY_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("INTENTLY_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("INTENTLY_BASE_COOLDOWN"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Engine.BaseCooldown = d
		}
	}
	if v := os.Getenv("INTENTLY_DAILY_CAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.DailyCap = n
		}
	}
	if v := os.Getenv("INTENTLY_EXPLORATION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Learning.Exploration = f
		}
	}
	if v := os.Getenv("INTENTLY_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Retention.Days = n
		}
	}
	if v := os.Getenv("INTENTLY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
