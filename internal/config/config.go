package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// #region config

// Config holds the pipeline's runtime configuration.
type Config struct {
	LedgerPath          string   `yaml:"ledger_path"`
	RegistryPath        string   `yaml:"registry_path"`
	RegistryOpTimeoutMS int      `yaml:"registry_op_timeout_ms"`
	MaxPatternWindow    int      `yaml:"max_pattern_window"`
	MaxFeedbackWindow   int      `yaml:"max_feedback_window"`

	// Validator policy overrides. Empty slices keep the shipped defaults
	// (DestructivePatterns) or the shipped-empty deny lists.
	DestructivePatterns []string `yaml:"destructive_patterns"`
	HighRiskAffinities  []string `yaml:"high_risk_affinities"`
	HighRiskKeys        []string `yaml:"high_risk_keys"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config file, applies defaults, and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LedgerPath == "" {
		c.LedgerPath = "decision_safety.db"
	}
	if c.RegistryPath == "" {
		c.RegistryPath = "quarantine_registry"
	}
	if c.RegistryOpTimeoutMS == 0 {
		c.RegistryOpTimeoutMS = 5000
	}
	if c.MaxPatternWindow == 0 {
		c.MaxPatternWindow = 50
	}
	if c.MaxFeedbackWindow == 0 {
		c.MaxFeedbackWindow = 100
	}
}

func (c *Config) validate() error {
	var problems []string

	if c.RegistryOpTimeoutMS < 0 {
		problems = append(problems, "registry_op_timeout_ms must not be negative")
	}
	if c.MaxPatternWindow < 0 {
		problems = append(problems, "max_pattern_window must not be negative")
	}
	if c.MaxFeedbackWindow < 0 {
		problems = append(problems, "max_feedback_window must not be negative")
	}
	for _, p := range c.DestructivePatterns {
		if strings.TrimSpace(p) == "" {
			problems = append(problems, "destructive_patterns must not contain blank entries")
			break
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// #endregion config
