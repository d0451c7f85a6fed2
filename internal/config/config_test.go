package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.LedgerPath != "decision_safety.db" {
		t.Fatalf("unexpected ledger path %q", cfg.LedgerPath)
	}
	if cfg.RegistryPath != "quarantine_registry" {
		t.Fatalf("unexpected registry path %q", cfg.RegistryPath)
	}
	if cfg.RegistryOpTimeoutMS != 5000 {
		t.Fatalf("unexpected timeout %d", cfg.RegistryOpTimeoutMS)
	}
	if cfg.MaxPatternWindow != 50 || cfg.MaxFeedbackWindow != 100 {
		t.Fatalf("unexpected windows: %d, %d", cfg.MaxPatternWindow, cfg.MaxFeedbackWindow)
	}
	if len(cfg.DestructivePatterns) != 0 || len(cfg.HighRiskAffinities) != 0 || len(cfg.HighRiskKeys) != 0 {
		t.Fatal("policy overrides must default empty")
	}
}

func TestLoadAppliesDefaultsForMissingFields(t *testing.T) {
	path := writeConfig(t, "ledger_path: /tmp/custom.db\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LedgerPath != "/tmp/custom.db" {
		t.Fatalf("explicit field lost: %q", cfg.LedgerPath)
	}
	if cfg.RegistryPath != "quarantine_registry" || cfg.MaxPatternWindow != 50 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
ledger_path: ledger.db
registry_path: registry
registry_op_timeout_ms: 2500
max_pattern_window: 10
max_feedback_window: 20
destructive_patterns:
  - "rm -rf"
  - "drop table"
high_risk_affinities:
  - scorpio
high_risk_keys:
  - "f#"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RegistryOpTimeoutMS != 2500 || cfg.MaxPatternWindow != 10 || cfg.MaxFeedbackWindow != 20 {
		t.Fatalf("numeric fields off: %+v", cfg)
	}
	if len(cfg.DestructivePatterns) != 2 || len(cfg.HighRiskAffinities) != 1 || len(cfg.HighRiskKeys) != 1 {
		t.Fatalf("list fields off: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "ledger_path: [unclosed\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadRejectsNegativeValues(t *testing.T) {
	path := writeConfig(t, "registry_op_timeout_ms: -1\nmax_pattern_window: -5\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "registry_op_timeout_ms") || !strings.Contains(err.Error(), "max_pattern_window") {
		t.Fatalf("expected both problems reported, got %v", err)
	}
}

func TestLoadRejectsBlankDestructivePattern(t *testing.T) {
	path := writeConfig(t, "destructive_patterns:\n  - \"rm -rf\"\n  - \"  \"\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for a blank pattern")
	}
}
