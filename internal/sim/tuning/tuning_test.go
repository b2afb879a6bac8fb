package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	raw := []byte(`
protocol_version: "1.0"
tick_rate_hz: 20
arena_radius: 12.0
economy:
  starting_tokens: 750
  kill_bounty: 150
reasoning:
  endpoint: "http://localhost:9090/explain"
  every_ms: 5000
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tn, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tn.TickRateHz != 20 || tn.ArenaRadius != 12.0 {
		t.Fatalf("core knobs mismatch: %+v", tn)
	}
	if tn.Economy.StartingTokens != 750 || tn.Economy.KillBounty != 150 {
		t.Fatalf("economy knobs mismatch: %+v", tn.Economy)
	}
	if tn.Reasoning.Endpoint != "http://localhost:9090/explain" || tn.Reasoning.EveryMs != 5000 {
		t.Fatalf("reasoning knobs mismatch: %+v", tn.Reasoning)
	}
	// Omitted keys stay zero; the match config applies its own defaults.
	if tn.BaseSpeed != 0 || tn.Economy.PeriodMs != 0 {
		t.Fatalf("omitted keys should stay zero: %+v", tn)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("tick_rate_hz: [broken"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDefaultsAreComplete(t *testing.T) {
	d := Defaults()
	if d.TickRateHz <= 0 || d.ArenaRadius <= 0 || d.BaseSpeed <= 0 {
		t.Fatalf("incomplete defaults: %+v", d)
	}
	if d.Economy.StartingTokens <= 0 || d.Economy.PeriodMs <= 0 {
		t.Fatalf("incomplete economy defaults: %+v", d.Economy)
	}
}
