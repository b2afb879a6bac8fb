package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning is the operator-facing knob file. Zero values fall back to the
// engine defaults, so a partial tuning.yaml is fine.
type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz  int     `yaml:"tick_rate_hz"`
	ArenaRadius float64 `yaml:"arena_radius"`
	BaseSpeed   float64 `yaml:"base_speed"`

	CountdownMs   float64 `yaml:"countdown_ms"`
	MaxDurationMs float64 `yaml:"max_duration_ms"`

	Economy Economy `yaml:"economy"`

	Reasoning Reasoning `yaml:"reasoning"`
}

type Economy struct {
	StartingTokens  int     `yaml:"starting_tokens"`
	KillBounty      int     `yaml:"kill_bounty"`
	MaintenanceCost int     `yaml:"maintenance_cost"`
	PeriodMs        float64 `yaml:"period_ms"`
}

type Reasoning struct {
	Endpoint  string  `yaml:"endpoint"`
	EveryMs   float64 `yaml:"every_ms"`
	TimeoutMs int     `yaml:"timeout_ms"`
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func Defaults() Tuning {
	return Tuning{
		TickRateHz:    30,
		ArenaRadius:   17.5,
		BaseSpeed:     5.0,
		CountdownMs:   3000,
		MaxDurationMs: 180000,
		Economy: Economy{
			StartingTokens:  500,
			KillBounty:      100,
			MaintenanceCost: 5,
			PeriodMs:        10000,
		},
		Reasoning: Reasoning{
			EveryMs:   8000,
			TimeoutMs: 3000,
		},
	}
}
