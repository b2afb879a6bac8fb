// Command simulate runs a headless all-AI match to completion at a fixed
// timestep and prints the result. With -out it records a replay that the
// replay tool can verify bit-for-bit.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"tokenarena.gg/internal/persistence/replay"
	"tokenarena.gg/internal/protocol"
	"tokenarena.gg/internal/sim/arena"
	"tokenarena.gg/internal/sim/tuning"
)

func main() {
	var (
		tuningPath = flag.String("tuning", "./configs/tuning.yaml", "path to tuning.yaml")
		seed       = flag.Int64("seed", 1, "match seed")
		out        = flag.String("out", "", "optional replay output path (.jsonl.zst)")
		verbose    = flag.Bool("v", false, "print events as they happen")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[simulate] ", log.LstdFlags)

	tune, err := tuning.Load(*tuningPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		tune = tuning.Defaults()
	}

	cfg := arena.MatchConfig{
		ID:              uuid.NewString(),
		Seed:            *seed,
		ArenaRadius:     tune.ArenaRadius,
		BaseSpeed:       tune.BaseSpeed,
		TickRateHz:      tune.TickRateHz,
		CountdownMs:     tune.CountdownMs,
		MaxDurationMs:   tune.MaxDurationMs,
		StartingTokens:  tune.Economy.StartingTokens,
		KillBounty:      tune.Economy.KillBounty,
		MaintenanceCost: tune.Economy.MaintenanceCost,
		EconomyPeriodMs: tune.Economy.PeriodMs,
	}
	roster := arena.DefaultRoster()

	m, err := arena.NewMatch(cfg, roster)
	if err != nil {
		logger.Fatalf("new match: %v", err)
	}

	if *out != "" {
		rec, err := replay.NewWriter(*out, replay.Header{
			MatchID:   m.ID(),
			Seed:      *seed,
			Config:    m.Config(),
			Roster:    replay.RosterFromSpecs(roster),
			StartedAt: time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			logger.Fatalf("open replay: %v", err)
		}
		defer rec.Close()
		m.SetRecorder(rec)
	}

	dtMs := 1000.0 / float64(m.Config().TickRateHz)
	// Countdown plus the duration ceiling, with slack for the final tick.
	maxTicks := int((m.Config().CountdownMs+m.Config().MaxDurationMs)/dtMs) + 64

	start := time.Now()
	m.Begin()
	ticks := 0
	for ; ticks < maxTicks; ticks++ {
		events := m.Tick(dtMs)
		if *verbose {
			for _, e := range events {
				fmt.Printf("%8.0fms  %s\n", m.ClockMs(), formatEvent(e))
			}
		}
		if p := m.Phase(); p == arena.PhaseVictory || p == arena.PhaseDefeat {
			break
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("match %s  seed=%d  phase=%s  sim=%.0fms  ticks=%d  wall=%s\n",
		m.ID(), m.Seed(), m.Phase(), m.ClockMs(), ticks, elapsed.Round(time.Millisecond))
	fmt.Printf("%-10s %-10s %6s %6s %7s %6s\n", "NAME", "ARCHETYPE", "KILLS", "DEATHS", "TOKENS", "ALIVE")
	for _, id := range m.AgentIDs() {
		a := m.Agent(id)
		fmt.Printf("%-10s %-10s %6d %6d %7d %6v\n",
			a.Name, a.Archetype, a.Kills, a.Deaths, a.Tokens, a.Alive)
	}
}

func formatEvent(e protocol.Event) string {
	switch e.Type() {
	case protocol.EventKill:
		return fmt.Sprintf("KILL %v -> %v (%v)", e["killer"], e["victim"], e["weapon"])
	case protocol.EventHit:
		return fmt.Sprintf("HIT %v -> %v %v dmg", e["by"], e["agent"], e["damage"])
	case protocol.EventWeaponSwitch:
		return fmt.Sprintf("SWITCH %v %v -> %v", e["agent"], e["from"], e["to"])
	case protocol.EventBankrupt:
		return fmt.Sprintf("BANKRUPT %v", e["agent"])
	case protocol.EventPhase:
		return fmt.Sprintf("PHASE %v", e["phase"])
	case protocol.EventMatchEnd:
		return fmt.Sprintf("END %v winner=%v", e["result"], e["winner"])
	default:
		return string(e.Type())
	}
}
