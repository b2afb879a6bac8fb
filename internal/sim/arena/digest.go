package arena

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// digestAgent is the canonical per-agent digest record. Field order is fixed
// by the struct so the serialization is stable across runs.
type digestAgent struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Heading  float64 `json:"heading"`
	Health   int     `json:"health"`
	Tokens   int     `json:"tokens"`
	Weapon   string  `json:"weapon"`
	Alive    bool    `json:"alive"`
	Bankrupt bool    `json:"bankrupt"`
	Kills    int     `json:"kills"`
	Deaths   int     `json:"deaths"`
}

type digestProjectile struct {
	ID    uint64  `json:"id"`
	Owner string  `json:"owner"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
}

type digestState struct {
	Phase       string             `json:"phase"`
	ClockMs     float64            `json:"clock_ms"`
	Agents      []digestAgent      `json:"agents"`
	Projectiles []digestProjectile `json:"projectiles"`
}

// StateDigest hashes the canonical match state. Two matches constructed with
// the same config, roster, and input stream produce identical digests tick
// for tick; replays re-simulate and compare against recorded digests.
func (m *Match) StateDigest() string {
	st := digestState{
		Phase:   string(m.phase),
		ClockMs: m.clockMs,
	}
	for _, id := range m.order {
		a := m.agents[id]
		st.Agents = append(st.Agents, digestAgent{
			ID: a.ID, X: a.Pos.X, Y: a.Pos.Y, Z: a.Pos.Z, Heading: a.Heading,
			Health: a.Health, Tokens: a.Tokens, Weapon: string(a.Weapon),
			Alive: a.Alive, Bankrupt: a.Bankrupt, Kills: a.Kills, Deaths: a.Deaths,
		})
	}
	for _, p := range m.projectiles {
		st.Projectiles = append(st.Projectiles, digestProjectile{
			ID: p.ID, Owner: p.Owner, X: p.Pos.X, Y: p.Pos.Y, Z: p.Pos.Z,
		})
	}
	b, err := json.Marshal(st)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
