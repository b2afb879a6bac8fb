package arena

import "tokenarena.gg/internal/protocol"

// StrategySummary is the agent/context digest handed to the reasoning
// service. It carries only what a strategy line needs; nothing in it feeds
// back into gameplay.
type StrategySummary struct {
	MatchID    string  `json:"match_id"`
	AgentID    string  `json:"agent_id"`
	Name       string  `json:"name"`
	Model      string  `json:"model,omitempty"`
	Archetype  string  `json:"archetype"`
	ClockMs    float64 `json:"clock_ms"`
	Health     int     `json:"health"`
	MaxHealth  int     `json:"max_health"`
	Tokens     int     `json:"tokens"`
	Weapon     string  `json:"weapon"`
	Kills      int     `json:"kills"`
	TargetID   string  `json:"target_id,omitempty"`
	Retreating bool    `json:"retreating"`
	AliveFoes  int     `json:"alive_foes"`
}

// StrategySummaryFor snapshots one agent's situation for the reasoning
// service. Returns false for unknown or dead agents.
func (m *Match) StrategySummaryFor(agentID string) (StrategySummary, bool) {
	a := m.agents[agentID]
	if a == nil || !a.Alive {
		return StrategySummary{}, false
	}
	s := StrategySummary{
		MatchID:   m.cfg.ID,
		AgentID:   a.ID,
		Name:      a.Name,
		Model:     a.Model,
		Archetype: string(a.Archetype),
		ClockMs:   m.clockMs,
		Health:    a.Health,
		MaxHealth: a.MaxHealth,
		Tokens:    a.Tokens,
		Weapon:    string(a.Weapon),
		Kills:     a.Kills,
		AliveFoes: len(m.aliveOpponents(a)),
	}
	if cs := m.states.Peek(a.ID); cs != nil {
		s.TargetID = cs.TargetID
		s.Retreating = a.HealthFrac() < cs.Traits.RetreatHealthFrac
	}
	return s, true
}

// SetRationale folds a reasoning result back in on a later tick. The text is
// a log line only; it never affects gameplay.
func (m *Match) SetRationale(agentID, text string) {
	if _, ok := m.agents[agentID]; !ok || text == "" {
		return
	}
	m.rationale[agentID] = text
	m.emit(protocol.Event{
		"t":     m.clockMs,
		"type":  protocol.EventReasoning,
		"agent": agentID,
		"text":  text,
	})
}

// Rationale returns the last strategy line recorded for an agent.
func (m *Match) Rationale(agentID string) string { return m.rationale[agentID] }
