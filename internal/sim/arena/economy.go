package arena

import "tokenarena.gg/internal/protocol"

// economyTick runs on the fixed economy period. Agents carrying a sustained
// reasoning-memory footprint pay maintenance when they can afford it; any
// agent at or below zero tokens is flagged bankrupt exactly once and stops
// taking part in combat.
func (m *Match) economyTick() {
	for _, id := range m.order {
		a := m.agents[id]
		if !a.Alive {
			continue
		}

		if a.MemoryKB > 0 {
			units := (a.MemoryKB + memoryUnitKB - 1) / memoryUnitKB
			cost := units * m.cfg.MaintenanceCost
			if a.Tokens >= cost {
				a.Tokens -= cost
			}
		}

		if a.Tokens <= 0 && !a.Bankrupt {
			a.Bankrupt = true
			m.emit(protocol.Event{
				"t":      m.clockMs,
				"type":   protocol.EventBankrupt,
				"agent":  a.ID,
				"tokens": a.Tokens,
			})
		}
	}
}

const memoryUnitKB = 128
