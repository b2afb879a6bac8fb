package arena

import "tokenarena.gg/internal/protocol"

const (
	hitRadius = 0.8

	// Agents are hit at chest height, not at their ground position.
	hitVerticalBias = 0.5
)

// resolveCollisions tests every surviving projectile against every living
// non-owner agent. A projectile resolves at most one hit per tick and is
// removed when it connects. Damage is armor-mitigated and floored at 1;
// health clamps at zero; lethal hits credit the shooter and emit exactly one
// kill event. The kill bounty is credited only when the killer is the human
// pilot (kept as-is from the original economy).
func (m *Match) resolveCollisions() {
	kept := m.projectiles[:0]
	for _, p := range m.projectiles {
		if m.tryHit(p) {
			continue
		}
		kept = append(kept, p)
	}
	m.projectiles = kept
}

func (m *Match) tryHit(p *Projectile) bool {
	for _, id := range m.order {
		a := m.agents[id]
		if a == nil || !a.Alive || a.ID == p.Owner {
			continue
		}
		center := a.Pos.Add(Vec3{Y: hitVerticalBias})
		if p.Pos.Dist(center) > hitRadius {
			continue
		}
		m.applyHit(p, a)
		return true
	}
	return false
}

func (m *Match) applyHit(p *Projectile, victim *Agent) {
	dmg := int(float64(p.Damage) * (1 - victim.Armor*0.01))
	if dmg < 1 {
		dmg = 1
	}
	victim.Health -= dmg
	if victim.Health < 0 {
		victim.Health = 0
	}

	m.states.RecordAttacker(victim, p.Owner)

	shooter := m.agents[p.Owner]
	if shooter != nil {
		shooter.Tokens += p.TokenValue
		s := m.states.For(shooter)
		s.ConsecHits++
		s.ConsecMisses = 0
	}

	m.emit(protocol.Event{
		"t":      m.clockMs,
		"type":   protocol.EventHit,
		"agent":  victim.ID,
		"by":     p.Owner,
		"weapon": string(p.Weapon),
		"damage": dmg,
		"health": victim.Health,
	})

	if victim.Health == 0 && victim.Alive {
		victim.Alive = false
		victim.Deaths++
		if shooter != nil {
			shooter.Kills++
			if shooter.Human {
				shooter.Tokens += m.cfg.KillBounty
			}
		}
		m.emit(protocol.Event{
			"t":      m.clockMs,
			"type":   protocol.EventKill,
			"victim": victim.ID,
			"killer": p.Owner,
			"weapon": string(p.Weapon),
		})
	}
}
