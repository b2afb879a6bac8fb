package arena

import "math"

const (
	targetScanRadius = 20.0
	revengeRadius    = 15.0

	// How long a freshly selected target is retained without re-evaluation.
	targetLockDurationMs = 2000
)

// selectTarget picks a combat target for the acting agent, or nil when there
// is no candidate at all. Candidates must be alive and exclude the actor.
//
// Priority: sticky lock, then revenge against the last attacker, then scored
// selection over candidates inside the scan radius.
func (m *Match) selectTarget(a *Agent, cs *CombatState, candidates []*Agent) *Agent {
	if len(candidates) == 0 {
		return nil
	}

	// Sticky lock: keep the current target while it lives and the lock holds.
	if cs.TargetID != "" && cs.TargetLockMs > 0 {
		if t := m.agents[cs.TargetID]; t != nil && t.Alive && t.ID != a.ID {
			return t
		}
	}

	// Revenge override: prefer whoever hit us last, if close enough.
	if cs.LastAttacker != "" && cs.LastAttacker != a.ID {
		if t := m.agents[cs.LastAttacker]; t != nil && t.Alive && a.Pos.Dist(t.Pos) <= revengeRadius {
			m.lockTarget(cs, t)
			return t
		}
	}

	var best *Agent
	bestScore := math.Inf(-1)
	for _, c := range candidates {
		dist := a.Pos.Dist(c.Pos)
		if dist > targetScanRadius {
			continue
		}
		score := m.targetScore(cs, c, dist)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}

	if best == nil {
		// Known quirk kept from the original behavior: with nothing inside
		// the scan radius, fall back to the first candidate in iteration
		// order rather than the nearest.
		best = candidates[0]
	}

	m.lockTarget(cs, best)
	return best
}

func (m *Match) lockTarget(cs *CombatState, t *Agent) {
	if cs.TargetID != t.ID {
		cs.TargetID = t.ID
		cs.TargetLockMs = targetLockDurationMs
	}
}

func (m *Match) targetScore(cs *CombatState, c *Agent, dist float64) float64 {
	var score float64
	switch cs.Traits.Priority {
	case PriorityNearest:
		score = targetScanRadius - dist
	case PriorityWeakest:
		score = (1 - c.HealthFrac()) * 20
		if c.Health < 25 {
			score += 15
		}
	case PriorityStrongest:
		score = c.HealthFrac()*10 + float64(c.Kills)*3
	case PriorityRichest:
		score = float64(c.Tokens) / 50
	}

	score -= math.Abs(dist-cs.Traits.EngageRange) * 0.5

	// Universal finishing pull.
	if c.HealthFrac() < 0.2 {
		score += 10
	}
	return score
}
