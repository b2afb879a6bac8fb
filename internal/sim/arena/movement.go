package arena

import "math"

// Movement constants. Speeds are multiples of the configured base speed,
// distances are world units, timers are milliseconds.
const (
	turnRateRadPerSec = 4.0

	evadeScanRadius = 8.0
	dodgeDurationMs = 300
	dodgeSpeedMul   = 2.0

	retreatRadius   = 8.0
	retreatSpeedMul = 1.2

	advanceSlack = 2.0
	backoffSlack = 3.0
	backoffMul   = 0.6

	strafeTimerMinMs = 800
	strafeTimerMaxMs = 2800

	repulsionRadius = 2.0
	repulsionGain   = 3.0
)

// planMovement computes the agent's next position and heading. Exactly one of
// evasion, retreat, range management, or strafing applies per tick; pairwise
// repulsion and the arena boundary clamp always apply.
func (m *Match) planMovement(a *Agent, target *Agent, cs *CombatState, dtMs float64) (Vec3, float64) {
	dt := dtMs / 1000
	speed := m.cfg.BaseSpeed
	pos := a.Pos

	toTarget := target.Pos.Sub(a.Pos)
	dist := toTarget.LenXZ()

	// Heading turns toward the target bearing at a bounded rate.
	heading := a.Heading
	if dist > 1e-6 {
		want := math.Atan2(toTarget.Z, toTarget.X)
		diff := wrapAngle(want - heading)
		maxTurn := turnRateRadPerSec * dt
		if diff > maxTurn {
			diff = maxTurn
		} else if diff < -maxTurn {
			diff = -maxTurn
		}
		heading = wrapAngle(heading + diff)
	}

	switch {
	case cs.DodgeTimerMs > 0:
		pos = pos.Add(cs.DodgeDir.Scale(speed * dodgeSpeedMul * dt))

	case m.tryStartDodge(a, cs):
		cs.DodgeTimerMs = dodgeDurationMs
		pos = pos.Add(cs.DodgeDir.Scale(speed * dodgeSpeedMul * dt))

	case a.HealthFrac() < cs.Traits.RetreatHealthFrac && dist < retreatRadius:
		away := a.Pos.Sub(target.Pos)
		away.Y = 0
		pos = pos.Add(away.Normalized().Scale(speed * retreatSpeedMul * dt))

	case dist > cs.Traits.EngageRange+advanceSlack:
		fwd := toTarget
		fwd.Y = 0
		pos = pos.Add(fwd.Normalized().Scale(speed * dt))

	case dist < cs.Traits.EngageRange-backoffSlack:
		back := a.Pos.Sub(target.Pos)
		back.Y = 0
		pos = pos.Add(back.Normalized().Scale(speed * backoffMul * dt))

	default:
		if cs.StrafeTimerMs <= 0 {
			cs.StrafeDir = -cs.StrafeDir
			cs.StrafeTimerMs = strafeTimerMinMs + m.rng.Float64()*(strafeTimerMaxMs-strafeTimerMinMs)
		}
		if m.rng.Float64() < cs.Traits.StrafeFreq {
			lateral := toTarget.PerpXZ().Scale(cs.StrafeDir * speed * dt)
			pos = pos.Add(lateral)
		}
	}

	// Pairwise repulsion keeps agents from stacking.
	for _, id := range m.order {
		o := m.agents[id]
		if o == a || !o.Alive {
			continue
		}
		d := pos.DistXZ(o.Pos)
		if d >= repulsionRadius || d < 1e-6 {
			continue
		}
		push := pos.Sub(o.Pos)
		push.Y = 0
		pos = pos.Add(push.Normalized().Scale((repulsionRadius - d) * repulsionGain * dt))
	}

	pos = m.clampToArena(pos)
	return pos, heading
}

// tryStartDodge checks for an inbound hostile projectile and, with
// probability equal to the agent's evasiveness, primes a perpendicular dodge.
func (m *Match) tryStartDodge(a *Agent, cs *CombatState) bool {
	for _, p := range m.projectiles {
		if p.Owner == a.ID {
			continue
		}
		if p.Pos.Dist(a.Pos) > evadeScanRadius {
			continue
		}
		// Inbound check: the projectile is moving toward us.
		if p.Vel.Dot(a.Pos.Sub(p.Pos)) <= 0 {
			continue
		}
		if m.rng.Float64() >= cs.Traits.Evasiveness {
			return false
		}
		side := cs.StrafeDir
		if m.rng.Float64() < 0.5 {
			side = -side
		}
		cs.DodgeDir = p.Vel.PerpXZ().Scale(side)
		return cs.DodgeDir.LenXZ() > 0
	}
	return false
}

// clampToArena keeps a position inside the circular boundary.
func (m *Match) clampToArena(p Vec3) Vec3 {
	r := p.LenXZ()
	if r <= m.cfg.ArenaRadius || r < 1e-9 {
		return p
	}
	s := m.cfg.ArenaRadius / r
	p.X *= s
	p.Z *= s
	return p
}
