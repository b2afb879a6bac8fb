package arena

import "tokenarena.gg/internal/protocol"

// Fire control constants.
const (
	fireRangeMin = 0.5
	fireRangeMax = 16.0

	weaponSwitchCooldownMs = 3000
	weaponSwitchChanceMul  = 0.02

	aimSpreadBase     = 0.10
	aimSpreadPerUnit  = 0.015
	aimSpreadWildness = 0.30
	aimVerticalDamp   = 0.3
)

// FireDecision is the fire controller's output: what to shoot at, with which
// weapon, and how far off the perfect solution the aim lands.
type FireDecision struct {
	Target    *Agent
	Weapon    WeaponType
	AimOffset Vec3
}

// fireControl decides whether the agent fires this tick. It may instead
// propose a weapon switch (no shot that tick); either way all gates must pass
// before a shot: affordability, range window, the personality-scaled
// stochastic gate, and the weapon's fire-rate cooldown.
func (m *Match) fireControl(a *Agent, target *Agent, dist float64, cs *CombatState) *FireDecision {
	best := m.chooseWeapon(a, target, dist, cs)
	if best != a.Weapon && cs.SwitchCooldownMs <= 0 {
		if m.rng.Float64() < cs.Traits.WeaponSwitchFreq*weaponSwitchChanceMul {
			prev := a.Weapon
			a.Weapon = best
			cs.SwitchCooldownMs = weaponSwitchCooldownMs
			m.emit(protocol.Event{
				"t":     m.clockMs,
				"type":  protocol.EventWeaponSwitch,
				"agent": a.ID,
				"from":  string(prev),
				"to":    string(best),
			})
			return nil
		}
	}

	w := m.weapons[a.Weapon]
	if a.Tokens < w.CostPerShot {
		return nil
	}
	if dist < fireRangeMin || dist > fireRangeMax {
		return nil
	}
	if m.rng.Float64() >= cs.Traits.Aggression {
		return nil
	}
	if m.clockMs-a.LastFireMs < w.FireRateMs {
		return nil
	}

	return &FireDecision{
		Target:    target,
		Weapon:    a.Weapon,
		AimOffset: m.aimOffset(target, dist, cs, w),
	}
}

// aimOffset combines a lead approximation with per-axis spread. The lead
// moves the aim point to where the target will be when the projectile
// arrives, scaled by the archetype's lead factor; the spread grows with
// distance and the archetype's wildness.
func (m *Match) aimOffset(target *Agent, dist float64, cs *CombatState, w Weapon) Vec3 {
	var off Vec3
	if w.ProjectileSpeed > 0 {
		flight := dist / w.ProjectileSpeed
		off = target.Vel.Scale(flight * cs.Traits.LeadFactor)
	}

	spread := aimSpreadBase + dist*aimSpreadPerUnit + cs.Traits.Wildness*aimSpreadWildness
	off.X += (m.rng.Float64()*2 - 1) * spread
	off.Y += (m.rng.Float64()*2 - 1) * spread * aimVerticalDamp
	off.Z += (m.rng.Float64()*2 - 1) * spread
	return off
}
