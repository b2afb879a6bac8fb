package arena

// Weapon arbitration constants.
const (
	// A weapon is only considered if the agent can fire it at least this
	// many times with its current balance.
	minAffordableShots = 3

	finishingHealth = 30
	finishingBonus  = 8.0

	lowBalance         = 50
	efficiencyBaseline = 25.0
	efficiencyWeight   = 0.3
)

// chooseWeapon returns the best weapon for the current range and situation.
// While the switch cooldown is active the current weapon is returned
// unchanged.
func (m *Match) chooseWeapon(a *Agent, target *Agent, dist float64, cs *CombatState) WeaponType {
	if cs.SwitchCooldownMs > 0 {
		return a.Weapon
	}

	bucket := rangeBucketIndex(dist)

	best := WeaponType("")
	bestScore := 0.0
	for _, wt := range weaponOrder {
		w := m.weapons[wt]
		if a.Tokens < w.CostPerShot*minAffordableShots {
			continue
		}

		score := rangeBonus[wt][bucket]

		if burstWeapons[wt] && target.Health < finishingHealth {
			score += finishingBonus
		}

		// Running low: lean toward cheap weapons.
		if a.Tokens < lowBalance {
			score += (efficiencyBaseline - float64(w.CostPerShot)) * efficiencyWeight
		}

		// DPS term.
		score += float64(w.Damage) / (w.FireRateMs / 1000) * 0.1

		if best == "" || score > bestScore {
			best = wt
			bestScore = score
		}
	}

	if best == "" {
		return DefaultWeapon
	}
	return best
}
