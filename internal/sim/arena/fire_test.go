package arena

import (
	"math"
	"testing"

	"tokenarena.gg/internal/protocol"
)

// fireReady wires an agent so every fire gate except the one under test
// passes deterministically.
func fireReady(m *Match, a *Agent, cs *CombatState, dist float64) {
	a.Tokens = 1000
	a.LastFireMs = -1e9
	a.Weapon = m.chooseWeapon(a, m.agents["A02"], dist, cs)
	cs.Traits.Aggression = 1.0
	cs.Traits.WeaponSwitchFreq = 0
}

func TestFireControl_AllGatesPass(t *testing.T) {
	m := newTestMatch(t, 1, testRoster())
	a, target := m.agents["A01"], m.agents["A02"]
	cs := m.states.For(a)
	fireReady(m, a, cs, 6)

	dec := m.fireControl(a, target, 6, cs)
	if dec == nil {
		t.Fatalf("expected a fire decision")
	}
	if dec.Weapon != a.Weapon || dec.Target != target {
		t.Fatalf("unexpected decision: %+v", dec)
	}
}

func TestFireControl_RangeWindow(t *testing.T) {
	m := newTestMatch(t, 1, testRoster())
	a, target := m.agents["A01"], m.agents["A02"]
	cs := m.states.For(a)
	fireReady(m, a, cs, 6)

	if dec := m.fireControl(a, target, 0.3, cs); dec != nil {
		t.Fatalf("point blank below minimum must not fire")
	}
	if dec := m.fireControl(a, target, 17, cs); dec != nil {
		t.Fatalf("beyond maximum range must not fire")
	}
}

func TestFireControl_TokenGate(t *testing.T) {
	m := newTestMatch(t, 1, testRoster())
	a, target := m.agents["A01"], m.agents["A02"]
	cs := m.states.For(a)
	fireReady(m, a, cs, 6)

	a.Tokens = 0
	if dec := m.fireControl(a, target, 6, cs); dec != nil {
		t.Fatalf("broke agent must not fire")
	}
}

func TestFireControl_FireRateGate(t *testing.T) {
	m := newTestMatch(t, 1, testRoster())
	a, target := m.agents["A01"], m.agents["A02"]
	cs := m.states.For(a)
	fireReady(m, a, cs, 6)

	m.clockMs = 5000
	a.LastFireMs = 4500 // plasma needs 1100ms between shots
	if dec := m.fireControl(a, target, 6, cs); dec != nil {
		t.Fatalf("weapon on cooldown must not fire")
	}
	a.LastFireMs = 3000
	if dec := m.fireControl(a, target, 6, cs); dec == nil {
		t.Fatalf("cooled-down weapon should fire")
	}
}

func TestFireControl_WeaponSwitchProposal(t *testing.T) {
	m := newTestMatch(t, 1, testRoster())
	a, target := m.agents["A01"], m.agents["A02"]
	cs := m.states.For(a)
	a.Tokens = 1000
	a.Weapon = WeaponBeam
	cs.Traits.Aggression = 1.0
	// Scaled chance becomes certainty: 50 * 0.02 = 1.0.
	cs.Traits.WeaponSwitchFreq = 50

	dec := m.fireControl(a, target, 6, cs)
	if dec != nil {
		t.Fatalf("a switch tick must not also fire")
	}
	if a.Weapon == WeaponBeam {
		t.Fatalf("weapon should have switched away from beam")
	}
	if cs.SwitchCooldownMs != weaponSwitchCooldownMs {
		t.Fatalf("switch cooldown not armed: %v", cs.SwitchCooldownMs)
	}
	if n := drainTyped(m, protocol.EventWeaponSwitch); n != 1 {
		t.Fatalf("expected 1 switch event, got %d", n)
	}

	// Cooldown pins the weapon; the next call falls through to the fire
	// gates and shoots instead of switching again.
	a.Weapon = WeaponBeam
	dec = m.fireControl(a, target, 6, cs)
	if dec == nil {
		t.Fatalf("expected fire decision while switch is on cooldown")
	}
	if a.Weapon != WeaponBeam {
		t.Fatalf("weapon must not switch during cooldown")
	}
	if n := drainTyped(m, protocol.EventWeaponSwitch); n != 0 {
		t.Fatalf("no switch event expected during cooldown, got %d", n)
	}
}

func TestAimOffset_LeadAndSpreadBounds(t *testing.T) {
	m := newTestMatch(t, 1, testRoster())
	target := m.agents["A02"]
	target.Vel = Vec3{X: 4}

	cs := m.states.For(m.agents["A01"])
	cs.Traits.LeadFactor = 1.0
	cs.Traits.Wildness = 0.1

	w := m.weapons[WeaponRailgun] // speed 50
	dist := 10.0
	lead := target.Vel.Scale(dist / w.ProjectileSpeed * cs.Traits.LeadFactor)
	spread := aimSpreadBase + dist*aimSpreadPerUnit + cs.Traits.Wildness*aimSpreadWildness

	for i := 0; i < 50; i++ {
		off := m.aimOffset(target, dist, cs, w)
		if math.Abs(off.X-lead.X) > spread+1e-9 {
			t.Fatalf("x offset outside spread: %v (lead %v, spread %v)", off.X, lead.X, spread)
		}
		if math.Abs(off.Y) > spread*aimVerticalDamp+1e-9 {
			t.Fatalf("y offset not damped: %v", off.Y)
		}
		if math.Abs(off.Z) > spread+1e-9 {
			t.Fatalf("z offset outside spread: %v", off.Z)
		}
	}
}
