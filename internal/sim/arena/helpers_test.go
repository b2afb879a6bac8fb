package arena

import "testing"

func testRoster() []AgentSpec {
	return []AgentSpec{
		{Name: "ONE", Archetype: ArchetypeBerserker},
		{Name: "TWO", Archetype: ArchetypeSniper},
		{Name: "THREE", Archetype: ArchetypeTactician},
	}
}

// newTestMatch builds a match with a one-tick countdown so tests can reach
// combat with a single 50ms step.
func newTestMatch(t *testing.T, seed int64, roster []AgentSpec) *Match {
	t.Helper()
	m, err := NewMatch(MatchConfig{ID: "m-test", Seed: seed, CountdownMs: 50}, roster)
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	return m
}

func advanceToCombat(t *testing.T, m *Match) {
	t.Helper()
	m.Begin()
	for i := 0; i < 200 && m.Phase() != PhaseCombat; i++ {
		m.Tick(50)
	}
	if m.Phase() != PhaseCombat {
		t.Fatalf("expected combat phase, got %s", m.Phase())
	}
}

func drainTyped(m *Match, typ string) int {
	n := 0
	for _, e := range m.drainEvents() {
		if e.Type() == typ {
			n++
		}
	}
	return n
}
