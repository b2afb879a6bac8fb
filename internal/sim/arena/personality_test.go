package arena

import "testing"

func TestProfileForKnownArchetypes(t *testing.T) {
	for _, a := range Archetypes() {
		tr := ProfileFor(a)
		if tr.EngageRange <= 0 {
			t.Fatalf("%s: engage range must be positive", a)
		}
		if tr.Aggression <= 0 || tr.Aggression > 1 {
			t.Fatalf("%s: aggression out of range: %v", a, tr.Aggression)
		}
		if tr.Evasiveness < 0 || tr.Evasiveness > 1 {
			t.Fatalf("%s: evasiveness out of range: %v", a, tr.Evasiveness)
		}
	}
}

func TestProfileForUnknownFallsBackToTactician(t *testing.T) {
	got := ProfileFor(Archetype("made-up"))
	want := ProfileFor(ArchetypeTactician)
	if got != want {
		t.Fatalf("unknown archetype should use tactician traits")
	}
}

func TestProfileTableShape(t *testing.T) {
	cases := []struct {
		arch     Archetype
		engage   float64
		priority TargetPriority
	}{
		{ArchetypeBerserker, 8, PriorityNearest},
		{ArchetypeSniper, 16, PriorityWeakest},
		{ArchetypeTactician, 10, PriorityStrongest},
		{ArchetypeHunter, 6, PriorityWeakest},
		{ArchetypeWarden, 12, PriorityNearest},
		{ArchetypeMagnate, 9, PriorityRichest},
	}
	for _, c := range cases {
		tr := ProfileFor(c.arch)
		if tr.EngageRange != c.engage {
			t.Fatalf("%s: engage range %v, want %v", c.arch, tr.EngageRange, c.engage)
		}
		if tr.Priority != c.priority {
			t.Fatalf("%s: priority %v, want %v", c.arch, tr.Priority, c.priority)
		}
	}
}
