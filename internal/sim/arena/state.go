package arena

// CombatState is the per-agent decision state that persists across ticks.
// It is created lazily on an agent's first decision and cleared on match
// reset. All timers count down in milliseconds and clamp at zero.
type CombatState struct {
	Archetype Archetype
	Traits    Traits

	StrafeDir     float64 // +1 or -1
	StrafeTimerMs float64

	DodgeDir     Vec3
	DodgeTimerMs float64

	TargetID     string
	TargetLockMs float64

	SwitchCooldownMs float64

	LastAttacker string

	ConsecHits   int
	ConsecMisses int
}

func (s *CombatState) tickTimers(dtMs float64) {
	s.StrafeTimerMs = maxf(0, s.StrafeTimerMs-dtMs)
	s.DodgeTimerMs = maxf(0, s.DodgeTimerMs-dtMs)
	s.TargetLockMs = maxf(0, s.TargetLockMs-dtMs)
	s.SwitchCooldownMs = maxf(0, s.SwitchCooldownMs-dtMs)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// StateRegistry is the keyed per-agent combat state store. It is owned by the
// match and passed by reference into decision code; there is no module-level
// singleton, so multiple matches can run side by side and teardown is
// deterministic. Safe only under the match's single-writer assumption.
type StateRegistry struct {
	states map[string]*CombatState
}

func NewStateRegistry() *StateRegistry {
	return &StateRegistry{states: map[string]*CombatState{}}
}

// For returns the combat state for an agent, creating it on first use with
// the agent's resolved trait bundle.
func (r *StateRegistry) For(a *Agent) *CombatState {
	if s, ok := r.states[a.ID]; ok {
		return s
	}
	s := &CombatState{
		Archetype: a.Archetype,
		Traits:    ProfileFor(a.Archetype),
		StrafeDir: 1,
	}
	r.states[a.ID] = s
	return s
}

// Peek returns the state if it exists, without creating it.
func (r *StateRegistry) Peek(agentID string) *CombatState {
	return r.states[agentID]
}

// RecordAttacker notes who last hit the victim, for revenge targeting.
func (r *StateRegistry) RecordAttacker(victim *Agent, attackerID string) {
	r.For(victim).LastAttacker = attackerID
}

// Reset drops all per-agent state between matches.
func (r *StateRegistry) Reset() {
	r.states = map[string]*CombatState{}
}
