package protocol

// Event is a discrete match event keyed by "type", with "t" carrying the match
// clock in milliseconds. Events are the only way the simulation surfaces state
// changes to the outside (recorder, index, spectators).
type Event map[string]any

// Event types emitted by the simulation.
const (
	EventKill         = "KILL"
	EventHit          = "HIT"
	EventBankrupt     = "BANKRUPT"
	EventWeaponSwitch = "WEAPON_SWITCH"
	EventMatchEnd     = "MATCH_END"
	EventReasoning    = "REASONING"
	EventPhase        = "PHASE"
)

func (e Event) Type() string {
	s, _ := e["type"].(string)
	return s
}
