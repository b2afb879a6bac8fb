package arena

// AgentSpec describes one roster entry for a new match.
type AgentSpec struct {
	Name      string
	Model     string
	Archetype Archetype
	Human     bool
	Armor     float64 // percent points, 0..100
	MemoryKB  int     // sustained reasoning-memory footprint
}

type Agent struct {
	ID        string
	Name      string
	Model     string
	Archetype Archetype

	Pos     Vec3
	Heading float64
	Vel     Vec3 // displacement over the last tick, units/s; read by aim lead

	Health    int
	MaxHealth int
	Armor     float64

	Weapon WeaponType
	Tokens int

	Alive    bool
	Human    bool
	Bankrupt bool

	Kills  int
	Deaths int

	MemoryKB int

	// Match-clock timestamp (ms) of the last shot, for fire-rate gating.
	LastFireMs float64
}

func (a *Agent) initDefaults(startingTokens int) {
	if a.MaxHealth == 0 {
		a.MaxHealth = 100
	}
	a.Health = a.MaxHealth
	a.Alive = true
	a.Bankrupt = false
	a.Weapon = DefaultWeapon
	a.Kills = 0
	a.Deaths = 0
	a.Tokens = startingTokens
	a.LastFireMs = -1e9
}

func (a *Agent) HealthFrac() float64 {
	if a.MaxHealth <= 0 {
		return 0
	}
	return float64(a.Health) / float64(a.MaxHealth)
}

// CombatReady reports whether the agent can take part in combat this tick.
// Bankrupt agents stay alive and targetable but no longer act.
func (a *Agent) CombatReady() bool {
	return a.Alive && !a.Bankrupt
}
