package arena

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"tokenarena.gg/internal/protocol"
)

// Phase is the match state machine. Only an unpaused combat phase executes
// the physics/AI step; shop is an out-of-band phase entered between matches.
type Phase string

const (
	PhaseMenu      Phase = "menu"
	PhaseLoading   Phase = "loading"
	PhaseCountdown Phase = "countdown"
	PhaseCombat    Phase = "combat"
	PhasePaused    Phase = "paused"
	PhaseVictory   Phase = "victory"
	PhaseDefeat    Phase = "defeat"
	PhaseShop      Phase = "shop"
)

// Frame hitches are absorbed by clamping the step size.
const maxTickMs = 50.0

type MatchConfig struct {
	ID   string `json:"id"`
	Seed int64  `json:"seed"`

	ArenaRadius float64 `json:"arena_radius"`
	BaseSpeed   float64 `json:"base_speed"`
	SpawnRadius float64 `json:"spawn_radius"`

	TickRateHz    int     `json:"tick_rate_hz"`
	CountdownMs   float64 `json:"countdown_ms"`
	MaxDurationMs float64 `json:"max_duration_ms"`

	StartingTokens  int     `json:"starting_tokens"`
	KillBounty      int     `json:"kill_bounty"`
	MaintenanceCost int     `json:"maintenance_cost"`
	EconomyPeriodMs float64 `json:"economy_period_ms"`
}

func (c *MatchConfig) applyDefaults() {
	if c.ArenaRadius <= 0 {
		c.ArenaRadius = 17.5
	}
	if c.BaseSpeed <= 0 {
		c.BaseSpeed = 5.0
	}
	if c.SpawnRadius <= 0 || c.SpawnRadius > c.ArenaRadius {
		c.SpawnRadius = c.ArenaRadius * 0.7
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = 30
	}
	if c.CountdownMs <= 0 {
		c.CountdownMs = 3000
	}
	if c.MaxDurationMs <= 0 {
		c.MaxDurationMs = 180000
	}
	if c.StartingTokens <= 0 {
		c.StartingTokens = 500
	}
	if c.KillBounty <= 0 {
		c.KillBounty = 100
	}
	if c.MaintenanceCost <= 0 {
		c.MaintenanceCost = 5
	}
	if c.EconomyPeriodMs <= 0 {
		c.EconomyPeriodMs = 10000
	}
}

// Recorder receives per-frame snapshots and discrete match events. The match
// never blocks on it and tolerates a nil recorder. The digest accompanies
// each frame so replays can be verified against a re-simulation.
type Recorder interface {
	RecordFrame(f protocol.Frame, digest string)
	RecordEvent(e protocol.Event)
}

// PilotInput is the human agent's input for one tick. Aim is a world-space
// point; movement is a unit intent on the XZ plane.
type PilotInput struct {
	Move   Vec3
	Fire   bool
	Aim    Vec3
	Weapon WeaponType // optional explicit switch request
}

// Match owns all state for one simulated match. It is single-writer: all
// mutation happens inside Tick (or the phase methods), which the host must
// call from one goroutine.
type Match struct {
	cfg   MatchConfig
	phase Phase

	clockMs     float64
	countdownMs float64

	agents map[string]*Agent
	order  []string // agent IDs, sorted; fixes all iteration order

	projectiles []*Projectile
	weapons     map[WeaponType]Weapon
	states      *StateRegistry
	rng         *rand.Rand

	recorder Recorder
	events   []protocol.Event

	nextEconomyMs float64
	projSeq       uint64

	humanID      string
	pendingInput *PilotInput

	rationale map[string]string
}

// NewMatch creates a match in the menu phase with the given roster placed
// evenly on a spawn circle. The RNG is owned by the match and seeded from the
// config, so a fixed seed and input stream reproduce a run exactly.
func NewMatch(cfg MatchConfig, roster []AgentSpec) (*Match, error) {
	cfg.applyDefaults()
	if len(roster) < 2 {
		return nil, fmt.Errorf("match: roster needs at least 2 agents, got %d", len(roster))
	}

	m := &Match{
		cfg:       cfg,
		phase:     PhaseMenu,
		agents:    map[string]*Agent{},
		weapons:   DefaultWeapons(),
		states:    NewStateRegistry(),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		rationale: map[string]string{},
	}

	humans := 0
	for i, spec := range roster {
		id := fmt.Sprintf("A%02d", i+1)
		a := &Agent{
			ID:        id,
			Name:      spec.Name,
			Model:     spec.Model,
			Archetype: spec.Archetype,
			Armor:     spec.Armor,
			Human:     spec.Human,
			MemoryKB:  spec.MemoryKB,
		}
		a.initDefaults(cfg.StartingTokens)
		if spec.Human {
			humans++
			m.humanID = id
		}
		m.agents[id] = a
		m.order = append(m.order, id)
	}
	if humans > 1 {
		return nil, fmt.Errorf("match: at most one human agent, got %d", humans)
	}
	sort.Strings(m.order)

	m.placeAgents()
	return m, nil
}

// placeAgents spreads the roster on the spawn circle facing the center.
func (m *Match) placeAgents() {
	n := len(m.order)
	for i, id := range m.order {
		a := m.agents[id]
		ang := 2 * math.Pi * float64(i) / float64(n)
		a.Pos = Vec3{X: math.Cos(ang) * m.cfg.SpawnRadius, Z: math.Sin(ang) * m.cfg.SpawnRadius}
		a.Heading = wrapAngle(ang + math.Pi)
		a.Vel = Vec3{}
	}
}

func (m *Match) SetRecorder(r Recorder) { m.recorder = r }

func (m *Match) ID() string       { return m.cfg.ID }
func (m *Match) Seed() int64      { return m.cfg.Seed }
func (m *Match) Phase() Phase     { return m.phase }
func (m *Match) ClockMs() float64 { return m.clockMs }
func (m *Match) HumanID() string  { return m.humanID }

func (m *Match) Config() MatchConfig { return m.cfg }

// Agent returns the live agent struct; callers outside the tick goroutine
// must treat it as read-only.
func (m *Match) Agent(id string) *Agent { return m.agents[id] }

// AgentIDs returns the fixed iteration order.
func (m *Match) AgentIDs() []string { return append([]string(nil), m.order...) }

func (m *Match) ProjectileCount() int { return len(m.projectiles) }

// Begin moves menu/loading/shop into the countdown.
func (m *Match) Begin() {
	switch m.phase {
	case PhaseMenu, PhaseLoading, PhaseShop:
		m.countdownMs = m.cfg.CountdownMs
		m.setPhase(PhaseCountdown)
	}
}

func (m *Match) Load() {
	if m.phase == PhaseMenu {
		m.setPhase(PhaseLoading)
	}
}

// Pause skips step execution without resetting any timers.
func (m *Match) Pause() {
	if m.phase == PhaseCombat {
		m.setPhase(PhasePaused)
	}
}

func (m *Match) Resume() {
	if m.phase == PhasePaused {
		m.setPhase(PhaseCombat)
	}
}

// EnterShop is the out-of-band between-matches phase.
func (m *Match) EnterShop() {
	switch m.phase {
	case PhaseVictory, PhaseDefeat, PhaseMenu:
		m.setPhase(PhaseShop)
	}
}

// Reset atomically clears all per-agent combat state and the projectile set
// and restores the roster to full health at spawn positions. Intended to be
// called between ticks. The id names the new match; frames, events, and the
// replay header must all agree on it.
func (m *Match) Reset(id string, seed int64) {
	if id != "" {
		m.cfg.ID = id
	}
	m.cfg.Seed = seed
	m.rng = rand.New(rand.NewSource(seed))
	m.states.Reset()
	m.projectiles = nil
	m.projSeq = 0
	m.clockMs = 0
	m.nextEconomyMs = 0
	m.pendingInput = nil
	m.rationale = map[string]string{}
	for _, id := range m.order {
		m.agents[id].initDefaults(m.cfg.StartingTokens)
	}
	m.placeAgents()
	m.setPhase(PhaseMenu)
}

func (m *Match) setPhase(p Phase) {
	if m.phase == p {
		return
	}
	m.phase = p
	m.emit(protocol.Event{"t": m.clockMs, "type": protocol.EventPhase, "phase": string(p)})
}

// SubmitInput stages pilot input for the next tick. Later submissions within
// the same tick win.
func (m *Match) SubmitInput(in PilotInput) {
	if m.humanID == "" {
		return
	}
	m.pendingInput = &in
}

func (m *Match) emit(e protocol.Event) {
	m.events = append(m.events, e)
	if m.recorder != nil {
		m.recorder.RecordEvent(e)
	}
}

// Tick advances the simulation by dtMs milliseconds (clamped to 50 ms) and
// returns the events emitted during the step. Outside of combat it only
// advances the countdown; paused and terminal phases are no-ops.
func (m *Match) Tick(dtMs float64) []protocol.Event {
	if dtMs > maxTickMs {
		dtMs = maxTickMs
	}
	if dtMs <= 0 {
		return nil
	}

	switch m.phase {
	case PhaseCountdown:
		m.countdownMs -= dtMs
		if m.countdownMs <= 0 {
			m.countdownMs = 0
			m.nextEconomyMs = m.cfg.EconomyPeriodMs
			m.setPhase(PhaseCombat)
		}
		return m.drainEvents()
	case PhaseCombat:
		// fall through to the step below
	default:
		return m.drainEvents()
	}

	m.clockMs += dtMs

	for _, id := range m.order {
		if s := m.states.Peek(id); s != nil {
			s.tickTimers(dtMs)
		}
	}

	m.stepHuman(dtMs)
	m.stepAI(dtMs)
	m.integrateProjectiles(dtMs)
	m.resolveCollisions()

	for m.clockMs >= m.nextEconomyMs {
		m.economyTick()
		m.nextEconomyMs += m.cfg.EconomyPeriodMs
	}

	m.evaluateWin()

	if m.recorder != nil {
		m.recorder.RecordFrame(m.Frame(), m.StateDigest())
	}
	return m.drainEvents()
}

func (m *Match) drainEvents() []protocol.Event {
	ev := m.events
	m.events = nil
	return ev
}

// stepHuman resolves pilot movement and firing under the same token,
// cooldown, and affordability rules as the AI path.
func (m *Match) stepHuman(dtMs float64) {
	if m.humanID == "" {
		return
	}
	a := m.agents[m.humanID]
	in := m.pendingInput
	m.pendingInput = nil
	if a == nil || !a.CombatReady() {
		return
	}
	if in == nil {
		a.Vel = Vec3{}
		return
	}

	dt := dtMs / 1000
	prev := a.Pos

	move := in.Move
	move.Y = 0
	if move.LenXZ() > 1e-6 {
		step := move.Normalized().Scale(m.cfg.BaseSpeed * dt)
		a.Pos = m.clampToArena(a.Pos.Add(step))
		a.Heading = math.Atan2(step.Z, step.X)
	}
	a.Vel = a.Pos.Sub(prev).Scale(1 / dt)

	if in.Weapon != "" && in.Weapon != a.Weapon {
		cs := m.states.For(a)
		if _, ok := m.weapons[in.Weapon]; ok && cs.SwitchCooldownMs <= 0 {
			from := a.Weapon
			a.Weapon = in.Weapon
			cs.SwitchCooldownMs = weaponSwitchCooldownMs
			m.emit(protocol.Event{
				"t": m.clockMs, "type": protocol.EventWeaponSwitch,
				"agent": a.ID, "from": string(from), "to": string(in.Weapon),
			})
		}
	}

	if in.Fire {
		w := m.weapons[a.Weapon]
		if a.Tokens >= w.CostPerShot && m.clockMs-a.LastFireMs >= w.FireRateMs {
			m.spawnVolley(a, a.Weapon, in.Aim)
		}
	}
}

// stepAI runs the decision pipeline for every living non-human agent:
// target selection, movement planning, weapon arbitration, fire control.
func (m *Match) stepAI(dtMs float64) {
	dt := dtMs / 1000
	for _, id := range m.order {
		a := m.agents[id]
		if a.Human || !a.CombatReady() {
			continue
		}
		cs := m.states.For(a)

		candidates := m.aliveOpponents(a)
		target := m.selectTarget(a, cs, candidates)
		if target == nil {
			// No valid target is not an error; skip this agent's decision.
			continue
		}

		prev := a.Pos
		pos, heading := m.planMovement(a, target, cs, dtMs)
		a.Pos = pos
		a.Heading = heading
		a.Vel = a.Pos.Sub(prev).Scale(1 / dt)

		dist := a.Pos.Dist(target.Pos)
		if dec := m.fireControl(a, target, dist, cs); dec != nil {
			aim := dec.Target.Pos.Add(Vec3{Y: hitVerticalBias}).Add(dec.AimOffset)
			m.spawnVolley(a, dec.Weapon, aim)
		}
	}
}

// aliveOpponents lists living agents other than the actor, in fixed order.
func (m *Match) aliveOpponents(a *Agent) []*Agent {
	out := make([]*Agent, 0, len(m.order)-1)
	for _, id := range m.order {
		o := m.agents[id]
		if o.ID == a.ID || !o.Alive {
			continue
		}
		out = append(out, o)
	}
	return out
}

func (m *Match) aliveCounts() (ai, human int) {
	for _, id := range m.order {
		a := m.agents[id]
		if !a.Alive {
			continue
		}
		if a.Human {
			human++
		} else {
			ai++
		}
	}
	return
}

// evaluateWin drives the terminal transitions. Single-pilot matches end in
// defeat when the pilot dies and victory when every AI is down; spectator
// matches end when at most one agent remains. The duration ceiling forces
// resolution based on which side survives.
func (m *Match) evaluateWin() {
	ai, human := m.aliveCounts()

	if m.humanID != "" {
		switch {
		case human == 0:
			m.finish(PhaseDefeat)
		case ai == 0:
			m.finish(PhaseVictory)
		case m.clockMs >= m.cfg.MaxDurationMs:
			if human > 0 {
				m.finish(PhaseVictory)
			} else {
				m.finish(PhaseDefeat)
			}
		}
		return
	}

	if ai <= 1 || m.clockMs >= m.cfg.MaxDurationMs {
		m.finish(PhaseVictory)
	}
}

func (m *Match) finish(p Phase) {
	if m.phase != PhaseCombat {
		return
	}
	m.emit(protocol.Event{
		"t":      m.clockMs,
		"type":   protocol.EventMatchEnd,
		"result": string(p),
		"winner": m.mvpID(),
	})
	m.setPhase(p)
}

// mvpID picks the surviving agent with the most kills (ties broken by ID
// order), falling back to the overall kill leader.
func (m *Match) mvpID() string {
	best := ""
	bestKills := -1
	for _, alivePass := range []bool{true, false} {
		for _, id := range m.order {
			a := m.agents[id]
			if alivePass && !a.Alive {
				continue
			}
			if a.Kills > bestKills {
				best = id
				bestKills = a.Kills
			}
		}
		if best != "" {
			return best
		}
	}
	return best
}

// DefaultRoster is the classic six-agent spectator lineup.
func DefaultRoster() []AgentSpec {
	return []AgentSpec{
		{Name: "PHANTOM", Model: "gpt-4o", Archetype: ArchetypeHunter, Armor: 10, MemoryKB: 384},
		{Name: "NEXUS-7", Model: "claude-3-5-sonnet", Archetype: ArchetypeTactician, Armor: 15, MemoryKB: 512},
		{Name: "TITAN", Model: "llama-3.1-70b", Archetype: ArchetypeBerserker, Armor: 25, MemoryKB: 256},
		{Name: "CIPHER", Model: "mistral-large", Archetype: ArchetypeSniper, Armor: 5, MemoryKB: 320},
		{Name: "WRAITH", Model: "deepseek-v3", Archetype: ArchetypeMagnate, Armor: 10, MemoryKB: 448},
		{Name: "AURORA", Model: "gemini-flash", Archetype: ArchetypeWarden, Armor: 20, MemoryKB: 384},
	}
}
