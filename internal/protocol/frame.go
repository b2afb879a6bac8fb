package protocol

// Frame is one per-tick snapshot of renderable match state. It is what the
// replay recorder persists and what spectators receive over the wire; the
// layout matches the replay consumer (one object per agent and projectile,
// world coordinates, match clock in milliseconds).
type Frame struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	MatchID         string            `json:"match_id"`
	T               float64           `json:"t"`
	Phase           string            `json:"phase"`
	Agents          []FrameAgent      `json:"agents"`
	Projectiles     []FrameProjectile `json:"projectiles"`
}

type FrameAgent struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Model   string  `json:"model,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Heading float64 `json:"heading"`
	Health  int     `json:"health"`
	Kills   int     `json:"kills"`
	Tokens  int     `json:"tokens"`
	Weapon  string  `json:"weapon"`
	Alive   bool    `json:"alive"`
}

type FrameProjectile struct {
	ID     uint64  `json:"id"`
	Owner  string  `json:"owner"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Weapon string  `json:"weapon"`
}
