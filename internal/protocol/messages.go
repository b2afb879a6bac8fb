package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Role            string `json:"role"` // "spectator" or "pilot"
	Name            string `json:"name,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	SessionID       string      `json:"session_id"`
	Role            string      `json:"role"`
	MatchID         string      `json:"match_id"`
	AgentID         string      `json:"agent_id,omitempty"` // pilot only
	MatchParams     MatchParams `json:"match_params"`
}

type MatchParams struct {
	TickRateHz  int     `json:"tick_rate_hz"`
	ArenaRadius float64 `json:"arena_radius"`
	Seed        int64   `json:"seed"`
}

// ACT (pilot -> server). Movement is a unit intent on the XZ plane; aim is a
// world-space point. Zero-valued fields mean "no input of that kind".
type ActMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	MoveX           float64 `json:"move_x,omitempty"`
	MoveZ           float64 `json:"move_z,omitempty"`
	Fire            bool    `json:"fire,omitempty"`
	AimX            float64 `json:"aim_x,omitempty"`
	AimY            float64 `json:"aim_y,omitempty"`
	AimZ            float64 `json:"aim_z,omitempty"`
	Weapon          string  `json:"weapon,omitempty"`
}

// EVENT (server -> client)
type EventMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	MatchID         string `json:"match_id"`
	Event           Event  `json:"event"`
}
