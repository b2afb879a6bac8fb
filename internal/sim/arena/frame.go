package arena

import "tokenarena.gg/internal/protocol"

// Frame builds the per-tick snapshot consumed by the recorder and the
// spectator stream.
func (m *Match) Frame() protocol.Frame {
	f := protocol.Frame{
		Type:            protocol.TypeFrame,
		ProtocolVersion: protocol.Version,
		MatchID:         m.cfg.ID,
		T:               m.clockMs,
		Phase:           string(m.phase),
		Agents:          make([]protocol.FrameAgent, 0, len(m.order)),
		Projectiles:     make([]protocol.FrameProjectile, 0, len(m.projectiles)),
	}
	for _, id := range m.order {
		a := m.agents[id]
		f.Agents = append(f.Agents, protocol.FrameAgent{
			ID:      a.ID,
			Name:    a.Name,
			Model:   a.Model,
			X:       a.Pos.X,
			Y:       a.Pos.Y,
			Z:       a.Pos.Z,
			Heading: a.Heading,
			Health:  a.Health,
			Kills:   a.Kills,
			Tokens:  a.Tokens,
			Weapon:  string(a.Weapon),
			Alive:   a.Alive,
		})
	}
	for _, p := range m.projectiles {
		f.Projectiles = append(f.Projectiles, protocol.FrameProjectile{
			ID:     p.ID,
			Owner:  p.Owner,
			X:      p.Pos.X,
			Y:      p.Pos.Y,
			Z:      p.Pos.Z,
			Weapon: string(p.Weapon),
		})
	}
	return f
}
