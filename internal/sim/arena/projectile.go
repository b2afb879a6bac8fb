package arena

import "math"

// Projectile lifetime and bounds.
const (
	projectileTTLMs = 3000

	boundsXZ   = 25.0
	boundsYMin = -1.0
	boundsYMax = 10.0

	muzzleHeight = 0.5

	scatterConeStepRad = 0.12
)

type Projectile struct {
	ID         uint64
	Owner      string
	Pos        Vec3
	Vel        Vec3
	Damage     int
	TokenValue int
	Weapon     WeaponType
	SpawnMs    float64
}

// spawnVolley creates the projectiles for one trigger pull and deducts the
// weapon cost once. aim is the world-space point being shot at (already
// offset by the fire controller).
func (m *Match) spawnVolley(a *Agent, wt WeaponType, aim Vec3) {
	w := m.weapons[wt]
	if a.Tokens < w.CostPerShot {
		return
	}
	a.Tokens -= w.CostPerShot
	a.LastFireMs = m.clockMs

	muzzle := a.Pos.Add(Vec3{Y: muzzleHeight})
	dir := aim.Sub(muzzle).Normalized()
	if dir.Len() < 1e-9 {
		dir = Vec3{X: math.Cos(a.Heading), Z: math.Sin(a.Heading)}
	}

	switch w.Pattern {
	case PatternScatter5:
		base := math.Atan2(dir.Z, dir.X)
		for i := -2; i <= 2; i++ {
			ang := base + float64(i)*scatterConeStepRad
			d := Vec3{X: math.Cos(ang), Y: dir.Y, Z: math.Sin(ang)}.Normalized()
			m.addProjectile(a, w, muzzle, d)
		}
	case PatternRadial12:
		for i := 0; i < 12; i++ {
			ang := float64(i) * (2 * math.Pi / 12)
			d := Vec3{X: math.Cos(ang), Z: math.Sin(ang)}
			m.addProjectile(a, w, muzzle, d)
		}
	default:
		m.addProjectile(a, w, muzzle, dir)
	}
}

func (m *Match) addProjectile(a *Agent, w Weapon, muzzle Vec3, dir Vec3) {
	m.projSeq++
	m.projectiles = append(m.projectiles, &Projectile{
		ID:         m.projSeq,
		Owner:      a.ID,
		Pos:        muzzle,
		Vel:        dir.Scale(w.ProjectileSpeed),
		Damage:     w.Damage,
		TokenValue: w.CostPerShot,
		Weapon:     w.Type,
		SpawnMs:    m.clockMs,
	})
}

// integrateProjectiles advances every projectile by velocity*dt and prunes
// those past their lifetime or outside the bounding volume. A pruned
// projectile counts as a miss for its owner.
func (m *Match) integrateProjectiles(dtMs float64) {
	dt := dtMs / 1000
	kept := m.projectiles[:0]
	for _, p := range m.projectiles {
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		if m.clockMs-p.SpawnMs >= projectileTTLMs || outOfBounds(p.Pos) {
			m.recordMiss(p.Owner)
			continue
		}
		kept = append(kept, p)
	}
	m.projectiles = kept
}

func outOfBounds(p Vec3) bool {
	return math.Abs(p.X) > boundsXZ || math.Abs(p.Z) > boundsXZ || p.Y < boundsYMin || p.Y > boundsYMax
}

func (m *Match) recordMiss(ownerID string) {
	a := m.agents[ownerID]
	if a == nil {
		return
	}
	s := m.states.For(a)
	s.ConsecMisses++
	s.ConsecHits = 0
}
