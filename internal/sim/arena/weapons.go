package arena

type WeaponType string

const (
	WeaponBeam    WeaponType = "beam"
	WeaponScatter WeaponType = "scatter"
	WeaponRocket  WeaponType = "rocket"
	WeaponRailgun WeaponType = "railgun"
	WeaponPlasma  WeaponType = "plasma"
	WeaponVoid    WeaponType = "void"
)

// DefaultWeapon is the affordability fallback: the cheapest weapon every agent
// can always drop back to.
const DefaultWeapon = WeaponBeam

type SpreadPattern int

const (
	PatternSingle SpreadPattern = iota
	PatternScatter5
	PatternRadial12
)

type Weapon struct {
	Type            WeaponType
	Damage          int
	CostPerShot     int
	FireRateMs      float64
	ProjectileSpeed float64
	Pattern         SpreadPattern
}

// weaponOrder fixes iteration order for scoring so a seeded run is
// reproducible regardless of map ordering.
var weaponOrder = []WeaponType{
	WeaponBeam,
	WeaponScatter,
	WeaponRocket,
	WeaponRailgun,
	WeaponPlasma,
	WeaponVoid,
}

func DefaultWeapons() map[WeaponType]Weapon {
	return map[WeaponType]Weapon{
		WeaponBeam:    {Type: WeaponBeam, Damage: 8, CostPerShot: 1, FireRateMs: 180, ProjectileSpeed: 30},
		WeaponScatter: {Type: WeaponScatter, Damage: 7, CostPerShot: 6, FireRateMs: 900, ProjectileSpeed: 22, Pattern: PatternScatter5},
		WeaponRocket:  {Type: WeaponRocket, Damage: 30, CostPerShot: 10, FireRateMs: 1500, ProjectileSpeed: 14},
		WeaponRailgun: {Type: WeaponRailgun, Damage: 35, CostPerShot: 8, FireRateMs: 1200, ProjectileSpeed: 50},
		WeaponPlasma:  {Type: WeaponPlasma, Damage: 40, CostPerShot: 12, FireRateMs: 1100, ProjectileSpeed: 18},
		WeaponVoid:    {Type: WeaponVoid, Damage: 12, CostPerShot: 20, FireRateMs: 2600, ProjectileSpeed: 16, Pattern: PatternRadial12},
	}
}

// Range buckets used by weapon arbitration.
const (
	rangeCloseMax = 4.0
	rangeMidMax   = 8.0
)

// rangeBonus pre-assigns per-weapon points for the close/mid/far buckets.
var rangeBonus = map[WeaponType][3]float64{
	WeaponBeam:    {6, 10, 4},
	WeaponScatter: {14, 6, 0},
	WeaponRocket:  {2, 10, 8},
	WeaponRailgun: {0, 6, 14},
	WeaponPlasma:  {4, 12, 6},
	WeaponVoid:    {12, 4, 0},
}

// burstWeapons get a finishing bonus against low-health targets.
var burstWeapons = map[WeaponType]bool{
	WeaponScatter: true,
	WeaponVoid:    true,
}

func rangeBucketIndex(dist float64) int {
	switch {
	case dist < rangeCloseMax:
		return 0
	case dist < rangeMidMax:
		return 1
	default:
		return 2
	}
}
