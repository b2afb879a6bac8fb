package arena

// Archetype names a bundle of tactical tendencies. Behavior differences
// between archetypes come exclusively from the Traits table below; the
// decision code never branches on the archetype itself.
type Archetype string

const (
	ArchetypeBerserker Archetype = "berserker"
	ArchetypeSniper    Archetype = "sniper"
	ArchetypeTactician Archetype = "tactician"
	ArchetypeHunter    Archetype = "hunter"
	ArchetypeWarden    Archetype = "warden"
	ArchetypeMagnate   Archetype = "magnate"
)

type TargetPriority int

const (
	PriorityNearest TargetPriority = iota
	PriorityWeakest
	PriorityStrongest
	PriorityRichest
)

type RangeBucket int

const (
	RangeClose RangeBucket = iota
	RangeMid
	RangeFar
)

type Traits struct {
	EngageRange       float64
	RetreatHealthFrac float64
	Aggression        float64 // per-tick fire probability scalar
	Evasiveness       float64 // probability of dodging an inbound projectile
	Priority          TargetPriority
	PreferredRange    RangeBucket
	StrafeFreq        float64
	WeaponSwitchFreq  float64
	LeadFactor        float64 // how much of the ideal aim lead is applied
	Wildness          float64 // aim spread scalar
}

var profiles = map[Archetype]Traits{
	ArchetypeBerserker: {
		EngageRange:       8,
		RetreatHealthFrac: 0.15,
		Aggression:        0.95,
		Evasiveness:       0.20,
		Priority:          PriorityNearest,
		PreferredRange:    RangeClose,
		StrafeFreq:        0.35,
		WeaponSwitchFreq:  0.3,
		LeadFactor:        0.5,
		Wildness:          0.8,
	},
	ArchetypeSniper: {
		EngageRange:       16,
		RetreatHealthFrac: 0.50,
		Aggression:        0.60,
		Evasiveness:       0.50,
		Priority:          PriorityWeakest,
		PreferredRange:    RangeFar,
		StrafeFreq:        0.15,
		WeaponSwitchFreq:  0.2,
		LeadFactor:        1.0,
		Wildness:          0.1,
	},
	ArchetypeTactician: {
		EngageRange:       10,
		RetreatHealthFrac: 0.35,
		Aggression:        0.70,
		Evasiveness:       0.60,
		Priority:          PriorityStrongest,
		PreferredRange:    RangeMid,
		StrafeFreq:        0.55,
		WeaponSwitchFreq:  0.7,
		LeadFactor:        0.85,
		Wildness:          0.3,
	},
	ArchetypeHunter: {
		EngageRange:       6,
		RetreatHealthFrac: 0.25,
		Aggression:        0.85,
		Evasiveness:       0.50,
		Priority:          PriorityWeakest,
		PreferredRange:    RangeClose,
		StrafeFreq:        0.60,
		WeaponSwitchFreq:  0.5,
		LeadFactor:        0.7,
		Wildness:          0.45,
	},
	ArchetypeWarden: {
		EngageRange:       12,
		RetreatHealthFrac: 0.45,
		Aggression:        0.50,
		Evasiveness:       0.80,
		Priority:          PriorityNearest,
		PreferredRange:    RangeMid,
		StrafeFreq:        0.45,
		WeaponSwitchFreq:  0.4,
		LeadFactor:        0.8,
		Wildness:          0.25,
	},
	ArchetypeMagnate: {
		EngageRange:       9,
		RetreatHealthFrac: 0.40,
		Aggression:        0.65,
		Evasiveness:       0.55,
		Priority:          PriorityRichest,
		PreferredRange:    RangeMid,
		StrafeFreq:        0.40,
		WeaponSwitchFreq:  0.6,
		LeadFactor:        0.75,
		Wildness:          0.35,
	},
}

// ProfileFor returns the trait bundle for an archetype; unknown archetypes
// fall back to the tactician profile rather than failing.
func ProfileFor(a Archetype) Traits {
	if t, ok := profiles[a]; ok {
		return t
	}
	return profiles[ArchetypeTactician]
}

// Archetypes returns all known archetypes in stable order.
func Archetypes() []Archetype {
	return []Archetype{
		ArchetypeBerserker,
		ArchetypeSniper,
		ArchetypeTactician,
		ArchetypeHunter,
		ArchetypeWarden,
		ArchetypeMagnate,
	}
}
