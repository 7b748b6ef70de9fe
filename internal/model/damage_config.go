package model

// Limits applied by callers before a snapshot reaches the resolver.
const (
	MaxRageStacks   = 10
	MaxEnergy       = 10
	MaxAlliesInFury = TeamSize - 1
	MaxReduction    = 100
)

// DamageConfig describes the defending side.
type DamageConfig struct {
	DamageReduction int  // percent, 0..100
	TargetHasAlert  bool // disables Blood Beetle life steal; not part of the damage formula
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampRageStacks clamps rage stacks to [0, MaxRageStacks].
func ClampRageStacks(n int) int { return clamp(n, 0, MaxRageStacks) }

// ClampEnergy clamps energy spent to [0, MaxEnergy].
func ClampEnergy(n int) int { return clamp(n, 0, MaxEnergy) }

// ClampAllies clamps the allies-in-fury count to [0, MaxAlliesInFury].
func ClampAllies(n int) int { return clamp(n, 0, MaxAlliesInFury) }

// ClampReduction clamps damage reduction to [0, MaxReduction].
func ClampReduction(n int) int { return clamp(n, 0, MaxReduction) }

// ClampAmulet clamps an amulet bonus to >= 0.
func ClampAmulet(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// ClampCounter clamps a non-negative counter (pure damage used).
func ClampCounter(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// Clamped returns a copy of cfg with the reduction clamped.
func (cfg DamageConfig) Clamped() DamageConfig {
	cfg.DamageReduction = ClampReduction(cfg.DamageReduction)
	return cfg
}
