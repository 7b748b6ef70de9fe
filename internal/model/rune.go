package model

// RuneFamily is the catalog key of a rune family.
type RuneFamily string

const (
	FamilyWayOfBeast        RuneFamily = "wayOfBeast"
	FamilyInspirationalHero RuneFamily = "inspirationalHero"
	FamilyEndlessAnger      RuneFamily = "endlessAnger"
	FamilyBloodBeetle       RuneFamily = "bloodBeetle"
	FamilyFateMaker         RuneFamily = "fateMaker"
	FamilyRocketBarrage     RuneFamily = "rocketBarrage"
)

// Rune is an immutable catalog entry identified by (Family, Level).
// Percentages are whole percent; zero means the rune has no such bonus.
type Rune struct {
	ID     string
	Family RuneFamily
	Name   string
	Level  int
	Effect string // display only

	RageBonus       int // rage granted at battle start
	DamageBonus     int // % on card damage
	FuryDamageBonus int // % added to the base fury percentage
	RagePerStack    int // 0 = default (1)
	PureDamageBonus int // % (Blood Beetle)
	PureDamageCount int // pure damage triggers per turn (Blood Beetle)
}

// RagePerStackOrDefault returns the flat damage granted per rage stack.
func (r Rune) RagePerStackOrDefault() int {
	if r.RagePerStack > 0 {
		return r.RagePerStack
	}
	return 1
}

// CustomRune is a user-specified pair of percentage bonuses used instead of
// a catalog rune. Zero means absent.
type CustomRune struct {
	DamageBonus     int
	FuryDamageBonus int
}

// RuneKind is the active variant of a RuneSelection.
type RuneKind int32

const (
	RuneKindNone RuneKind = iota
	RuneKindDefined
	RuneKindCustom
)

// String returns the persisted rune type name.
func (k RuneKind) String() string {
	switch k {
	case RuneKindDefined:
		return "defined"
	case RuneKindCustom:
		return "custom"
	default:
		return "none"
	}
}

// ParseRuneKind parses a persisted rune type. Anything unrecognised,
// including the empty string of older saves, is RuneKindNone.
func ParseRuneKind(name string) RuneKind {
	switch name {
	case "defined":
		return RuneKindDefined
	case "custom":
		return RuneKindCustom
	default:
		return RuneKindNone
	}
}

// RuneSelection is the rune equipped on an axie: nothing, a catalog rune or
// a custom rune. Exactly one variant is active; the payload of the other can
// not be attached.
type RuneSelection struct {
	kind    RuneKind
	defined Rune
	custom  CustomRune
}

// NoRune returns the empty selection.
func NoRune() RuneSelection {
	return RuneSelection{}
}

// DefinedRune selects a catalog rune.
func DefinedRune(r Rune) RuneSelection {
	return RuneSelection{kind: RuneKindDefined, defined: r}
}

// CustomRuneOf selects a custom rune.
func CustomRuneOf(c CustomRune) RuneSelection {
	return RuneSelection{kind: RuneKindCustom, custom: c}
}

// Kind returns the active variant.
func (s RuneSelection) Kind() RuneKind {
	return s.kind
}

// Defined returns the catalog rune when the selection is RuneKindDefined.
func (s RuneSelection) Defined() (Rune, bool) {
	if s.kind != RuneKindDefined {
		return Rune{}, false
	}
	return s.defined, true
}

// Custom returns the custom rune when the selection is RuneKindCustom.
func (s RuneSelection) Custom() (CustomRune, bool) {
	if s.kind != RuneKindCustom {
		return CustomRune{}, false
	}
	return s.custom, true
}

// DamageBonus returns the % damage bonus of whichever variant is active.
func (s RuneSelection) DamageBonus() int {
	switch s.kind {
	case RuneKindDefined:
		return s.defined.DamageBonus
	case RuneKindCustom:
		return s.custom.DamageBonus
	default:
		return 0
	}
}

// FuryDamageBonus returns the % fury bonus of whichever variant is active.
func (s RuneSelection) FuryDamageBonus() int {
	switch s.kind {
	case RuneKindDefined:
		return s.defined.FuryDamageBonus
	case RuneKindCustom:
		return s.custom.FuryDamageBonus
	default:
		return 0
	}
}

// RagePerStack returns the flat damage per rage stack: the defined rune's
// value if any, 1 otherwise.
func (s RuneSelection) RagePerStack() int {
	if r, ok := s.Defined(); ok {
		return r.RagePerStackOrDefault()
	}
	return 1
}
