package combat

import "fmt"

// TermKind identifies one contribution to a damage result.
type TermKind int32

const (
	TermBase TermKind = iota
	TermAmulet
	TermFuryFlatBonus     // IMP in fury
	TermEnergyScaledBonus // RONIN energy bonus
	TermCustomRuneDamage
	TermRuneDamage
	TermPureDamage // Blood Beetle
	TermFury
	TermRage
	TermAllyFury // Inspirational Hero
	TermReduction
)

var termKindNames = map[TermKind]string{
	TermBase:              "base",
	TermAmulet:            "amulet",
	TermFuryFlatBonus:     "furyFlatBonus",
	TermEnergyScaledBonus: "energyScaledBonus",
	TermCustomRuneDamage:  "customRuneDamage",
	TermRuneDamage:        "runeDamage",
	TermPureDamage:        "pureDamage",
	TermFury:              "fury",
	TermRage:              "rage",
	TermAllyFury:          "allyFury",
	TermReduction:         "reduction",
}

// String returns the term kind name used in JSON.
func (k TermKind) String() string {
	if name, ok := termKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k TermKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TermKind) UnmarshalText(text []byte) error {
	for kind, name := range termKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown term kind %q", text)
}

// Term is one applied step of the damage pipeline.
//
// Amount is the contribution (for TermReduction, the damage after
// reduction). Param carries the step parameter: energy for RONIN, percent
// for rune/fury/reduction, stacks for rage, allies for Inspirational Hero.
type Term struct {
	Kind   TermKind `json:"kind"`
	Amount int      `json:"amount"`
	Label  string   `json:"label,omitempty"`
	Param  int      `json:"param,omitempty"`
	Before int      `json:"before,omitempty"`
}

// Format returns the English format string of the term and its arguments.
// The format strings double as message keys for translated catalogs.
func (t Term) Format() (string, []any) {
	switch t.Kind {
	case TermBase:
		return "Base damage: %d", []any{t.Amount}
	case TermAmulet:
		return "Amulet: +%d", []any{t.Amount}
	case TermFuryFlatBonus:
		return "%s in fury: +%d", []any{t.Label, t.Amount}
	case TermEnergyScaledBonus:
		return "%s (%d energy): +%d", []any{t.Label, t.Param, t.Amount}
	case TermCustomRuneDamage:
		return "Custom rune damage: +%d", []any{t.Amount}
	case TermRuneDamage:
		return "%s damage: +%d", []any{t.Label, t.Amount}
	case TermPureDamage:
		return "Blood Beetle pure damage: +%d", []any{t.Amount}
	case TermFury:
		return "Fury (%d%%): +%d", []any{t.Param, t.Amount}
	case TermRage:
		return "Rage (%d stacks): +%d", []any{t.Param, t.Amount}
	case TermAllyFury:
		return "Inspirational Hero (%d allies in fury): +%d", []any{t.Param, t.Amount}
	case TermReduction:
		return "Damage reduction (%d%%): %d → %d", []any{t.Param, t.Before, t.Amount}
	default:
		return "%s: %d", []any{t.Kind.String(), t.Amount}
	}
}

// String renders the term as an English display line.
func (t Term) String() string {
	format, args := t.Format()
	return fmt.Sprintf(format, args...)
}

// FormatTerms renders terms as English display lines, preserving order.
func FormatTerms(terms []Term) []string {
	lines := make([]string, 0, len(terms))
	for _, t := range terms {
		lines = append(lines, t.String())
	}
	return lines
}
