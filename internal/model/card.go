package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownSlot     = errors.New("unknown card slot")
	ErrUnknownPosition = errors.New("unknown team position")
)

// CardSlot identifies one of the four body-part slots of an axie.
type CardSlot int32

const (
	SlotEars CardSlot = iota
	SlotHorn
	SlotBack
	SlotTail
)

// SlotCount is the number of card slots on every axie.
const SlotCount = 4

var allSlots = [SlotCount]CardSlot{SlotEars, SlotHorn, SlotBack, SlotTail}

// AllSlots returns the slots in display order (ears, horn, back, tail).
func AllSlots() []CardSlot {
	out := make([]CardSlot, SlotCount)
	copy(out, allSlots[:])
	return out
}

// String returns the persisted slot name.
func (s CardSlot) String() string {
	switch s {
	case SlotEars:
		return "ears"
	case SlotHorn:
		return "horn"
	case SlotBack:
		return "back"
	case SlotTail:
		return "tail"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the four slots.
func (s CardSlot) Valid() bool {
	return s >= SlotEars && s <= SlotTail
}

// ParseCardSlot parses a slot name, case-insensitive.
func ParseCardSlot(name string) (CardSlot, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ears":
		return SlotEars, nil
	case "horn":
		return SlotHorn, nil
	case "back":
		return SlotBack, nil
	case "tail":
		return SlotTail, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSlot, name)
	}
}

// EffectKind tags the special effect a card applies during damage resolution.
// Resolved once when card data is defined so the resolver never
// compares card names.
type EffectKind int32

const (
	// EffectNone -- no special effect.
	EffectNone EffectKind = iota
	// EffectFuryFlatBonus -- flat bonus while the axie is in fury (IMP).
	EffectFuryFlatBonus
	// EffectEnergyScaledBonus -- 50% of attack per energy spent beforehand (RONIN).
	EffectEnergyScaledBonus
)

// String returns human-readable effect kind name.
func (k EffectKind) String() string {
	switch k {
	case EffectNone:
		return "none"
	case EffectFuryFlatBonus:
		return "furyFlatBonus"
	case EffectEnergyScaledBonus:
		return "energyScaledBonus"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the defined effect kinds.
func (k EffectKind) Valid() bool {
	return k >= EffectNone && k <= EffectEnergyScaledBonus
}

// ParseEffectKind parses the persisted effect kind name.
// Unknown names map to EffectNone.
func ParseEffectKind(name string) EffectKind {
	switch name {
	case "furyFlatBonus":
		return EffectFuryFlatBonus
	case "energyScaledBonus":
		return EffectEnergyScaledBonus
	default:
		return EffectNone
	}
}

// Card is one equipped card. Value type.
type Card struct {
	ID            string
	Name          string
	BaseAttack    int
	EvolvedAttack int
	Evolved       bool
	AmuletBonus   int // flat, >= 0
	Effect        EffectKind
	Description   string // display only
}

// Attack returns the attack value in effect: evolved attack when the card
// is evolved, base attack otherwise.
func (c Card) Attack() int {
	if c.Evolved {
		return c.EvolvedAttack
	}
	return c.BaseAttack
}

// WithEvolved returns a copy of the card with the evolved flag set.
func (c Card) WithEvolved(evolved bool) Card {
	c.Evolved = evolved
	return c
}

// WithAmulet returns a copy of the card with a clamped amulet bonus.
func (c Card) WithAmulet(bonus int) Card {
	c.AmuletBonus = ClampAmulet(bonus)
	return c
}
