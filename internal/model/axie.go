package model

import (
	"fmt"
	"strings"
)

// FuryThreshold is the rage stack count at which an axie enters fury.
const FuryThreshold = 10

// FuryState tracks rage on one axie. Fury is derived from RageStacks.
type FuryState struct {
	RageStacks   int // 0..MaxRageStacks
	AlliesInFury int // 0..MaxAlliesInFury
}

// InFury reports whether the axie is in fury (RageStacks >= FuryThreshold).
func (f FuryState) InFury() bool {
	return f.RageStacks >= FuryThreshold
}

// Position is a fixed team slot.
type Position int32

const (
	PositionFront Position = iota
	PositionMid
	PositionBack
)

// TeamSize is the fixed number of axies in a team.
const TeamSize = 3

var allPositions = [TeamSize]Position{PositionFront, PositionMid, PositionBack}

// AllPositions returns positions in display order (front, mid, back).
func AllPositions() []Position {
	out := make([]Position, TeamSize)
	copy(out, allPositions[:])
	return out
}

// String returns the persisted position key.
func (p Position) String() string {
	switch p {
	case PositionFront:
		return "front"
	case PositionMid:
		return "mid"
	case PositionBack:
		return "back"
	default:
		return "unknown"
	}
}

// Label returns the capitalised display label ("Front", "Mid", "Back").
func (p Position) Label() string {
	s := p.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// Valid reports whether p is one of the three team positions.
func (p Position) Valid() bool {
	return p >= PositionFront && p <= PositionBack
}

// ParsePosition parses a position key, case-insensitive.
func ParsePosition(name string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "front":
		return PositionFront, nil
	case "mid":
		return PositionMid, nil
	case "back":
		return PositionBack, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPosition, name)
	}
}

// Axie is a snapshot of one unit. Value type: copying an Axie copies its
// cards, so a snapshot handed to the resolver can not be mutated by the owner.
type Axie struct {
	ID       string
	Position Position
	Cards    [SlotCount]Card
	Rune     RuneSelection
	Fury     FuryState

	EnergySpent    int // 0..MaxEnergy, drives EffectEnergyScaledBonus
	PureDamageUsed int // pure damage triggers already fired this turn
}

// Card returns the card equipped in slot. Invalid slots return the zero Card.
func (a Axie) Card(slot CardSlot) Card {
	if !slot.Valid() {
		return Card{}
	}
	return a.Cards[slot]
}

// WithCard returns a copy of the axie with card placed in slot.
func (a Axie) WithCard(slot CardSlot, card Card) Axie {
	if slot.Valid() {
		a.Cards[slot] = card
	}
	return a
}

// InFury reports whether the axie is in fury.
func (a Axie) InFury() bool {
	return a.Fury.InFury()
}

// Clamped returns a copy of the axie with every counter and amulet clamped
// to its documented range.
func (a Axie) Clamped() Axie {
	a.Fury.RageStacks = ClampRageStacks(a.Fury.RageStacks)
	a.Fury.AlliesInFury = ClampAllies(a.Fury.AlliesInFury)
	a.EnergySpent = ClampEnergy(a.EnergySpent)
	a.PureDamageUsed = ClampCounter(a.PureDamageUsed)
	for i := range a.Cards {
		a.Cards[i].AmuletBonus = ClampAmulet(a.Cards[i].AmuletBonus)
	}
	return a
}

// Team holds exactly three axies keyed by position.
type Team struct {
	Axies [TeamSize]Axie
}

// Axie returns the axie at pos. Invalid positions return the zero Axie.
func (t Team) Axie(pos Position) Axie {
	if !pos.Valid() {
		return Axie{}
	}
	return t.Axies[pos]
}

// WithAxie returns a copy of the team with the axie at pos replaced.
// The axie's Position and ID are forced to pos.
func (t Team) WithAxie(pos Position, a Axie) Team {
	if !pos.Valid() {
		return t
	}
	a.Position = pos
	a.ID = pos.String()
	t.Axies[pos] = a
	return t
}

// AlliesInFury counts axies other than pos that are in fury.
func (t Team) AlliesInFury(pos Position) int {
	n := 0
	for _, p := range allPositions {
		if p != pos && t.Axies[p].InFury() {
			n++
		}
	}
	return n
}
