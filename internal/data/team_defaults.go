package data

import "github.com/udisondev/ragecalc/internal/model"

// DefaultAxie returns a fresh axie for pos: default cards, no rune,
// zero counters.
func DefaultAxie(pos model.Position) model.Axie {
	a := model.Axie{
		ID:       pos.String(),
		Position: pos,
		Rune:     model.NoRune(),
	}
	for _, slot := range model.AllSlots() {
		a.Cards[slot] = SlotDefault(slot)
	}
	return a
}

// DefaultTeam returns the team a new installation starts with.
func DefaultTeam() model.Team {
	var t model.Team
	for _, pos := range model.AllPositions() {
		t = t.WithAxie(pos, DefaultAxie(pos))
	}
	return t
}
