package data

import (
	"errors"
	"fmt"

	"github.com/udisondev/ragecalc/internal/model"
)

var ErrUnknownCard = errors.New("unknown card")

// --- Cards ---

type cardDef struct {
	id            string
	name          string
	baseAttack    int
	evolvedAttack int
	effect        model.EffectKind
	description   string
}

// cardDefs is the shipped team card list, in catalog order.
var cardDefs = []cardDef{
	{
		id: "zen", name: "ZEN", baseAttack: 65, evolvedAttack: 75,
		effect:      model.EffectNone,
		description: "No special effect",
	},
	{
		id: "imp", name: "IMP", baseAttack: 65, evolvedAttack: 75,
		effect:      model.EffectFuryFlatBonus,
		description: "When the axie enters fury, gains +35 attack",
	},
	{
		id: "ronin", name: "RONIN", baseAttack: 45, evolvedAttack: 50,
		effect:      model.EffectEnergyScaledBonus,
		description: "For each energy spent before playing this card, deals 50% of its attack as bonus",
	},
	{
		id: "shiba", name: "SHIBA", baseAttack: 140, evolvedAttack: 160,
		effect:      model.EffectNone,
		description: "No special effect",
	},
}

// slotDefaults maps every slot to the card it carries in a fresh team.
var slotDefaults = [model.SlotCount]string{
	model.SlotEars: "zen",
	model.SlotHorn: "imp",
	model.SlotBack: "ronin",
	model.SlotTail: "shiba",
}

// IMPFuryBonus is the flat bonus of EffectFuryFlatBonus cards while in fury.
const IMPFuryBonus = 35

func (d *cardDef) toCard() model.Card {
	return model.Card{
		ID:            d.id,
		Name:          d.name,
		BaseAttack:    d.baseAttack,
		EvolvedAttack: d.evolvedAttack,
		Effect:        d.effect,
		Description:   d.description,
	}
}

// Cards returns every catalog card, unevolved and without amulet.
func Cards() []model.Card {
	out := make([]model.Card, 0, len(cardDefs))
	for i := range cardDefs {
		out = append(out, cardDefs[i].toCard())
	}
	return out
}

// CardByID returns a fresh copy of the catalog card with the given id.
func CardByID(id string) (model.Card, error) {
	catalog()
	def, ok := cardTable[id]
	if !ok {
		return model.Card{}, fmt.Errorf("%w: %q", ErrUnknownCard, id)
	}
	return def.toCard(), nil
}

// SlotDefault returns the card a fresh axie carries in slot.
func SlotDefault(slot model.CardSlot) model.Card {
	if !slot.Valid() {
		return model.Card{}
	}
	catalog()
	return cardTable[slotDefaults[slot]].toCard()
}
