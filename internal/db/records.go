package db

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/udisondev/ragecalc/internal/data"
	"github.com/udisondev/ragecalc/internal/model"
)

// The record types mirror the persisted team document. Every field older
// saves may lack is a pointer; ToModel fills the documented defaults.

// TeamRecord is the persisted "team" value.
type TeamRecord struct {
	Front *AxieRecord `json:"front,omitempty" yaml:"front,omitempty"`
	Mid   *AxieRecord `json:"mid,omitempty" yaml:"mid,omitempty"`
	Back  *AxieRecord `json:"back,omitempty" yaml:"back,omitempty"`
}

// AxieRecord is one persisted axie.
type AxieRecord struct {
	ID             string            `json:"id,omitempty" yaml:"id,omitempty"`
	Position       string            `json:"position,omitempty" yaml:"position,omitempty"`
	Cards          *CardsRecord      `json:"cards,omitempty" yaml:"cards,omitempty"`
	RuneType       *string           `json:"runeType,omitempty" yaml:"runeType,omitempty"`
	Rune           *RuneRecord       `json:"rune,omitempty" yaml:"rune,omitempty"`
	CustomRune     *CustomRuneRecord `json:"customRune,omitempty" yaml:"customRune,omitempty"`
	FuryState      *FuryRecord       `json:"furyState,omitempty" yaml:"furyState,omitempty"`
	EnergySpent    *int              `json:"energySpent,omitempty" yaml:"energySpent,omitempty"`
	PureDamageUsed *int              `json:"pureDamageUsed,omitempty" yaml:"pureDamageUsed,omitempty"`
}

// CardsRecord holds the four slots of an axie.
type CardsRecord struct {
	Ears *CardRecord `json:"ears,omitempty" yaml:"ears,omitempty"`
	Horn *CardRecord `json:"horn,omitempty" yaml:"horn,omitempty"`
	Back *CardRecord `json:"back,omitempty" yaml:"back,omitempty"`
	Tail *CardRecord `json:"tail,omitempty" yaml:"tail,omitempty"`
}

// CardRecord is one persisted card.
type CardRecord struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	BaseAttack    *int   `json:"baseAttack,omitempty" yaml:"baseAttack,omitempty"`
	EvolvedAttack *int   `json:"evolvedAttack,omitempty" yaml:"evolvedAttack,omitempty"`
	IsEvolved     bool   `json:"isEvolved" yaml:"isEvolved"`
	AmuletBonus   int    `json:"amuletBonus" yaml:"amuletBonus"`
	Effect        string `json:"effect,omitempty" yaml:"effect,omitempty"`
	EffectKind    string `json:"effectKind,omitempty" yaml:"effectKind,omitempty"`
}

// RuneRecord references a catalog rune. Only (family, level) is
// authoritative; older saves carry just the id ("wayOfBeast2").
type RuneRecord struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Family string `json:"family,omitempty" yaml:"family,omitempty"`
	Level  int    `json:"level,omitempty" yaml:"level,omitempty"`
}

// CustomRuneRecord is a persisted custom rune.
type CustomRuneRecord struct {
	DamageBonus     *int `json:"damageBonus,omitempty" yaml:"damageBonus,omitempty"`
	FuryDamageBonus *int `json:"furyDamageBonus,omitempty" yaml:"furyDamageBonus,omitempty"`
}

// FuryRecord is a persisted fury state. IsInFury is written for readers of
// the document and ignored on load.
type FuryRecord struct {
	IsInFury     bool `json:"isInFury" yaml:"isInFury"`
	RageStacks   int  `json:"rageStacks" yaml:"rageStacks"`
	AlliesInFury int  `json:"alliesInFury" yaml:"alliesInFury"`
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func intPtr(v int) *int { return &v }

// ToModel normalises the record into a Team. Absent axies, cards and fields
// take their defaults, numbers are clamped, runes are re-resolved from the
// catalog.
func (r *TeamRecord) ToModel() model.Team {
	team := data.DefaultTeam()
	if r == nil {
		return team
	}
	for _, pos := range model.AllPositions() {
		if rec := r.axie(pos); rec != nil {
			team = team.WithAxie(pos, rec.ToModel(pos))
		}
	}
	return team
}

func (r *TeamRecord) axie(pos model.Position) *AxieRecord {
	switch pos {
	case model.PositionFront:
		return r.Front
	case model.PositionMid:
		return r.Mid
	case model.PositionBack:
		return r.Back
	default:
		return nil
	}
}

// ToModel normalises one axie record placed at pos.
func (r *AxieRecord) ToModel(pos model.Position) model.Axie {
	a := data.DefaultAxie(pos)
	if r == nil {
		return a
	}

	for _, slot := range model.AllSlots() {
		if rec := r.Cards.card(slot); rec != nil {
			a.Cards[slot] = rec.ToModel(slot)
		}
	}

	runeType := ""
	if r.RuneType != nil {
		runeType = *r.RuneType
	}
	switch model.ParseRuneKind(runeType) {
	case model.RuneKindDefined:
		a.Rune = r.Rune.resolve(pos)
	case model.RuneKindCustom:
		a.Rune = model.CustomRuneOf(r.CustomRune.toModel())
	default:
		a.Rune = model.NoRune()
	}

	if r.FuryState != nil {
		a.Fury.RageStacks = r.FuryState.RageStacks
		a.Fury.AlliesInFury = r.FuryState.AlliesInFury
	}
	a.EnergySpent = intOr(r.EnergySpent, 0)
	a.PureDamageUsed = intOr(r.PureDamageUsed, 0)

	return a.Clamped()
}

func (c *CardsRecord) card(slot model.CardSlot) *CardRecord {
	if c == nil {
		return nil
	}
	switch slot {
	case model.SlotEars:
		return c.Ears
	case model.SlotHorn:
		return c.Horn
	case model.SlotBack:
		return c.Back
	case model.SlotTail:
		return c.Tail
	default:
		return nil
	}
}

// ToModel normalises a card. Catalog cards take their attack values and
// effect kind from the catalog unless the record overrides them.
func (c *CardRecord) ToModel(slot model.CardSlot) model.Card {
	card, err := data.CardByID(c.ID)
	if err != nil {
		card = model.Card{ID: c.ID}
		if c.ID == "" {
			card = data.SlotDefault(slot)
		}
	}
	if c.Name != "" {
		card.Name = c.Name
	}
	card.BaseAttack = intOr(c.BaseAttack, card.BaseAttack)
	card.EvolvedAttack = intOr(c.EvolvedAttack, card.EvolvedAttack)
	card.Evolved = c.IsEvolved
	card.AmuletBonus = model.ClampAmulet(c.AmuletBonus)
	if c.EffectKind != "" {
		card.Effect = model.ParseEffectKind(c.EffectKind)
	}
	if c.Effect != "" {
		card.Description = c.Effect
	}
	return card
}

// splitRuneID splits a legacy rune id such as "bloodBeetle3" into
// family and level.
func splitRuneID(id string) (model.RuneFamily, int, bool) {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	if i == 0 || i == len(id) {
		return "", 0, false
	}
	level, err := strconv.Atoi(id[i:])
	if err != nil {
		return "", 0, false
	}
	return model.RuneFamily(id[:i]), level, true
}

func (r *RuneRecord) resolve(pos model.Position) model.RuneSelection {
	if r == nil {
		return model.NoRune()
	}
	family, level := model.RuneFamily(strings.TrimSpace(r.Family)), r.Level
	if family == "" || level == 0 {
		f, l, ok := splitRuneID(r.ID)
		if !ok {
			slog.Warn("dropping persisted rune without family", "position", pos, "id", r.ID)
			return model.NoRune()
		}
		family, level = f, l
	}
	found, ok := data.FindRune(family, level)
	if !ok {
		slog.Warn("dropping unknown persisted rune", "position", pos, "family", family, "level", level)
		return model.NoRune()
	}
	return model.DefinedRune(found)
}

func (c *CustomRuneRecord) toModel() model.CustomRune {
	if c == nil {
		return model.CustomRune{}
	}
	return model.CustomRune{
		DamageBonus:     intOr(c.DamageBonus, 0),
		FuryDamageBonus: intOr(c.FuryDamageBonus, 0),
	}
}

// TeamRecordFromModel converts a team into its persisted form.
func TeamRecordFromModel(t model.Team) TeamRecord {
	return TeamRecord{
		Front: axieRecordPtr(t.Axie(model.PositionFront)),
		Mid:   axieRecordPtr(t.Axie(model.PositionMid)),
		Back:  axieRecordPtr(t.Axie(model.PositionBack)),
	}
}

func axieRecordPtr(a model.Axie) *AxieRecord {
	rec := AxieRecordFromModel(a)
	return &rec
}

// AxieRecordFromModel converts one axie into its persisted form.
func AxieRecordFromModel(a model.Axie) AxieRecord {
	runeType := a.Rune.Kind().String()
	rec := AxieRecord{
		ID:       a.Position.String(),
		Position: a.Position.Label(),
		Cards: &CardsRecord{
			Ears: cardRecordPtr(a.Card(model.SlotEars)),
			Horn: cardRecordPtr(a.Card(model.SlotHorn)),
			Back: cardRecordPtr(a.Card(model.SlotBack)),
			Tail: cardRecordPtr(a.Card(model.SlotTail)),
		},
		RuneType: &runeType,
		FuryState: &FuryRecord{
			IsInFury:     a.InFury(),
			RageStacks:   a.Fury.RageStacks,
			AlliesInFury: a.Fury.AlliesInFury,
		},
		EnergySpent:    intPtr(a.EnergySpent),
		PureDamageUsed: intPtr(a.PureDamageUsed),
	}
	if r, ok := a.Rune.Defined(); ok {
		rec.Rune = &RuneRecord{ID: r.ID, Name: r.Name, Family: string(r.Family), Level: r.Level}
	}
	if c, ok := a.Rune.Custom(); ok {
		rec.CustomRune = &CustomRuneRecord{
			DamageBonus:     intPtr(c.DamageBonus),
			FuryDamageBonus: intPtr(c.FuryDamageBonus),
		}
	}
	return rec
}

func cardRecordPtr(c model.Card) *CardRecord {
	rec := CardRecordFromModel(c)
	return &rec
}

// CardRecordFromModel converts a card into its persisted form.
func CardRecordFromModel(c model.Card) CardRecord {
	return CardRecord{
		ID:            c.ID,
		Name:          c.Name,
		BaseAttack:    intPtr(c.BaseAttack),
		EvolvedAttack: intPtr(c.EvolvedAttack),
		IsEvolved:     c.Evolved,
		AmuletBonus:   c.AmuletBonus,
		Effect:        c.Description,
		EffectKind:    c.Effect.String(),
	}
}
