package data

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/udisondev/ragecalc/internal/model"
)

var (
	ErrUnknownRune    = errors.New("unknown rune")
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// --- Runes ---

// runeFamilyOrder is the catalog display order.
var runeFamilyOrder = []model.RuneFamily{
	model.FamilyWayOfBeast,
	model.FamilyInspirationalHero,
	model.FamilyEndlessAnger,
	model.FamilyBloodBeetle,
	model.FamilyFateMaker,
	model.FamilyRocketBarrage,
}

var runeDefs = []model.Rune{
	// Way of Beast
	{
		ID: "wayOfBeast1", Family: model.FamilyWayOfBeast, Name: "Way of Beast Lv1", Level: 1,
		Effect:    "When the battle starts, +2 Rage. Attacks deal +10% DMG",
		RageBonus: 2, DamageBonus: 10,
	},
	{
		ID: "wayOfBeast2", Family: model.FamilyWayOfBeast, Name: "Way of Beast Lv2", Level: 2,
		Effect:    "When the battle starts, +2 Rage. When your turn starts on Round 4, +1 Rage. Attacks deal +12% DMG",
		RageBonus: 2, DamageBonus: 12,
	},
	{
		ID: "wayOfBeast3", Family: model.FamilyWayOfBeast, Name: "Way of Beast Lv3", Level: 3,
		Effect:    "When the battle starts, +2 Rage. When your turn starts on Round 4, +2 Rage. Attacks deal +15% DMG",
		RageBonus: 2, DamageBonus: 15,
	},
	{
		ID: "wayOfBeast4", Family: model.FamilyWayOfBeast, Name: "Way of Beast Lv4", Level: 4,
		Effect:    "When the battle starts, +1 Rage. When your turn starts, +1 Rage. Attacks deal +15% DMG, +5% in Fury form",
		RageBonus: 1, DamageBonus: 15, FuryDamageBonus: 5,
	},

	// Inspirational Hero: +5% card stat per level while an ally is in fury
	{
		ID: "inspirationalHero1", Family: model.FamilyInspirationalHero, Name: "Inspirational Hero Lv1", Level: 1,
		Effect: "When your turn starts, on even rounds, apply 1 Rage to allied axies. This axie gain +5% card stat when any allies gain Fury",
	},
	{
		ID: "inspirationalHero2", Family: model.FamilyInspirationalHero, Name: "Inspirational Hero Lv2", Level: 2,
		Effect: "When your turn starts, on even rounds, apply 1 Rage to allied axies. This axie gain +10% card stat when any allies gain Fury",
	},
	{
		ID: "inspirationalHero3", Family: model.FamilyInspirationalHero, Name: "Inspirational Hero Lv3", Level: 3,
		Effect: "When your turn starts, on even rounds, apply 1 Rage to allied axies. This axie gain +15% card stat when any allies gain Fury",
	},

	// Endless Anger
	{
		ID: "endlessAnger1", Family: model.FamilyEndlessAnger, Name: "Endless Anger Lv1", Level: 1,
		Effect:    "When your turn starts, +2 Rage. Rage on this axie now grants +2 DMG per stack. Deal +10% in fury form",
		RageBonus: 2, RagePerStack: 2, FuryDamageBonus: 10,
	},
	{
		ID: "endlessAnger2", Family: model.FamilyEndlessAnger, Name: "Endless Anger Lv2", Level: 2,
		Effect:       "+2 DMG per stack and deal +10% in fury form",
		RagePerStack: 2, FuryDamageBonus: 10,
	},
	{
		ID: "endlessAnger3", Family: model.FamilyEndlessAnger, Name: "Endless Anger Lv3", Level: 3,
		Effect:       "+2 DMG per stack and deal +15% in fury form",
		RagePerStack: 2, FuryDamageBonus: 15,
	},

	// Blood Beetle: pure damage, limited triggers per turn
	{
		ID: "bloodBeetle1", Family: model.FamilyBloodBeetle, Name: "Blood Beetle Lv1", Level: 1,
		Effect:          "Once per turn, this Axie's first attack deals pure DMG. This axie's pure DMG attack deal +10% DMG and on targets without Alert, Steal 10HP",
		PureDamageBonus: 10, PureDamageCount: 1,
	},
	{
		ID: "bloodBeetle2", Family: model.FamilyBloodBeetle, Name: "Blood Beetle Lv2", Level: 2,
		Effect:          "Once per turn, this Axie's first attack deals pure DMG. This axie's pure DMG attack deal +12% DMG and on targets without Alert, Steal 12HP",
		PureDamageBonus: 12, PureDamageCount: 1,
	},
	{
		ID: "bloodBeetle3", Family: model.FamilyBloodBeetle, Name: "Blood Beetle Lv3", Level: 3,
		Effect:          "Twice per turn, this Axie's first attack deals pure DMG. This axie's pure DMG attack deal +10% DMG and on targets without Alert, Steal 10HP",
		PureDamageBonus: 10, PureDamageCount: 2,
	},
	{
		ID: "bloodBeetle4", Family: model.FamilyBloodBeetle, Name: "Blood Beetle Lv4", Level: 4,
		Effect:          "Twice per turn, this Axie's first attack deals pure DMG. This axie's pure DMG attack deal +15% DMG and on targets without Alert, Steal 16HP",
		PureDamageBonus: 15, PureDamageCount: 2,
	},

	// No effect on card damage
	{
		ID: "fateMaker1", Family: model.FamilyFateMaker, Name: "Fate Maker", Level: 1,
		Effect: "No effect on card damage",
	},
	{
		ID: "rocketBarrage1", Family: model.FamilyRocketBarrage, Name: "Rocket Barrage", Level: 1,
		Effect: "No effect on card damage",
	},
}

type runeKey struct {
	family model.RuneFamily
	level  int
}

var (
	catalogOnce sync.Once
	catalogErr  error
	cardTable   map[string]*cardDef
	runeTable   map[runeKey]model.Rune
	runeIndex   map[model.RuneFamily][]model.Rune
)

func buildCatalog() {
	cardTable, runeTable, runeIndex, catalogErr = indexCatalog(cardDefs, runeDefs, slotDefaults)
}

// indexCatalog builds the lookup tables and reports every table violation.
// On a duplicate the first entry wins.
func indexCatalog(cards []cardDef, runes []model.Rune, defaults [model.SlotCount]string) (
	map[string]*cardDef, map[runeKey]model.Rune, map[model.RuneFamily][]model.Rune, error,
) {
	var errs []error

	byID := make(map[string]*cardDef, len(cards))
	for i := range cards {
		c := &cards[i]
		if _, dup := byID[c.id]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate card id %q", ErrInvalidCatalog, c.id))
			continue
		}
		if !c.effect.Valid() {
			errs = append(errs, fmt.Errorf("%w: card %q has unknown effect kind %d", ErrInvalidCatalog, c.id, c.effect))
		}
		byID[c.id] = c
	}

	for slot, id := range defaults {
		if _, ok := byID[id]; !ok {
			errs = append(errs, fmt.Errorf("%w: default card %q for slot %s not in catalog",
				ErrInvalidCatalog, id, model.CardSlot(slot)))
		}
	}

	byKey := make(map[runeKey]model.Rune, len(runes))
	byFamily := make(map[model.RuneFamily][]model.Rune, len(runeFamilyOrder))
	for _, r := range runes {
		key := runeKey{family: r.Family, level: r.Level}
		if _, dup := byKey[key]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate rune %s level %d", ErrInvalidCatalog, r.Family, r.Level))
			continue
		}
		byKey[key] = r
		byFamily[r.Family] = append(byFamily[r.Family], r)
	}

	return byID, byKey, byFamily, errors.Join(errs...)
}

func catalog() {
	catalogOnce.Do(buildCatalog)
}

// LoadCatalog builds the card and rune lookup tables and validates them.
// Accessors build the tables lazily as well, so a failed check only
// surfaces here.
func LoadCatalog() error {
	catalog()
	if catalogErr != nil {
		return fmt.Errorf("validating catalog: %w", catalogErr)
	}
	slog.Info("loaded catalog", "cards", len(cardTable), "runes", len(runeTable), "families", len(runeIndex))
	return nil
}

// RuneFamilies returns every rune family key in display order.
func RuneFamilies() []model.RuneFamily {
	out := make([]model.RuneFamily, len(runeFamilyOrder))
	copy(out, runeFamilyOrder)
	return out
}

// Runes returns the levels of a family, lowest first. Unknown families
// return nil.
func Runes(family model.RuneFamily) []model.Rune {
	catalog()
	levels := runeIndex[family]
	if levels == nil {
		return nil
	}
	out := make([]model.Rune, len(levels))
	copy(out, levels)
	return out
}

// FindRune looks up a rune by (family, level).
func FindRune(family model.RuneFamily, level int) (model.Rune, bool) {
	catalog()
	r, ok := runeTable[runeKey{family: family, level: level}]
	return r, ok
}

// LookupRune is FindRune that reports a wrapped ErrUnknownRune.
func LookupRune(family model.RuneFamily, level int) (model.Rune, error) {
	r, ok := FindRune(family, level)
	if !ok {
		return model.Rune{}, fmt.Errorf("%w: %s level %d", ErrUnknownRune, family, level)
	}
	return r, nil
}
