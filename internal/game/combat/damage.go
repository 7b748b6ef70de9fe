package combat

import (
	"github.com/udisondev/ragecalc/internal/data"
	"github.com/udisondev/ragecalc/internal/model"
)

const (
	// baseFuryPercent is the damage multiplier bonus every axie gets in fury.
	baseFuryPercent = 50
	// heroPercentPerLevel is the Inspirational Hero card stat bonus per rune level.
	heroPercentPerLevel = 5
)

// DamageResult is the outcome of one card damage calculation.
type DamageResult struct {
	BaseDamage      int `json:"baseDamage"`
	AmuletBonus     int `json:"amuletBonus"`
	SpecialEffects  int `json:"specialEffects"`
	RuneBonus       int `json:"runeBonus"`
	FuryDamageBonus int `json:"furyDamageBonus"`
	FuryBonus       int `json:"furyBonus"` // Inspirational Hero, allies in fury
	RageBonus       int `json:"rageBonus"`

	// TotalDamage is the damage before reduction.
	TotalDamage int `json:"totalDamage"`
	// FinalDamage is the damage after reduction, never below 1.
	FinalDamage int `json:"finalDamage"`

	// Terms lists every applied term in computation order.
	Terms []Term `json:"terms"`
	// Breakdown is Terms rendered as English display lines.
	Breakdown []string `json:"breakdown"`
}

// CalcCardDamage calculates the damage of the card in slot played by axie
// against a target described by cfg.
//
// Order (integer floor math at every step):
//  1. base = evolved ? evolvedAttack : baseAttack
//  2. + amulet
//  3. + special effect (IMP +35 in fury; RONIN (base+amulet) × 50% × energy)
//  4. + rune % on the running subtotal (custom or defined; Blood Beetle pure damage)
//  5. + fury (50% + rune fury %) on the running subtotal, only in fury
//  6. + rage stacks × ragePerStack, only outside fury
//  7. + Inspirational Hero (base+amulet) × level×5%, only outside fury with allies in fury
//  8. final = max(1, total × (100 - reduction) / 100)
//
// Pure: axie and cfg are snapshots and are never modified.
func CalcCardDamage(axie model.Axie, slot model.CardSlot, cfg model.DamageConfig) DamageResult {
	card := axie.Card(slot)
	inFury := axie.InFury()
	terms := make([]Term, 0, 8)

	// 1. Base
	baseDamage := card.Attack()
	terms = append(terms, Term{Kind: TermBase, Amount: baseDamage})

	// 2. Amulet
	amuletBonus := card.AmuletBonus
	if amuletBonus > 0 {
		terms = append(terms, Term{Kind: TermAmulet, Amount: amuletBonus})
	}
	cardStat := baseDamage + amuletBonus

	// 3. Special effects
	specialEffects := 0
	switch card.Effect {
	case model.EffectFuryFlatBonus:
		if inFury {
			specialEffects += data.IMPFuryBonus
			terms = append(terms, Term{Kind: TermFuryFlatBonus, Amount: data.IMPFuryBonus, Label: card.Name})
		}
	case model.EffectEnergyScaledBonus:
		// floor(cardStat × 0.5 × energy), exact for non-negative ints
		bonus := cardStat * axie.EnergySpent / 2
		if bonus > 0 {
			specialEffects += bonus
			terms = append(terms, Term{Kind: TermEnergyScaledBonus, Amount: bonus, Label: card.Name, Param: axie.EnergySpent})
		}
	}
	subtotal := cardStat + specialEffects

	// 4. Rune bonus, before fury so it compounds into the fury multiplier
	runeBonus := 0
	defined, hasDefined := axie.Rune.Defined()
	if custom, ok := axie.Rune.Custom(); ok {
		if custom.DamageBonus != 0 {
			bonus := percentOf(subtotal, custom.DamageBonus)
			runeBonus += bonus
			terms = append(terms, Term{Kind: TermCustomRuneDamage, Amount: bonus, Param: custom.DamageBonus})
		}
	} else if hasDefined {
		if defined.DamageBonus != 0 {
			bonus := percentOf(subtotal, defined.DamageBonus)
			runeBonus += bonus
			terms = append(terms, Term{Kind: TermRuneDamage, Amount: bonus, Label: defined.Name, Param: defined.DamageBonus})
		}
		if defined.Family == model.FamilyBloodBeetle && axie.PureDamageUsed < defined.PureDamageCount {
			bonus := percentOf(subtotal, defined.PureDamageBonus)
			runeBonus += bonus
			terms = append(terms, Term{Kind: TermPureDamage, Amount: bonus, Label: defined.Name, Param: defined.PureDamageBonus})
		}
	}
	subtotal += runeBonus

	// 5. Fury multiplier
	furyDamageBonus := 0
	if inFury {
		pct := baseFuryPercent + axie.Rune.FuryDamageBonus()
		furyDamageBonus = percentOf(subtotal, pct)
		terms = append(terms, Term{Kind: TermFury, Amount: furyDamageBonus, Param: pct})
	}
	subtotal += furyDamageBonus

	// 6. Rage stacks, forfeited in fury
	rageBonus := 0
	if !inFury && axie.Fury.RageStacks > 0 {
		rageBonus = axie.Fury.RageStacks * axie.Rune.RagePerStack()
		terms = append(terms, Term{Kind: TermRage, Amount: rageBonus, Param: axie.Fury.RageStacks})
	}

	// 7. Inspirational Hero, on base+amulet only
	furyBonus := 0
	if !inFury && hasDefined && defined.Family == model.FamilyInspirationalHero && axie.Fury.AlliesInFury > 0 {
		furyBonus = percentOf(cardStat, defined.Level*heroPercentPerLevel)
		terms = append(terms, Term{Kind: TermAllyFury, Amount: furyBonus, Label: defined.Name, Param: axie.Fury.AlliesInFury})
	}

	totalDamage := subtotal + rageBonus + furyBonus

	// 8. Damage reduction with a floor of 1
	finalDamage := ApplyReduction(totalDamage, cfg.DamageReduction)
	if cfg.DamageReduction > 0 {
		terms = append(terms, Term{Kind: TermReduction, Amount: finalDamage, Param: cfg.DamageReduction, Before: totalDamage})
	}

	return DamageResult{
		BaseDamage:      baseDamage,
		AmuletBonus:     amuletBonus,
		SpecialEffects:  specialEffects,
		RuneBonus:       runeBonus,
		FuryDamageBonus: furyDamageBonus,
		FuryBonus:       furyBonus,
		RageBonus:       rageBonus,
		TotalDamage:     totalDamage,
		FinalDamage:     finalDamage,
		Terms:           terms,
		Breakdown:       FormatTerms(terms),
	}
}

// ApplyReduction returns max(1, floor(total × (100 - reduction) / 100)).
func ApplyReduction(total, reduction int) int {
	damage := total * (100 - reduction) / 100
	if damage < 1 {
		return 1
	}
	return damage
}

// percentOf returns floor(value × pct / 100) for non-negative inputs.
func percentOf(value, pct int) int {
	return value * pct / 100
}

// SlotDamage pairs a slot with its result.
type SlotDamage struct {
	Slot   model.CardSlot
	Result DamageResult
}

// CalcAxieDamage calculates every slot of axie in slot order.
func CalcAxieDamage(axie model.Axie, cfg model.DamageConfig) []SlotDamage {
	out := make([]SlotDamage, 0, model.SlotCount)
	for _, slot := range model.AllSlots() {
		out = append(out, SlotDamage{Slot: slot, Result: CalcCardDamage(axie, slot, cfg)})
	}
	return out
}

// TeamDamage holds the results for one position.
type TeamDamage struct {
	Position model.Position
	Slots    []SlotDamage
}

// CalcTeamDamage calculates all twelve (position, slot) pairs of team.
func CalcTeamDamage(team model.Team, cfg model.DamageConfig) []TeamDamage {
	out := make([]TeamDamage, 0, model.TeamSize)
	for _, pos := range model.AllPositions() {
		out = append(out, TeamDamage{Position: pos, Slots: CalcAxieDamage(team.Axie(pos), cfg)})
	}
	return out
}
