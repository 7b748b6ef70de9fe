package combat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/ragecalc/internal/data"
	"github.com/udisondev/ragecalc/internal/model"
)

// --- helpers ---

func newTestAxie(t *testing.T) model.Axie {
	t.Helper()
	return data.DefaultAxie(model.PositionFront)
}

func withRune(t *testing.T, a model.Axie, family model.RuneFamily, level int) model.Axie {
	t.Helper()
	r, ok := data.FindRune(family, level)
	require.True(t, ok, "rune %s level %d", family, level)
	a.Rune = model.DefinedRune(r)
	return a
}

func withAmulet(a model.Axie, slot model.CardSlot, bonus int) model.Axie {
	return a.WithCard(slot, a.Card(slot).WithAmulet(bonus))
}

var noReduction = model.DamageConfig{}

// --- scenarios ---

func TestCalcCardDamage_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		setup         func(t *testing.T, a model.Axie) model.Axie
		slot          model.CardSlot
		cfg           model.DamageConfig
		wantFinal     int
		wantBreakdown []string
	}{
		{
			name:          "plain card",
			setup:         func(t *testing.T, a model.Axie) model.Axie { return a },
			slot:          model.SlotEars,
			wantFinal:     65,
			wantBreakdown: []string{"Base damage: 65"},
		},
		{
			name: "IMP in fury",
			setup: func(t *testing.T, a model.Axie) model.Axie {
				a.Fury.RageStacks = 10
				return a
			},
			slot:      model.SlotHorn,
			wantFinal: 150,
			wantBreakdown: []string{
				"Base damage: 65",
				"IMP in fury: +35",
				"Fury (50%): +50",
			},
		},
		{
			name: "RONIN with 4 energy",
			setup: func(t *testing.T, a model.Axie) model.Axie {
				a.EnergySpent = 4
				return a
			},
			slot:      model.SlotBack,
			wantFinal: 135,
			wantBreakdown: []string{
				"Base damage: 45",
				"RONIN (4 energy): +90",
			},
		},
		{
			name:      "full reduction keeps damage floor",
			setup:     func(t *testing.T, a model.Axie) model.Axie { return a },
			slot:      model.SlotEars,
			cfg:       model.DamageConfig{DamageReduction: 100},
			wantFinal: 1,
			wantBreakdown: []string{
				"Base damage: 65",
				"Damage reduction (100%): 65 → 1",
			},
		},
		{
			name: "custom rune on base plus amulet",
			setup: func(t *testing.T, a model.Axie) model.Axie {
				a = withAmulet(a, model.SlotEars, 35)
				a.Rune = model.CustomRuneOf(model.CustomRune{DamageBonus: 20})
				return a
			},
			slot:      model.SlotEars,
			wantFinal: 120,
			wantBreakdown: []string{
				"Base damage: 65",
				"Amulet: +35",
				"Custom rune damage: +20",
			},
		},
		{
			name: "evolved card",
			setup: func(t *testing.T, a model.Axie) model.Axie {
				return a.WithCard(model.SlotEars, a.Card(model.SlotEars).WithEvolved(true))
			},
			slot:          model.SlotEars,
			wantFinal:     75,
			wantBreakdown: []string{"Base damage: 75"},
		},
		{
			name: "IMP outside fury has no bonus",
			setup: func(t *testing.T, a model.Axie) model.Axie {
				a.Fury.RageStacks = 9
				return a
			},
			slot:      model.SlotHorn,
			wantFinal: 74,
			wantBreakdown: []string{
				"Base damage: 65",
				"Rage (9 stacks): +9",
			},
		},
		{
			name: "Way of Beast compounds into fury",
			setup: func(t *testing.T, a model.Axie) model.Axie {
				a = withRune(t, a, model.FamilyWayOfBeast, 4)
				a.Fury.RageStacks = 10
				return a
			},
			slot:      model.SlotHorn,
			wantFinal: 178, // 100 + 15 = 115; 115 × 55% = 63
			wantBreakdown: []string{
				"Base damage: 65",
				"IMP in fury: +35",
				"Way of Beast Lv4 damage: +15",
				"Fury (55%): +63",
			},
		},
		{
			name: "Endless Anger doubles rage per stack",
			setup: func(t *testing.T, a model.Axie) model.Axie {
				a = withRune(t, a, model.FamilyEndlessAnger, 1)
				a.Fury.RageStacks = 5
				return a
			},
			slot:      model.SlotTail,
			wantFinal: 150,
			wantBreakdown: []string{
				"Base damage: 140",
				"Rage (5 stacks): +10",
			},
		},
		{
			name: "Endless Anger fury percent",
			setup: func(t *testing.T, a model.Axie) model.Axie {
				a = withRune(t, a, model.FamilyEndlessAnger, 2)
				a.Fury.RageStacks = 10
				return a
			},
			slot:      model.SlotTail,
			wantFinal: 224,
			wantBreakdown: []string{
				"Base damage: 140",
				"Fury (60%): +84",
			},
		},
		{
			name: "Blood Beetle pure damage available",
			setup: func(t *testing.T, a model.Axie) model.Axie {
				return withRune(t, a, model.FamilyBloodBeetle, 2)
			},
			slot:      model.SlotEars,
			wantFinal: 72,
			wantBreakdown: []string{
				"Base damage: 65",
				"Blood Beetle pure damage: +7",
			},
		},
		{
			name: "Blood Beetle triggers exhausted",
			setup: func(t *testing.T, a model.Axie) model.Axie {
				a = withRune(t, a, model.FamilyBloodBeetle, 2)
				a.PureDamageUsed = 1
				return a
			},
			slot:          model.SlotEars,
			wantFinal:     65,
			wantBreakdown: []string{"Base damage: 65"},
		},
		{
			name: "Blood Beetle second trigger",
			setup: func(t *testing.T, a model.Axie) model.Axie {
				a = withRune(t, a, model.FamilyBloodBeetle, 3)
				a.PureDamageUsed = 1
				return a
			},
			slot:      model.SlotEars,
			wantFinal: 71,
			wantBreakdown: []string{
				"Base damage: 65",
				"Blood Beetle pure damage: +6",
			},
		},
		{
			name: "Inspirational Hero on base plus amulet",
			setup: func(t *testing.T, a model.Axie) model.Axie {
				a = withRune(t, a, model.FamilyInspirationalHero, 3)
				a = withAmulet(a, model.SlotTail, 10)
				a.Fury.AlliesInFury = 1
				return a
			},
			slot:      model.SlotTail,
			wantFinal: 172, // 150 × 15% = 22
			wantBreakdown: []string{
				"Base damage: 140",
				"Amulet: +10",
				"Inspirational Hero (1 allies in fury): +22",
			},
		},
		{
			name: "Inspirational Hero and rage do not compound",
			setup: func(t *testing.T, a model.Axie) model.Axie {
				a = withRune(t, a, model.FamilyInspirationalHero, 2)
				a.Fury.RageStacks = 3
				a.Fury.AlliesInFury = 2
				return a
			},
			slot:      model.SlotEars,
			wantFinal: 74, // 65 + 3 + 65 × 10%
			wantBreakdown: []string{
				"Base damage: 65",
				"Rage (3 stacks): +3",
				"Inspirational Hero (2 allies in fury): +6",
			},
		},
		{
			name: "Inspirational Hero gated off in own fury",
			setup: func(t *testing.T, a model.Axie) model.Axie {
				a = withRune(t, a, model.FamilyInspirationalHero, 3)
				a.Fury.RageStacks = 10
				a.Fury.AlliesInFury = 2
				return a
			},
			slot:      model.SlotTail,
			wantFinal: 210,
			wantBreakdown: []string{
				"Base damage: 140",
				"Fury (50%): +70",
			},
		},
		{
			name: "custom rune fury bonus",
			setup: func(t *testing.T, a model.Axie) model.Axie {
				a.Rune = model.CustomRuneOf(model.CustomRune{FuryDamageBonus: 10})
				a.Fury.RageStacks = 10
				return a
			},
			slot:      model.SlotEars,
			wantFinal: 104,
			wantBreakdown: []string{
				"Base damage: 65",
				"Fury (60%): +39",
			},
		},
		{
			name: "evolved RONIN with amulet",
			setup: func(t *testing.T, a model.Axie) model.Axie {
				card := a.Card(model.SlotBack).WithEvolved(true).WithAmulet(5)
				a = a.WithCard(model.SlotBack, card)
				a.EnergySpent = 3
				return a
			},
			slot:      model.SlotBack,
			wantFinal: 137, // 55 + floor(55 × 0.5 × 3)
			wantBreakdown: []string{
				"Base damage: 50",
				"Amulet: +5",
				"RONIN (3 energy): +82",
			},
		},
		{
			name:      "partial reduction floors",
			setup:     func(t *testing.T, a model.Axie) model.Axie { return a },
			slot:      model.SlotEars,
			cfg:       model.DamageConfig{DamageReduction: 30},
			wantFinal: 45,
			wantBreakdown: []string{
				"Base damage: 65",
				"Damage reduction (30%): 65 → 45",
			},
		},
		{
			name: "rune without card damage effect",
			setup: func(t *testing.T, a model.Axie) model.Axie {
				return withRune(t, a, model.FamilyFateMaker, 1)
			},
			slot:          model.SlotTail,
			wantFinal:     140,
			wantBreakdown: []string{"Base damage: 140"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			axie := tt.setup(t, newTestAxie(t))

			got := CalcCardDamage(axie, tt.slot, tt.cfg)

			assert.Equal(t, tt.wantFinal, got.FinalDamage)
			assert.Equal(t, tt.wantBreakdown, got.Breakdown)
			require.Len(t, got.Terms, len(got.Breakdown))
		})
	}
}

func TestCalcCardDamage_ResultFields(t *testing.T) {
	t.Parallel()

	a := withRune(t, newTestAxie(t), model.FamilyWayOfBeast, 4)
	a = withAmulet(a, model.SlotHorn, 5)
	a.Fury.RageStacks = 10

	got := CalcCardDamage(a, model.SlotHorn, model.DamageConfig{DamageReduction: 20})

	// 65 + 5 + 35 = 105; rune 15% = 15 -> 120; fury 55% = 66 -> 186; ×0.8 = 148
	assert.Equal(t, 65, got.BaseDamage)
	assert.Equal(t, 5, got.AmuletBonus)
	assert.Equal(t, 35, got.SpecialEffects)
	assert.Equal(t, 15, got.RuneBonus)
	assert.Equal(t, 66, got.FuryDamageBonus)
	assert.Equal(t, 0, got.RageBonus)
	assert.Equal(t, 0, got.FuryBonus)
	assert.Equal(t, 186, got.TotalDamage)
	assert.Equal(t, 148, got.FinalDamage)
}

// --- properties ---

func TestCalcCardDamage_FinalDamageFloor(t *testing.T) {
	t.Parallel()

	a := newTestAxie(t)
	for _, slot := range model.AllSlots() {
		for reduction := 0; reduction <= 100; reduction += 5 {
			got := CalcCardDamage(a, slot, model.DamageConfig{DamageReduction: reduction})
			assert.GreaterOrEqual(t, got.FinalDamage, 1, "slot %s reduction %d", slot, reduction)
		}
	}

	// An empty slot still hits for 1.
	got := CalcCardDamage(model.Axie{}, model.SlotEars, noReduction)
	assert.Equal(t, 1, got.FinalDamage)
	assert.Equal(t, 0, got.TotalDamage)
}

func TestCalcCardDamage_MonotonicInReduction(t *testing.T) {
	t.Parallel()

	a := withRune(t, newTestAxie(t), model.FamilyEndlessAnger, 3)
	a.Fury.RageStacks = 10

	prev := CalcCardDamage(a, model.SlotTail, noReduction).FinalDamage
	assert.Equal(t, CalcCardDamage(a, model.SlotTail, noReduction).TotalDamage, prev)
	for reduction := 1; reduction <= 100; reduction++ {
		cur := CalcCardDamage(a, model.SlotTail, model.DamageConfig{DamageReduction: reduction}).FinalDamage
		assert.LessOrEqual(t, cur, prev, "reduction %d", reduction)
		prev = cur
	}
}

func TestCalcCardDamage_RageAndFuryExclusive(t *testing.T) {
	t.Parallel()

	base := withRune(t, newTestAxie(t), model.FamilyEndlessAnger, 1)
	for stacks := 0; stacks <= model.MaxRageStacks; stacks++ {
		a := base
		a.Fury.RageStacks = stacks

		got := CalcCardDamage(a, model.SlotTail, noReduction)
		if a.InFury() {
			assert.Zero(t, got.RageBonus, "stacks %d", stacks)
			assert.Positive(t, got.FuryDamageBonus, "stacks %d", stacks)
		} else {
			assert.Zero(t, got.FuryDamageBonus, "stacks %d", stacks)
			assert.Equal(t, stacks*2, got.RageBonus, "stacks %d", stacks)
		}
	}
}

func TestCalcCardDamage_Idempotent(t *testing.T) {
	t.Parallel()

	a := withRune(t, newTestAxie(t), model.FamilyBloodBeetle, 4)
	a.EnergySpent = 6
	snapshot := a
	cfg := model.DamageConfig{DamageReduction: 15, TargetHasAlert: true}

	first := CalcCardDamage(a, model.SlotBack, cfg)
	second := CalcCardDamage(a, model.SlotBack, cfg)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, a, "resolver must not mutate its input")
	assert.Equal(t, 0, a.PureDamageUsed, "pure damage counter belongs to the caller")
}

func TestCalcCardDamage_BreakdownOrder(t *testing.T) {
	t.Parallel()

	a := withRune(t, newTestAxie(t), model.FamilyWayOfBeast, 1)
	a.Fury.RageStacks = 4
	a.EnergySpent = 2

	for _, slot := range model.AllSlots() {
		got := CalcCardDamage(a, slot, model.DamageConfig{DamageReduction: 10})
		require.NotEmpty(t, got.Breakdown)
		assert.True(t, strings.HasPrefix(got.Breakdown[0], "Base damage: "), "slot %s", slot)
		assert.True(t, strings.HasPrefix(got.Breakdown[len(got.Breakdown)-1], "Damage reduction (10%)"), "slot %s", slot)
		assert.Equal(t, TermBase, got.Terms[0].Kind)
		assert.Equal(t, TermReduction, got.Terms[len(got.Terms)-1].Kind)
	}
}

func TestCalcCardDamage_TargetAlertDoesNotChangeDamage(t *testing.T) {
	t.Parallel()

	a := withRune(t, newTestAxie(t), model.FamilyBloodBeetle, 1)
	plain := CalcCardDamage(a, model.SlotEars, model.DamageConfig{})
	alert := CalcCardDamage(a, model.SlotEars, model.DamageConfig{TargetHasAlert: true})
	assert.Equal(t, plain, alert)
}

func TestApplyReduction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total, reduction, want int
	}{
		{total: 150, reduction: 0, want: 150},
		{total: 150, reduction: 50, want: 75},
		{total: 99, reduction: 33, want: 66},
		{total: 3, reduction: 90, want: 1},
		{total: 0, reduction: 0, want: 1},
		{total: 500, reduction: 100, want: 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ApplyReduction(tt.total, tt.reduction), "total %d reduction %d", tt.total, tt.reduction)
	}
}

func TestCalcTeamDamage(t *testing.T) {
	t.Parallel()

	team := data.DefaultTeam()
	front := team.Axie(model.PositionFront)
	front.Fury.RageStacks = 10
	team = team.WithAxie(model.PositionFront, front)

	got := CalcTeamDamage(team, noReduction)
	require.Len(t, got, model.TeamSize)
	for i, pos := range model.AllPositions() {
		assert.Equal(t, pos, got[i].Position)
		require.Len(t, got[i].Slots, model.SlotCount)
		for j, slot := range model.AllSlots() {
			assert.Equal(t, slot, got[i].Slots[j].Slot)
		}
	}

	assert.Equal(t, 150, got[0].Slots[model.SlotHorn].Result.FinalDamage)
	assert.Equal(t, 65, got[1].Slots[model.SlotHorn].Result.FinalDamage)
}

func TestTermKind_Text(t *testing.T) {
	t.Parallel()

	for kind := TermBase; kind <= TermReduction; kind++ {
		text, err := kind.MarshalText()
		require.NoError(t, err)

		var back TermKind
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, kind, back)
	}

	var k TermKind
	assert.Error(t, k.UnmarshalText([]byte("crit")))
}
