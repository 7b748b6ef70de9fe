package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCardSlot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    CardSlot
		wantErr bool
	}{
		{in: "ears", want: SlotEars},
		{in: "HORN", want: SlotHorn},
		{in: " back ", want: SlotBack},
		{in: "tail", want: SlotTail},
		{in: "mouth", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCardSlot(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownSlot))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParseSlot(t, got.String()), "String() must round-trip")
		})
	}
}

func mustParseSlot(t *testing.T, s string) CardSlot {
	t.Helper()
	slot, err := ParseCardSlot(s)
	require.NoError(t, err)
	return slot
}

func TestParsePosition(t *testing.T) {
	t.Parallel()

	for _, pos := range AllPositions() {
		got, err := ParsePosition(pos.String())
		require.NoError(t, err)
		assert.Equal(t, pos, got)
	}

	_, err := ParsePosition("support")
	assert.ErrorIs(t, err, ErrUnknownPosition)
	assert.Equal(t, "Front", PositionFront.Label())
	assert.Equal(t, "unknown", Position(7).String())
}

func TestFuryState_InFury(t *testing.T) {
	t.Parallel()

	assert.False(t, FuryState{RageStacks: 0}.InFury())
	assert.False(t, FuryState{RageStacks: FuryThreshold - 1}.InFury())
	assert.True(t, FuryState{RageStacks: FuryThreshold}.InFury())
}

func TestCard_Attack(t *testing.T) {
	t.Parallel()

	c := Card{BaseAttack: 65, EvolvedAttack: 75}
	assert.Equal(t, 65, c.Attack())
	assert.Equal(t, 75, c.WithEvolved(true).Attack())
	assert.Equal(t, 65, c.Attack(), "WithEvolved must not mutate the receiver")
	assert.Equal(t, 0, c.WithAmulet(-4).AmuletBonus)
}

func TestAxie_Clamped(t *testing.T) {
	t.Parallel()

	a := Axie{
		Fury:           FuryState{RageStacks: 25, AlliesInFury: 9},
		EnergySpent:    -3,
		PureDamageUsed: -1,
	}
	a.Cards[SlotHorn].AmuletBonus = -10

	got := a.Clamped()
	assert.Equal(t, MaxRageStacks, got.Fury.RageStacks)
	assert.Equal(t, MaxAlliesInFury, got.Fury.AlliesInFury)
	assert.Equal(t, 0, got.EnergySpent)
	assert.Equal(t, 0, got.PureDamageUsed)
	assert.Equal(t, 0, got.Cards[SlotHorn].AmuletBonus)
	assert.Equal(t, 25, a.Fury.RageStacks, "Clamped must return a copy")
}

func TestAxie_CardInvalidSlot(t *testing.T) {
	t.Parallel()

	a := Axie{}
	a.Cards[SlotTail] = Card{ID: "shiba"}
	assert.Equal(t, "shiba", a.Card(SlotTail).ID)
	assert.Equal(t, Card{}, a.Card(CardSlot(9)))
	assert.Equal(t, a, a.WithCard(CardSlot(-1), Card{ID: "x"}))
}

func TestTeam_AlliesInFury(t *testing.T) {
	t.Parallel()

	var team Team
	team = team.WithAxie(PositionFront, Axie{Fury: FuryState{RageStacks: 10}})
	team = team.WithAxie(PositionMid, Axie{Fury: FuryState{RageStacks: 3}})
	team = team.WithAxie(PositionBack, Axie{Fury: FuryState{RageStacks: 10}})

	assert.Equal(t, 1, team.AlliesInFury(PositionFront))
	assert.Equal(t, 2, team.AlliesInFury(PositionMid))
	assert.Equal(t, "back", team.Axie(PositionBack).ID)
	assert.Equal(t, PositionBack, team.Axie(PositionBack).Position)
}

func TestRuneSelection(t *testing.T) {
	t.Parallel()

	none := NoRune()
	assert.Equal(t, RuneKindNone, none.Kind())
	assert.Equal(t, 0, none.DamageBonus())
	assert.Equal(t, 1, none.RagePerStack())

	defined := DefinedRune(Rune{Family: FamilyEndlessAnger, RagePerStack: 2, FuryDamageBonus: 10})
	r, ok := defined.Defined()
	require.True(t, ok)
	assert.Equal(t, FamilyEndlessAnger, r.Family)
	_, ok = defined.Custom()
	assert.False(t, ok)
	assert.Equal(t, 2, defined.RagePerStack())
	assert.Equal(t, 10, defined.FuryDamageBonus())

	custom := CustomRuneOf(CustomRune{DamageBonus: 20})
	_, ok = custom.Defined()
	assert.False(t, ok)
	assert.Equal(t, 20, custom.DamageBonus())
	assert.Equal(t, 1, custom.RagePerStack(), "custom runes never change rage per stack")

	assert.Equal(t, RuneKindNone, ParseRuneKind(""))
	assert.Equal(t, "custom", ParseRuneKind("custom").String())
}

func TestClampReduction(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ClampReduction(-5))
	assert.Equal(t, 40, ClampReduction(40))
	assert.Equal(t, 100, ClampReduction(180))
	assert.Equal(t, 100, DamageConfig{DamageReduction: 101}.Clamped().DamageReduction)
}
