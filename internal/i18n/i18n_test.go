package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/ragecalc/internal/data"
	"github.com/udisondev/ragecalc/internal/game/combat"
	"github.com/udisondev/ragecalc/internal/model"
)

func sampleTerms() []combat.Term {
	return []combat.Term{
		{Kind: combat.TermBase, Amount: 65},
		{Kind: combat.TermFuryFlatBonus, Amount: 35, Label: "IMP"},
		{Kind: combat.TermEnergyScaledBonus, Amount: 90, Label: "RONIN", Param: 4},
		{Kind: combat.TermFury, Amount: 50, Param: 50},
		{Kind: combat.TermReduction, Amount: 105, Param: 30, Before: 150},
	}
}

func TestRenderTerms_Spanish(t *testing.T) {
	t.Parallel()

	got := RenderTerms(sampleTerms(), LangSpanish)
	assert.Equal(t, []string{
		"Daño base: 65",
		"IMP en furia: +35",
		"RONIN (4 energía): +90",
		"Furia (50%): +50",
		"Reducción de daño (30%): 150 → 105",
	}, got)
}

func TestRenderTerms_EnglishMatchesResolver(t *testing.T) {
	t.Parallel()

	terms := sampleTerms()
	assert.Equal(t, combat.FormatTerms(terms), RenderTerms(terms, LangEnglish))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":      LangEnglish,
		"en":    LangEnglish,
		"en-US": LangEnglish,
		"es":    LangSpanish,
		"es-MX": LangSpanish,
		"fr":    LangEnglish,
		"???":   LangEnglish,
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestRenderTerms_UnknownLanguageFallsBack(t *testing.T) {
	t.Parallel()

	terms := []combat.Term{{Kind: combat.TermAmulet, Amount: 5}}
	assert.Equal(t, []string{"Amulet: +5"}, RenderTerms(terms, "de"))
}

func TestRenderTerms_LargeValuesAreNotGrouped(t *testing.T) {
	t.Parallel()

	terms := []combat.Term{
		{Kind: combat.TermAmulet, Amount: 12000},
		{Kind: combat.TermReduction, Amount: 1050, Param: 30, Before: 1500},
	}
	assert.Equal(t, combat.FormatTerms(terms), RenderTerms(terms, LangEnglish))
	assert.Equal(t, []string{
		"Amuleto: +12000",
		"Reducción de daño (30%): 1500 → 1050",
	}, RenderTerms(terms, LangSpanish))
}

func TestRenderTerms_ResolverOutputWithLargeAmulet(t *testing.T) {
	t.Parallel()

	axie := data.DefaultTeam().Axie(model.PositionFront)
	axie = axie.WithCard(model.SlotTail, axie.Card(model.SlotTail).WithAmulet(1000))
	res := combat.CalcCardDamage(axie, model.SlotTail, model.DamageConfig{})

	assert.Contains(t, res.Breakdown, "Amulet: +1000")
	assert.Equal(t, res.Breakdown, RenderTerms(res.Terms, LangEnglish))
}
