package testutil

import (
	"testing"

	"github.com/udisondev/ragecalc/internal/data"
	"github.com/udisondev/ragecalc/internal/model"
)

// TeamWith возвращает команду по умолчанию, где axie на позиции pos изменён fn.
func TeamWith(pos model.Position, fn func(a *model.Axie)) model.Team {
	team := data.DefaultTeam()
	a := team.Axie(pos)
	fn(&a)
	return team.WithAxie(pos, a)
}

// InFury переводит axie в ярость.
func InFury(a *model.Axie) {
	a.Fury.RageStacks = model.FuryThreshold
}

// MustRune возвращает руну каталога (family, level) или проваливает тест.
func MustRune(t testing.TB, family model.RuneFamily, level int) model.Rune {
	t.Helper()

	r, ok := data.FindRune(family, level)
	if !ok {
		t.Fatalf("rune %s lv%d not in catalog", family, level)
	}
	return r
}
