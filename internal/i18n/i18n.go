// Package i18n renders damage breakdown terms in the supported UI languages.
//
// Message keys are the English format strings returned by combat.Term.Format,
// so English needs no catalog entries and an untranslated key falls back to
// English text.
package i18n

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/udisondev/ragecalc/internal/game/combat"
)

// Supported UI languages.
const (
	LangEnglish = "en"
	LangSpanish = "es"
)

var spanish = map[string]string{
	"Base damage: %d":                             "Daño base: %d",
	"Amulet: +%d":                                 "Amuleto: +%d",
	"%s in fury: +%d":                             "%s en furia: +%d",
	"%s (%d energy): +%d":                         "%s (%d energía): +%d",
	"Custom rune damage: +%d":                     "Runa personalizada daño: +%d",
	"%s damage: +%d":                              "%s daño: +%d",
	"Blood Beetle pure damage: +%d":               "Blood Beetle daño puro: +%d",
	"Fury (%d%%): +%d":                            "Furia (%d%%): +%d",
	"Rage (%d stacks): +%d":                       "Rage (%d stacks): +%d",
	"Inspirational Hero (%d allies in fury): +%d": "Inspirational Hero (%d aliados en furia): +%d",
	"Damage reduction (%d%%): %d → %d":            "Reducción de daño (%d%%): %d → %d",
}

var (
	matcher = language.NewMatcher([]language.Tag{language.English, language.Spanish})
	builder = mustBuildCatalog()
)

func mustBuildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range spanish {
		if err := b.SetString(language.Spanish, plainVerbs(key), plainVerbs(msg)); err != nil {
			panic(fmt.Sprintf("i18n: registering %q: %v", key, err))
		}
	}
	return b
}

// Normalize maps any language name or tag to a supported language,
// defaulting to English.
func Normalize(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return LangEnglish
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return LangEnglish
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No || idx != 1 {
		return LangEnglish
	}
	return LangSpanish
}

// Printer returns a printer for lang backed by the breakdown catalog.
func Printer(lang string) *message.Printer {
	tag := language.English
	if Normalize(lang) == LangSpanish {
		tag = language.Spanish
	}
	return message.NewPrinter(tag, message.Catalog(builder))
}

// RenderTerms renders terms in lang, preserving order.
func RenderTerms(terms []combat.Term, lang string) []string {
	p := Printer(lang)
	lines := make([]string, 0, len(terms))
	for _, t := range terms {
		key, args := t.Format()
		lines = append(lines, p.Sprintf(plainVerbs(key), plainArgs(args)...))
	}
	return lines
}

// plainVerbs and plainArgs print integers as %s strings. The printer groups
// digits by locale for %d, which would make breakdowns differ from
// combat.FormatTerms once a value reaches 1000.
func plainVerbs(format string) string {
	return strings.ReplaceAll(format, "%d", "%s")
}

func plainArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if n, ok := a.(int); ok {
			out[i] = strconv.Itoa(n)
			continue
		}
		out[i] = a
	}
	return out
}
