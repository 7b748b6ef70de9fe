// Command dmgcalc prints damage breakdowns for the saved team.
//
// Usage:
//
//	dmgcalc [-config path] [-position front|mid|back] [-slot ears|horn|back|tail] [-lang es|en] [-reduction n]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/udisondev/ragecalc/internal/config"
	"github.com/udisondev/ragecalc/internal/db"
	"github.com/udisondev/ragecalc/internal/game/combat"
	"github.com/udisondev/ragecalc/internal/i18n"
	"github.com/udisondev/ragecalc/internal/model"
)

func main() {
	cfgPath := flag.String("config", "config/ragecalc.yaml", "config file")
	position := flag.String("position", "", "axie position (default: whole team)")
	slot := flag.String("slot", "", "card slot (requires -position)")
	lang := flag.String("lang", "", "breakdown language (default: saved settings)")
	reduction := flag.Int("reduction", -1, "override damage reduction 0..100")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	opts := options{position: *position, slot: *slot, lang: *lang, reduction: *reduction}
	if err := run(context.Background(), *cfgPath, opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "dmgcalc:", err)
		os.Exit(1)
	}
}

type options struct {
	position  string
	slot      string
	lang      string
	reduction int
}

func run(ctx context.Context, cfgPath string, opts options, out io.Writer) error {
	cfg, err := config.LoadCalculator(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	store, err := db.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	team, _, err := db.LoadTeam(ctx, store)
	if err != nil {
		return fmt.Errorf("loading team: %w", err)
	}
	dmg, err := db.LoadDamageConfig(ctx, store, model.DamageConfig{DamageReduction: cfg.DefaultDamageReduction})
	if err != nil {
		return fmt.Errorf("loading damage config: %w", err)
	}
	if opts.reduction >= 0 {
		dmg.DamageReduction = model.ClampReduction(opts.reduction)
	}
	if opts.lang == "" {
		settings, err := db.LoadSettings(ctx, store)
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}
		opts.lang = settings.Language
	}

	return render(out, team, dmg, opts)
}

func render(out io.Writer, team model.Team, dmg model.DamageConfig, opts options) error {
	positions := model.AllPositions()
	if opts.position != "" {
		pos, err := model.ParsePosition(opts.position)
		if err != nil {
			return err
		}
		positions = []model.Position{pos}
	}
	slots := model.AllSlots()
	if opts.slot != "" {
		if opts.position == "" {
			return fmt.Errorf("-slot requires -position")
		}
		s, err := model.ParseCardSlot(opts.slot)
		if err != nil {
			return err
		}
		slots = []model.CardSlot{s}
	}

	for _, pos := range positions {
		axie := team.Axie(pos)
		fmt.Fprintf(out, "== %s (rage %d, energy %d, fury %t)\n",
			pos.Label(), axie.Fury.RageStacks, axie.EnergySpent, axie.InFury())
		for _, slot := range slots {
			card := axie.Card(slot)
			res := combat.CalcCardDamage(axie, slot, dmg)
			fmt.Fprintf(out, "%-5s %-6s %4d\n", slot, card.Name, res.FinalDamage)
			for _, line := range i18n.RenderTerms(res.Terms, opts.lang) {
				fmt.Fprintf(out, "      %s\n", line)
			}
		}
	}
	return nil
}
