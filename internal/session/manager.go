// Package session owns the live team state: it clamps user input, persists
// every change to the settings store and notifies subscribers.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/udisondev/ragecalc/internal/data"
	"github.com/udisondev/ragecalc/internal/db"
	"github.com/udisondev/ragecalc/internal/game/combat"
	"github.com/udisondev/ragecalc/internal/model"
)

// Manager is the single owner of the Team, the DamageConfig and the UI
// settings. All methods are safe for concurrent use; readers get copies.
type Manager struct {
	store    db.Store
	defaults model.DamageConfig

	mu       sync.RWMutex
	team     model.Team
	dmg      model.DamageConfig
	settings db.Settings

	subMu  sync.Mutex
	subs   map[uint64]chan Event
	nextID uint64
	seq    uint64
}

// NewManager creates a manager holding the default team. Call Load to read
// saved state.
func NewManager(store db.Store, defaults model.DamageConfig) *Manager {
	return &Manager{
		store:    store,
		defaults: defaults.Clamped(),
		team:     data.DefaultTeam(),
		dmg:      defaults.Clamped(),
		settings: db.DefaultSettings(),
		subs:     make(map[uint64]chan Event),
	}
}

// Load reads the team, damage config and settings from the store. Read
// failures are logged and leave the defaults in place.
func (m *Manager) Load(ctx context.Context) {
	team, found, err := db.LoadTeam(ctx, m.store)
	if err != nil {
		slog.Error("loading team, using defaults", "error", err)
	}
	dmg, err := db.LoadDamageConfig(ctx, m.store, m.defaults)
	if err != nil {
		slog.Error("loading damage config, using defaults", "error", err)
	}
	settings, err := db.LoadSettings(ctx, m.store)
	if err != nil {
		slog.Error("loading settings, using defaults", "error", err)
	}

	m.mu.Lock()
	m.team = team
	m.dmg = dmg
	m.settings = settings
	m.mu.Unlock()

	slog.Info("session loaded", "saved_team", found, "damage_reduction", dmg.DamageReduction, "language", settings.Language)
	m.publish(EventLoaded, "")
}

// Team returns a snapshot of the team.
func (m *Manager) Team() model.Team {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.team
}

// Axie returns a snapshot of the axie at pos.
func (m *Manager) Axie(pos model.Position) (model.Axie, error) {
	if !pos.Valid() {
		return model.Axie{}, fmt.Errorf("%w: %d", model.ErrUnknownPosition, pos)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.team.Axie(pos), nil
}

// DamageConfig returns the current target config.
func (m *Manager) DamageConfig() model.DamageConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dmg
}

// Settings returns the UI settings.
func (m *Manager) Settings() db.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// updateAxie applies fn to a copy of the axie at pos, clamps it, stores it
// and persists the team. fn errors leave the state untouched.
func (m *Manager) updateAxie(ctx context.Context, pos model.Position, fn func(a *model.Axie) error) (model.Axie, error) {
	if !pos.Valid() {
		return model.Axie{}, fmt.Errorf("%w: %d", model.ErrUnknownPosition, pos)
	}

	m.mu.Lock()
	a := m.team.Axie(pos)
	if err := fn(&a); err != nil {
		m.mu.Unlock()
		return model.Axie{}, err
	}
	a = a.Clamped()
	m.team = m.team.WithAxie(pos, a)
	m.saveTeamLocked(ctx)
	m.mu.Unlock()

	m.publish(EventTeam, pos.String())
	return a, nil
}

func (m *Manager) updateCard(ctx context.Context, pos model.Position, slot model.CardSlot, fn func(c model.Card) (model.Card, error)) (model.Axie, error) {
	if !slot.Valid() {
		return model.Axie{}, fmt.Errorf("%w: %d", model.ErrUnknownSlot, slot)
	}
	return m.updateAxie(ctx, pos, func(a *model.Axie) error {
		c, err := fn(a.Card(slot))
		if err != nil {
			return err
		}
		*a = a.WithCard(slot, c)
		return nil
	})
}

// saveTeamLocked persists the team. Write failures are logged; the
// in-memory state stays authoritative.
func (m *Manager) saveTeamLocked(ctx context.Context) {
	if err := db.SaveTeam(ctx, m.store, m.team); err != nil {
		slog.Error("saving team", "error", err)
	}
}

// SetRageStacks sets rage stacks (0..10). Fury follows from the count.
func (m *Manager) SetRageStacks(ctx context.Context, pos model.Position, n int) (model.Axie, error) {
	return m.updateAxie(ctx, pos, func(a *model.Axie) error {
		a.Fury.RageStacks = n
		return nil
	})
}

// SetAlliesInFury sets how many allies are in fury (0..2).
func (m *Manager) SetAlliesInFury(ctx context.Context, pos model.Position, n int) (model.Axie, error) {
	return m.updateAxie(ctx, pos, func(a *model.Axie) error {
		a.Fury.AlliesInFury = n
		return nil
	})
}

// SetEnergySpent sets energy spent this turn (0..10).
func (m *Manager) SetEnergySpent(ctx context.Context, pos model.Position, n int) (model.Axie, error) {
	return m.updateAxie(ctx, pos, func(a *model.Axie) error {
		a.EnergySpent = n
		return nil
	})
}

// SetPureDamageUsed sets how many Blood Beetle triggers were consumed.
func (m *Manager) SetPureDamageUsed(ctx context.Context, pos model.Position, n int) (model.Axie, error) {
	return m.updateAxie(ctx, pos, func(a *model.Axie) error {
		a.PureDamageUsed = n
		return nil
	})
}

// CounterPatch names the counters to change; nil fields stay as they are.
type CounterPatch struct {
	RageStacks     *int
	AlliesInFury   *int
	EnergySpent    *int
	PureDamageUsed *int
}

// Empty reports whether the patch changes nothing.
func (p CounterPatch) Empty() bool {
	return p.RageStacks == nil && p.AlliesInFury == nil && p.EnergySpent == nil && p.PureDamageUsed == nil
}

// PatchCounters applies every set field of p in one update, so subscribers
// see a single team event. An empty patch returns the axie unchanged.
func (m *Manager) PatchCounters(ctx context.Context, pos model.Position, p CounterPatch) (model.Axie, error) {
	if p.Empty() {
		return m.Axie(pos)
	}
	return m.updateAxie(ctx, pos, func(a *model.Axie) error {
		if p.RageStacks != nil {
			a.Fury.RageStacks = *p.RageStacks
		}
		if p.AlliesInFury != nil {
			a.Fury.AlliesInFury = *p.AlliesInFury
		}
		if p.EnergySpent != nil {
			a.EnergySpent = *p.EnergySpent
		}
		if p.PureDamageUsed != nil {
			a.PureDamageUsed = *p.PureDamageUsed
		}
		return nil
	})
}

// ConsumePureDamage records one Blood Beetle trigger.
func (m *Manager) ConsumePureDamage(ctx context.Context, pos model.Position) (model.Axie, error) {
	return m.updateAxie(ctx, pos, func(a *model.Axie) error {
		a.PureDamageUsed++
		return nil
	})
}

// ResetTurn zeroes the per-turn counters: energy spent and pure damage used.
func (m *Manager) ResetTurn(ctx context.Context, pos model.Position) (model.Axie, error) {
	return m.updateAxie(ctx, pos, func(a *model.Axie) error {
		a.EnergySpent = 0
		a.PureDamageUsed = 0
		return nil
	})
}

// ToggleEvolution flips the evolved flag of the card in slot.
func (m *Manager) ToggleEvolution(ctx context.Context, pos model.Position, slot model.CardSlot) (model.Axie, error) {
	return m.updateCard(ctx, pos, slot, func(c model.Card) (model.Card, error) {
		return c.WithEvolved(!c.Evolved), nil
	})
}

// SetAmulet sets the amulet bonus of the card in slot (>= 0).
func (m *Manager) SetAmulet(ctx context.Context, pos model.Position, slot model.CardSlot, n int) (model.Axie, error) {
	return m.updateCard(ctx, pos, slot, func(c model.Card) (model.Card, error) {
		return c.WithAmulet(n), nil
	})
}

// EquipCard replaces the card in slot with the catalog card cardID,
// carrying over the evolved flag and amulet.
func (m *Manager) EquipCard(ctx context.Context, pos model.Position, slot model.CardSlot, cardID string) (model.Axie, error) {
	next, err := data.CardByID(cardID)
	if err != nil {
		return model.Axie{}, err
	}
	return m.updateCard(ctx, pos, slot, func(c model.Card) (model.Card, error) {
		return next.WithEvolved(c.Evolved).WithAmulet(c.AmuletBonus), nil
	})
}

// SelectRune equips the catalog rune (family, level). Unknown runes return
// an error and leave the selection unchanged.
func (m *Manager) SelectRune(ctx context.Context, pos model.Position, family model.RuneFamily, level int) (model.Axie, error) {
	r, err := data.LookupRune(family, level)
	if err != nil {
		return model.Axie{}, err
	}
	return m.updateAxie(ctx, pos, func(a *model.Axie) error {
		a.Rune = model.DefinedRune(r)
		return nil
	})
}

// SetCustomRune equips a custom rune. Negative bonuses are clamped to zero.
func (m *Manager) SetCustomRune(ctx context.Context, pos model.Position, c model.CustomRune) (model.Axie, error) {
	c.DamageBonus = model.ClampCounter(c.DamageBonus)
	c.FuryDamageBonus = model.ClampCounter(c.FuryDamageBonus)
	return m.updateAxie(ctx, pos, func(a *model.Axie) error {
		a.Rune = model.CustomRuneOf(c)
		return nil
	})
}

// ClearRune removes any rune.
func (m *Manager) ClearRune(ctx context.Context, pos model.Position) (model.Axie, error) {
	return m.updateAxie(ctx, pos, func(a *model.Axie) error {
		a.Rune = model.NoRune()
		return nil
	})
}

// SetTeam replaces the whole team. Every axie is clamped.
func (m *Manager) SetTeam(ctx context.Context, team model.Team) model.Team {
	for _, pos := range model.AllPositions() {
		team = team.WithAxie(pos, team.Axie(pos).Clamped())
	}
	m.mu.Lock()
	m.team = team
	m.saveTeamLocked(ctx)
	m.mu.Unlock()

	m.publish(EventTeam, "")
	return team
}

// Reset restores the default team and persists it.
func (m *Manager) Reset(ctx context.Context) model.Team {
	team := data.DefaultTeam()
	m.mu.Lock()
	m.team = team
	m.saveTeamLocked(ctx)
	m.mu.Unlock()

	slog.Info("team reset to defaults")
	m.publish(EventReset, "")
	return team
}

func (m *Manager) updateDamageConfig(ctx context.Context, fn func(cfg *model.DamageConfig)) model.DamageConfig {
	m.mu.Lock()
	fn(&m.dmg)
	m.dmg = m.dmg.Clamped()
	cfg := m.dmg
	if err := db.SaveDamageConfig(ctx, m.store, cfg); err != nil {
		slog.Error("saving damage config", "error", err)
	}
	m.mu.Unlock()

	m.publish(EventDamageConfig, "")
	return cfg
}

// SetDamageReduction sets the target's damage reduction (0..100).
func (m *Manager) SetDamageReduction(ctx context.Context, n int) model.DamageConfig {
	return m.updateDamageConfig(ctx, func(cfg *model.DamageConfig) {
		cfg.DamageReduction = n
	})
}

// SetTargetHasAlert sets the informational alert flag.
func (m *Manager) SetTargetHasAlert(ctx context.Context, alert bool) model.DamageConfig {
	return m.updateDamageConfig(ctx, func(cfg *model.DamageConfig) {
		cfg.TargetHasAlert = alert
	})
}

// SetDamageConfig replaces the damage config.
func (m *Manager) SetDamageConfig(ctx context.Context, next model.DamageConfig) model.DamageConfig {
	return m.updateDamageConfig(ctx, func(cfg *model.DamageConfig) {
		*cfg = next
	})
}

// SetSettings replaces the UI settings. Unknown values fall back to defaults.
func (m *Manager) SetSettings(ctx context.Context, s db.Settings) db.Settings {
	s = s.Normalized()
	m.mu.Lock()
	m.settings = s
	if err := db.SaveSettings(ctx, m.store, s); err != nil {
		slog.Error("saving settings", "error", err)
	}
	m.mu.Unlock()

	m.publish(EventSettings, "")
	return s
}

// Damage resolves one card against the current config.
func (m *Manager) Damage(pos model.Position, slot model.CardSlot) (combat.DamageResult, error) {
	if !slot.Valid() {
		return combat.DamageResult{}, fmt.Errorf("%w: %d", model.ErrUnknownSlot, slot)
	}
	if !pos.Valid() {
		return combat.DamageResult{}, fmt.Errorf("%w: %d", model.ErrUnknownPosition, pos)
	}
	team, cfg := m.Snapshot()
	return combat.CalcCardDamage(team.Axie(pos), slot, cfg), nil
}

// Snapshot returns the team and damage config as one consistent pair.
func (m *Manager) Snapshot() (model.Team, model.DamageConfig) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.team, m.dmg
}

// DamageTable resolves all twelve cards on one snapshot.
func (m *Manager) DamageTable() []combat.TeamDamage {
	return combat.CalcTeamDamage(m.Snapshot())
}
