package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/ragecalc/internal/config"
	"github.com/udisondev/ragecalc/internal/model"
)

// Well-known keys.
const (
	KeyTeam         = "team"
	KeySettings     = "settings"
	KeyDamageConfig = "damageConfig"
)

var ErrEmptyKey = errors.New("empty store key")

// Store is a key/value settings store. Values are YAML documents.
// Implementations are safe for concurrent use.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	Close() error
}

// Open creates the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return OpenFileStore(cfg.FilePath)
	case config.BackendSQLite:
		return OpenSQLiteStore(ctx, cfg.SQLitePath)
	case config.BackendPostgres:
		return OpenPostgresStore(ctx, cfg.Database.DSN())
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidBackend, cfg.Backend)
	}
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}

// GetValue decodes the value under key into out.
func GetValue(ctx context.Context, s Store, key string, out any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("decoding %q: %w", key, err)
	}
	return true, nil
}

// SetValue encodes v and stores it under key.
func SetValue(ctx context.Context, s Store, key string, v any) error {
	raw, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// LoadTeam loads and normalises the saved team. ok is false when nothing
// was saved and the default team is returned.
func LoadTeam(ctx context.Context, s Store) (model.Team, bool, error) {
	var rec TeamRecord
	ok, err := GetValue(ctx, s, KeyTeam, &rec)
	if err != nil || !ok {
		return (*TeamRecord)(nil).ToModel(), false, err
	}
	return rec.ToModel(), true, nil
}

// SaveTeam persists the team.
func SaveTeam(ctx context.Context, s Store, team model.Team) error {
	return SetValue(ctx, s, KeyTeam, TeamRecordFromModel(team))
}

// DamageConfigRecord is the persisted damage config.
type DamageConfigRecord struct {
	DamageReduction int  `json:"damageReduction" yaml:"damageReduction"`
	TargetHasAlert  bool `json:"targetHasAlert" yaml:"targetHasAlert"`
}

// LoadDamageConfig loads the saved damage config, clamped. def is returned
// when nothing was saved.
func LoadDamageConfig(ctx context.Context, s Store, def model.DamageConfig) (model.DamageConfig, error) {
	var rec DamageConfigRecord
	ok, err := GetValue(ctx, s, KeyDamageConfig, &rec)
	if err != nil || !ok {
		return def.Clamped(), err
	}
	return model.DamageConfig{
		DamageReduction: rec.DamageReduction,
		TargetHasAlert:  rec.TargetHasAlert,
	}.Clamped(), nil
}

// SaveDamageConfig persists the damage config.
func SaveDamageConfig(ctx context.Context, s Store, cfg model.DamageConfig) error {
	return SetValue(ctx, s, KeyDamageConfig, DamageConfigRecord{
		DamageReduction: cfg.DamageReduction,
		TargetHasAlert:  cfg.TargetHasAlert,
	})
}

// UI themes and languages.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"

	LanguageSpanish = "es"
	LanguageEnglish = "en"
)

// Settings are the front-end preferences.
type Settings struct {
	Theme    string `json:"theme" yaml:"theme"`
	Language string `json:"language" yaml:"language"`
}

// DefaultSettings returns dark theme, Spanish UI.
func DefaultSettings() Settings {
	return Settings{Theme: ThemeDark, Language: LanguageSpanish}
}

// Normalized replaces unknown values with defaults.
func (s Settings) Normalized() Settings {
	def := DefaultSettings()
	switch s.Theme {
	case ThemeDark, ThemeLight:
	default:
		s.Theme = def.Theme
	}
	switch s.Language {
	case LanguageSpanish, LanguageEnglish:
	default:
		s.Language = def.Language
	}
	return s
}

// LoadSettings loads the saved settings, falling back to DefaultSettings.
func LoadSettings(ctx context.Context, s Store) (Settings, error) {
	var st Settings
	ok, err := GetValue(ctx, s, KeySettings, &st)
	if err != nil || !ok {
		return DefaultSettings(), err
	}
	return st.Normalized(), nil
}

// SaveSettings persists the settings.
func SaveSettings(ctx context.Context, s Store, st Settings) error {
	return SetValue(ctx, s, KeySettings, st.Normalized())
}
