package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var ErrInvalidBackend = errors.New("invalid store backend")

// Calculator holds all configuration for the calculator service.
type Calculator struct {
	// Network
	BindAddress string `yaml:"bind_address" env:"BIND_ADDRESS"`
	Port        int    `yaml:"port" env:"PORT"`

	// Logging: debug, info, warn, error
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// Store
	Store StoreConfig `yaml:"store" envPrefix:"STORE_"`

	// Defaults applied when no damage config has been saved yet
	DefaultDamageReduction int `yaml:"default_damage_reduction" env:"DEFAULT_DAMAGE_REDUCTION"`
}

// StoreConfig selects and configures the settings store backend.
type StoreConfig struct {
	Backend    string         `yaml:"backend" env:"BACKEND"`
	FilePath   string         `yaml:"file_path" env:"FILE_PATH"`
	SQLitePath string         `yaml:"sqlite_path" env:"SQLITE_PATH"`
	Database   DatabaseConfig `yaml:"database" envPrefix:"DB_"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"NAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Addr returns host:port for the HTTP listener.
func (c Calculator) Addr() string {
	return fmt.Sprintf("%s:%d", c.BindAddress, c.Port)
}

// DefaultCalculator returns Calculator config with sensible defaults.
func DefaultCalculator() Calculator {
	return Calculator{
		BindAddress: "127.0.0.1",
		Port:        5174,
		LogLevel:    "info",
		Store: StoreConfig{
			Backend:    BackendFile,
			FilePath:   "rage-calculator-config.yaml",
			SQLitePath: "rage-calculator.db",
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "ragecalc",
				Password: "ragecalc",
				DBName:   "ragecalc",
				SSLMode:  "disable",
			},
		},
	}
}

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RAGECALC_"

// LoadCalculator loads calculator config from a YAML file, then applies
// RAGECALC_* environment overrides.
// If the file doesn't exist, defaults are used.
func LoadCalculator(path string) (Calculator, error) {
	cfg := DefaultCalculator()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parsing env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks enumerated fields and ranges.
func (c Calculator) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendSQLite, BackendPostgres:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.Store.Backend)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DefaultDamageReduction < 0 || c.DefaultDamageReduction > 100 {
		return fmt.Errorf("default damage reduction %d out of range 0..100", c.DefaultDamageReduction)
	}
	return nil
}

// ParseLogLevel maps a config log level to slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
}
