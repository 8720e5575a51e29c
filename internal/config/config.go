// Package config turns viper settings (config file, FARMSTEAD_* environment,
// command-line flags) into a typed Config.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/suderio/farmstead/internal/persistence"
)

// EnvPrefix prefixes every environment override, e.g. FARMSTEAD_SAVE_SLOT.
const EnvPrefix = "FARMSTEAD"

type Leaderboard struct {
	URL         string        `mapstructure:"url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MinInterval time.Duration `mapstructure:"min_interval"`
}

// Enabled reports whether a board URL is configured.
func (l Leaderboard) Enabled() bool {
	return strings.TrimSpace(l.URL) != ""
}

type Config struct {
	SavePath         string           `mapstructure:"save_path"`
	Store            persistence.Kind `mapstructure:"store"`
	SaveSlot         string           `mapstructure:"save_slot"`
	AutosaveInterval time.Duration    `mapstructure:"autosave_interval"`
	CatalogPath      string           `mapstructure:"catalog_path"`
	Leaderboard      Leaderboard      `mapstructure:"leaderboard"`
	RedemptionCodes  map[string]int64 `mapstructure:"redemption_codes"`
	LogFile          string           `mapstructure:"log_file"`
	LogLevel         string           `mapstructure:"log_level"`
}

// DefaultDir is where saves and logs live unless configured otherwise.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".farmstead"
	}
	return filepath.Join(home, ".farmstead")
}

// Configure registers defaults and environment handling on v.
func Configure(v *viper.Viper) {
	dir := DefaultDir()
	v.SetDefault("save_path", filepath.Join(dir, "save.json"))
	v.SetDefault("store", string(persistence.KindFile))
	v.SetDefault("save_slot", persistence.DefaultSlot)
	v.SetDefault("autosave_interval", 30*time.Second)
	v.SetDefault("catalog_path", "")
	v.SetDefault("leaderboard.url", "")
	v.SetDefault("leaderboard.timeout", 5*time.Second)
	v.SetDefault("leaderboard.min_interval", 2*time.Second)
	v.SetDefault("log_file", filepath.Join(dir, "farmstead.log"))
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Store = persistence.Kind(strings.ToLower(string(cfg.Store)))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings for values no component could work with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.SavePath) == "" {
		errs = append(errs, errors.New("save_path must not be empty"))
	}
	switch c.Store {
	case persistence.KindFile, persistence.KindSQLite:
	default:
		errs = append(errs, fmt.Errorf("store must be %q or %q, got %q", persistence.KindFile, persistence.KindSQLite, c.Store))
	}
	if c.AutosaveInterval < 0 {
		errs = append(errs, fmt.Errorf("autosave_interval must not be negative, got %s", c.AutosaveInterval))
	}
	if c.Leaderboard.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("leaderboard.timeout must be positive, got %s", c.Leaderboard.Timeout))
	}
	for code, amount := range c.RedemptionCodes {
		if amount <= 0 {
			errs = append(errs, fmt.Errorf("redemption code %s must reward a positive amount", code))
		}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level returns the configured log level.
func (c Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ParseLevel accepts debug, info, warn and error.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
