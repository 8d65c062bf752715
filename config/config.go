// Package config loads server settings from an optional YAML file and the
// environment. Environment variables win over the file; command-line flags
// in cmd/server win over both.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr            string        `yaml:"addr"`
	DBPath          string        `yaml:"db"`
	LogLevel        string        `yaml:"log_level"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// WarmYears pre-computes holidays for this many years either side of
	// the current one at startup.
	WarmYears int `yaml:"warm_years"`

	// SeedInterval is how often the holiday table is checked for the
	// current and next year. Zero disables the background seeder.
	SeedInterval time.Duration `yaml:"seed_interval"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Addr:            ":8080",
		DBPath:          "absence.db",
		LogLevel:        "info",
		CORSOrigins:     []string{"http://localhost:5173", "http://localhost:8080"},
		ShutdownTimeout: 30 * time.Second,
		WarmYears:       1,
		SeedInterval:    24 * time.Hour,
	}
}

// Load reads path (skipped when empty) over the defaults, then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("cant read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("cant parse config: %w", err)
		}
	}

	cfg.Addr = getEnv("ABSENCE_ADDR", cfg.Addr)
	cfg.DBPath = getEnv("ABSENCE_DB", cfg.DBPath)
	cfg.LogLevel = getEnv("ABSENCE_LOG_LEVEL", cfg.LogLevel)
	cfg.CORSOrigins = getEnvList("ABSENCE_CORS_ORIGINS", cfg.CORSOrigins)
	cfg.ShutdownTimeout = getEnvDuration("ABSENCE_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.WarmYears = getEnvInt("ABSENCE_WARM_YEARS", cfg.WarmYears)
	cfg.SeedInterval = getEnvDuration("ABSENCE_SEED_INTERVAL", cfg.SeedInterval)

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr is required")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db is required")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	if c.WarmYears < 0 {
		return errors.New("warm_years must not be negative")
	}
	if c.SeedInterval < 0 {
		return errors.New("seed_interval must not be negative")
	}
	return nil
}

// ParseLevel maps debug, info, warn and error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvList splits a comma-separated variable, dropping empty items.
func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
