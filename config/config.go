// Package config reads the table settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/luca-patrignani/sabacc/domain/sabacc"
)

// Config holds every setting of the sabacc command.
type Config struct {
	Players     int
	Stack       int
	BigBlind    int
	Ties        sabacc.TiePolicy
	Reshuffle   bool
	MaxAttempts int
	// Seed makes the shuffles reproducible when non-zero.
	Seed int64
	// Hands stops the session after that many hands; 0 plays until one
	// seat holds every chip.
	Hands int
	// Name is the human player's name. Empty asks at startup.
	Name string
	// Watch seats a computer in every chair, the human only looks on.
	Watch bool

	SpectateAddr string
	TLS          bool

	DatabaseURL string
	AutoMigrate bool

	LogLevel slog.Level
}

// Load reads .env files (missing ones are ignored) and then the
// environment. Unset variables take their defaults; malformed ones are
// reported together.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("reading env file: %w", err)
	}
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() (Config, error) {
	var errs []error
	num := func(key string, def int) int {
		n, err := atoiDef(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return n
	}

	c := Config{
		Players:      num("SABACC_PLAYERS", 4),
		Stack:        num("SABACC_STACK", 200),
		BigBlind:     num("SABACC_BIG_BLIND", 10),
		MaxAttempts:  num("SABACC_MAX_ATTEMPTS", 3),
		Hands:        num("SABACC_HANDS", 0),
		Reshuffle:    asBool(os.Getenv("SABACC_RESHUFFLE")),
		Name:         getenv("SABACC_NAME", ""),
		Watch:        asBool(os.Getenv("SABACC_WATCH")),
		SpectateAddr: getenv("SABACC_SPECTATE_ADDR", ""),
		TLS:          asBool(os.Getenv("SABACC_TLS")),
		DatabaseURL:  getenv("DATABASE_URL", ""),
		AutoMigrate:  asBool(os.Getenv("AUTO_MIGRATE")),
	}

	ties, err := sabacc.ParseTiePolicy(getenv("SABACC_TIES", "split"))
	if err != nil {
		errs = append(errs, fmt.Errorf("SABACC_TIES: %w", err))
	}
	c.Ties = ties

	if s := os.Getenv("SABACC_SEED"); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("SABACC_SEED: %w", err))
		}
		c.Seed = seed
	}

	if err := c.LogLevel.UnmarshalText([]byte(getenv("SABACC_LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("SABACC_LOG_LEVEL: %w", err))
	}

	if c.Players < 2 || c.Players > 8 {
		errs = append(errs, fmt.Errorf("SABACC_PLAYERS must be between 2 and 8, got %d", c.Players))
	}
	if c.Stack < 1 {
		errs = append(errs, fmt.Errorf("SABACC_STACK must be positive, got %d", c.Stack))
	}
	if c.BigBlind < 2 {
		errs = append(errs, fmt.Errorf("SABACC_BIG_BLIND must be at least 2, got %d", c.BigBlind))
	}
	if c.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("SABACC_MAX_ATTEMPTS must be positive, got %d", c.MaxAttempts))
	}
	if c.Hands < 0 {
		errs = append(errs, fmt.Errorf("SABACC_HANDS must not be negative, got %d", c.Hands))
	}
	return c, errors.Join(errs...)
}

// Rules returns the house rules of a hand.
func (c Config) Rules() sabacc.Config {
	return sabacc.Config{
		BigBlind:    c.BigBlind,
		Ties:        c.Ties,
		Reshuffle:   c.Reshuffle,
		MaxAttempts: c.MaxAttempts,
	}
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func atoiDef(k string, def int) (int, error) {
	s := getenv(k, "")
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
