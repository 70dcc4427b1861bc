// Package config loads BillBot's process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/bojanz/currency"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

// Config is read once at startup and never mutated afterwards.
//
// Locale must be a valid BCP 47 tag. Locales without their own CLDR currency
// format fall back to their parent locale, and finally to "en".
type Config struct {
	DiscordToken string   `env:"BILLBOT_TOKEN,required,notEmpty"`
	GuildIDs     []string `env:"BILLBOT_GUILDS" envSeparator:","`
	Currency     string   `env:"BILLBOT_CURRENCY" envDefault:"CAD"`
	Locale       string   `env:"BILLBOT_LOCALE" envDefault:"en-CA"`
	LogLevel     string   `env:"LOG_LEVEL" envDefault:"info"`
	RegisterRate float64  `env:"BILLBOT_REGISTER_RATE" envDefault:"20"`
}

// Load reads optional dotenv files (.env when none are given) and then the
// process environment. Variables already set in the environment win.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if len(envFiles) > 0 || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		slog.Debug("no .env file found, falling back to system environment variables")
	}
	return Parse(env.Options{})
}

// Parse builds a Config using opts, which tests use to supply a fixed environment.
func Parse(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.DiscordToken = strings.TrimSpace(c.DiscordToken)
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	c.Locale = strings.TrimSpace(c.Locale)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))

	guilds := make([]string, 0, len(c.GuildIDs))
	for _, id := range c.GuildIDs {
		id = strings.TrimSpace(id)
		if id == "" || slices.Contains(guilds, id) {
			continue
		}
		guilds = append(guilds, id)
	}
	c.GuildIDs = guilds
}

// Validate reports every problem found in the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	if c.DiscordToken == "" {
		errs = append(errs, errors.New("BILLBOT_TOKEN is not set"))
	}
	if !currency.IsValid(c.Currency) {
		errs = append(errs, fmt.Errorf("BILLBOT_CURRENCY %q is not a known currency code", c.Currency))
	}
	if _, err := language.Parse(c.Locale); err != nil {
		errs = append(errs, fmt.Errorf("BILLBOT_LOCALE %q is not a valid locale: %w", c.Locale, err))
	}
	if c.RegisterRate <= 0 {
		errs = append(errs, fmt.Errorf("BILLBOT_REGISTER_RATE must be positive, got %v", c.RegisterRate))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// Global reports whether commands should be registered for every guild at once.
func (c *Config) Global() bool {
	return len(c.GuildIDs) == 0
}
