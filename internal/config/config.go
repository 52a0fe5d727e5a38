// Package config loads server settings from defaults, an optional YAML file
// and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"

	"github.com/erazemk/prft/internal/fees"
)

// Config holds every configurable setting.
type Config struct {
	Addr        string        `yaml:"addr"`
	DB          string        `yaml:"db"`
	Log         string        `yaml:"log"`
	AdminUser   string        `yaml:"admin_user"`
	UndoWindow  time.Duration `yaml:"undo_window"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	CORSOrigins []string      `yaml:"cors_origins"`
	Photo       Photo         `yaml:"photo"`
	Redis       Redis         `yaml:"redis"`
	Fees        Fees          `yaml:"fees"`
}

// Photo configures listing photo processing.
type Photo struct {
	MaxDimension int `yaml:"max_dimension"`
	Quality      int `yaml:"quality"`
}

// Redis configures the shared live feed. An empty Addr disables it.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

// Fees overrides the fee schedule. Amounts are decimal strings; rates are
// percentages.
type Fees struct {
	Rates         map[string]string `yaml:"rates"`
	ShippingTiers []ShippingTier    `yaml:"shipping_tiers"`
	BaseShipping  string            `yaml:"base_shipping"`
}

// ShippingTier charges Cost for sale prices at or above Min.
type ShippingTier struct {
	Min  string `yaml:"min"`
	Cost string `yaml:"cost"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:       ":8080",
		DB:         "prft.sqlite3",
		AdminUser:  "Admin",
		UndoWindow: 6 * time.Second,
		TokenTTL:   7 * 24 * time.Hour,
		Photo: Photo{
			MaxDimension: 1280,
			Quality:      85,
		},
	}
}

// Load builds the configuration. A missing file at path is an error only
// when path was given explicitly. Variables from a .env file in the working
// directory are loaded without replacing ones already set.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"PRFT_ADDR":       &c.Addr,
		"PRFT_DB":         &c.DB,
		"PRFT_LOG":        &c.Log,
		"PRFT_ADMIN_USER": &c.AdminUser,
		"PRFT_REDIS_ADDR": &c.Redis.Addr,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup("PRFT_CORS_ORIGINS"); ok {
		c.CORSOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.CORSOrigins = append(c.CORSOrigins, origin)
			}
		}
	}

	durations := map[string]*time.Duration{
		"PRFT_UNDO_WINDOW": &c.UndoWindow,
		"PRFT_TOKEN_TTL":   &c.TokenTTL,
	}
	for key, dst := range durations {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", key, err)
		}
		*dst = d
	}
	return nil
}

// Validate checks settings that would otherwise fail later.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AdminUser) == "" {
		return errors.New("admin_user must not be empty")
	}
	if strings.TrimSpace(c.DB) == "" {
		return errors.New("db must not be empty")
	}
	if c.UndoWindow <= 0 {
		return errors.New("undo_window must be positive")
	}
	if c.TokenTTL <= 0 {
		return errors.New("token_ttl must be positive")
	}
	if _, err := c.FeeConfig(); err != nil {
		return err
	}
	return nil
}

// FeeConfig returns the estimator configuration: the built-in schedule with
// any configured rates, tiers and base shipping layered on top. Configured
// tiers replace the built-in ones entirely.
func (c *Config) FeeConfig() (fees.Config, error) {
	out := fees.DefaultConfig()

	for platform, rate := range c.Fees.Rates {
		d, err := parseAmount("fees.rates."+platform, rate)
		if err != nil {
			return fees.Config{}, err
		}
		out.Rates[strings.ToLower(strings.TrimSpace(platform))] = d
	}

	if len(c.Fees.ShippingTiers) > 0 {
		out.Tiers = nil
		for i, t := range c.Fees.ShippingTiers {
			field := fmt.Sprintf("fees.shipping_tiers[%d]", i)
			lo, err := parseAmount(field+".min", t.Min)
			if err != nil {
				return fees.Config{}, err
			}
			cost, err := parseAmount(field+".cost", t.Cost)
			if err != nil {
				return fees.Config{}, err
			}
			out.Tiers = append(out.Tiers, fees.Tier{Min: lo, Cost: cost})
		}
	}

	if c.Fees.BaseShipping != "" {
		d, err := parseAmount("fees.base_shipping", c.Fees.BaseShipping)
		if err != nil {
			return fees.Config{}, err
		}
		out.BaseShipping = d
	}

	return out, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %q is not a number", field, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s: must not be negative", field)
	}
	return d, nil
}
