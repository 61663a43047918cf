// Package config loads process settings for the courierform command from
// environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/goliatone/go-courierform/pkg/formstate"
)

// Config is the command configuration. Every field maps to a COURIERFORM_*
// environment variable.
type Config struct {
	// FormsDir points at a directory of YAML/JSON declarations. Empty uses
	// the bundled courier form.
	FormsDir string `env:"COURIERFORM_FORMS_DIR"`
	FormName string `env:"COURIERFORM_FORM" envDefault:"courier-order"`

	// OpenAPIFile, when set, takes precedence over FormsDir.
	OpenAPIFile string `env:"COURIERFORM_OPENAPI_FILE"`
	OperationID string `env:"COURIERFORM_OPERATION_ID" envDefault:"createCourierOrder"`

	Policy string `env:"COURIERFORM_POLICY" envDefault:"permissive"`

	PriceEndpoint string        `env:"COURIERFORM_PRICE_ENDPOINT"`
	PriceTimeout  time.Duration `env:"COURIERFORM_PRICE_TIMEOUT" envDefault:"10s"`
	RouteFrom     string        `env:"COURIERFORM_ROUTE_FROM"`
	RouteTo       string        `env:"COURIERFORM_ROUTE_TO"`
	RouteDistance float64       `env:"COURIERFORM_ROUTE_DISTANCE"`

	RedisAddr     string        `env:"COURIERFORM_REDIS_ADDR"`
	RedisPassword string        `env:"COURIERFORM_REDIS_PASSWORD"`
	RedisDB       int           `env:"COURIERFORM_REDIS_DB" envDefault:"0"`
	PriceCacheTTL time.Duration `env:"COURIERFORM_PRICE_CACHE_TTL" envDefault:"15m"`

	PanelOut     string `env:"COURIERFORM_PANEL_OUT"`
	ThemeName    string `env:"COURIERFORM_THEME"`
	ThemeVariant string `env:"COURIERFORM_THEME_VARIANT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment into a Config and checks it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the command cannot act on.
func (c Config) Validate() error {
	if _, err := c.FormPolicy(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.PriceTimeout <= 0 {
		return fmt.Errorf("config: price timeout must be positive, got %s", c.PriceTimeout)
	}
	if c.RedisAddr != "" && c.PriceEndpoint == "" {
		return fmt.Errorf("config: COURIERFORM_REDIS_ADDR requires COURIERFORM_PRICE_ENDPOINT")
	}
	if c.PriceEndpoint != "" && (strings.TrimSpace(c.RouteFrom) == "" || strings.TrimSpace(c.RouteTo) == "") {
		return fmt.Errorf("config: COURIERFORM_PRICE_ENDPOINT requires COURIERFORM_ROUTE_FROM and COURIERFORM_ROUTE_TO")
	}
	return nil
}

// FormPolicy returns the configured validity policy.
func (c Config) FormPolicy() (formstate.Policy, error) {
	return formstate.ParsePolicy(c.Policy)
}

// PricingEnabled reports whether a price endpoint is configured.
func (c Config) PricingEnabled() bool {
	return strings.TrimSpace(c.PriceEndpoint) != ""
}
