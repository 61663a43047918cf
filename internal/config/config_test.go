package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-courierform/pkg/formstate"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		FormName:      "courier-order",
		OperationID:   "createCourierOrder",
		Policy:        "permissive",
		PriceTimeout:  10 * time.Second,
		PriceCacheTTL: 15 * time.Minute,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.PricingEnabled() {
		t.Fatalf("pricing must be disabled without an endpoint")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("COURIERFORM_POLICY", "strict")
	t.Setenv("COURIERFORM_PRICE_ENDPOINT", "http://localhost:8080/price")
	t.Setenv("COURIERFORM_PRICE_TIMEOUT", "2s")
	t.Setenv("COURIERFORM_ROUTE_FROM", "place-kyiv")
	t.Setenv("COURIERFORM_ROUTE_TO", "place-lviv")
	t.Setenv("COURIERFORM_ROUTE_DISTANCE", "540000")
	t.Setenv("COURIERFORM_REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	policy, err := cfg.FormPolicy()
	if err != nil || policy != formstate.PolicyStrict {
		t.Fatalf("expected strict policy, got %v (%v)", policy, err)
	}
	if cfg.PriceTimeout != 2*time.Second || cfg.RouteDistance != 540000 || !cfg.PricingEnabled() {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]map[string]string{
		"bad duration":   {"COURIERFORM_PRICE_TIMEOUT": "soon"},
		"unknown policy": {"COURIERFORM_POLICY": "lenient"},
		"zero timeout":   {"COURIERFORM_PRICE_TIMEOUT": "0s"},
		"redis alone":    {"COURIERFORM_REDIS_ADDR": "localhost:6379"},
		"no route":       {"COURIERFORM_PRICE_ENDPOINT": "http://localhost/price"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			for key, value := range vars {
				t.Setenv(key, value)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg Config
	t.Setenv("COURIERFORM_REDIS_DB", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
