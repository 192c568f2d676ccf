package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPPort != "8080" || cfg.DatabaseDriver != DriverSQLite || cfg.TallyMode != "strict" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.DecimalsCacheTTL != 24*time.Hour || cfg.PriceSessionTTL != 0 {
		t.Fatalf("unexpected ttls %s %s", cfg.DecimalsCacheTTL, cfg.PriceSessionTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "postgres://desci@localhost/desci")
	t.Setenv("GOVERNANCE_TALLY_MODE", "LEGACY")
	t.Setenv("PRICE_SESSION_TTL", "90m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ENABLE_SWAGGER", "false")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.DatabaseDriver != DriverPostgres || cfg.TallyMode != "legacy" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.PriceSessionTTL != 90*time.Minute {
		t.Fatalf("expected 90m, got %s", cfg.PriceSessionTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.EnableSwagger {
		t.Fatal("expected swagger disabled")
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	flags.String("http-port", "8080", "")
	if err := flags.Parse([]string{"--http-port=9100"}); err != nil {
		t.Fatalf("parse flags failed: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPPort != "9100" {
		t.Fatalf("expected flag port 9100, got %s", cfg.HTTPPort)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"driver":      {"DATABASE_DRIVER": "mysql"},
		"missing dsn": {"DATABASE_DRIVER": "postgres"},
		"tally mode":  {"GOVERNANCE_TALLY_MODE": "quadratic"},
		"poll":        {"OUTBOX_POLL_INTERVAL": "0s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for key, value := range env {
				t.Setenv(key, value)
			}
			if _, err := Load(nil); err == nil {
				t.Fatalf("expected error for %v", env)
			}
		})
	}
}
