package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	LogLevel    string

	DatabaseDriver string
	PostgresDSN    string
	SQLitePath     string
	RedisURL       string
	EthRPCURL      string

	TallyMode          string
	PriceSessionTTL    time.Duration
	DecimalsCacheTTL   time.Duration
	OracleCallTimeout  time.Duration
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxStream       string
	CORSAllowedOrigins []string

	EnableMetrics bool
	EnableSwagger bool
}

var defaults = map[string]any{
	"SERVICE_NAME":          "desci-governance",
	"HTTP_PORT":             "8080",
	"LOG_LEVEL":             "info",
	"DATABASE_DRIVER":       DriverSQLite,
	"POSTGRES_DSN":          "",
	"SQLITE_PATH":           "desci.db",
	"REDIS_URL":             "",
	"ETH_RPC_URL":           "",
	"GOVERNANCE_TALLY_MODE": "strict",
	"PRICE_SESSION_TTL":     "0s",
	"DECIMALS_CACHE_TTL":    "24h",
	"ETH_CALL_TIMEOUT":      "10s",
	"OUTBOX_POLL_INTERVAL":  "2s",
	"OUTBOX_BATCH_SIZE":     100,
	"OUTBOX_STREAM":         "governance.events",
	"CORS_ALLOWED_ORIGINS":  "*",
	"ENABLE_METRICS":        true,
	"ENABLE_SWAGGER":        true,
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"http-port":  "HTTP_PORT",
	"log-level":  "LOG_LEVEL",
	"db-driver":  "DATABASE_DRIVER",
	"tally-mode": "GOVERNANCE_TALLY_MODE",
}

// Load reads a .env file when present, then the process environment. Flags
// that were set explicitly take precedence over both.
func Load(flags *pflag.FlagSet) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := Config{
		ServiceName: strings.TrimSpace(v.GetString("SERVICE_NAME")),
		HTTPPort:    strings.TrimSpace(v.GetString("HTTP_PORT")),
		LogLevel:    strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),

		DatabaseDriver: strings.ToLower(strings.TrimSpace(v.GetString("DATABASE_DRIVER"))),
		PostgresDSN:    strings.TrimSpace(v.GetString("POSTGRES_DSN")),
		SQLitePath:     strings.TrimSpace(v.GetString("SQLITE_PATH")),
		RedisURL:       strings.TrimSpace(v.GetString("REDIS_URL")),
		EthRPCURL:      strings.TrimSpace(v.GetString("ETH_RPC_URL")),

		TallyMode:          strings.ToLower(strings.TrimSpace(v.GetString("GOVERNANCE_TALLY_MODE"))),
		PriceSessionTTL:    v.GetDuration("PRICE_SESSION_TTL"),
		DecimalsCacheTTL:   v.GetDuration("DECIMALS_CACHE_TTL"),
		OracleCallTimeout:  v.GetDuration("ETH_CALL_TIMEOUT"),
		OutboxPollInterval: v.GetDuration("OUTBOX_POLL_INTERVAL"),
		OutboxBatchSize:    v.GetInt("OUTBOX_BATCH_SIZE"),
		OutboxStream:       strings.TrimSpace(v.GetString("OUTBOX_STREAM")),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),

		EnableMetrics: v.GetBool("ENABLE_METRICS"),
		EnableSwagger: v.GetBool("ENABLE_SWAGGER"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required when DATABASE_DRIVER=postgres")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when DATABASE_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.TallyMode {
	case "strict", "legacy":
	default:
		return fmt.Errorf("unsupported GOVERNANCE_TALLY_MODE %q", c.TallyMode)
	}
	if c.PriceSessionTTL < 0 || c.DecimalsCacheTTL < 0 {
		return errors.New("cache TTLs must not be negative")
	}
	if c.OutboxPollInterval <= 0 {
		return errors.New("OUTBOX_POLL_INTERVAL must be positive")
	}
	if c.OutboxBatchSize <= 0 {
		return errors.New("OUTBOX_BATCH_SIZE must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	var items []string
	for _, value := range strings.Split(raw, ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
