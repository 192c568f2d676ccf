package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	governanceaccounting "desci/contexts/governance/governance-accounting"
	ethereumadapter "desci/contexts/governance/governance-accounting/adapters/ethereum"
	"desci/contexts/governance/governance-accounting/adapters/memory"
	metricsadapter "desci/contexts/governance/governance-accounting/adapters/metrics"
	postgresadapter "desci/contexts/governance/governance-accounting/adapters/postgres"
	redisadapter "desci/contexts/governance/governance-accounting/adapters/redis"
	workerapp "desci/contexts/governance/governance-accounting/application/workers"
	"desci/contexts/governance/governance-accounting/domain/services"
	"desci/contexts/governance/governance-accounting/ports"
	"desci/internal/platform/config"
	"desci/internal/platform/db"
	"desci/internal/platform/httpserver"
	"desci/internal/platform/messaging"
	"desci/internal/platform/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	database *db.Database
	redis    *redis.Client
	closeRPC func()
	logger   *slog.Logger
}

type WorkerApp struct {
	database     *db.Database
	redis        *redis.Client
	outboxRelay  workerapp.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI(ctx context.Context, flags *pflag.FlagSet) (*APIApp, error) {
	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg).With("service", cfg.ServiceName, "process", "api")

	tallyMode, err := services.ParseTallyMode(cfg.TallyMode)
	if err != nil {
		return nil, err
	}
	if cfg.EthRPCURL == "" {
		return nil, errors.New("ETH_RPC_URL is required")
	}

	database, err := db.Open(cfg.DatabaseDriver, databaseDSN(cfg), logger)
	if err != nil {
		return nil, err
	}
	app := &APIApp{database: database, logger: logger}

	chainOracle, closeRPC, err := ethereumadapter.Dial(ctx, cfg.EthRPCURL, cfg.OracleCallTimeout, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.closeRPC = closeRPC

	var oracle ports.TokenOracle = chainOracle
	var sessions ports.PriceSessionStore = memory.NewStore()
	if cfg.RedisURL != "" {
		client, err := messaging.Connect(cfg.RedisURL)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.redis = client
		oracle = redisadapter.NewCachedOracle(chainOracle, client, cfg.DecimalsCacheTTL, logger)
		sessions = redisadapter.NewPriceSessions(client, cfg.PriceSessionTTL, logger)
	}

	var metricsHandler http.Handler
	var governanceMetrics ports.Metrics
	if cfg.EnableMetrics {
		registry, err := metrics.NewRegistry()
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		recorder, err := metricsadapter.NewPrometheus(registry)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		governanceMetrics = recorder
		metricsHandler = registry.Handler()
	}

	repo := postgresadapter.NewRepository(database.DB, logger)
	module := governanceaccounting.NewModule(governanceaccounting.Dependencies{
		Projects:     repo,
		Proposals:    repo,
		Votes:        repo,
		Users:        repo,
		Purchases:    repo,
		Sessions:     sessions,
		Oracle:       oracle,
		Outbox:       repo,
		Clock:        postgresadapter.SystemClock{},
		IDGen:        postgresadapter.UUIDGenerator{},
		Metrics:      governanceMetrics,
		TallyMode:    tallyMode,
		PriceOptions: services.DefaultPriceOptions(),
		Logger:       logger,
	})

	app.server = httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort), httpserver.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:        metricsHandler,
		Health:         app.health,
		EnableSwagger:  cfg.EnableSwagger,
	})
	return app, nil
}

func BuildWorker(flags *pflag.FlagSet) (*WorkerApp, error) {
	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg).With("service", cfg.ServiceName, "process", "worker")

	database, err := db.Open(cfg.DatabaseDriver, databaseDSN(cfg), logger)
	if err != nil {
		return nil, err
	}
	app := &WorkerApp{database: database, pollInterval: cfg.OutboxPollInterval, logger: logger}

	var publisher ports.EventPublisher = messaging.NewBus(logger)
	if cfg.RedisURL != "" {
		client, err := messaging.Connect(cfg.RedisURL)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.redis = client
		publisher = messaging.NewRedisStream(client, cfg.OutboxStream, logger)
	}

	app.outboxRelay = workerapp.OutboxRelay{
		Outbox:    postgresadapter.NewRepository(database.DB, logger),
		Publisher: publisher,
		Clock:     postgresadapter.SystemClock{},
		BatchSize: cfg.OutboxBatchSize,
		Logger:    logger,
	}
	return app, nil
}

// Migrate creates or updates the governance tables for the configured driver.
func Migrate(ctx context.Context, flags *pflag.FlagSet) error {
	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	logger := newLogger(cfg).With("service", cfg.ServiceName, "process", "migrate")
	database, err := db.Open(cfg.DatabaseDriver, databaseDSN(cfg), logger)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := postgresadapter.NewRepository(database.DB, logger).Migrate(ctx); err != nil {
		return err
	}
	logger.Info("governance schema migrated",
		"event", "bootstrap_migrate_completed",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"driver", cfg.DatabaseDriver,
	)
	return nil
}

func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	errs := make(chan error, 1)
	go func() {
		errs <- a.server.Start()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	}
}

func (a *APIApp) Close() error {
	if a.closeRPC != nil {
		a.closeRPC()
	}
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.database != nil {
		errs = append(errs, a.database.Close())
	}
	return errors.Join(errs...)
}

func (a *APIApp) health(ctx context.Context) error {
	if err := a.database.Ping(ctx); err != nil {
		return err
	}
	if a.redis != nil {
		return a.redis.Ping(ctx).Err()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if _, err := w.outboxRelay.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// Publish failures leave rows pending; the next tick retries them.
			w.logger.Warn("outbox relay cycle failed",
				"event", "bootstrap_worker_cycle_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	var errs []error
	if w.redis != nil {
		errs = append(errs, w.redis.Close())
	}
	if w.database != nil {
		errs = append(errs, w.database.Close())
	}
	return errors.Join(errs...)
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func databaseDSN(cfg config.Config) string {
	if cfg.DatabaseDriver == config.DriverSQLite {
		return cfg.SQLitePath
	}
	return cfg.PostgresDSN
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
