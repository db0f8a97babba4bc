// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/skycastlabs/skycast/internal/auth"
	authpg "github.com/skycastlabs/skycast/internal/auth/postgres"
	"github.com/skycastlabs/skycast/internal/config"
	"github.com/skycastlabs/skycast/internal/httpapi"
	"github.com/skycastlabs/skycast/internal/logging"
	"github.com/skycastlabs/skycast/internal/observability"
	"github.com/skycastlabs/skycast/internal/store"
	"github.com/skycastlabs/skycast/internal/weather"
)

// serveConfig holds flags that are not part of the file configuration.
type serveConfig struct {
	autoMigrate bool
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	sc := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the SkyCast API server",
		Long: `Start the HTTP API server, the metrics/health endpoint, and the
configured weather cache backend.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cmd, sc, nil)
		},
	}

	flags := cmd.Flags()
	flags.String("server.addr", ":8080", "HTTP listen address")
	flags.String("server.metrics_addr", "127.0.0.1:9100", "metrics/health HTTP address (empty = disabled)")
	flags.String("cache.backend", config.CacheBackendMemory, "weather cache backend (memory or redis)")
	flags.String("log.format", "json", "log format (json or text)")
	flags.String("log.level", "info", "log level (debug, info, warn, error)")
	flags.BoolVar(&sc.autoMigrate, "auto-migrate", false, "run pending database migrations before serving")

	return cmd
}

// runServeWithDeps starts the server with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, sc *serveConfig, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.ConfigLoader == nil {
		deps.ConfigLoader = func() (*config.Config, error) {
			return config.Load(effectiveConfigPath(), cmd.Flags())
		}
	}
	if deps.StoreFactory == nil {
		deps.StoreFactory = func(ctx context.Context, dsn string) (DataStore, error) {
			return store.New(ctx, dsn)
		}
	}
	if deps.MigratorFactory == nil {
		deps.MigratorFactory = func(databaseURL string) (Migrator, error) {
			return store.NewMigrator(databaseURL)
		}
	}
	if deps.CacheFactory == nil {
		deps.CacheFactory = buildCache
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}

	cfg, err := deps.ConfigLoader()
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url is required (set DATABASE_URL or database.url)")
	}
	if cfg.JWT.Secret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("jwt.secret is required (set SKYCAST_JWT_SECRET or jwt.secret)")
	}

	logging.SetDefault("skycast", version, cfg.Log.Format, cfg.Log.Level)
	logger := slog.Default()

	slog.Info("starting skycast",
		"addr", cfg.Server.Addr,
		"cache_backend", cfg.Cache.Backend,
		"log_format", cfg.Log.Format,
	)

	if sc.autoMigrate {
		migrator, err := deps.MigratorFactory(cfg.Database.URL)
		if err != nil {
			return oops.Code("MIGRATION_FAILED").With("operation", "create migrator").Wrap(err)
		}
		if err := migrator.Up(); err != nil {
			_ = migrator.Close()
			return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
		}
		if err := migrator.Close(); err != nil {
			return oops.Code("MIGRATION_FAILED").With("operation", "close migrator").Wrap(err)
		}
		slog.Info("migrations applied")
	}

	dataStore, err := deps.StoreFactory(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer dataStore.Close()

	slog.Info("connected to database")

	issuer, err := auth.NewJWTIssuer(auth.JWTConfig{
		Secret:            cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
		Audience:          cfg.JWT.Audience,
		ExpirationMinutes: cfg.JWT.ExpirationMinutes,
	})
	if err != nil {
		return err
	}

	authSvc, err := auth.NewService(
		authpg.NewUserRepository(dataStore.Pool()),
		auth.NewArgon2idHasher(),
		issuer,
		auth.SecurityPolicy{
			MaxFailedLoginAttempts: cfg.Security.MaxFailedLoginAttempts,
			LockoutDuration:        time.Duration(cfg.Security.LockoutMinutes) * time.Minute,
		},
	)
	if err != nil {
		return err
	}
	authSvc.SetLogger(logger.With("component", "auth"))

	forecasts, err := weather.NewStaticRepository()
	if err != nil {
		return err
	}
	weatherSvc, err := weather.NewService(forecasts)
	if err != nil {
		return err
	}
	weatherSvc.SetLogger(logger.With("component", "weather"))

	cache, closeCache, err := deps.CacheFactory(cfg.Cache)
	if err != nil {
		return err
	}
	defer closeCache()

	cachedWeather, err := weather.NewCachedService(weatherSvc, cache)
	if err != nil {
		return err
	}
	cachedWeather.SetLogger(logger.With("component", "weather_cache"))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start observability server if configured
	var obsServer ObservabilityServer
	var metrics *observability.Metrics
	if cfg.Server.MetricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Server.MetricsAddr, func() bool { return true })
		metrics = obsServer.Metrics()
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		slog.Info("observability server started", "addr", obsServer.Addr())
	}

	httpServer, err := httpapi.NewServer(httpapi.Config{
		AuthRateLimitPerMinute:    cfg.Security.AuthRateLimitPerMinute,
		WeatherRateLimitPerMinute: cfg.Security.WeatherRateLimitPerMinute,
	}, authSvc, cachedWeather, issuer, metrics, logger)
	if err != nil {
		return err
	}

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		if serveErr := httpServer.Listen(cfg.Server.Addr); serveErr != nil {
			errChan <- serveErr
		}
	}()

	cmd.Println("SkyCast server started")
	slog.Info("skycast ready", "addr", cfg.Server.Addr)

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-errChan:
		return oops.Code("HTTP_SERVER_FAILED").Wrap(err)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	// Graceful shutdown
	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("error stopping HTTP server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// buildCache selects the weather cache backend from configuration.
func buildCache(cfg config.CacheConfig) (weather.ResultCache, func(), error) {
	switch cfg.Backend {
	case config.CacheBackendMemory:
		ttl := time.Duration(cfg.MemoryTTLMinutes) * time.Minute
		return weather.NewMemoryCache(ttl), func() {}, nil

	case config.CacheBackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, oops.Code("CONFIG_INVALID").
				With("operation", "parse redis URL").
				Wrap(err)
		}
		client := redis.NewClient(opts)
		cache, err := weather.NewRedisCache(client, time.Duration(cfg.RedisTTLMinutes)*time.Minute)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return cache, func() {
			if closeErr := client.Close(); closeErr != nil {
				slog.Debug("error closing redis client", "error", closeErr)
			}
		}, nil

	default:
		return nil, nil, oops.Code("CONFIG_INVALID").
			With("backend", cfg.Backend).
			Errorf("unknown cache backend")
	}
}

// monitorServerErrors monitors a server's error channel and cancels the
// context on error so a background server failure shuts the process down.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
