package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skycastlabs/skycast/internal/config"
	"github.com/skycastlabs/skycast/internal/observability"
	"github.com/skycastlabs/skycast/internal/store"
	"github.com/skycastlabs/skycast/internal/weather"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// ConfigLoader loads the effective configuration.
	// Default: config.Load with the command's flag set.
	ConfigLoader func() (*config.Config, error)

	// StoreFactory opens the PostgreSQL connection pool.
	// Default: store.New
	StoreFactory func(ctx context.Context, dsn string) (DataStore, error)

	// MigratorFactory creates a database migrator.
	// Default: store.NewMigrator
	MigratorFactory func(databaseURL string) (Migrator, error)

	// CacheFactory builds the weather cache backend. The returned func
	// releases any backend resources.
	// Default: buildCache
	CacheFactory func(cfg config.CacheConfig) (weather.ResultCache, func(), error)

	// ObservabilityServerFactory creates the metrics/health server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer
}

// DataStore interface wraps the methods used by serve from store.Store.
type DataStore interface {
	Pool() *pgxpool.Pool
	Close()
}

// Migrator interface wraps the methods used from store.Migrator.
type Migrator interface {
	Up() error
	Close() error
}

// ObservabilityServer interface wraps the methods used from
// observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// Compile-time checks that the real implementations satisfy the seams.
var (
	_ DataStore           = (*store.Store)(nil)
	_ Migrator            = (*store.Migrator)(nil)
	_ ObservabilityServer = (*observability.Server)(nil)
)
