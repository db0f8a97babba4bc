// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

// Package config loads SkyCast configuration from a YAML file, command-line
// flags, and environment fallbacks, in ascending precedence.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Cache backend selectors.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config is the root SkyCast configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	JWT      JWTConfig      `koanf:"jwt"`
	Security SecurityConfig `koanf:"security"`
	Cache    CacheConfig    `koanf:"cache"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig holds the HTTP listen addresses.
type ServerConfig struct {
	Addr        string `koanf:"addr"`
	MetricsAddr string `koanf:"metrics_addr"`
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// JWTConfig holds token issuance settings.
type JWTConfig struct {
	Secret            string `koanf:"secret"`
	Issuer            string `koanf:"issuer"`
	Audience          string `koanf:"audience"`
	ExpirationMinutes int    `koanf:"expiration_minutes"`
}

// SecurityConfig holds lockout and rate-limit settings.
type SecurityConfig struct {
	MaxFailedLoginAttempts    int `koanf:"max_failed_login_attempts"`
	LockoutMinutes            int `koanf:"lockout_minutes"`
	AuthRateLimitPerMinute    int `koanf:"auth_rate_limit_per_minute"`
	WeatherRateLimitPerMinute int `koanf:"weather_rate_limit_per_minute"`
}

// CacheConfig selects and tunes the weather cache backend.
type CacheConfig struct {
	Backend          string `koanf:"backend"`
	MemoryTTLMinutes int    `koanf:"memory_ttl_minutes"`
	RedisTTLMinutes  int    `koanf:"redis_ttl_minutes"`
	RedisURL         string `koanf:"redis_url"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":8080",
			MetricsAddr: "127.0.0.1:9100",
		},
		JWT: JWTConfig{
			Issuer:            "skycast",
			Audience:          "skycast-api",
			ExpirationMinutes: 60,
		},
		Security: SecurityConfig{
			MaxFailedLoginAttempts:    5,
			LockoutMinutes:            15,
			AuthRateLimitPerMinute:    5,
			WeatherRateLimitPerMinute: 10,
		},
		Cache: CacheConfig{
			Backend:          CacheBackendMemory,
			MemoryTTLMinutes: 30,
			RedisTTLMinutes:  60,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
		},
	}
}

// Load builds the configuration. The YAML file at path (if non-empty) is
// applied over the defaults, then any flags set on flagSet (if non-nil),
// then environment fallbacks for secrets and connection URLs.
func Load(path string, flagSet *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flagSet != nil {
		if err := k.Load(posflag.Provider(flagSet, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("operation", "load flags").
				Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").
			With("operation", "unmarshal").
			Wrap(err)
	}

	applyEnvFallbacks(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvFallbacks fills secrets and connection URLs from the environment
// when the file and flags left them empty.
func applyEnvFallbacks(cfg *Config) {
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = os.Getenv("SKYCAST_JWT_SECRET")
	}
	if cfg.Cache.RedisURL == "" {
		cfg.Cache.RedisURL = os.Getenv("REDIS_URL")
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("server.addr is required")
	}
	if c.Cache.Backend != CacheBackendMemory && c.Cache.Backend != CacheBackendRedis {
		return oops.Code("CONFIG_INVALID").
			With("backend", c.Cache.Backend).
			Errorf("cache.backend must be %q or %q", CacheBackendMemory, CacheBackendRedis)
	}
	if c.Cache.Backend == CacheBackendRedis && c.Cache.RedisURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("cache.redis_url is required for the redis backend")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			With("format", c.Log.Format).
			Errorf("log.format must be 'json' or 'text'")
	}
	if c.Security.MaxFailedLoginAttempts <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("security.max_failed_login_attempts must be positive")
	}
	if c.Security.LockoutMinutes <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("security.lockout_minutes must be positive")
	}
	if c.JWT.ExpirationMinutes <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("jwt.expiration_minutes must be positive")
	}
	return nil
}
