// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package weather

import (
	"context"
	"log/slog"
	"strings"

	"github.com/samber/oops"

	"github.com/skycastlabs/skycast/internal/observability"
	"github.com/skycastlabs/skycast/internal/result"
)

// CachedService is a cache-aside decorator over a Provider. Only successful
// envelopes with a payload are written to the cache; error envelopes always
// fall through to the wrapped provider on the next call.
type CachedService struct {
	next   Provider
	cache  ResultCache
	logger *slog.Logger
}

// NewCachedService wraps a Provider with a ResultCache.
func NewCachedService(next Provider, cache ResultCache) (*CachedService, error) {
	if next == nil {
		return nil, oops.Errorf("weather provider is required")
	}
	if cache == nil {
		return nil, oops.Errorf("result cache is required")
	}
	return &CachedService{next: next, cache: cache, logger: slog.Default()}, nil
}

// SetLogger replaces the decorator logger. Intended for wiring at startup.
func (s *CachedService) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// GetWeatherByCity returns the cached envelope for a city, delegating to
// the wrapped provider on a miss. An empty city short-circuits before the
// cache is consulted. A cache-backend failure fails the request.
func (s *CachedService) GetWeatherByCity(ctx context.Context, city string) (*result.Result[Response], error) {
	if strings.TrimSpace(city) == "" {
		return result.Error[Response](MsgCityRequired, result.StatusBadRequest), nil
	}

	cached, ok, err := s.cache.Get(ctx, city)
	if err != nil {
		return nil, oops.Code("WEATHER_CACHE_FAILED").
			With("operation", "cache get").
			With("city", city).
			Wrap(err)
	}
	if ok {
		observability.RecordCacheLookup("hit")
		s.logger.Debug("weather cache hit", "city", city)
		return cached, nil
	}
	observability.RecordCacheLookup("miss")

	res, err := s.next.GetWeatherByCity(ctx, city)
	if err != nil {
		return nil, err
	}

	if res.Success && res.Data != nil {
		if err := s.cache.Set(ctx, city, res); err != nil {
			return nil, oops.Code("WEATHER_CACHE_FAILED").
				With("operation", "cache set").
				With("city", city).
				Wrap(err)
		}
		s.logger.Debug("weather cache populated", "city", city)
	}

	return res, nil
}

// Compile-time interface check.
var _ Provider = (*CachedService)(nil)
