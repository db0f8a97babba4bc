// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

// Package weather provides city forecast lookups behind a cache-aside
// decorator.
//
// # Domain Types
//
//   - Forecast: immutable weather snapshot for a city
//   - Response: the API payload derived from a Forecast
//
// # Services
//
//   - Service: resolves a city to a forecast through a ForecastRepository
//   - CachedService: cache-aside decorator over any Provider
//
// Two ResultCache backends are provided. MemoryCache keeps envelopes
// in-process and replays the same object reference on a hit. RedisCache
// round-trips envelopes through JSON so hits replay an equivalent value
// across processes. Only successful lookups are ever cached.
package weather
