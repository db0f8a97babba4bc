// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package weather

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/oops"

	"github.com/skycastlabs/skycast/internal/result"
)

// User-facing messages.
const (
	MsgCityRequired = "City name is required"
	MsgNotFound     = "Weather data not found for the specified city"
	MsgRetrieved    = "Weather data retrieved successfully"
)

// Response is the payload returned for a successful weather lookup.
type Response struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
}

// Provider resolves a city name to a weather result envelope.
// Service and CachedService both implement it, so caching composes as a
// decorator.
type Provider interface {
	GetWeatherByCity(ctx context.Context, city string) (*result.Result[Response], error)
}

// Service resolves weather lookups through a ForecastRepository.
type Service struct {
	forecasts ForecastRepository
	logger    *slog.Logger
}

// NewService creates a weather Service.
func NewService(forecasts ForecastRepository) (*Service, error) {
	if forecasts == nil {
		return nil, oops.Errorf("forecast repository is required")
	}
	return &Service{forecasts: forecasts, logger: slog.Default()}, nil
}

// SetLogger replaces the service logger. Intended for wiring at startup.
func (s *Service) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// GetWeatherByCity retrieves the forecast for a city. An empty city is a
// BadRequest envelope; an unknown city is a NotFound envelope.
func (s *Service) GetWeatherByCity(ctx context.Context, city string) (*result.Result[Response], error) {
	if strings.TrimSpace(city) == "" {
		return result.Error[Response](MsgCityRequired, result.StatusBadRequest), nil
	}

	forecast, err := s.forecasts.GetByCity(ctx, city)
	if err != nil {
		if errors.Is(err, ErrCityNotFound) {
			return result.Error[Response](MsgNotFound, result.StatusNotFound), nil
		}
		return nil, oops.Code("WEATHER_LOOKUP_FAILED").
			With("operation", "get forecast").
			With("city", city).
			Wrap(err)
	}

	s.logger.Debug("forecast resolved", "city", forecast.City)

	return result.OK(Response{
		City:        forecast.City,
		Temperature: forecast.Temperature,
		Condition:   forecast.Condition,
	}, MsgRetrieved), nil
}

// Compile-time interface check.
var _ Provider = (*Service)(nil)
