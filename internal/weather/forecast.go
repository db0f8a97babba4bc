// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package weather

import (
	"context"
	"strings"

	"github.com/samber/oops"
)

// ErrCityNotFound is returned when no forecast exists for a city.
var ErrCityNotFound = oops.Code("WEATHER_CITY_NOT_FOUND").Errorf("no forecast for city")

// Forecast is an immutable weather snapshot for a city.
type Forecast struct {
	City        string
	Temperature float64
	Condition   string
}

// NewForecast creates a Forecast with a validated city name.
func NewForecast(city string, temperature float64, condition string) (*Forecast, error) {
	if strings.TrimSpace(city) == "" {
		return nil, oops.Code("WEATHER_INVALID_FORECAST").Errorf("city cannot be empty")
	}
	return &Forecast{
		City:        city,
		Temperature: temperature,
		Condition:   condition,
	}, nil
}

// ForecastRepository resolves a city name to a forecast.
type ForecastRepository interface {
	// GetByCity retrieves the forecast for a city (case-insensitive).
	// Returns ErrCityNotFound if the city is unknown.
	GetByCity(ctx context.Context, city string) (*Forecast, error)
}
