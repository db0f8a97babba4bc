// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package weather

import (
	"context"
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/samber/oops"
)

//go:embed weather_data.json
var weatherData []byte

// StaticRepository serves forecasts from the embedded dataset. Lookups are
// case-insensitive on the city name.
type StaticRepository struct {
	forecasts map[string]*Forecast // keyed by lower-cased city
}

// NewStaticRepository parses the embedded dataset into a repository.
func NewStaticRepository() (*StaticRepository, error) {
	return newStaticRepository(weatherData)
}

func newStaticRepository(data []byte) (*StaticRepository, error) {
	var entries []struct {
		City        string  `json:"city"`
		Temperature float64 `json:"temperature"`
		Condition   string  `json:"condition"`
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, oops.Code("WEATHER_DATA_INVALID").
			With("operation", "parse weather dataset").
			Wrap(err)
	}
	if len(entries) == 0 {
		return nil, oops.Code("WEATHER_DATA_INVALID").Errorf("weather dataset is empty")
	}

	forecasts := make(map[string]*Forecast, len(entries))
	for _, e := range entries {
		f, err := NewForecast(e.City, e.Temperature, e.Condition)
		if err != nil {
			return nil, oops.Code("WEATHER_DATA_INVALID").
				With("city", e.City).
				Wrap(err)
		}
		forecasts[strings.ToLower(e.City)] = f
	}
	return &StaticRepository{forecasts: forecasts}, nil
}

// GetByCity retrieves the forecast for a city (case-insensitive).
func (r *StaticRepository) GetByCity(_ context.Context, city string) (*Forecast, error) {
	f, ok := r.forecasts[strings.ToLower(city)]
	if !ok {
		return nil, oops.Code("WEATHER_CITY_NOT_FOUND").
			With("city", city).
			Wrap(ErrCityNotFound)
	}
	return f, nil
}

// Cities returns the known city names. Used by the status command.
func (r *StaticRepository) Cities() []string {
	cities := make([]string, 0, len(r.forecasts))
	for _, f := range r.forecasts {
		cities = append(cities, f.City)
	}
	return cities
}

// Compile-time interface check.
var _ ForecastRepository = (*StaticRepository)(nil)
