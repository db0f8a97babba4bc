// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package weather

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycastlabs/skycast/internal/result"
)

// errorRepo fails every lookup with a fixed error.
type errorRepo struct {
	err error
}

func (r *errorRepo) GetByCity(context.Context, string) (*Forecast, error) {
	return nil, r.err
}

func newWeatherService(t *testing.T) *Service {
	t.Helper()
	repo, err := NewStaticRepository()
	require.NoError(t, err)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc
}

func TestNewWeatherService(t *testing.T) {
	t.Run("requires a repository", func(t *testing.T) {
		_, err := NewService(nil)
		assert.Error(t, err)
	})
}

func TestGetWeatherByCity(t *testing.T) {
	ctx := context.Background()

	t.Run("returns forecast for a known city", func(t *testing.T) {
		svc := newWeatherService(t)

		res, err := svc.GetWeatherByCity(ctx, "Cairo")
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, result.StatusOK, res.StatusCode)
		assert.Equal(t, "Weather data retrieved successfully", res.Message)
		require.NotNil(t, res.Data)
		assert.Equal(t, "Cairo", res.Data.City)
		assert.Equal(t, "Sunny", res.Data.Condition)
	})

	t.Run("empty city is a bad request", func(t *testing.T) {
		svc := newWeatherService(t)

		res, err := svc.GetWeatherByCity(ctx, "")
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, result.StatusBadRequest, res.StatusCode)
		assert.Equal(t, "City name is required", res.Message)
	})

	t.Run("whitespace city is a bad request", func(t *testing.T) {
		svc := newWeatherService(t)

		res, err := svc.GetWeatherByCity(ctx, "   ")
		require.NoError(t, err)
		assert.Equal(t, result.StatusBadRequest, res.StatusCode)
	})

	t.Run("unknown city is not found", func(t *testing.T) {
		svc := newWeatherService(t)

		res, err := svc.GetWeatherByCity(ctx, "Atlantis")
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, result.StatusNotFound, res.StatusCode)
		assert.Equal(t, "Weather data not found for the specified city", res.Message)
		assert.Nil(t, res.Data)
	})

	t.Run("repository failure surfaces as error", func(t *testing.T) {
		svc, err := NewService(&errorRepo{err: errors.New("backend down")})
		require.NoError(t, err)

		_, err = svc.GetWeatherByCity(ctx, "London")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backend down")
	})
}
