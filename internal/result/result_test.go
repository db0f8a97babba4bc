// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package result_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycastlabs/skycast/internal/result"
)

func TestOK(t *testing.T) {
	r := result.OK("payload", "done")
	assert.True(t, r.Success)
	assert.Equal(t, result.StatusOK, r.StatusCode)
	assert.Equal(t, "done", r.Message)
	assert.Empty(t, r.Errors)
	require.NotNil(t, r.Data)
	assert.Equal(t, "payload", *r.Data)
}

func TestError(t *testing.T) {
	r := result.Error[string]("nope", result.StatusConflict)
	assert.False(t, r.Success)
	assert.Equal(t, result.StatusConflict, r.StatusCode)
	assert.Nil(t, r.Data)
	assert.Empty(t, r.Errors)
}

func TestValidationError(t *testing.T) {
	t.Run("carries field errors", func(t *testing.T) {
		r := result.ValidationError[string]("Validation failed", []string{"Username is required"})
		assert.False(t, r.Success)
		assert.Equal(t, result.StatusBadRequest, r.StatusCode)
		assert.Equal(t, []string{"Username is required"}, r.Errors)
	})

	t.Run("empty error list stays empty slice", func(t *testing.T) {
		r := result.ValidationError[string]("Validation failed", nil)
		assert.NotNil(t, r.Errors)
		assert.Empty(t, r.Errors)
	})
}

func TestResult_JSONShape(t *testing.T) {
	t.Run("errors serialize as empty array, not null", func(t *testing.T) {
		raw, err := json.Marshal(result.OK(42, "ok"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"statusCode":200,"message":"ok","errors":[],"data":42}`, string(raw))
	})

	t.Run("missing data serializes as null", func(t *testing.T) {
		raw, err := json.Marshal(result.Error[int]("bad", result.StatusBadRequest))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":false,"statusCode":400,"message":"bad","errors":[],"data":null}`, string(raw))
	})

	t.Run("round-trips through JSON", func(t *testing.T) {
		original := result.OK("London", "ok")
		raw, err := json.Marshal(original)
		require.NoError(t, err)

		var decoded result.Result[string]
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, original.Success, decoded.Success)
		assert.Equal(t, original.StatusCode, decoded.StatusCode)
		require.NotNil(t, decoded.Data)
		assert.Equal(t, "London", *decoded.Data)
	})
}
