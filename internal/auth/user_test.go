// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycastlabs/skycast/internal/auth"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with ID and timestamps", func(t *testing.T) {
		user, err := auth.NewUser("alice", "$argon2id$hash")
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "$argon2id$hash", user.PasswordHash)
		assert.Zero(t, user.FailedLoginAttempts)
		assert.Nil(t, user.LockoutEnd)
		assert.False(t, user.CreatedAt.IsZero())
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	})

	t.Run("rejects empty username", func(t *testing.T) {
		_, err := auth.NewUser("", "hash")
		assert.Error(t, err)
	})

	t.Run("rejects whitespace username", func(t *testing.T) {
		_, err := auth.NewUser("   ", "hash")
		assert.Error(t, err)
	})

	t.Run("rejects empty password hash", func(t *testing.T) {
		_, err := auth.NewUser("alice", "")
		assert.Error(t, err)
	})
}

func TestUserIncrementFailedAttempts(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	const maxAttempts = 5
	const lockout = 15 * time.Minute

	t.Run("locks at exactly the threshold", func(t *testing.T) {
		user, err := auth.NewUser("alice", "hash")
		require.NoError(t, err)

		for i := 0; i < maxAttempts-1; i++ {
			user.IncrementFailedAttempts(maxAttempts, lockout, now)
			assert.Nil(t, user.LockoutEnd, "attempt %d must not lock", i+1)
		}
		assert.Equal(t, maxAttempts-1, user.FailedLoginAttempts)

		user.IncrementFailedAttempts(maxAttempts, lockout, now)
		require.NotNil(t, user.LockoutEnd)
		assert.Equal(t, now.Add(lockout), *user.LockoutEnd)
		assert.True(t, user.IsLockedOut(now))
	})

	t.Run("counter keeps climbing past the threshold", func(t *testing.T) {
		user, err := auth.NewUser("alice", "hash")
		require.NoError(t, err)

		for i := 0; i < maxAttempts+2; i++ {
			user.IncrementFailedAttempts(maxAttempts, lockout, now)
		}
		assert.Equal(t, maxAttempts+2, user.FailedLoginAttempts)
	})

	t.Run("failures while locked re-extend the window", func(t *testing.T) {
		user, err := auth.NewUser("alice", "hash")
		require.NoError(t, err)

		for i := 0; i < maxAttempts; i++ {
			user.IncrementFailedAttempts(maxAttempts, lockout, now)
		}
		first := *user.LockoutEnd

		later := now.Add(5 * time.Minute)
		user.IncrementFailedAttempts(maxAttempts, lockout, later)
		require.NotNil(t, user.LockoutEnd)
		assert.Equal(t, later.Add(lockout), *user.LockoutEnd)
		assert.True(t, user.LockoutEnd.After(first))
	})

	t.Run("updates UpdatedAt", func(t *testing.T) {
		user, err := auth.NewUser("alice", "hash")
		require.NoError(t, err)

		user.IncrementFailedAttempts(maxAttempts, lockout, now)
		assert.Equal(t, now, user.UpdatedAt)
	})
}

func TestUserResetFailedAttempts(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	user, err := auth.NewUser("alice", "hash")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		user.IncrementFailedAttempts(5, 15*time.Minute, now)
	}
	require.True(t, user.IsLockedOut(now))

	user.ResetFailedAttempts(now)
	assert.Zero(t, user.FailedLoginAttempts)
	assert.Nil(t, user.LockoutEnd)
	assert.False(t, user.IsLockedOut(now))
}
