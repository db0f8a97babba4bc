// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// User represents a user account with its credential and lockout state.
type User struct {
	ID                  ulid.ULID
	Username            string
	PasswordHash        string
	FailedLoginAttempts int
	LockoutEnd          *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewUser creates a User with a validated username and password hash.
func NewUser(username, passwordHash string) (*User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, oops.Code("AUTH_INVALID_USER").Errorf("username cannot be empty")
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, oops.Code("AUTH_INVALID_USER").Errorf("password hash cannot be empty")
	}

	now := time.Now().UTC()
	return &User{
		ID:           ulid.Make(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsLockedOut reports whether the account is currently locked.
func (u *User) IsLockedOut(now time.Time) bool {
	return IsLockedOut(u.LockoutEnd, now)
}

// IncrementFailedAttempts records a failed login. When the counter reaches
// maxAttempts the lockout window is set to now + lockoutDuration. The
// counter is not reset on lockout: further failures while locked keep
// climbing and re-extend the window on every call past the threshold.
func (u *User) IncrementFailedAttempts(maxAttempts int, lockoutDuration time.Duration, now time.Time) {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		end := now.Add(lockoutDuration)
		u.LockoutEnd = &end
	}
	u.UpdatedAt = now
}

// ResetFailedAttempts clears the failure counter and any lockout. Called
// only after a verified successful credential match.
func (u *User) ResetFailedAttempts(now time.Time) {
	u.FailedLoginAttempts = 0
	u.LockoutEnd = nil
	u.UpdatedAt = now
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user. Returns ErrDuplicateUsername if the
	// username is already taken (case-insensitive).
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByUsername retrieves a user by username (case-insensitive).
	// Returns ErrNotFound if absent.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Update persists changes to an existing user.
	Update(ctx context.Context, user *User) error
}
