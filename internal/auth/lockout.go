// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package auth

import (
	"math"
	"time"
)

// Default lockout policy values, overridable through configuration.
const (
	// DefaultMaxFailedAttempts is the number of failures that triggers a lockout.
	DefaultMaxFailedAttempts = 5

	// DefaultLockoutDuration is the time an account stays locked after too
	// many failures.
	DefaultLockoutDuration = 15 * time.Minute
)

// IsLockedOut returns true if the lockout end is set and strictly in the
// future. A lockout end in the past is equivalent to an active account even
// if never explicitly cleared.
func IsLockedOut(lockoutEnd *time.Time, now time.Time) bool {
	return lockoutEnd != nil && lockoutEnd.After(now)
}

// LockoutRemainingMinutes returns the remaining lockout window rounded up
// to whole minutes. Returns 0 when the account is not locked.
func LockoutRemainingMinutes(lockoutEnd *time.Time, now time.Time) int {
	if !IsLockedOut(lockoutEnd, now) {
		return 0
	}
	remaining := lockoutEnd.Sub(now)
	return int(math.Ceil(remaining.Minutes()))
}
