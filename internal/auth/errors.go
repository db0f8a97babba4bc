// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateUsername is returned when creating a user whose username is
// already taken (case-insensitive).
var ErrDuplicateUsername = errors.New("username already exists")
