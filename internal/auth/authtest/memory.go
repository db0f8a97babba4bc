// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

// Package authtest provides test doubles for authentication collaborators.
package authtest

import (
	"context"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/skycastlabs/skycast/internal/auth"
)

// MemoryUserRepository is an in-memory auth.UserRepository for tests.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*auth.User // keyed by lower-cased username
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*auth.User)}
}

// Create stores a new user, enforcing case-insensitive username uniqueness.
func (r *MemoryUserRepository) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Username)
	if _, exists := r.users[key]; exists {
		return auth.ErrDuplicateUsername
	}
	clone := *user
	r.users[key] = &clone
	return nil
}

// GetByID retrieves a user by ID.
func (r *MemoryUserRepository) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, auth.ErrNotFound
}

// GetByUsername retrieves a user by username (case-insensitive).
func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[strings.ToLower(username)]
	if !ok {
		return nil, auth.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

// Update persists changes to an existing user.
func (r *MemoryUserRepository) Update(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Username)
	if _, ok := r.users[key]; !ok {
		return auth.ErrNotFound
	}
	clone := *user
	r.users[key] = &clone
	return nil
}

// PlainHasher is a PasswordHasher that stores passwords behind a marker
// prefix, keeping tests fast while still distinguishing hash from plaintext.
type PlainHasher struct{}

// Hash returns "plain:" + password.
func (PlainHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", auth.ErrEmptyPassword
	}
	return "plain:" + password, nil
}

// Verify checks the password against the stored marker format.
func (PlainHasher) Verify(password, hash string) (bool, error) {
	return hash == "plain:"+password, nil
}

// StaticIssuer is a TokenIssuer returning a token derived from the user ID.
type StaticIssuer struct{}

// Issue returns "token-" + the user's ID.
func (StaticIssuer) Issue(user *auth.User) (string, error) {
	return "token-" + user.ID.String(), nil
}

// Compile-time interface checks.
var (
	_ auth.UserRepository = (*MemoryUserRepository)(nil)
	_ auth.PasswordHasher = PlainHasher{}
	_ auth.TokenIssuer    = StaticIssuer{}
)
