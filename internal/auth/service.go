// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/skycastlabs/skycast/internal/result"
)

// User-facing messages. The lockout message embeds the remaining window in
// whole minutes, rounded up.
const (
	MsgValidationFailed   = "Validation failed"
	MsgUsernameExists     = "Username already exists"
	MsgInvalidCredentials = "Invalid username or password"
	MsgRegistered         = "User registered successfully"
	MsgLoginSuccessful    = "Login successful"

	// MsgAccountLockedPrefix starts every lockout rejection message.
	MsgAccountLockedPrefix = "Account is locked."

	msgAccountLockedFormat = MsgAccountLockedPrefix + " Try again in %d minute(s)."
)

// AuthResponse is the payload returned on successful registration or login.
type AuthResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// SecurityPolicy configures the account lockout behavior.
type SecurityPolicy struct {
	// MaxFailedLoginAttempts is the failure count that triggers a lockout.
	MaxFailedLoginAttempts int

	// LockoutDuration is how long an account stays locked.
	LockoutDuration time.Duration
}

// DefaultSecurityPolicy returns the standard lockout policy.
func DefaultSecurityPolicy() SecurityPolicy {
	return SecurityPolicy{
		MaxFailedLoginAttempts: DefaultMaxFailedAttempts,
		LockoutDuration:        DefaultLockoutDuration,
	}
}

// Service orchestrates registration and login.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	policy SecurityPolicy
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a Service with the given collaborators.
func NewService(users UserRepository, hasher PasswordHasher, tokens TokenIssuer, policy SecurityPolicy) (*Service, error) {
	return NewServiceWithClock(users, hasher, tokens, policy, time.Now)
}

// NewServiceWithClock creates a Service with an injected clock for
// deterministic lockout behavior in tests.
func NewServiceWithClock(users UserRepository, hasher PasswordHasher, tokens TokenIssuer, policy SecurityPolicy, now func() time.Time) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	if now == nil {
		return nil, oops.Errorf("clock is required")
	}
	if policy.MaxFailedLoginAttempts <= 0 {
		policy.MaxFailedLoginAttempts = DefaultMaxFailedAttempts
	}
	if policy.LockoutDuration <= 0 {
		policy.LockoutDuration = DefaultLockoutDuration
	}
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		policy: policy,
		logger: slog.Default(),
		now:    now,
	}, nil
}

// SetLogger replaces the service logger. Intended for wiring at startup.
func (s *Service) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Register creates a new user account and issues a token for it.
// Expected failures (validation, duplicate username) are reported in the
// envelope; only unexpected faults return an error.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*result.Result[AuthResponse], error) {
	if errs := ValidateRegisterRequest(req); len(errs) > 0 {
		return result.ValidationError[AuthResponse](MsgValidationFailed, errs), nil
	}

	_, err := s.users.GetByUsername(ctx, req.Username)
	switch {
	case err == nil:
		return result.Error[AuthResponse](MsgUsernameExists, result.StatusConflict), nil
	case !errors.Is(err, ErrNotFound):
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "check username").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(req.Username, hash)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "construct user").
			Wrap(err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can win the race between the existence
		// check and the insert.
		if errors.Is(err, ErrDuplicateUsername) {
			return result.Error[AuthResponse](MsgUsernameExists, result.StatusConflict), nil
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "insert user").
			With("username", req.Username).
			Wrap(err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}

	s.logger.Info("user registered", "user_id", user.ID.String(), "username", user.Username)

	return result.OK(AuthResponse{
		Token:    token,
		UserID:   user.ID.String(),
		Username: user.Username,
	}, MsgRegistered), nil
}

// Login authenticates a user and issues a token. The lockout check always
// precedes password verification; counter changes are persisted before
// token issuance on success and are the terminal action on failure.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*result.Result[AuthResponse], error) {
	if errs := ValidateLoginRequest(req); len(errs) > 0 {
		return result.ValidationError[AuthResponse](MsgValidationFailed, errs), nil
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Same message as a wrong password so existence is not leaked.
			return result.Error[AuthResponse](MsgInvalidCredentials, result.StatusUnauthorized), nil
		}
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "get user by username").
			Wrap(err)
	}

	now := s.now()
	if user.IsLockedOut(now) {
		minutes := LockoutRemainingMinutes(user.LockoutEnd, now)
		s.logger.Info("login rejected for locked account",
			"user_id", user.ID.String(), "minutes_remaining", minutes)
		return result.Error[AuthResponse](
			fmt.Sprintf(msgAccountLockedFormat, minutes),
			result.StatusUnauthorized,
		), nil
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(err)
	}

	if !ok {
		user.IncrementFailedAttempts(s.policy.MaxFailedLoginAttempts, s.policy.LockoutDuration, now)
		if err := s.users.Update(ctx, user); err != nil {
			return nil, oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "persist failed attempt").
				With("user_id", user.ID.String()).
				Wrap(err)
		}
		s.logger.Info("login failed",
			"user_id", user.ID.String(),
			"failed_attempts", user.FailedLoginAttempts,
			"locked", user.LockoutEnd != nil)
		return result.Error[AuthResponse](MsgInvalidCredentials, result.StatusUnauthorized), nil
	}

	user.ResetFailedAttempts(now)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "persist reset attempts").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}

	s.logger.Info("login succeeded", "user_id", user.ID.String())

	return result.OK(AuthResponse{
		Token:    token,
		UserID:   user.ID.String(),
		Username: user.Username,
	}, MsgLoginSuccessful), nil
}
