// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

// Package auth provides authentication primitives for SkyCast.
//
// # Domain Types
//
// User accounts should be created through NewUser, which validates the
// username and password hash. Direct struct initialization bypasses
// validation and may create invalid state. Repository implementations
// receive pre-validated users from the constructor.
//
// The lockout state machine lives on User: IncrementFailedAttempts,
// ResetFailedAttempts, and IsLockedOut. An account is locked exactly while
// LockoutEnd is in the future; a stale LockoutEnd is equivalent to active.
//
// # Services
//
// Service coordinates registration and login: request validation, the
// lockout check, credential verification, counter persistence, and token
// issuance. It is stateless apart from its injected collaborators and is
// created with NewService, which validates dependencies.
package auth
