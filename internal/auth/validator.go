// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package auth

import (
	"regexp"
	"strings"
)

// Username and password constraints for registration.
const (
	MinUsernameLength = 3
	MinPasswordLength = 8
)

// Password strength character classes. The punctuation set is deliberately
// narrow: one of ! ? * .
var (
	upperRegex = regexp.MustCompile(`[A-Z]`)
	lowerRegex = regexp.MustCompile(`[a-z]`)
	digitRegex = regexp.MustCompile(`[0-9]`)
	punctRegex = regexp.MustCompile(`[!?*.]`)
)

// Validation messages returned in the envelope's errors array.
const (
	msgUsernameRequired = "Username is required"
	msgUsernameTooShort = "Username must be at least 3 characters"
	msgPasswordRequired = "Password is required"
	msgPasswordTooWeak  = "Password must be at least 8 characters and contain uppercase, lowercase, a digit, and one of !?*."
)

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ValidateRegisterRequest checks registration constraints and returns one
// message per failing field (first failing rule wins per field).
func ValidateRegisterRequest(req RegisterRequest) []string {
	var errs []string

	switch {
	case strings.TrimSpace(req.Username) == "":
		errs = append(errs, msgUsernameRequired)
	case len(req.Username) < MinUsernameLength:
		errs = append(errs, msgUsernameTooShort)
	}

	switch {
	case strings.TrimSpace(req.Password) == "":
		errs = append(errs, msgPasswordRequired)
	case len(req.Password) < MinPasswordLength,
		!upperRegex.MatchString(req.Password),
		!lowerRegex.MatchString(req.Password),
		!digitRegex.MatchString(req.Password),
		!punctRegex.MatchString(req.Password):
		errs = append(errs, msgPasswordTooWeak)
	}

	return errs
}

// ValidateLoginRequest checks that both credentials are present.
func ValidateLoginRequest(req LoginRequest) []string {
	var errs []string
	if strings.TrimSpace(req.Username) == "" {
		errs = append(errs, msgUsernameRequired)
	}
	if strings.TrimSpace(req.Password) == "" {
		errs = append(errs, msgPasswordRequired)
	}
	return errs
}
