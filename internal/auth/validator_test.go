// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skycastlabs/skycast/internal/auth"
)

func TestValidateRegisterRequest(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		want     []string
	}{
		{
			name:     "valid request",
			username: "alice",
			password: "Str0ng!pass",
			want:     nil,
		},
		{
			name:     "empty username",
			username: "",
			password: "Str0ng!pass",
			want:     []string{"Username is required"},
		},
		{
			name:     "whitespace username",
			username: "   ",
			password: "Str0ng!pass",
			want:     []string{"Username is required"},
		},
		{
			name:     "username too short",
			username: "ab",
			password: "Str0ng!pass",
			want:     []string{"Username must be at least 3 characters"},
		},
		{
			name:     "empty password",
			username: "alice",
			password: "",
			want:     []string{"Password is required"},
		},
		{
			name:     "password too short",
			username: "alice",
			password: "S0!a",
			want:     []string{"Password must be at least 8 characters and contain uppercase, lowercase, a digit, and one of !?*."},
		},
		{
			name:     "password missing uppercase",
			username: "alice",
			password: "str0ng!pass",
			want:     []string{"Password must be at least 8 characters and contain uppercase, lowercase, a digit, and one of !?*."},
		},
		{
			name:     "password missing lowercase",
			username: "alice",
			password: "STR0NG!PASS",
			want:     []string{"Password must be at least 8 characters and contain uppercase, lowercase, a digit, and one of !?*."},
		},
		{
			name:     "password missing digit",
			username: "alice",
			password: "Strong!pass",
			want:     []string{"Password must be at least 8 characters and contain uppercase, lowercase, a digit, and one of !?*."},
		},
		{
			name:     "password missing punctuation",
			username: "alice",
			password: "Str0ngpass",
			want:     []string{"Password must be at least 8 characters and contain uppercase, lowercase, a digit, and one of !?*."},
		},
		{
			name:     "unlisted punctuation does not count",
			username: "alice",
			password: "Str0ng#pass",
			want:     []string{"Password must be at least 8 characters and contain uppercase, lowercase, a digit, and one of !?*."},
		},
		{
			name:     "both fields invalid",
			username: "",
			password: "",
			want:     []string{"Username is required", "Password is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := auth.ValidateRegisterRequest(auth.RegisterRequest{
				Username: tt.username,
				Password: tt.password,
			})
			assert.Equal(t, tt.want, errs)
		})
	}
}

func TestValidateLoginRequest(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		want     []string
	}{
		{name: "valid request", username: "alice", password: "anything", want: nil},
		{name: "empty username", username: "", password: "anything", want: []string{"Username is required"}},
		{name: "empty password", username: "alice", password: "", want: []string{"Password is required"}},
		{name: "both empty", username: "", password: "", want: []string{"Username is required", "Password is required"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := auth.ValidateLoginRequest(auth.LoginRequest{
				Username: tt.username,
				Password: tt.password,
			})
			assert.Equal(t, tt.want, errs)
		})
	}
}
