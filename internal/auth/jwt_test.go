// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() JWTConfig {
	return JWTConfig{
		Secret:            "test-secret-at-least-32-bytes-long!!",
		Issuer:            "skycast",
		Audience:          "skycast-api",
		ExpirationMinutes: 60,
	}
}

func TestNewJWTIssuer(t *testing.T) {
	t.Run("requires a secret", func(t *testing.T) {
		_, err := NewJWTIssuer(JWTConfig{})
		assert.Error(t, err)
	})

	t.Run("defaults expiration when unset", func(t *testing.T) {
		issuer, err := NewJWTIssuer(JWTConfig{Secret: "s"})
		require.NoError(t, err)
		assert.Equal(t, 60, issuer.cfg.ExpirationMinutes)
	})
}

func TestJWTIssueAndParse(t *testing.T) {
	issuer, err := NewJWTIssuer(testJWTConfig())
	require.NoError(t, err)

	user, err := NewUser("alice", "hash")
	require.NoError(t, err)

	t.Run("round trip preserves claims", func(t *testing.T) {
		token, err := issuer.Issue(user)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := issuer.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.Subject)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, "skycast", claims.Issuer)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("sequential tokens are distinct", func(t *testing.T) {
		token1, err := issuer.Issue(user)
		require.NoError(t, err)
		token2, err := issuer.Issue(user)
		require.NoError(t, err)
		assert.NotEqual(t, token1, token2)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		other, err := NewJWTIssuer(JWTConfig{Secret: "a-completely-different-secret"})
		require.NoError(t, err)

		token, err := other.Issue(user)
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.Error(t, err)
	})

	t.Run("rejects token from a foreign issuer sharing the secret", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.Issuer = "evil-service"
		cfg.Audience = "evil-api"
		foreign, err := NewJWTIssuer(cfg)
		require.NoError(t, err)

		token, err := foreign.Issue(user)
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.Error(t, err)
	})

	t.Run("rejects token with the right issuer but a foreign audience", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.Audience = "evil-api"
		foreign, err := NewJWTIssuer(cfg)
		require.NoError(t, err)

		token, err := foreign.Issue(user)
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.Error(t, err)
	})

	t.Run("skips issuer and audience checks when unconfigured", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.Issuer = "evil-service"
		cfg.Audience = "evil-api"
		foreign, err := NewJWTIssuer(cfg)
		require.NoError(t, err)

		token, err := foreign.Issue(user)
		require.NoError(t, err)

		lax, err := NewJWTIssuer(JWTConfig{Secret: testJWTConfig().Secret})
		require.NoError(t, err)

		_, err = lax.Parse(token)
		assert.NoError(t, err)
	})

	t.Run("rejects malformed token", func(t *testing.T) {
		_, err := issuer.Parse("not.a.jwt")
		assert.Error(t, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		frozen, err := NewJWTIssuer(testJWTConfig())
		require.NoError(t, err)

		issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		frozen.now = func() time.Time { return issuedAt }

		token, err := frozen.Issue(user)
		require.NoError(t, err)

		frozen.now = func() time.Time { return issuedAt.Add(61 * time.Minute) }
		_, err = frozen.Parse(token)
		assert.Error(t, err)
	})

	t.Run("accepts token just before expiry", func(t *testing.T) {
		frozen, err := NewJWTIssuer(testJWTConfig())
		require.NoError(t, err)

		issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		frozen.now = func() time.Time { return issuedAt }

		token, err := frozen.Issue(user)
		require.NoError(t, err)

		frozen.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
		_, err = frozen.Parse(token)
		assert.NoError(t, err)
	})
}
