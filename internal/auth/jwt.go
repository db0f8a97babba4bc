// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// TokenIssuer signs a bearer credential for an authenticated user.
type TokenIssuer interface {
	// Issue returns a signed token for the user.
	Issue(user *User) (string, error)
}

// Claims are the JWT claims carried by SkyCast tokens.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// JWTConfig holds the settings for token issuance and verification.
type JWTConfig struct {
	Secret            string
	Issuer            string
	Audience          string
	ExpirationMinutes int
}

// JWTIssuer implements TokenIssuer using HS256-signed JWTs.
type JWTIssuer struct {
	cfg JWTConfig
	now func() time.Time
}

// NewJWTIssuer creates a JWTIssuer. The secret must be non-empty.
func NewJWTIssuer(cfg JWTConfig) (*JWTIssuer, error) {
	if cfg.Secret == "" {
		return nil, oops.Code("AUTH_JWT_SECRET_MISSING").Errorf("jwt secret is not configured")
	}
	if cfg.ExpirationMinutes <= 0 {
		cfg.ExpirationMinutes = 60
	}
	return &JWTIssuer{cfg: cfg, now: time.Now}, nil
}

// Issue returns a signed token for the user. Each token carries a fresh
// jti so two sequential issuances never collide.
func (i *JWTIssuer) Issue(user *User) (string, error) {
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    i.cfg.Issuer,
			Audience:  jwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(i.cfg.ExpirationMinutes) * time.Minute)),
			ID:        ulid.Make().String(),
		},
		Username: user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(i.cfg.Secret))
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Parse validates a signed token and returns its claims. Tokens signed with
// the right secret but carrying a foreign issuer or audience are rejected
// when those values are configured.
func (i *JWTIssuer) Parse(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(func() time.Time { return i.now() }),
	}
	if i.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.cfg.Issuer))
	}
	if i.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(i.cfg.Audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, oops.Code("AUTH_TOKEN_INVALID").Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(i.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, oops.Code("AUTH_TOKEN_INVALID").Wrap(err)
	}
	if !token.Valid {
		return nil, oops.Code("AUTH_TOKEN_INVALID").Errorf("invalid token")
	}
	return claims, nil
}

// Compile-time interface check.
var _ TokenIssuer = (*JWTIssuer)(nil)
