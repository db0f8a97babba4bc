// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/samber/oops"

	"github.com/skycastlabs/skycast/internal/auth"
	"github.com/skycastlabs/skycast/internal/observability"
	"github.com/skycastlabs/skycast/internal/result"
	"github.com/skycastlabs/skycast/internal/weather"
	"github.com/skycastlabs/skycast/pkg/errutil"
)

// Boundary-level messages. Service-layer messages live with their services.
const (
	MsgInternalError   = "An internal server error occurred."
	MsgAuthRequired    = "Authentication required"
	MsgInvalidToken    = "Invalid or expired token"
	MsgTooManyRequests = "Too many requests. Please try again later."

	msgInvalidBody = "Request body is not valid JSON"
)

// Default per-IP request budgets per minute.
const (
	DefaultAuthRateLimit    = 5
	DefaultWeatherRateLimit = 10
)

// claimsKey is the fiber.Ctx local under which verified claims are stored.
const claimsKey = "claims"

// AuthService is the authentication surface the boundary delegates to.
type AuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*result.Result[auth.AuthResponse], error)
	Login(ctx context.Context, req auth.LoginRequest) (*result.Result[auth.AuthResponse], error)
}

// TokenVerifier validates a bearer token presented on protected routes.
type TokenVerifier interface {
	Parse(token string) (*auth.Claims, error)
}

// Config carries the boundary settings.
type Config struct {
	// AuthRateLimitPerMinute caps requests per IP on the auth routes.
	AuthRateLimitPerMinute int
	// WeatherRateLimitPerMinute caps requests per IP on the weather route.
	WeatherRateLimitPerMinute int
}

// Server assembles the Fiber application and its dependencies.
type Server struct {
	app     *fiber.App
	auth    AuthService
	weather weather.Provider
	tokens  TokenVerifier
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewServer builds the HTTP boundary. metrics may be nil, in which case
// request counters are not recorded.
func NewServer(cfg Config, authSvc AuthService, weatherSvc weather.Provider, tokens TokenVerifier, metrics *observability.Metrics, logger *slog.Logger) (*Server, error) {
	if authSvc == nil {
		return nil, oops.Code("HTTP_CONFIG_INVALID").Errorf("auth service is required")
	}
	if weatherSvc == nil {
		return nil, oops.Code("HTTP_CONFIG_INVALID").Errorf("weather provider is required")
	}
	if tokens == nil {
		return nil, oops.Code("HTTP_CONFIG_INVALID").Errorf("token verifier is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AuthRateLimitPerMinute <= 0 {
		cfg.AuthRateLimitPerMinute = DefaultAuthRateLimit
	}
	if cfg.WeatherRateLimitPerMinute <= 0 {
		cfg.WeatherRateLimitPerMinute = DefaultWeatherRateLimit
	}

	s := &Server{
		auth:    authSvc,
		weather: weatherSvc,
		tokens:  tokens,
		metrics: metrics,
		logger:  logger,
	}

	app := fiber.New(fiber.Config{
		AppName:               "skycast",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	app.Use(recover.New())

	app.Get("/healthz", s.handleHealthz)

	api := app.Group("/api")

	authGroup := api.Group("/auth", s.rateLimit(cfg.AuthRateLimitPerMinute))
	authGroup.Post("/register", s.handleRegister)
	authGroup.Post("/login", s.handleLogin)

	api.Get("/weather", s.rateLimit(cfg.WeatherRateLimitPerMinute), s.requireBearer, s.handleWeather)

	s.app = app
	return s, nil
}

// Listen serves the application on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the application, honoring the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// Test routes an in-memory request through the application. Exposed for
// tests only.
func (s *Server) Test(req *http.Request, timeoutMS ...int) (*http.Response, error) {
	return s.app.Test(req, timeoutMS...)
}

// handleError converts an uncaught fault into an envelope. Routing errors
// from fiber keep their status; everything else becomes a generic 500 so no
// internal detail leaks to the caller.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code != fiber.StatusInternalServerError {
		return render(s, c, result.Error[struct{}](fiberErr.Message, result.StatusCode(fiberErr.Code)))
	}
	errutil.LogError(s.logger, "request failed", oops.
		With("method", c.Method()).
		With("path", c.Path()).
		Wrap(err))
	return render(s, c, result.Error[struct{}](MsgInternalError, result.StatusInternalError))
}

// rateLimit builds a fixed-window per-IP limiter that rejects with a 429
// envelope.
func (s *Server) rateLimit(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return render(s, c, result.Error[struct{}](MsgTooManyRequests, result.StatusTooManyRequests))
		},
	})
}

// requireBearer verifies the Authorization header and stores the verified
// claims in the request locals.
func (s *Server) requireBearer(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return render(s, c, result.Error[struct{}](MsgAuthRequired, result.StatusUnauthorized))
	}
	claims, err := s.tokens.Parse(header[len(prefix):])
	if err != nil {
		s.logger.Debug("bearer token rejected", "error", err)
		return render(s, c, result.Error[struct{}](MsgInvalidToken, result.StatusUnauthorized))
	}
	c.Locals(claimsKey, claims)
	return c.Next()
}

// ClaimsFromCtx returns the verified claims set by requireBearer, or nil
// when the request was not authenticated.
func ClaimsFromCtx(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(claimsKey).(*auth.Claims)
	return claims
}

// render writes an envelope with its embedded status code and records the
// request counter.
func render[T any](s *Server, c *fiber.Ctx, res *result.Result[T]) error {
	s.recordRequest(c, int(res.StatusCode))
	return c.Status(int(res.StatusCode)).JSON(res)
}

func (s *Server) recordRequest(c *fiber.Ctx, status int) {
	if s.metrics == nil {
		return
	}
	route := c.Route().Path
	if route == "" {
		route = c.Path()
	}
	s.metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
