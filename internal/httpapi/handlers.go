// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/skycastlabs/skycast/internal/auth"
	"github.com/skycastlabs/skycast/internal/observability"
	"github.com/skycastlabs/skycast/internal/result"
)

func (s *Server) handleHealthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req auth.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return render(s, c, result.ValidationError[auth.AuthResponse](auth.MsgValidationFailed, []string{msgInvalidBody}))
	}
	res, err := s.auth.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return render(s, c, res)
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return render(s, c, result.ValidationError[auth.AuthResponse](auth.MsgValidationFailed, []string{msgInvalidBody}))
	}
	res, err := s.auth.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	observability.RecordLoginAttempt(loginOutcome(res))
	return render(s, c, res)
}

// loginOutcome classifies a login envelope for the attempt counter.
func loginOutcome(res *result.Result[auth.AuthResponse]) string {
	switch {
	case res.Success:
		return "success"
	case strings.HasPrefix(res.Message, auth.MsgAccountLockedPrefix):
		return "locked"
	default:
		return "failure"
	}
}

func (s *Server) handleWeather(c *fiber.Ctx) error {
	city := c.Query("city")
	if claims := ClaimsFromCtx(c); claims != nil {
		s.logger.Debug("weather lookup", "city", city, "username", claims.Username)
	}
	res, err := s.weather.GetWeatherByCity(c.UserContext(), city)
	if err != nil {
		return err
	}
	return render(s, c, res)
}
