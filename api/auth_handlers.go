package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"luxestate/agent"
	"luxestate/auth"
)

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	// Admin accounts are provisioned out of band, never via signup.
	if req.Role == auth.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Cannot sign up as admin"})
	}

	user, err := s.authSvc.Register(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrDuplicateEmail):
			return c.JSON(http.StatusConflict, echo.Map{"error": "Email already registered"})
		case errors.Is(err, auth.ErrWeakPassword):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}

	// Agent accounts start with an inactive directory profile pending
	// admin approval.
	if user.Role == auth.RoleAgent {
		params := agent.CreateParams{Name: user.FullName, Email: user.Email}
		if user.Phone != nil {
			params.Phone = *user.Phone
		}
		if _, err := s.agents.Register(c.Request().Context(), params); err != nil && !errors.Is(err, agent.ErrDuplicateEmail) {
			c.Logger().Warnf("agent profile for %s not created: %v", user.Email, err)
		}
	}

	return c.JSON(http.StatusCreated, userResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Phone:    user.Phone,
		Role:     string(user.Role),
	})
}

func (s *Server) handleSignin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}

	result, err := s.authSvc.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid email or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to sign in"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token": result.Token,
		"user": userResponse{
			ID:       result.User.ID,
			Email:    result.User.Email,
			FullName: result.User.FullName,
			Phone:    result.User.Phone,
			Role:     string(result.User.Role),
		},
	})
}
