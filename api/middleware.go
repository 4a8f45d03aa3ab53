package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"luxestate/auth"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "user_role"
)

// requireAuth validates the bearer token and stores the caller's
// identity on the echo context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authorization header is required"})
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid authorization header format"})
		}

		userID, role, err := s.authSvc.VerifyToken(parts[1])
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token"})
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxRole, role)
		return next(c)
	}
}

// requireRole rejects callers whose role is not in the allow list. It
// must run after requireAuth.
func (s *Server) requireRole(allowed ...auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ctxRole).(auth.Role)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
			}
			for _, a := range allowed {
				if role == a {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Insufficient permissions"})
		}
	}
}
