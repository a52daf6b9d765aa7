package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medbill/healthcare-billing/pkg/tokens"
)

type RequireAuth struct {
	JWTSecret []byte
}

func NewRequireAuth(secret []byte) *RequireAuth {
	return &RequireAuth{JWTSecret: secret}
}

// Middleware checks the Authorization bearer token. An expired token is
// rejected here like any other invalid one; only the refresh endpoint
// accepts expired tokens.
func (m *RequireAuth) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(strings.TrimPrefix(header, "Bearer "), m.JWTSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set("username", claims.Subject)
		c.Set("role", claims.Role)
		return next(c)
	}
}
