package middleware // middleware contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/webpv/webpv-backend/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject, role and route claims into the request
// context.  The provided secret must match the one used when issuing
// tokens.  This middleware wraps protected routes so that handlers can read
// the authenticated user via c.Get("user_id"), c.Get("role") and
// c.Get("route").  Verification is stateless; no store is consulted.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header is "Bearer " followed by the JWT.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "INVALID_CREDENTIALS", "message": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// ParseAccessToken enforces HS256, expiry and the "access" type
			// discriminant; any failure collapses into one response.
			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "INVALID_CREDENTIALS", "message": "invalid or expired token"})
			}

			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)
			c.Set("route", claims.Route)
			return next(c)
		}
	}
}
