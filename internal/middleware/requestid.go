package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestID assigns a fresh uuid to every request and echoes it back in the
// X-Request-ID response header.  Handlers can read it via
// c.Get("request_id") when they need to correlate log lines.  An id sent by
// the client is ignored; ids are always generated server side.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := uuid.NewString()
			c.Set("request_id", id)
			c.Response().Header().Set("X-Request-ID", id)
			return next(c)
		}
	}
}
