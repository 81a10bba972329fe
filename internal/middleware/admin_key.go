package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminKeyMiddleware gates review endpoints behind a shared operator key
// supplied in the X-Admin-Key header. When no key is configured the routes
// are disabled entirely.
func AdminKeyMiddleware(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if key == "" {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access is not configured")
			}
			provided := c.Request().Header.Get("X-Admin-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid admin key")
			}
			return next(c)
		}
	}
}
