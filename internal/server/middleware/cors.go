package middleware

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
)

// CORS reflects the Origin header for origins matching the allowed pattern
// and short-circuits preflight requests. Requests from other origins pass
// through without CORS headers.
func CORS(allowed *regexp.Regexp) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Response().Header()
			header.Set("Vary", "Origin")
			origin := c.Request().Header.Get("Origin")
			if origin == "" || !allowed.MatchString(origin) {
				return next(c)
			}
			header.Set("Access-Control-Allow-Origin", origin)
			if c.Request().Method == http.MethodOptions {
				// a bare `*` does not cover Authorization in Safari 12
				header.Set("Access-Control-Allow-Headers", "*, Authorization")
				header.Set("Access-Control-Allow-Methods", "OPTIONS, POST, PUT, DELETE, GET, PATCH, HEAD")
				return c.NoContent(http.StatusOK)
			}

			return next(c)
		}
	}
}
