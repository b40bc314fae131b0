package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"countries_app_echo/internal/session"
)

// RequireSession redirects to the login screen unless the request carries a
// live session marker.
func RequireSession(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := sessions.Current(c)
			if !ok {
				return c.Redirect(http.StatusSeeOther, "/login")
			}

			c.Set(session.ContextKey, id)
			return next(c)
		}
	}
}
