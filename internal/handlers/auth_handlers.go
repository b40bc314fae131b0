package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"countries_app_echo/internal/auth"
	"countries_app_echo/internal/home"
	"countries_app_echo/internal/session"
	"countries_app_echo/web/templates"
)

// AuthHandler serves the login screen and the login/logout actions.
type AuthHandler struct {
	sessions *session.Manager
	pages    *home.Registry
	log      *zap.Logger
	now      func() time.Time
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sessions *session.Manager, pages *home.Registry, log *zap.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, pages: pages, log: log.Named("auth"), now: time.Now}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(c echo.Context) error {
	props := templates.LoginProps{Layout: templates.NewLayout("Sign In", h.now())}
	return render(c, http.StatusOK, templates.Login(props))
}

// HandleLogin validates the form and, when it passes, marks the browser as
// logged in and navigates home. Nothing is checked beyond the form's shape.
func (h *AuthHandler) HandleLogin(c echo.Context) error {
	creds := auth.Credentials{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
		Remember: formBool(c.FormValue("remember")),
	}

	if err := auth.Validate(creds); err != nil {
		props := templates.LoginProps{
			Layout:   templates.NewLayout("Sign In", h.now()),
			Username: creds.Username,
			Remember: creds.Remember,
			Error:    auth.Message(err),
		}
		return render(c, http.StatusUnprocessableEntity, templates.Login(props))
	}

	if _, err := h.sessions.Login(c); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}

	return navigate(c, "/home")
}

// HandleLogout clears the session marker, tears down the session's home
// pages and returns to the login screen. It succeeds without a session too.
func (h *AuthHandler) HandleLogout(c echo.Context) error {
	id, err := h.sessions.Logout(c)
	if err != nil {
		h.log.Error("Failed to clear session marker", zap.Error(err))
	}
	if id != "" {
		if n := h.pages.CloseSession(id); n > 0 {
			h.log.Debug("Closed home pages on logout", zap.Int("count", n))
		}
	}
	return navigate(c, "/login")
}

func formBool(v string) bool {
	switch v {
	case "true", "on", "1":
		return true
	}
	return false
}
