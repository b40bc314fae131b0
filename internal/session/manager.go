package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CookieName carries the opaque session id.
const CookieName = "session"

// Config controls the session cookie.
type Config struct {
	TTL    time.Duration
	Secure bool
}

// Manager is the single owner of the logged-in marker. Handlers go through
// Login, Logout and Current instead of touching the store or cookie.
type Manager struct {
	store Store
	cfg   Config
	log   *zap.Logger
}

// NewManager creates a Manager backed by store.
func NewManager(store Store, cfg Config, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: store, cfg: cfg, log: log.Named("session")}
}

// Login writes a fresh marker and hands its id to the browser.
func (m *Manager) Login(c echo.Context) (string, error) {
	id := uuid.NewString()
	if err := m.store.Put(c.Request().Context(), id, m.cfg.TTL); err != nil {
		return "", fmt.Errorf("failed to store session marker: %w", err)
	}

	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    id,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
	if m.cfg.TTL > 0 {
		cookie.MaxAge = int(m.cfg.TTL.Seconds())
	}
	c.SetCookie(cookie)

	m.log.Debug("Session marker written", zap.String("session", id))
	return id, nil
}

// Logout removes the marker and expires the cookie. It is safe to call
// without a session. The returned id is empty when there was none.
func (m *Manager) Logout(c echo.Context) (string, error) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})

	id := cookieValue(c)
	if id == "" {
		return "", nil
	}
	if err := m.store.Delete(c.Request().Context(), id); err != nil {
		return id, fmt.Errorf("failed to delete session marker: %w", err)
	}
	m.log.Debug("Session marker cleared", zap.String("session", id))
	return id, nil
}

// Current returns the session id when the request carries a live marker.
func (m *Manager) Current(c echo.Context) (string, bool) {
	id := cookieValue(c)
	if id == "" {
		return "", false
	}
	ok, err := m.store.Has(c.Request().Context(), id)
	if err != nil {
		m.log.Error("Failed to read session marker", zap.String("session", id), zap.Error(err))
		return "", false
	}
	if !ok {
		return "", false
	}
	return id, true
}

// LoggedIn reports whether the request carries a live marker.
func (m *Manager) LoggedIn(c echo.Context) bool {
	_, ok := m.Current(c)
	return ok
}

func cookieValue(c echo.Context) string {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ContextKey is the echo context key under which RequireSession stores the session id.
const ContextKey = "sessionID"

// FromContext returns the session id stored by RequireSession.
func FromContext(c echo.Context) string {
	id, _ := c.Get(ContextKey).(string)
	return id
}
