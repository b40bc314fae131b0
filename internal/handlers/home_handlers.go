package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"countries_app_echo/internal/countries"
	"countries_app_echo/internal/home"
	"countries_app_echo/internal/middleware"
	"countries_app_echo/internal/session"
	"countries_app_echo/web/templates"
)

// HomeHandler serves the home screen and its filter, paging and selection actions.
type HomeHandler struct {
	pages *home.Registry
	log   *zap.Logger
	now   func() time.Time
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(pages *home.Registry, log *zap.Logger) *HomeHandler {
	return &HomeHandler{pages: pages, log: log.Named("home"), now: time.Now}
}

// Mount starts a fresh home page, including its country fetch, and sends
// the browser to it.
func (h *HomeHandler) Mount(c echo.Context) error {
	page := h.pages.Mount(session.FromContext(c))
	return c.Redirect(http.StatusSeeOther, pageURL(page))
}

// Show renders the whole home screen in its current state.
func (h *HomeHandler) Show(c echo.Context) error {
	page, err := h.page(c)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, templates.Home(h.props(page, page.Snapshot())))
}

// Wait holds the request until the page's fetch settles.
func (h *HomeHandler) Wait(c echo.Context) error {
	page, err := h.page(c)
	if err != nil {
		return err
	}
	if err := page.Wait(c.Request().Context()); err != nil {
		// Client went away first.
		return nil
	}
	return h.respond(c, page, page.Snapshot())
}

// SetRegion changes the region filter; the grid goes back to its first page.
func (h *HomeHandler) SetRegion(c echo.Context) error {
	page, err := h.page(c)
	if err != nil {
		return err
	}
	region := c.FormValue("region")
	if !countries.IsRegionOption(region) {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown region")
	}
	snap := page.Update(func(v *countries.View) { v.SetRegion(region) })
	return h.respond(c, page, snap)
}

// LoadMore shows the next batch of cards.
func (h *HomeHandler) LoadMore(c echo.Context) error {
	page, err := h.page(c)
	if err != nil {
		return err
	}
	snap := page.Update(func(v *countries.View) { v.LoadMore() })
	return h.respond(c, page, snap)
}

// Select puts a card's country in the slider.
func (h *HomeHandler) Select(c echo.Context) error {
	page, err := h.page(c)
	if err != nil {
		return err
	}
	name := c.FormValue("name")
	var found bool
	snap := page.Update(func(v *countries.View) { found = v.Select(name) })
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "Country not found")
	}
	return h.respond(c, page, snap)
}

// page resolves the :page param to a page owned by the current session.
func (h *HomeHandler) page(c echo.Context) (*home.Page, error) {
	page, ok := h.pages.Get(c.Param("page"))
	if !ok || page.SessionID != session.FromContext(c) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "This page has expired. Open the home screen again.")
	}
	return page, nil
}

// respond patches #home-content for Datastar clients and redirects everyone
// else back to the page.
func (h *HomeHandler) respond(c echo.Context, page *home.Page, snap countries.Snapshot) error {
	if middleware.IsDataStar(c.Request()) {
		return patch(c, templates.HomeContent(h.props(page, snap)))
	}
	return c.Redirect(http.StatusSeeOther, pageURL(page))
}

func (h *HomeHandler) props(page *home.Page, snap countries.Snapshot) templates.HomeProps {
	return templates.NewHomeProps(templates.NewLayout("Home", h.now()), page.ID, snap)
}

func pageURL(page *home.Page) string {
	return "/home/" + page.ID
}
