package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/starfederation/datastar-go/datastar"

	"countries_app_echo/internal/middleware"
)

// render writes a full HTML response.
func render(c echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return component.Render(c.Request().Context(), c.Response())
}

// navigate sends the browser to url: an SSE redirect for Datastar requests,
// a 303 otherwise so a POST is never replayed.
func navigate(c echo.Context, url string) error {
	if middleware.IsDataStar(c.Request()) {
		sse := datastar.NewSSE(c.Response(), c.Request())
		return sse.Redirect(url)
	}
	return c.Redirect(http.StatusSeeOther, url)
}

// patch morphs component into the page of a Datastar client.
func patch(c echo.Context, component templ.Component) error {
	sse := datastar.NewSSE(c.Response(), c.Request())
	return sse.PatchElementTempl(component)
}
