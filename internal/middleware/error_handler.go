package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"countries_app_echo/internal/session"
	"countries_app_echo/web/templates"
)

// NewErrorHandler returns an echo error handler that renders the error page.
func NewErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	log = log.Named("error")
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			log.Warn("Error after response was committed", zap.Error(err))
			return
		}

		code := http.StatusInternalServerError
		errorTitle := "Internal Server Error"
		errorMessage := ""

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code

			if msg, ok := he.Message.(string); ok && msg != "" {
				errorMessage = msg
			}

			switch code {
			case http.StatusNotFound:
				errorTitle = "Page Not Found"
				if errorMessage == "" || errorMessage == http.StatusText(code) {
					errorMessage = "The page you're looking for doesn't exist."
				}
			case http.StatusMethodNotAllowed:
				errorTitle = "Method Not Allowed"
				if errorMessage == "" {
					errorMessage = "This action is not available here."
				}
			case http.StatusBadRequest:
				errorTitle = "Bad Request"
				if errorMessage == "" {
					errorMessage = "The request could not be processed."
				}
			default:
				if errorMessage == "" || code >= http.StatusInternalServerError {
					errorMessage = "Something went wrong. Please try again later."
				}
			}
		} else {
			errorMessage = "Something went wrong. Please try again later."
		}

		if code >= http.StatusInternalServerError {
			log.Error("Request failed", zap.Int("status", code), zap.Error(err))
		} else {
			log.Debug("Request rejected", zap.Int("status", code), zap.Error(err))
		}

		// Script-enhanced requests only get the status; the page stays as it is.
		if IsDataStar(c.Request()) || c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}

		backLink, backText := "/home", "Back to home"
		if session.FromContext(c) == "" && !strings.HasPrefix(c.Request().URL.Path, "/home") {
			backLink, backText = "/login", "Back to sign in"
		}

		props := templates.ErrorPageProps{
			Layout:       templates.NewLayout(errorTitle, time.Now()),
			ErrorTitle:   errorTitle,
			ErrorMessage: errorMessage,
			BackLink:     backLink,
			BackText:     backText,
		}

		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		c.Response().WriteHeader(code)
		if renderErr := templates.ErrorPage(props).Render(c.Request().Context(), c.Response()); renderErr != nil {
			log.Error("Failed to render error page", zap.Error(renderErr))
		}
	}
}

// IsDataStar reports whether the request was issued by the Datastar client.
func IsDataStar(r *http.Request) bool {
	if r.Header.Get("Datastar-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get(echo.HeaderAccept), "text/event-stream")
}
