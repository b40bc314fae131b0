package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"countries_app_echo/internal/middleware"
	"countries_app_echo/internal/session"
)

// RegisterRoutes wires the login and home screens onto e.
func RegisterRoutes(e *echo.Echo, sessions *session.Manager, authHandler *AuthHandler, homeHandler *HomeHandler) {
	// Public routes
	e.GET("/login", authHandler.LoginPage)
	e.POST("/auth/login", authHandler.HandleLogin)
	e.POST("/auth/logout", authHandler.HandleLogout)

	// Protected routes
	protected := e.Group("/home", middleware.RequireSession(sessions))
	protected.GET("", homeHandler.Mount)
	protected.GET("/:page", homeHandler.Show)
	protected.GET("/:page/wait", homeHandler.Wait)
	protected.POST("/:page/region", homeHandler.SetRegion)
	protected.POST("/:page/more", homeHandler.LoadMore)
	protected.POST("/:page/select", homeHandler.Select)

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusTemporaryRedirect, "/home")
	})
}
