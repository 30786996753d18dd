package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"cheesemarket/internal/apperrors"
	"cheesemarket/internal/config"
	"cheesemarket/internal/handler"
	"cheesemarket/internal/logger"
	"cheesemarket/internal/security"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessions security.SessionStore,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	cheeseHandler *handler.CheeseHandler,
) {
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())

	e.HTTPErrorHandler = apperrors.NewHTTPErrorHandler(logger.Get())
	e.Validator = &CustomValidator{validator: validator.New()}

	// Every request resolves its session cookie into a principal; the
	// policy layer decides whether anonymous is acceptable per operation.
	e.Use(security.SessionMiddleware(sessions, cfg.SessionCookie))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)

	api := e.Group("/api")

	api.POST("/users", userHandler.Create)
	api.GET("/users", userHandler.List)
	api.GET("/users/:id", userHandler.Get)
	api.PUT("/users/:id", userHandler.Update)
	api.DELETE("/users/:id", userHandler.Delete)

	api.POST("/cheeses", cheeseHandler.Create)
	api.GET("/cheeses", cheeseHandler.List)
	api.GET("/cheeses/:id", cheeseHandler.Get)
	api.PUT("/cheeses/:id", cheeseHandler.Update)
	api.DELETE("/cheeses/:id", cheeseHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
