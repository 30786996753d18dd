package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"cheesemarket/internal/security"
	"cheesemarket/internal/service"
)

const invalidLoginMessage = "Invalid login request: check that Content-Type header is application/json"

// AuthHandler handles session login and logout.
type AuthHandler struct {
	authService  service.AuthService
	cookieName   string
	sessionTTL   time.Duration
	cookieSecure bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cookieName string, sessionTTL time.Duration, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieName:   cookieName,
		sessionTTL:   sessionTTL,
		cookieSecure: cookieSecure,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Success 204 {string} string "Location header points at the authenticated user"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": invalidLoginMessage})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": invalidLoginMessage})
	}

	user, sessionID, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(security.NewSessionCookie(h.cookieName, sessionID, h.sessionTTL, h.cookieSecure))
	c.Response().Header().Set("Location", fmt.Sprintf("/api/users/%d", user.ID))
	return c.NoContent(http.StatusNoContent)
}

// Logout godoc
// @Summary Terminate the current session
// @Tags auth
// @Success 204
// @Router /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
			return err
		}
	}
	c.SetCookie(security.ExpiredCookie(h.cookieName))
	return c.NoContent(http.StatusNoContent)
}
