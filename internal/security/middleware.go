package security

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// SessionMiddleware resolves the session cookie into a Principal on the
// request context. Requests without a valid session proceed as anonymous;
// whether that is acceptable is decided per operation by the policy layer.
func SessionMiddleware(store SessionStore, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			p, err := store.Get(c.Request().Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, ErrSessionNotFound) {
					// Stale cookie: drop it and continue anonymously.
					c.SetCookie(ExpiredCookie(cookieName))
					return next(c)
				}
				return err
			}

			SetPrincipal(c, p)
			return next(c)
		}
	}
}

// NewSessionCookie builds the session cookie sent on login.
func NewSessionCookie(name, sessionID string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie builds a cookie that instructs the client to drop its session.
func ExpiredCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	}
}
