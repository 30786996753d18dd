package security

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessionStore struct {
	principal *Principal
	err       error
}

func (s *stubSessionStore) Create(ctx context.Context, p *Principal, ttl time.Duration) (string, error) {
	return "stub", nil
}

func (s *stubSessionStore) Get(ctx context.Context, sessionID string) (*Principal, error) {
	return s.principal, s.err
}

func (s *stubSessionStore) Delete(ctx context.Context, sessionID string) error {
	return nil
}

func runMiddleware(t *testing.T, store SessionStore, cookie *http.Cookie) (*Principal, *httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured *Principal
	handler := SessionMiddleware(store, "cheese_sessid")(func(c echo.Context) error {
		captured = FromContext(c)
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return captured, rec, err
}

func TestSessionMiddleware(t *testing.T) {
	t.Run("no cookie proceeds anonymously", func(t *testing.T) {
		p, _, err := runMiddleware(t, &stubSessionStore{}, nil)

		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("valid session sets the principal", func(t *testing.T) {
		store := &stubSessionStore{principal: &Principal{UserID: 7, Email: "a@example.com"}}

		p, _, err := runMiddleware(t, store, &http.Cookie{Name: "cheese_sessid", Value: "abc"})

		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, uint(7), p.UserID)
	})

	t.Run("unknown session expires the cookie and stays anonymous", func(t *testing.T) {
		store := &stubSessionStore{err: ErrSessionNotFound}

		p, rec, err := runMiddleware(t, store, &http.Cookie{Name: "cheese_sessid", Value: "stale"})

		require.NoError(t, err)
		assert.Nil(t, p)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "cheese_sessid", cookies[0].Name)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})

	t.Run("store failure aborts the request", func(t *testing.T) {
		store := &stubSessionStore{err: errors.New("redis down")}

		_, _, err := runMiddleware(t, store, &http.Cookie{Name: "cheese_sessid", Value: "abc"})

		assert.Error(t, err)
	})

	t.Run("wrong cookie name proceeds anonymously", func(t *testing.T) {
		store := &stubSessionStore{principal: &Principal{UserID: 7}}

		p, _, err := runMiddleware(t, store, &http.Cookie{Name: "other", Value: "abc"})

		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestNewSessionCookie(t *testing.T) {
	cookie := NewSessionCookie("cheese_sessid", "abc", time.Hour, true)

	assert.Equal(t, "cheese_sessid", cookie.Name)
	assert.Equal(t, "abc", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}
