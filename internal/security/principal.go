// Package security carries the acting principal through a request and backs
// it with Redis-stored sessions.
package security

import (
	"github.com/labstack/echo/v4"

	"cheesemarket/internal/model"
)

const principalContextKey = "principal"

// Principal is the authenticated actor behind a request. A nil *Principal
// means the request is anonymous.
type Principal struct {
	UserID uint     `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

// NewPrincipal builds a Principal from a user record.
func NewPrincipal(u *model.User) *Principal {
	return &Principal{
		UserID: u.ID,
		Email:  u.Email,
		Roles:  u.EffectiveRoles(),
	}
}

// IsAdmin reports whether the principal carries the admin role.
func (p *Principal) IsAdmin() bool {
	if p == nil {
		return false
	}
	for _, role := range p.Roles {
		if role == model.RoleAdmin {
			return true
		}
	}
	return false
}

// Is reports whether the principal is the user with the given id.
func (p *Principal) Is(userID uint) bool {
	return p != nil && p.UserID == userID
}

// SetPrincipal stores the principal on the request context.
func SetPrincipal(c echo.Context, p *Principal) {
	c.Set(principalContextKey, p)
}

// FromContext returns the request principal, or nil for anonymous requests.
func FromContext(c echo.Context) *Principal {
	p, _ := c.Get(principalContextKey).(*Principal)
	return p
}
