package policy

import (
	"errors"

	"cheesemarket/internal/apperrors"
	"cheesemarket/internal/metrics"
	"cheesemarket/internal/model"
	"cheesemarket/internal/security"
)

// Resource identifies an API resource type.
type Resource string

const (
	ResourceUser   Resource = "user"
	ResourceCheese Resource = "cheese"
)

// Operation identifies an HTTP-level operation on a resource.
type Operation string

const (
	OpGet    Operation = "get"
	OpPost   Operation = "post"
	OpPut    Operation = "put"
	OpDelete Operation = "delete"
)

// Action is one (resource, cardinality, operation) triple, the key of the
// authorization table.
type Action struct {
	Resource    Resource
	Cardinality Cardinality
	Operation   Operation
}

// Rule decides whether a principal may run an action against a target
// record. For item writes the target is the pre-update record; for
// collection operations it is nil.
type Rule func(p *security.Principal, target any) error

var rules = map[Action]Rule{
	{ResourceCheese, Item, OpGet}:        publicAccess,
	{ResourceCheese, Collection, OpGet}:  publicAccess,
	{ResourceCheese, Collection, OpPost}: isAuthenticated,
	{ResourceCheese, Item, OpPut}:        isListingOwnerOrAdmin,
	{ResourceCheese, Item, OpDelete}:     isAdmin,

	{ResourceUser, Item, OpGet}:        isAuthenticated,
	{ResourceUser, Collection, OpGet}:  isAuthenticated,
	{ResourceUser, Collection, OpPost}: publicAccess,
	{ResourceUser, Item, OpPut}:        isSelf,
	{ResourceUser, Item, OpDelete}:     isAdmin,
}

// Authorize evaluates the rule table for the given action. Anonymous callers
// failing an auth-required action get ErrUnauthenticated (401); authenticated
// callers failing a role or ownership predicate get ErrForbidden (403).
func Authorize(a Action, p *security.Principal, target any) error {
	rule, ok := rules[a]
	if !ok {
		return apperrors.ErrForbidden
	}

	if err := rule(p, target); err != nil {
		reason := "forbidden"
		if errors.Is(err, apperrors.ErrUnauthenticated) {
			reason = "unauthenticated"
		}
		metrics.AuthzDenialsTotal.WithLabelValues(string(a.Resource), string(a.Operation), reason).Inc()
		return err
	}
	return nil
}

func publicAccess(*security.Principal, any) error {
	return nil
}

func isAuthenticated(p *security.Principal, _ any) error {
	if p == nil {
		return apperrors.ErrUnauthenticated
	}
	return nil
}

func isAdmin(p *security.Principal, _ any) error {
	if p == nil {
		return apperrors.ErrUnauthenticated
	}
	if !p.IsAdmin() {
		return apperrors.ErrForbidden
	}
	return nil
}

// isListingOwnerOrAdmin gates cheese updates: the principal must be an admin
// or own the listing as currently persisted.
func isListingOwnerOrAdmin(p *security.Principal, target any) error {
	if p == nil {
		return apperrors.ErrUnauthenticated
	}
	listing, ok := target.(*model.CheeseListing)
	if !ok {
		return apperrors.ErrForbidden
	}
	if p.IsAdmin() || p.Is(listing.OwnerID) {
		return nil
	}
	return apperrors.ErrForbidden
}

// isSelf gates user updates: only the user themself may update their record,
// admins included.
func isSelf(p *security.Principal, target any) error {
	if p == nil {
		return apperrors.ErrUnauthenticated
	}
	user, ok := target.(*model.User)
	if !ok {
		return apperrors.ErrForbidden
	}
	if !p.Is(user.ID) {
		return apperrors.ErrForbidden
	}
	return nil
}
