package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cheesemarket/internal/apperrors"
	"cheesemarket/internal/model"
	"cheesemarket/internal/security"
)

var (
	anonymous *security.Principal
	alice     = &security.Principal{UserID: 1, Email: "alice@example.com", Roles: []string{model.RoleUser}}
	bob       = &security.Principal{UserID: 2, Email: "bob@example.com", Roles: []string{model.RoleUser}}
	admin     = &security.Principal{UserID: 3, Email: "admin@example.com", Roles: []string{model.RoleUser, model.RoleAdmin}}
)

func cheeseAction(card Cardinality, op Operation) Action {
	return Action{Resource: ResourceCheese, Cardinality: card, Operation: op}
}

func userAction(card Cardinality, op Operation) Action {
	return Action{Resource: ResourceUser, Cardinality: card, Operation: op}
}

func TestAuthorize_CheeseListing(t *testing.T) {
	aliceListing := &model.CheeseListing{ID: 10, OwnerID: alice.UserID}

	tests := []struct {
		name      string
		action    Action
		principal *security.Principal
		target    any
		want      error
	}{
		{"item read is public", cheeseAction(Item, OpGet), anonymous, nil, nil},
		{"collection read is public", cheeseAction(Collection, OpGet), anonymous, nil, nil},
		{"create requires authentication", cheeseAction(Collection, OpPost), anonymous, nil, apperrors.ErrUnauthenticated},
		{"create allowed when authenticated", cheeseAction(Collection, OpPost), alice, nil, nil},
		{"update allowed for owner", cheeseAction(Item, OpPut), alice, aliceListing, nil},
		{"update allowed for admin", cheeseAction(Item, OpPut), admin, aliceListing, nil},
		{"update forbidden for non-owner", cheeseAction(Item, OpPut), bob, aliceListing, apperrors.ErrForbidden},
		{"update unauthenticated", cheeseAction(Item, OpPut), anonymous, aliceListing, apperrors.ErrUnauthenticated},
		{"delete admin only", cheeseAction(Item, OpDelete), alice, nil, apperrors.ErrForbidden},
		{"delete allowed for admin", cheeseAction(Item, OpDelete), admin, nil, nil},
		{"delete unauthenticated", cheeseAction(Item, OpDelete), anonymous, nil, apperrors.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.action, tt.principal, tt.target)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthorize_User(t *testing.T) {
	aliceRecord := &model.User{ID: alice.UserID}

	tests := []struct {
		name      string
		action    Action
		principal *security.Principal
		target    any
		want      error
	}{
		{"item read requires authentication", userAction(Item, OpGet), anonymous, nil, apperrors.ErrUnauthenticated},
		{"item read allowed when authenticated", userAction(Item, OpGet), bob, nil, nil},
		{"collection read requires authentication", userAction(Collection, OpGet), anonymous, nil, apperrors.ErrUnauthenticated},
		{"create is public", userAction(Collection, OpPost), anonymous, nil, nil},
		{"update allowed for self", userAction(Item, OpPut), alice, aliceRecord, nil},
		{"update forbidden for other user", userAction(Item, OpPut), bob, aliceRecord, apperrors.ErrForbidden},
		{"update forbidden even for admin", userAction(Item, OpPut), admin, aliceRecord, apperrors.ErrForbidden},
		{"delete admin only", userAction(Item, OpDelete), alice, nil, apperrors.ErrForbidden},
		{"delete allowed for admin", userAction(Item, OpDelete), admin, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.action, tt.principal, tt.target)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthorize_UnknownAction(t *testing.T) {
	err := Authorize(Action{Resource: "unknown", Cardinality: Item, Operation: OpGet}, admin, nil)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
