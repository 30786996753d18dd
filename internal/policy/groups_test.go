package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cheesemarket/internal/model"
	"cheesemarket/internal/security"
)

func TestOperationGroups(t *testing.T) {
	tests := []struct {
		name      string
		shortName string
		dir       Direction
		card      Cardinality
		operation string
		want      []string
	}{
		{
			name:      "user item get",
			shortName: "user", dir: Read, card: Item, operation: "get",
			want: []string{"user:read", "user:item:read", "user:item:get"},
		},
		{
			name:      "cheese collection post write",
			shortName: "cheese", dir: Write, card: Collection, operation: "post",
			want: []string{"cheese:write", "cheese:collection:write", "cheese:collection:post"},
		},
		{
			name:      "cheese item put write",
			shortName: "cheese", dir: Write, card: Item, operation: "put",
			want: []string{"cheese:write", "cheese:item:write", "cheese:item:put"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OperationGroups(tt.shortName, tt.dir, tt.card, tt.operation)
			assert.Len(t, got, len(tt.want))
			for _, name := range tt.want {
				assert.True(t, got.Has(name), "missing group %s", name)
			}
		})
	}
}

func TestGroupSet_ContainsAny(t *testing.T) {
	gs := NewGroupSet("user:read", "user:item:read")

	assert.True(t, gs.ContainsAny([]string{"user:read", "user:write"}))
	assert.False(t, gs.ContainsAny([]string{"user:write", "admin:write"}))
	assert.False(t, gs.ContainsAny(nil))
}

func TestGroupSet_WithPrincipal(t *testing.T) {
	base := OperationGroups("user", Read, Item, "get")

	admin := &security.Principal{UserID: 1, Roles: []string{model.RoleUser, model.RoleAdmin}}
	plain := &security.Principal{UserID: 2, Roles: []string{model.RoleUser}}

	t.Run("admin gains admin groups", func(t *testing.T) {
		gs := base.WithPrincipal(admin, 99)
		assert.True(t, gs.Has(GroupAdminRead))
		assert.True(t, gs.Has(GroupAdminWrite))
		assert.False(t, gs.Has(GroupOwnerRead))
	})

	t.Run("owner gains owner:read", func(t *testing.T) {
		gs := base.WithPrincipal(plain, 2)
		assert.True(t, gs.Has(GroupOwnerRead))
		assert.False(t, gs.Has(GroupAdminRead))
	})

	t.Run("anonymous gains nothing", func(t *testing.T) {
		gs := base.WithPrincipal(nil, 2)
		assert.False(t, gs.Has(GroupOwnerRead))
		assert.False(t, gs.Has(GroupAdminRead))
	})

	t.Run("original set is untouched", func(t *testing.T) {
		_ = base.WithPrincipal(admin, 1)
		assert.False(t, base.Has(GroupAdminRead))
	})
}
