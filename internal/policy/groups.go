// Package policy implements the access-control core of the API: a typed
// authorization-rule table gating each operation, and the exposure-group
// model gating which fields appear in an operation's payloads.
package policy

import (
	"fmt"

	"cheesemarket/internal/security"
)

// Direction distinguishes serialization (read) from deserialization (write).
type Direction string

const (
	Read  Direction = "read"
	Write Direction = "write"
)

// Cardinality distinguishes item operations from collection operations.
type Cardinality string

const (
	Item       Cardinality = "item"
	Collection Cardinality = "collection"
)

// Contextual groups granted from the principal's relationship to the
// serialized record rather than from the operation alone.
const (
	GroupAdminRead  = "admin:read"
	GroupAdminWrite = "admin:write"
	GroupOwnerRead  = "owner:read"
)

// GroupSet is a set of exposure group names.
type GroupSet map[string]struct{}

// NewGroupSet builds a set from the given group names.
func NewGroupSet(names ...string) GroupSet {
	g := make(GroupSet, len(names))
	g.Add(names...)
	return g
}

// Add inserts the given names into the set.
func (g GroupSet) Add(names ...string) {
	for _, name := range names {
		g[name] = struct{}{}
	}
}

// Has reports whether the set contains name.
func (g GroupSet) Has(name string) bool {
	_, ok := g[name]
	return ok
}

// ContainsAny reports whether any of the names is in the set. A field is
// included in a payload iff its declared groups intersect the operation's
// derived groups.
func (g GroupSet) ContainsAny(names []string) bool {
	for _, name := range names {
		if g.Has(name) {
			return true
		}
	}
	return false
}

// OperationGroups derives the exposure groups for one operation following
// the naming convention
//
//	{shortName}:{read|write}
//	{shortName}:{item|collection}:{read|write}
//	{shortName}:{item|collection}:{operation}
//
// e.g. a cheese item GET derives cheese:read, cheese:item:read and
// cheese:item:get.
func OperationGroups(shortName string, dir Direction, card Cardinality, operation string) GroupSet {
	return NewGroupSet(
		fmt.Sprintf("%s:%s", shortName, dir),
		fmt.Sprintf("%s:%s:%s", shortName, card, dir),
		fmt.Sprintf("%s:%s:%s", shortName, card, operation),
	)
}

// WithPrincipal extends a derived group set with the contextual groups the
// principal is entitled to for a record owned by subjectOwnerID: admin
// groups for admin principals and owner:read when the principal owns the
// record. The original set is not modified.
func (g GroupSet) WithPrincipal(p *security.Principal, subjectOwnerID uint) GroupSet {
	out := make(GroupSet, len(g)+3)
	for name := range g {
		out[name] = struct{}{}
	}
	if p.IsAdmin() {
		out.Add(GroupAdminRead, GroupAdminWrite)
	}
	if p.Is(subjectOwnerID) {
		out.Add(GroupOwnerRead)
	}
	return out
}
