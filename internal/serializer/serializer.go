// Package serializer builds and consumes API payloads, including or dropping
// each field according to the exposure groups derived for the operation.
// Fields absent from a write payload leave the prior value untouched; fields
// outside the caller's groups are silently dropped, never rejected.
package serializer

import (
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"

	"cheesemarket/internal/model"
	"cheesemarket/internal/policy"
	"cheesemarket/internal/security"
)

// Exposure groups per field. Read and write directions may be backed by
// different groups for the same logical attribute (description).
var (
	userEmailGroups    = []string{"user:read", "user:write"}
	userUsernameGroups = []string{"user:read", "user:write", "cheese:item:get"}
	userPasswordGroups = []string{"user:write"}
	userRolesGroups    = []string{policy.GroupAdminWrite}
	userPhoneGroups    = []string{policy.GroupAdminRead, policy.GroupOwnerRead}
	userPhoneWrite     = []string{"user:write"}
	userListingsGroups = []string{"user:read"}

	cheeseTitleGroups     = []string{"cheese:read", "cheese:write", "user:read", "user:write"}
	cheeseDescReadGroups  = []string{"cheese:read"}
	cheeseDescWriteGroups = []string{"cheese:write", "user:write"}
	cheeseShortDescGroups = []string{"cheese:read"}
	cheesePriceGroups     = []string{"cheese:read", "cheese:write", "user:read", "user:write"}
	cheeseCreatedAgoPlace = []string{"cheese:read"}
	cheesePublishedGroups = []string{"cheese:write"}
	cheeseOwnerReadGroups = []string{"cheese:read"}
	cheeseOwnerWriteList  = []string{"cheese:collection:post"}
)

// User serializes a user for the operation whose derived groups are base.
// Contextual groups (admin, owner) are resolved against the principal before
// any field is considered.
func User(u *model.User, base policy.GroupSet, p *security.Principal) map[string]any {
	gs := base.WithPrincipal(p, u.ID)
	return serializeUser(u, gs, p)
}

func serializeUser(u *model.User, gs policy.GroupSet, p *security.Principal) map[string]any {
	out := map[string]any{"id": u.ID}

	if gs.ContainsAny(userEmailGroups) {
		out["email"] = u.Email
	}
	if gs.ContainsAny(userUsernameGroups) {
		out["username"] = u.Username
	}
	// phoneNumber is role gated twice: through the contextual groups and
	// through an explicit predicate, so a mistake in group derivation can
	// never leak it.
	if gs.ContainsAny(userPhoneGroups) && phoneVisible(p, u) {
		out["phoneNumber"] = u.PhoneNumber
	}
	if gs.ContainsAny(userListingsGroups) {
		published := u.PublishedListings()
		listings := make([]map[string]any, 0, len(published))
		for i := range published {
			listings = append(listings, serializeCheese(&published[i], gs, p))
		}
		out["cheeseListings"] = listings
	}

	return out
}

func phoneVisible(p *security.Principal, u *model.User) bool {
	return p.IsAdmin() || p.Is(u.ID)
}

// CheeseListing serializes a listing for the operation whose derived groups
// are base.
func CheeseListing(l *model.CheeseListing, base policy.GroupSet, p *security.Principal) map[string]any {
	gs := base.WithPrincipal(p, l.OwnerID)
	return serializeCheese(l, gs, p)
}

func serializeCheese(l *model.CheeseListing, gs policy.GroupSet, p *security.Principal) map[string]any {
	out := map[string]any{"id": l.ID}

	if gs.ContainsAny(cheeseTitleGroups) {
		out["title"] = l.Title
	}
	if gs.ContainsAny(cheeseDescReadGroups) {
		out["description"] = l.Description
	}
	if gs.ContainsAny(cheeseShortDescGroups) {
		out["shortDescription"] = shortDescription(l.Description)
	}
	if gs.ContainsAny(cheesePriceGroups) {
		out["price"] = l.Price
	}
	if gs.ContainsAny(cheeseCreatedAgoPlace) {
		out["createdAtAgo"] = humanize.Time(l.CreatedAt)
	}
	if gs.ContainsAny(cheeseOwnerReadGroups) {
		out["owner"] = ownerReference(l, gs, p)
	}

	return out
}

// ownerReference embeds the owning user under the listing's group context.
// The id is always present; username joins it only on cheese item reads
// (its cheese:item:get group).
func ownerReference(l *model.CheeseListing, gs policy.GroupSet, p *security.Principal) map[string]any {
	if l.Owner == nil {
		return map[string]any{"id": l.OwnerID}
	}
	ref := map[string]any{"id": l.Owner.ID}
	if gs.ContainsAny(userUsernameGroups) {
		ref["username"] = l.Owner.Username
	}
	return ref
}

// UserInput carries a user write payload. Pointer fields distinguish an
// absent field from an explicit zero value.
type UserInput struct {
	Email       *string   `json:"email"`
	Username    *string   `json:"username"`
	Password    *string   `json:"password"`
	Roles       *[]string `json:"roles"`
	PhoneNumber *string   `json:"phoneNumber"`
}

// ApplyUser merges the write-exposed fields of in into u and returns the
// plaintext password when one was supplied. The plaintext is never stored on
// the entity; hashing it is the service's job.
func ApplyUser(u *model.User, in *UserInput, base policy.GroupSet, p *security.Principal) string {
	gs := base.WithPrincipal(p, u.ID)

	if in.Email != nil && gs.ContainsAny(userEmailGroups) {
		u.Email = *in.Email
	}
	if in.Username != nil && gs.ContainsAny(userUsernameGroups) {
		u.Username = *in.Username
	}
	if in.PhoneNumber != nil && gs.ContainsAny(userPhoneWrite) {
		u.PhoneNumber = in.PhoneNumber
	}
	// roles are settable by admins only; for everyone else the field is
	// dropped and the stored value survives.
	if in.Roles != nil && gs.ContainsAny(userRolesGroups) {
		u.Roles = model.RoleList(*in.Roles)
	}

	var plain string
	if in.Password != nil && gs.ContainsAny(userPasswordGroups) {
		plain = *in.Password
	}
	return plain
}

// CheeseListingInput carries a listing write payload.
type CheeseListingInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Price       *int    `json:"price"`
	IsPublished *bool   `json:"isPublished"`
	Owner       *uint   `json:"owner"`
}

// ApplyCheeseListing merges the write-exposed fields of in into l. The
// description write path converts plain newlines to line-break markup; the
// stored value is re-serialized as-is on reads. The owner field is only
// writable on creation (cheese:collection:post).
func ApplyCheeseListing(l *model.CheeseListing, in *CheeseListingInput, base policy.GroupSet, p *security.Principal) {
	gs := base.WithPrincipal(p, l.OwnerID)

	if in.Title != nil && gs.ContainsAny(cheeseTitleGroups) {
		l.Title = *in.Title
	}
	if in.Description != nil && gs.ContainsAny(cheeseDescWriteGroups) {
		l.Description = nl2br(*in.Description)
	}
	if in.Price != nil && gs.ContainsAny(cheesePriceGroups) {
		l.Price = *in.Price
	}
	if in.IsPublished != nil && gs.ContainsAny(cheesePublishedGroups) {
		l.IsPublished = *in.IsPublished
	}
	if in.Owner != nil && gs.ContainsAny(cheeseOwnerWriteList) {
		l.OwnerID = *in.Owner
	}
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// nl2br inserts line-break markup before every newline, keeping the newline.
func nl2br(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "<br />\n")
}

// shortDescription strips markup and truncates to 40 characters with an
// ellipsis.
func shortDescription(description string) string {
	plain := tagPattern.ReplaceAllString(description, "")
	if len(plain) < 40 {
		return plain
	}
	return plain[:40] + "..."
}
