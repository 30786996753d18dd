package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Role tags. RoleUser is implicit: every user carries it on read regardless
// of what is stored.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// RoleList stores role tags as a JSON array in a single column.
type RoleList []string

// Value implements driver.Valuer.
func (r RoleList) Value() (driver.Value, error) {
	if r == nil {
		r = RoleList{}
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner.
func (r *RoleList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = RoleList{}
		return nil
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("unsupported roles column type %T", src)
	}
}

// Has reports whether the list contains the given role tag.
func (r RoleList) Has(role string) bool {
	for _, candidate := range r {
		if candidate == role {
			return true
		}
	}
	return false
}

// User represents a marketplace account.
type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Email        string   `json:"email" gorm:"uniqueIndex;size:180;not null" validate:"required,email"`
	Username     string   `json:"username" gorm:"uniqueIndex;size:255;not null" validate:"required"`
	PasswordHash string   `json:"-" gorm:"size:255;not null"`
	Roles        RoleList `json:"-" gorm:"type:varchar(255);not null"`
	PhoneNumber  *string  `json:"phoneNumber,omitempty" gorm:"size:50"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// CheeseListings owned by this user; owning side is CheeseListing.OwnerID.
	CheeseListings []CheeseListing `json:"-" gorm:"foreignKey:OwnerID"`
}

// EffectiveRoles returns the stored roles with the base role guaranteed.
func (u *User) EffectiveRoles() []string {
	roles := make([]string, 0, len(u.Roles)+1)
	seen := map[string]bool{}
	for _, role := range append(RoleList{RoleUser}, u.Roles...) {
		if !seen[role] {
			seen[role] = true
			roles = append(roles, role)
		}
	}
	return roles
}

// PublishedListings filters the loaded listings down to the published ones.
func (u *User) PublishedListings() []CheeseListing {
	published := make([]CheeseListing, 0, len(u.CheeseListings))
	for _, listing := range u.CheeseListings {
		if listing.IsPublished {
			published = append(published, listing)
		}
	}
	return published
}
