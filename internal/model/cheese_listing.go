package model

import "time"

// CheeseListing represents a cheese for sale.
type CheeseListing struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Title string `json:"title" gorm:"size:255;not null" validate:"required,min=2,max=50"`
	// Description holds simple markup; the write path converts plain
	// newlines to <br /> before it lands here.
	Description string `json:"description" gorm:"type:text;not null" validate:"required"`
	// Price of this cheese, in cents.
	Price int `json:"price" gorm:"not null" validate:"required"`
	// CreatedAt is set once at creation and never updated.
	CreatedAt   time.Time `json:"-" gorm:"<-:create"`
	IsPublished bool      `json:"-" gorm:"not null;default:false"`

	OwnerID uint  `json:"owner" gorm:"not null;index" validate:"required"`
	Owner   *User `json:"-" gorm:"foreignKey:OwnerID"`
}
