package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Wishlist is the root row for one shareable list. The admin and guest
// tokens are issued once at creation and never rotated; each one resolves
// exactly one wishlist.
type Wishlist struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminToken  string    `gorm:"column:admin_token;not null;uniqueIndex:wishlists_admin_token_key"`
	GuestToken  string    `gorm:"column:guest_token;not null;uniqueIndex:wishlists_guest_token_key"`
	Title       string    `gorm:"column:title;not null"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Wishlist) TableName() string {
	return "wishlists"
}

// BeforeCreate assigns the id before the INSERT. GORM skips zero-valued
// columns that carry a default tag, so without this the row would only get
// an id on stores that apply the column default.
func (w *Wishlist) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
