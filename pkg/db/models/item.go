package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item belongs to exactly one wishlist and cannot be reassigned.
// IsReserved and ReservedByToken move together: a reserved item always
// records the reserving guest's token, an available item never does.
type Item struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WishlistID      uuid.UUID `gorm:"column:wishlist_id;type:uuid;not null;index:items_wishlist_id_idx"`
	Name            string    `gorm:"column:name;not null"`
	Link            *string   `gorm:"column:link"`
	Notes           *string   `gorm:"column:notes"`
	IsReserved      bool      `gorm:"column:is_reserved;not null;default:false"`
	ReservedByToken *string   `gorm:"column:reserved_by_token"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Item) TableName() string {
	return "items"
}

// BeforeCreate assigns the id before the INSERT so the row never depends
// on a store-side column default.
func (i *Item) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
