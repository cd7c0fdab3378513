package items

import (
	"time"

	"github.com/google/uuid"

	"github.com/wishbox-app/wishbox-backend/pkg/db/models"
	"github.com/wishbox-app/wishbox-backend/pkg/tokens"
)

// ItemDTO is the wire view of an item. The reserving guest's token never
// leaves the service; guests instead get the computed ReservedByMe flag.
type ItemDTO struct {
	ID           uuid.UUID `json:"id"`
	WishlistID   uuid.UUID `json:"wishlist_id"`
	Name         string    `json:"name"`
	Link         *string   `json:"link,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	IsReserved   bool      `json:"is_reserved"`
	ReservedByMe bool      `json:"reserved_by_me,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ItemInput carries the display fields for add and edit.
type ItemInput struct {
	Name  string
	Link  string
	Notes string
}

// FromModel maps the persisted item into a DTO. reservationToken may be
// empty; when present it marks items reserved by that guest.
func FromModel(m *models.Item, reservationToken string) *ItemDTO {
	if m == nil {
		return nil
	}
	dto := &ItemDTO{
		ID:         m.ID,
		WishlistID: m.WishlistID,
		Name:       m.Name,
		Link:       m.Link,
		Notes:      m.Notes,
		IsReserved: m.IsReserved,
		CreatedAt:  m.CreatedAt,
	}
	if reservationToken != "" && m.ReservedByToken != nil {
		dto.ReservedByMe = tokens.Equal(*m.ReservedByToken, reservationToken)
	}
	return dto
}
