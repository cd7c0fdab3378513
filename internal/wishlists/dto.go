package wishlists

import (
	"time"

	"github.com/google/uuid"

	"github.com/wishbox-app/wishbox-backend/pkg/db/models"
)

// WishlistDTO exposes the owner-facing view, including both capability
// tokens. Only returned on paths already authorized by the admin token.
type WishlistDTO struct {
	ID          uuid.UUID `json:"id"`
	AdminToken  string    `json:"admin_token"`
	GuestToken  string    `json:"guest_token"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GuestWishlistDTO is the sanitized view shared with invited guests.
type GuestWishlistDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// UpdateWishlistInput captures the fields an owner may change.
type UpdateWishlistInput struct {
	Title       string
	Description string
}

// FromModel maps the persisted wishlist into the owner DTO.
func FromModel(m *models.Wishlist) *WishlistDTO {
	if m == nil {
		return nil
	}
	return &WishlistDTO{
		ID:          m.ID,
		AdminToken:  m.AdminToken,
		GuestToken:  m.GuestToken,
		Title:       m.Title,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// GuestFromModel maps the persisted wishlist into the guest DTO.
func GuestFromModel(m *models.Wishlist) *GuestWishlistDTO {
	if m == nil {
		return nil
	}
	return &GuestWishlistDTO{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}
