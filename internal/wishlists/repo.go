package wishlists

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wishbox-app/wishbox-backend/pkg/db"
	"github.com/wishbox-app/wishbox-backend/pkg/db/models"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	client *db.Client
}

// NewRepository binds the shared DB client to wishlist operations.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// Create persists a new wishlist row.
func (r *Repository) Create(ctx context.Context, wishlist *models.Wishlist) error {
	if wishlist == nil {
		return fmt.Errorf("wishlist is required")
	}
	return r.client.DB().WithContext(ctx).Create(wishlist).Error
}

// FindByAdminToken resolves the owner capability to its wishlist row.
func (r *Repository) FindByAdminToken(ctx context.Context, adminToken string) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	if err := r.client.DB().WithContext(ctx).
		Where("admin_token = ?", adminToken).
		First(&wishlist).Error; err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// FindByGuestToken resolves the guest capability to its wishlist row.
func (r *Repository) FindByGuestToken(ctx context.Context, guestToken string) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	if err := r.client.DB().WithContext(ctx).
		Where("guest_token = ?", guestToken).
		First(&wishlist).Error; err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// Save persists the provided wishlist.
func (r *Repository) Save(ctx context.Context, wishlist *models.Wishlist) error {
	if wishlist == nil {
		return fmt.Errorf("wishlist is required")
	}
	return r.client.DB().WithContext(ctx).Save(wishlist).Error
}

// DeleteWithItems removes the wishlist and every item it owns as one
// logical unit. The explicit item delete keeps the no-orphans guarantee
// independent of FK cascade support in the underlying store.
func (r *Repository) DeleteWithItems(ctx context.Context, wishlistID uuid.UUID) error {
	return r.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("wishlist_id = ?", wishlistID).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", wishlistID).Delete(&models.Wishlist{}).Error
	})
}
