package items

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wishbox-app/wishbox-backend/pkg/db"
	"github.com/wishbox-app/wishbox-backend/pkg/db/models"
)

// Repository encapsulates item persistence. Every query is scoped by
// wishlist id, so an item id from another wishlist behaves exactly like a
// missing row.
type Repository struct {
	client *db.Client
}

// NewRepository binds the shared DB client to item operations.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// ListByWishlist returns the wishlist's items oldest first.
func (r *Repository) ListByWishlist(ctx context.Context, wishlistID uuid.UUID) ([]models.Item, error) {
	var items []models.Item
	if err := r.client.DB().WithContext(ctx).
		Where("wishlist_id = ?", wishlistID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Create persists a new item row.
func (r *Repository) Create(ctx context.Context, item *models.Item) error {
	if item == nil {
		return fmt.Errorf("item is required")
	}
	return r.client.DB().WithContext(ctx).Create(item).Error
}

// FindInWishlist loads an item only when it belongs to the wishlist.
func (r *Repository) FindInWishlist(ctx context.Context, wishlistID, itemID uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.client.DB().WithContext(ctx).
		Where("id = ? AND wishlist_id = ?", itemID, wishlistID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateFields mutates display fields only; reservation state is never
// touched on this path.
func (r *Repository) UpdateFields(ctx context.Context, wishlistID, itemID uuid.UUID, name string, link, notes *string) (int64, error) {
	result := r.client.DB().WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND wishlist_id = ?", itemID, wishlistID).
		Updates(map[string]any{
			"name":  name,
			"link":  link,
			"notes": notes,
		})
	return result.RowsAffected, result.Error
}

// Delete removes the item when it belongs to the wishlist.
func (r *Repository) Delete(ctx context.Context, wishlistID, itemID uuid.UUID) (int64, error) {
	result := r.client.DB().WithContext(ctx).
		Where("id = ? AND wishlist_id = ?", itemID, wishlistID).
		Delete(&models.Item{})
	return result.RowsAffected, result.Error
}

// ReserveIfAvailable claims the item for the reservation token in a single
// conditional write. Two racing reserves can never both see RowsAffected=1:
// the is_reserved guard in the WHERE clause makes the check-and-set atomic
// at the store.
func (r *Repository) ReserveIfAvailable(ctx context.Context, wishlistID, itemID uuid.UUID, reservationToken string) (int64, error) {
	result := r.client.DB().WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND wishlist_id = ? AND is_reserved = ?", itemID, wishlistID, false).
		Updates(map[string]any{
			"is_reserved":       true,
			"reserved_by_token": reservationToken,
		})
	return result.RowsAffected, result.Error
}

// ReleaseIfHeldBy clears the reservation only when the caller's token is
// the current holder.
func (r *Repository) ReleaseIfHeldBy(ctx context.Context, wishlistID, itemID uuid.UUID, reservationToken string) (int64, error) {
	result := r.client.DB().WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND wishlist_id = ? AND is_reserved = ? AND reserved_by_token = ?", itemID, wishlistID, true, reservationToken).
		Updates(map[string]any{
			"is_reserved":       false,
			"reserved_by_token": nil,
		})
	return result.RowsAffected, result.Error
}

// Release clears the reservation regardless of holder. Admin override.
func (r *Repository) Release(ctx context.Context, wishlistID, itemID uuid.UUID) (int64, error) {
	result := r.client.DB().WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND wishlist_id = ? AND is_reserved = ?", itemID, wishlistID, true).
		Updates(map[string]any{
			"is_reserved":       false,
			"reserved_by_token": nil,
		})
	return result.RowsAffected, result.Error
}
