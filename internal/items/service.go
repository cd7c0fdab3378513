package items

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wishbox-app/wishbox-backend/pkg/db/models"
	pkgerrors "github.com/wishbox-app/wishbox-backend/pkg/errors"
	"github.com/wishbox-app/wishbox-backend/pkg/tokens"
)

type itemRepository interface {
	ListByWishlist(ctx context.Context, wishlistID uuid.UUID) ([]models.Item, error)
	Create(ctx context.Context, item *models.Item) error
	FindInWishlist(ctx context.Context, wishlistID, itemID uuid.UUID) (*models.Item, error)
	UpdateFields(ctx context.Context, wishlistID, itemID uuid.UUID, name string, link, notes *string) (int64, error)
	Delete(ctx context.Context, wishlistID, itemID uuid.UUID) (int64, error)
	ReserveIfAvailable(ctx context.Context, wishlistID, itemID uuid.UUID, reservationToken string) (int64, error)
	ReleaseIfHeldBy(ctx context.Context, wishlistID, itemID uuid.UUID, reservationToken string) (int64, error)
	Release(ctx context.Context, wishlistID, itemID uuid.UUID) (int64, error)
}

type wishlistResolver interface {
	FindByAdminToken(ctx context.Context, adminToken string) (*models.Wishlist, error)
	FindByGuestToken(ctx context.Context, guestToken string) (*models.Wishlist, error)
}

// ServiceParams groups dependencies for the item service.
type ServiceParams struct {
	ItemRepo     itemRepository
	WishlistRepo wishlistResolver
}

// Service exposes item management and the reservation state machine.
type Service interface {
	ListForWishlist(ctx context.Context, wishlistID uuid.UUID) ([]ItemDTO, error)
	ListForGuest(ctx context.Context, guestToken, reservationToken string) ([]ItemDTO, error)
	Add(ctx context.Context, adminToken string, input ItemInput) (*ItemDTO, error)
	Update(ctx context.Context, adminToken string, itemID uuid.UUID, input ItemInput) (*ItemDTO, error)
	Delete(ctx context.Context, adminToken string, itemID uuid.UUID) error
	Reserve(ctx context.Context, guestToken string, itemID uuid.UUID, reservationToken string) (*ItemDTO, error)
	CancelReservation(ctx context.Context, guestToken string, itemID uuid.UUID, reservationToken string) (*ItemDTO, error)
	Unreserve(ctx context.Context, adminToken string, itemID uuid.UUID) error
}

type service struct {
	items     itemRepository
	wishlists wishlistResolver
}

// NewService builds an item service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ItemRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item repo is required")
	}
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	return &service{
		items:     params.ItemRepo,
		wishlists: params.WishlistRepo,
	}, nil
}

func (s *service) ListForWishlist(ctx context.Context, wishlistID uuid.UUID) ([]ItemDTO, error) {
	rows, err := s.items.ListByWishlist(ctx, wishlistID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	return toDTOs(rows, ""), nil
}

func (s *service) ListForGuest(ctx context.Context, guestToken, reservationToken string) ([]ItemDTO, error) {
	wishlist, err := s.resolveGuest(ctx, guestToken)
	if err != nil {
		return nil, err
	}
	rows, err := s.items.ListByWishlist(ctx, wishlist.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	return toDTOs(rows, strings.TrimSpace(reservationToken)), nil
}

func (s *service) Add(ctx context.Context, adminToken string, input ItemInput) (*ItemDTO, error) {
	name, link, notes, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}

	wishlist, err := s.resolveAdmin(ctx, adminToken)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		WishlistID: wishlist.ID,
		Name:       name,
		Link:       link,
		Notes:      notes,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add item")
	}
	return FromModel(item, ""), nil
}

func (s *service) Update(ctx context.Context, adminToken string, itemID uuid.UUID, input ItemInput) (*ItemDTO, error) {
	name, link, notes, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}

	wishlist, err := s.resolveAdmin(ctx, adminToken)
	if err != nil {
		return nil, err
	}

	affected, err := s.items.UpdateFields(ctx, wishlist.ID, itemID, name, link, notes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}

	item, err := s.items.FindInWishlist(ctx, wishlist.ID, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload item")
	}
	return FromModel(item, ""), nil
}

func (s *service) Delete(ctx context.Context, adminToken string, itemID uuid.UUID) error {
	wishlist, err := s.resolveAdmin(ctx, adminToken)
	if err != nil {
		return err
	}

	affected, err := s.items.Delete(ctx, wishlist.ID, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return nil
}

func (s *service) Reserve(ctx context.Context, guestToken string, itemID uuid.UUID, reservationToken string) (*ItemDTO, error) {
	reservationToken = strings.TrimSpace(reservationToken)
	if reservationToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation token is required")
	}

	wishlist, err := s.resolveGuest(ctx, guestToken)
	if err != nil {
		return nil, err
	}

	affected, err := s.items.ReserveIfAvailable(ctx, wishlist.ID, itemID, reservationToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve item")
	}
	if affected == 0 {
		item, err := s.items.FindInWishlist(ctx, wishlist.ID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inspect item")
		}
		if item.IsReserved {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "item already reserved")
		}
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}

	item, err := s.items.FindInWishlist(ctx, wishlist.ID, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload item")
	}
	return FromModel(item, reservationToken), nil
}

func (s *service) CancelReservation(ctx context.Context, guestToken string, itemID uuid.UUID, reservationToken string) (*ItemDTO, error) {
	reservationToken = strings.TrimSpace(reservationToken)
	if reservationToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation token is required")
	}

	wishlist, err := s.resolveGuest(ctx, guestToken)
	if err != nil {
		return nil, err
	}

	affected, err := s.items.ReleaseIfHeldBy(ctx, wishlist.ID, itemID, reservationToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel reservation")
	}
	if affected == 0 {
		item, err := s.items.FindInWishlist(ctx, wishlist.ID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inspect item")
		}
		if !item.IsReserved {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "item is not reserved")
		}
		if item.ReservedByToken == nil || !tokens.Equal(*item.ReservedByToken, reservationToken) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reservation held by another guest")
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "item is not reserved")
	}

	item, err := s.items.FindInWishlist(ctx, wishlist.ID, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload item")
	}
	return FromModel(item, reservationToken), nil
}

func (s *service) Unreserve(ctx context.Context, adminToken string, itemID uuid.UUID) error {
	wishlist, err := s.resolveAdmin(ctx, adminToken)
	if err != nil {
		return err
	}

	affected, err := s.items.Release(ctx, wishlist.ID, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unreserve item")
	}
	if affected == 0 {
		if _, err := s.items.FindInWishlist(ctx, wishlist.ID, itemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inspect item")
		}
		return pkgerrors.New(pkgerrors.CodeStateConflict, "item is not reserved")
	}
	return nil
}

func (s *service) resolveAdmin(ctx context.Context, adminToken string) (*models.Wishlist, error) {
	adminToken = strings.TrimSpace(adminToken)
	if adminToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}

	wishlist, err := s.wishlists.FindByAdminToken(ctx, adminToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup wishlist")
	}
	return wishlist, nil
}

func (s *service) resolveGuest(ctx context.Context, guestToken string) (*models.Wishlist, error) {
	guestToken = strings.TrimSpace(guestToken)
	if guestToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}

	wishlist, err := s.wishlists.FindByGuestToken(ctx, guestToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup wishlist")
	}
	return wishlist, nil
}

// normalizeInput trims all display fields. Name must survive the trim;
// link and notes collapse to NULL rather than empty strings.
func normalizeInput(input ItemInput) (string, *string, *string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	return name, optionalString(input.Link), optionalString(input.Notes), nil
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func toDTOs(rows []models.Item, reservationToken string) []ItemDTO {
	dtos := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i], reservationToken))
	}
	return dtos
}
