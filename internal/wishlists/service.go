package wishlists

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wishbox-app/wishbox-backend/pkg/db"
	"github.com/wishbox-app/wishbox-backend/pkg/db/models"
	pkgerrors "github.com/wishbox-app/wishbox-backend/pkg/errors"
	"github.com/wishbox-app/wishbox-backend/pkg/tokens"
)

// DefaultTitle is assigned to every freshly created wishlist.
const DefaultTitle = "My Wishlist"

type wishlistRepository interface {
	Create(ctx context.Context, wishlist *models.Wishlist) error
	FindByAdminToken(ctx context.Context, adminToken string) (*models.Wishlist, error)
	FindByGuestToken(ctx context.Context, guestToken string) (*models.Wishlist, error)
	Save(ctx context.Context, wishlist *models.Wishlist) error
	DeleteWithItems(ctx context.Context, wishlistID uuid.UUID) error
}

// Service exposes wishlist management. All authorization is capability
// based: the token either resolves to a row or the call fails, and the
// failure never says whether the token or the target was the wrong part.
type Service interface {
	Create(ctx context.Context) (*WishlistDTO, error)
	GetByAdminToken(ctx context.Context, adminToken string) (*WishlistDTO, error)
	GetByGuestToken(ctx context.Context, guestToken string) (*GuestWishlistDTO, error)
	Update(ctx context.Context, adminToken string, input UpdateWishlistInput) (*WishlistDTO, error)
	Delete(ctx context.Context, adminToken string) error
}

type service struct {
	repo wishlistRepository
}

// NewService builds a wishlist service with the provided repository.
func NewService(repo wishlistRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context) (*WishlistDTO, error) {
	// A token collision means the random draw lost against the unique
	// indexes. Fresh tokens resolve it, so one re-draw before giving up.
	for attempt := 0; ; attempt++ {
		wishlist := &models.Wishlist{
			AdminToken: tokens.NewAdminToken(),
			GuestToken: tokens.NewGuestToken(),
			Title:      DefaultTitle,
		}

		err := s.repo.Create(ctx, wishlist)
		if err == nil {
			return FromModel(wishlist), nil
		}
		if db.IsUniqueViolation(err, "") && attempt == 0 {
			continue
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create wishlist")
	}
}

func (s *service) GetByAdminToken(ctx context.Context, adminToken string) (*WishlistDTO, error) {
	wishlist, err := s.resolveAdmin(ctx, adminToken)
	if err != nil {
		return nil, err
	}
	return FromModel(wishlist), nil
}

func (s *service) GetByGuestToken(ctx context.Context, guestToken string) (*GuestWishlistDTO, error) {
	guestToken = strings.TrimSpace(guestToken)
	if guestToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}

	wishlist, err := s.repo.FindByGuestToken(ctx, guestToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup wishlist")
	}
	return GuestFromModel(wishlist), nil
}

func (s *service) Update(ctx context.Context, adminToken string, input UpdateWishlistInput) (*WishlistDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	wishlist, err := s.resolveAdmin(ctx, adminToken)
	if err != nil {
		return nil, err
	}

	wishlist.Title = title
	wishlist.Description = optionalString(input.Description)

	if err := s.repo.Save(ctx, wishlist); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update wishlist")
	}
	return FromModel(wishlist), nil
}

func (s *service) Delete(ctx context.Context, adminToken string) error {
	wishlist, err := s.resolveAdmin(ctx, adminToken)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteWithItems(ctx, wishlist.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete wishlist")
	}
	return nil
}

func (s *service) resolveAdmin(ctx context.Context, adminToken string) (*models.Wishlist, error) {
	adminToken = strings.TrimSpace(adminToken)
	if adminToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}

	wishlist, err := s.repo.FindByAdminToken(ctx, adminToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup wishlist")
	}
	return wishlist, nil
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
