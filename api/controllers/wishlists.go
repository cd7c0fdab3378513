package controllers

import (
	"net/http"

	"github.com/wishbox-app/wishbox-backend/api/responses"
	"github.com/wishbox-app/wishbox-backend/api/validators"
	"github.com/wishbox-app/wishbox-backend/internal/items"
	"github.com/wishbox-app/wishbox-backend/internal/wishlists"
	pkgerrors "github.com/wishbox-app/wishbox-backend/pkg/errors"
	"github.com/wishbox-app/wishbox-backend/pkg/logger"
)

type updateWishlistPayload struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type adminWishlistResponse struct {
	Wishlist *wishlists.WishlistDTO `json:"wishlist"`
	Items    []items.ItemDTO        `json:"items"`
}

type guestWishlistResponse struct {
	Wishlist *wishlists.GuestWishlistDTO `json:"wishlist"`
	Items    []items.ItemDTO             `json:"items"`
}

// CreateWishlist mints a new wishlist with fresh admin and guest tokens.
// This is the only write that needs no token, which is why the route is
// rate limited.
func CreateWishlist(svc wishlists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		dto, err := svc.Create(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithWishlistID(ctx, dto.ID.String()), "wishlist.created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// AdminGetWishlist returns the owner view together with its items.
func AdminGetWishlist(wishlistSvc wishlists.Service, itemSvc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if wishlistSvc == nil || itemSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		token := validators.WishlistToken(r)
		wishlist, err := wishlistSvc.GetByAdminToken(ctx, token)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		listed, err := itemSvc.ListForWishlist(ctx, wishlist.ID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, adminWishlistResponse{Wishlist: wishlist, Items: listed})
	}
}

// AdminUpdateWishlist edits the wishlist's title and description.
func AdminUpdateWishlist(svc wishlists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		var payload updateWishlistPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		token := validators.WishlistToken(r)
		dto, err := svc.Update(ctx, token, wishlists.UpdateWishlistInput{
			Title:       payload.Title,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// AdminDeleteWishlist removes the wishlist and all of its items.
func AdminDeleteWishlist(svc wishlists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		token := validators.WishlistToken(r)
		if err := svc.Delete(ctx, token); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// GuestGetWishlist returns the sanitized guest view together with its
// items. When the guest supplies a reservation token, their own
// reservations are flagged in the item list.
func GuestGetWishlist(wishlistSvc wishlists.Service, itemSvc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if wishlistSvc == nil || itemSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		token := validators.WishlistToken(r)
		wishlist, err := wishlistSvc.GetByGuestToken(ctx, token)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		listed, err := itemSvc.ListForGuest(ctx, token, validators.ReservationToken(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, guestWishlistResponse{Wishlist: wishlist, Items: listed})
	}
}
