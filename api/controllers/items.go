package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wishbox-app/wishbox-backend/api/responses"
	"github.com/wishbox-app/wishbox-backend/api/validators"
	"github.com/wishbox-app/wishbox-backend/internal/items"
	pkgerrors "github.com/wishbox-app/wishbox-backend/pkg/errors"
	"github.com/wishbox-app/wishbox-backend/pkg/logger"
)

type itemPayload struct {
	Name  string `json:"name" validate:"required,max=200"`
	Link  string `json:"link" validate:"omitempty,max=2000"`
	Notes string `json:"notes" validate:"max=2000"`
}

func (p itemPayload) input() items.ItemInput {
	return items.ItemInput{
		Name:  p.Name,
		Link:  p.Link,
		Notes: p.Notes,
	}
}

func itemIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "itemId")
	itemID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
	}
	return itemID, nil
}

// AdminAddItem appends a new item to the owner's wishlist.
func AdminAddItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		var payload itemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Add(ctx, validators.WishlistToken(r), payload.input())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithItemID(ctx, dto.ID.String()), "item.added")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// AdminUpdateItem edits an item's display fields.
func AdminUpdateItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		itemID, err := itemIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload itemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Update(ctx, validators.WishlistToken(r), itemID, payload.input())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// AdminDeleteItem removes an item, reserved or not.
func AdminDeleteItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		itemID, err := itemIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, validators.WishlistToken(r), itemID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// AdminUnreserveItem clears a reservation on the owner's behalf, whoever
// holds it.
func AdminUnreserveItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		itemID, err := itemIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Unreserve(ctx, validators.WishlistToken(r), itemID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithItemID(ctx, itemID.String()), "item.unreserved")
		}
		responses.WriteSuccess(w, map[string]bool{"released": true})
	}
}

// GuestReserveItem claims an available item for the calling guest.
func GuestReserveItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		itemID, err := itemIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Reserve(ctx, validators.WishlistToken(r), itemID, validators.ReservationToken(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithItemID(ctx, itemID.String()), "item.reserved")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// GuestCancelReservation releases the caller's own reservation.
func GuestCancelReservation(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		itemID, err := itemIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.CancelReservation(ctx, validators.WishlistToken(r), itemID, validators.ReservationToken(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithItemID(ctx, itemID.String()), "item.reservation_cancelled")
		}
		responses.WriteSuccess(w, dto)
	}
}
