package validators

import (
	"net/http"
	"strings"
)

// Capability tokens ride in headers rather than the URL so that request
// logging, which records the path, never sees them.
const (
	WishlistTokenHeader    = "X-Wishbox-Token"
	ReservationTokenHeader = "X-Reservation-Token"
)

// WishlistToken extracts the admin or guest capability token from the
// request. Returns "" when the header is missing or blank.
func WishlistToken(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(WishlistTokenHeader))
}

// ReservationToken extracts the guest's reservation token, if any.
func ReservationToken(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(ReservationTokenHeader))
}
