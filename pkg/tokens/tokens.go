package tokens

import (
	"crypto/subtle"

	"github.com/google/uuid"
)

// Capability tokens are opaque 128-bit random identifiers. Possession of
// the value is the only proof of the associated right; the admin, guest
// and reservation tokens for a wishlist carry no structural relationship
// to one another.

// NewAdminToken issues the owner capability for a wishlist.
func NewAdminToken() string {
	return uuid.NewString()
}

// NewGuestToken issues the shareable viewer capability for a wishlist.
func NewGuestToken() string {
	return uuid.NewString()
}

// NewReservationToken issues the client-held identity a guest keeps across
// visits. Issued at most once per guest; the caller persists it.
func NewReservationToken() string {
	return uuid.NewString()
}

// Equal compares two tokens in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
