// Package services contains stateless domain services for the booking
// bounded context: quantity validation and price calculation. They operate
// purely on domain types and have zero external dependencies beyond stdlib
// and the domain layers.
package services

import (
	"fmt"

	bookingdomain "github.com/ghuser/wayfare/services/booking/domain"
	catalogmodels "github.com/ghuser/wayfare/services/catalog/domain/models"
)

// Caps holds the per-booking limits on the quantity dimension.
type Caps struct {
	// MaxSeats bounds passenger/ticket count for per-seat inventory.
	MaxSeats int
	// MaxRentalDays bounds rental duration for per-day inventory.
	MaxRentalDays int
}

// DefaultCaps mirrors the product rules: 10 passengers per booking,
// 30 rental days per booking.
var DefaultCaps = Caps{MaxSeats: 10, MaxRentalDays: 30}

// capFor returns the cap matching the item's rate basis.
func (c Caps) capFor(basis catalogmodels.RateBasis) int {
	if basis == catalogmodels.PerDay {
		return c.MaxRentalDays
	}
	return c.MaxSeats
}

// ClampQuantity validates a requested scaling quantity against an item and
// returns the clamped value.
//
// Per-seat inventory clamps to [1, min(MaxSeats, item.Available)]: the
// booking consumes one capacity unit per seat, so availability bounds the
// quantity. Per-day inventory clamps duration to [1, MaxRentalDays] only:
// the booking consumes a single vehicle regardless of duration.
//
// A sold-out item is rejected with ErrInvalidQuantity before any clamping —
// zero availability must never be silently clamped into a zero-quantity
// booking. Requests below 1 are likewise rejected rather than rounded up.
// No side effects.
func ClampQuantity(item *catalogmodels.Item, requested int, caps Caps) (int, error) {
	if item.SoldOut() {
		return 0, fmt.Errorf("%w: %s is sold out", bookingdomain.ErrInvalidQuantity, item.Name)
	}
	if requested < 1 {
		return 0, fmt.Errorf("%w: requested %d, minimum is 1", bookingdomain.ErrInvalidQuantity, requested)
	}

	limit := caps.capFor(item.RateBasis)
	if item.RateBasis == catalogmodels.PerSeat && item.Available < limit {
		limit = item.Available
	}
	if requested > limit {
		return limit, nil
	}
	return requested, nil
}
