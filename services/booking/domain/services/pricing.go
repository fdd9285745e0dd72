package services

import (
	"fmt"

	bookingdomain "github.com/ghuser/wayfare/services/booking/domain"
	catalogmodels "github.com/ghuser/wayfare/services/catalog/domain/models"
)

// Quote computes the total price for booking quantity units of an item:
// unit rate × passenger count for per-seat inventory, day rate × rental
// days for per-day inventory. Arithmetic is integer cents throughout.
//
// Quantity must already be validated; a non-positive value is a programming
// error surfaced as ErrInvalidQuantity.
func Quote(item *catalogmodels.Item, quantity int) (catalogmodels.Money, error) {
	if quantity < 1 {
		return catalogmodels.Money{}, fmt.Errorf("%w: cannot price %d units", bookingdomain.ErrInvalidQuantity, quantity)
	}

	switch item.RateBasis {
	case catalogmodels.PerSeat, catalogmodels.PerDay:
		return item.Rate.Mul(int64(quantity)), nil
	default:
		return catalogmodels.Money{}, fmt.Errorf("unknown rate basis %q for item %s", item.RateBasis, item.ID)
	}
}
