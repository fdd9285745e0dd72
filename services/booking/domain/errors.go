package domain

import "errors"

// Sentinel errors for the booking domain. Use errors.Is() to check these.
var (
	// ErrInvalidQuantity indicates a request outside allowed bounds, or an
	// item that is already sold out. User-correctable.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInsufficientCapacity indicates availability changed between
	// validation and commit; the conditional capacity decrement matched no
	// rows. Callers may retry with a fresh quote.
	ErrInsufficientCapacity = errors.New("insufficient capacity")

	// ErrBookingNotFound indicates a cancel for an unknown or
	// already-cancelled booking. Benign on cancellation paths.
	ErrBookingNotFound = errors.New("booking not found")
)
