package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/wayfare/services/booking/domain/models"
)

// BookingRepository is the persistence interface for the booking ledger.
// The domain layer owns this interface; infrastructure implements it.
//
// Reconciliation contract: the capacity delta against the catalog item and
// the ledger write happen in one transaction. A failed capacity check must
// leave no ledger row behind (no phantom bookings), and a cancelled ledger
// row must always have restored its capacity.
type BookingRepository interface {
	// Create appends a confirmed booking, decrementing the item's available
	// capacity by capacityDelta in the same transaction. Returns
	// ErrInsufficientCapacity — persisting nothing — when the conditional
	// decrement would drive availability below zero.
	Create(ctx context.Context, b *models.Booking, capacityDelta int) error

	// CancelAndRelease transitions a confirmed booking to cancelled and
	// restores its capacity delta in the same transaction. Returns the
	// cancelled booking, or ErrBookingNotFound when the ID is unknown or
	// the booking is already cancelled (idempotent for callers).
	CancelAndRelease(ctx context.Context, id uuid.UUID) (*models.Booking, error)

	// GetByID returns a booking by identity, ErrBookingNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)

	// List returns all bookings in insertion (chronological) order,
	// recomputed from current state on every call.
	List(ctx context.Context) ([]*models.Booking, error)
}
