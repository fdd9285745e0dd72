package models

import (
	"time"

	"github.com/google/uuid"

	catalogmodels "github.com/ghuser/wayfare/services/catalog/domain/models"
)

// Status is the booking lifecycle state. A booking is created confirmed
// (the transient pending state lives only inside the commit request) and
// can transition to cancelled exactly once. Cancelled is terminal.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Booking is a ledger entry for a confirmed reservation. Rows are append
// oriented: nothing mutates after creation except the status transition and
// CancelledAt on cancellation.
//
// ItemName, Attrs, and Rate are snapshots taken at booking time so ledger
// rows render without a catalog join and survive later catalog edits.
type Booking struct {
	ID       uuid.UUID
	ItemID   uuid.UUID
	Kind     catalogmodels.Kind
	ItemName string
	Attrs    map[string]string
	// Quantity is the scaling factor: passenger/ticket count for per-seat
	// inventory, rental days for per-day inventory.
	Quantity    int
	Rate        catalogmodels.Money
	Total       catalogmodels.Money
	Status      Status
	CreatedAt   time.Time
	CancelledAt *time.Time
}

// NewBooking builds a confirmed ledger entry from a priced reservation.
// The snapshot map is copied; callers may reuse theirs.
func NewBooking(item *catalogmodels.Item, quantity int, total catalogmodels.Money) *Booking {
	attrs := make(map[string]string, len(item.Attrs))
	for k, v := range item.Attrs {
		attrs[k] = v
	}
	return &Booking{
		ID:        uuid.New(),
		ItemID:    item.ID,
		Kind:      item.Kind,
		ItemName:  item.Name,
		Attrs:     attrs,
		Quantity:  quantity,
		Rate:      item.Rate,
		Total:     total,
		Status:    StatusConfirmed,
		CreatedAt: time.Now().UTC(),
	}
}

// Cancel transitions the booking to cancelled. Returns false when the
// booking is already cancelled; there is no re-confirmation path.
func (b *Booking) Cancel() bool {
	if b.Status == StatusCancelled {
		return false
	}
	now := time.Now().UTC()
	b.Status = StatusCancelled
	b.CancelledAt = &now
	return true
}
