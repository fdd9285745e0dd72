package events

import (
	"time"

	"github.com/google/uuid"

	catalogmodels "github.com/ghuser/wayfare/services/catalog/domain/models"
)

// Watermill topics for booking lifecycle events.
const (
	TopicBookingConfirmed = "booking.confirmed"
	TopicBookingCancelled = "booking.cancelled"
)

// BookingConfirmedEvent is published in the same transaction that appends
// the ledger row and decrements catalog capacity.
type BookingConfirmedEvent struct {
	EventID    uuid.UUID          `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int                `json:"version"`  // Schema version; increment on breaking changes
	BookingID  uuid.UUID          `json:"booking_id"`
	ItemID     uuid.UUID          `json:"item_id"`
	Kind       catalogmodels.Kind `json:"kind"`
	ItemName   string             `json:"item_name"`
	Quantity   int                `json:"quantity"`
	TotalCents int64              `json:"total_cents"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// BookingCancelledEvent is published in the same transaction that marks the
// ledger row cancelled and restores catalog capacity.
type BookingCancelledEvent struct {
	EventID    uuid.UUID          `json:"event_id"`
	Version    int                `json:"version"`
	BookingID  uuid.UUID          `json:"booking_id"`
	ItemID     uuid.UUID          `json:"item_id"`
	Kind       catalogmodels.Kind `json:"kind"`
	Quantity   int                `json:"quantity"`
	OccurredAt time.Time          `json:"occurred_at"`
}
