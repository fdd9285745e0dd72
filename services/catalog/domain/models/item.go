package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind tags the inventory variant. Pricing-relevant behavior dispatches on
// the tag instead of probing descriptive fields at runtime.
type Kind string

const (
	KindEvent  Kind = "event"
	KindBus    Kind = "bus"
	KindFlight Kind = "flight"
	KindCar    Kind = "car"
)

// Valid reports whether k is one of the known inventory kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindEvent, KindBus, KindFlight, KindCar:
		return true
	}
	return false
}

// RateBasis is the quantity dimension a rate is multiplied by.
type RateBasis string

const (
	// PerSeat rates scale by passenger or ticket count (events, buses, flights).
	PerSeat RateBasis = "per_seat"
	// PerDay rates scale by rental duration in days (car rentals).
	PerDay RateBasis = "per_day"
)

// BasisForKind returns the rate basis implied by an inventory kind.
func BasisForKind(k Kind) RateBasis {
	if k == KindCar {
		return PerDay
	}
	return PerSeat
}

// Item is the inventory aggregate for this bounded context. One row per
// bookable resource: an event, a bus route, a flight, or a rental car.
//
// Capacity invariant: 0 <= Available <= TotalCapacity. Available is mutated
// only through Reserve and Release (in memory) or the repository's
// conditional capacity SQL (persisted) — never assigned directly.
type Item struct {
	ID            uuid.UUID
	Kind          Kind
	Name          string
	Description   string
	Location      string
	Category      string
	Rate          Money
	RateBasis     RateBasis
	TotalCapacity int
	Available     int
	// Attrs holds kind-specific descriptive fields (venue/date/time for
	// events, origin/destination/operator for routes, brand/model/fuel for
	// cars). Snapshot-copied into bookings; never used for pricing.
	Attrs     map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewItem constructs a valid Item with a generated ID and current timestamp.
func NewItem(kind Kind, name string, rate Money, totalCapacity int) (*Item, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown inventory kind %q", kind)
	}
	if name == "" {
		return nil, fmt.Errorf("item name must not be empty")
	}
	if totalCapacity < 0 {
		return nil, fmt.Errorf("total capacity must not be negative")
	}
	now := time.Now().UTC()
	return &Item{
		ID:            uuid.New(),
		Kind:          kind,
		Name:          name,
		Rate:          rate,
		RateBasis:     BasisForKind(kind),
		TotalCapacity: totalCapacity,
		Available:     totalCapacity,
		Attrs:         map[string]string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// SoldOut reports whether no capacity remains.
func (i *Item) SoldOut() bool {
	return i.Available == 0
}

// Reserve decrements available capacity by n, all-or-nothing. Returns false
// without mutating when n would drive Available below zero.
func (i *Item) Reserve(n int) bool {
	if n < 1 || n > i.Available {
		return false
	}
	i.Available -= n
	return true
}

// Release returns n units of capacity, capped so Available never exceeds
// TotalCapacity.
func (i *Item) Release(n int) {
	if n < 1 {
		return
	}
	i.Available += n
	if i.Available > i.TotalCapacity {
		i.Available = i.TotalCapacity
	}
}

// CapacityDelta converts a booking's scaling quantity into capacity units:
// per-seat inventory consumes quantity seats, per-day inventory consumes a
// single vehicle however many days it is booked for.
func (i *Item) CapacityDelta(quantity int) int {
	if i.RateBasis == PerDay {
		return 1
	}
	return quantity
}

// CheckInvariant returns an error if the capacity invariant is violated.
// Used by tests and defensive paths after bulk loads.
func (i *Item) CheckInvariant() error {
	if i.Available < 0 || i.Available > i.TotalCapacity {
		return fmt.Errorf("item %s: available %d outside [0, %d]", i.ID, i.Available, i.TotalCapacity)
	}
	return nil
}
