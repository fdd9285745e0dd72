package models

import (
	"math/rand"
	"testing"
)

func TestNewItem(t *testing.T) {
	t.Run("returns item with full availability", func(t *testing.T) {
		item, err := NewItem(KindEvent, "Summer Music Festival", MoneyFromCents(8999), 500)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Available != 500 {
			t.Fatalf("expected available 500, got %d", item.Available)
		}
		if item.RateBasis != PerSeat {
			t.Fatalf("expected per_seat basis for event, got %s", item.RateBasis)
		}
	})

	t.Run("car rentals price per day", func(t *testing.T) {
		item, err := NewItem(KindCar, "Compact Hatchback", MoneyFromCents(4500), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.RateBasis != PerDay {
			t.Fatalf("expected per_day basis for car, got %s", item.RateBasis)
		}
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		if _, err := NewItem(Kind("boat"), "Ferry", MoneyFromCents(100), 10); err == nil {
			t.Fatal("expected error for unknown kind")
		}
	})

	t.Run("rejects negative capacity", func(t *testing.T) {
		if _, err := NewItem(KindEvent, "Concert", MoneyFromCents(100), -1); err == nil {
			t.Fatal("expected error for negative capacity")
		}
	})
}

func TestItemReserve(t *testing.T) {
	t.Run("decrements available", func(t *testing.T) {
		item, _ := NewItem(KindEvent, "Concert", MoneyFromCents(4500), 10)
		if !item.Reserve(3) {
			t.Fatal("expected reservation to succeed")
		}
		if item.Available != 7 {
			t.Fatalf("expected available 7, got %d", item.Available)
		}
	})

	t.Run("all-or-nothing when capacity is short", func(t *testing.T) {
		item, _ := NewItem(KindEvent, "Concert", MoneyFromCents(4500), 2)
		if item.Reserve(3) {
			t.Fatal("expected reservation to fail")
		}
		if item.Available != 2 {
			t.Fatalf("available mutated on failed reserve: %d", item.Available)
		}
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		item, _ := NewItem(KindEvent, "Concert", MoneyFromCents(4500), 2)
		if item.Reserve(0) || item.Reserve(-1) {
			t.Fatal("expected reservation of non-positive quantity to fail")
		}
	})
}

func TestItemRelease(t *testing.T) {
	t.Run("restores available", func(t *testing.T) {
		item, _ := NewItem(KindBus, "Express Route", MoneyFromCents(2500), 40)
		item.Reserve(5)
		item.Release(5)
		if item.Available != 40 {
			t.Fatalf("expected available 40, got %d", item.Available)
		}
	})

	t.Run("never exceeds total capacity", func(t *testing.T) {
		item, _ := NewItem(KindBus, "Express Route", MoneyFromCents(2500), 40)
		item.Release(10)
		if item.Available != 40 {
			t.Fatalf("expected available capped at 40, got %d", item.Available)
		}
	})
}

// TestReserveReleaseRoundTrip verifies a reserve immediately followed by a
// release of the same quantity restores availability exactly.
func TestReserveReleaseRoundTrip(t *testing.T) {
	item, _ := NewItem(KindFlight, "Morning Nonstop", MoneyFromCents(19999), 180)
	item.Reserve(20) // pre-existing bookings

	before := item.Available
	if !item.Reserve(4) {
		t.Fatal("expected reservation to succeed")
	}
	item.Release(4)
	if item.Available != before {
		t.Fatalf("round trip changed available: before %d, after %d", before, item.Available)
	}
}

// TestCapacityInvariant_RandomSequences applies random reserve/release
// sequences and checks 0 <= available <= total after every operation.
func TestCapacityInvariant_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		total := 1 + rng.Intn(200)
		item, _ := NewItem(KindEvent, "Invariant Probe", MoneyFromCents(1000), total)

		var reserved []int
		for op := 0; op < 200; op++ {
			if rng.Intn(2) == 0 {
				n := 1 + rng.Intn(15)
				if item.Reserve(n) {
					reserved = append(reserved, n)
				}
			} else if len(reserved) > 0 {
				idx := rng.Intn(len(reserved))
				item.Release(reserved[idx])
				reserved = append(reserved[:idx], reserved[idx+1:]...)
			}

			if err := item.CheckInvariant(); err != nil {
				t.Fatalf("trial %d op %d: %v", trial, op, err)
			}
		}
	}
}

func TestSoldOut(t *testing.T) {
	item, _ := NewItem(KindEvent, "Championship Game", MoneyFromCents(12500), 1)
	if item.SoldOut() {
		t.Fatal("item with capacity should not be sold out")
	}
	item.Reserve(1)
	if !item.SoldOut() {
		t.Fatal("expected sold out after last reservation")
	}
}
