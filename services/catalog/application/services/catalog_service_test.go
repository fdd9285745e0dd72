package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ghuser/wayfare/services/catalog/domain"
	"github.com/ghuser/wayfare/services/catalog/domain/models"
	"github.com/ghuser/wayfare/services/catalog/domain/repositories"
)

type fakeItemRepo struct {
	items []*models.Item
	calls int
}

func (r *fakeItemRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Item, error) {
	r.calls++
	for _, it := range r.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (r *fakeItemRepo) List(_ context.Context, f repositories.Filter) ([]*models.Item, error) {
	r.calls++
	var out []*models.Item
	for _, it := range r.items {
		if f.Kind != "" && it.Kind != f.Kind {
			continue
		}
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.Origin != "" && it.Attrs["origin"] != f.Origin {
			continue
		}
		if f.Destination != "" && it.Attrs["destination"] != f.Destination {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func mustItem(t *testing.T, kind models.Kind, name string, cents int64, capacity int) *models.Item {
	t.Helper()
	it, err := models.NewItem(kind, name, models.MoneyFromCents(cents), capacity)
	if err != nil {
		t.Fatalf("NewItem(%s): %v", name, err)
	}
	return it
}

func TestList(t *testing.T) {
	festival := mustItem(t, models.KindEvent, "Summer Festival", 8999, 500)
	festival.Category = "Music"
	bus := mustItem(t, models.KindBus, "New York to Boston", 4599, 40)
	bus.Attrs = map[string]string{"origin": "New York", "destination": "Boston"}
	flight := mustItem(t, models.KindFlight, "JFK to LAX", 29999, 180)
	flight.Attrs = map[string]string{"origin": "New York (JFK)", "destination": "Los Angeles (LAX)"}

	repo := &fakeItemRepo{items: []*models.Item{festival, bus, flight}}
	svc := NewCatalogService(repo, nil)

	t.Run("unfiltered returns all in insertion order", func(t *testing.T) {
		items, err := svc.List(context.Background(), repositories.Filter{})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("got %d items, want 3", len(items))
		}
		if items[0].ID != festival.ID || items[2].ID != flight.ID {
			t.Error("items not in insertion order")
		}
	})

	t.Run("filter by kind", func(t *testing.T) {
		items, err := svc.List(context.Background(), repositories.Filter{Kind: models.KindBus})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(items) != 1 || items[0].ID != bus.ID {
			t.Fatalf("kind filter returned wrong items: %v", items)
		}
	})

	t.Run("filter by destination", func(t *testing.T) {
		items, err := svc.List(context.Background(), repositories.Filter{Destination: "Boston"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(items) != 1 || items[0].ID != bus.ID {
			t.Fatalf("destination filter returned wrong items: %v", items)
		}
	})
}

func TestGetByID(t *testing.T) {
	car := mustItem(t, models.KindCar, "Toyota Camry", 4599, 1)
	repo := &fakeItemRepo{items: []*models.Item{car}}
	svc := NewCatalogService(repo, nil)

	t.Run("found", func(t *testing.T) {
		got, err := svc.GetByID(context.Background(), car.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Name != "Toyota Camry" {
			t.Errorf("got name %q", got.Name)
		}
		if got.RateBasis != models.PerDay {
			t.Errorf("car rate basis = %q, want per_day", got.RateBasis)
		}
	})

	t.Run("unknown id wraps ErrItemNotFound", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), uuid.New())
		if !errors.Is(err, domain.ErrItemNotFound) {
			t.Fatalf("got %v, want ErrItemNotFound", err)
		}
	})

	t.Run("nil cache queries repository directly", func(t *testing.T) {
		before := repo.calls
		if _, err := svc.GetByID(context.Background(), car.ID); err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if repo.calls != before+1 {
			t.Errorf("repo calls = %d, want %d", repo.calls, before+1)
		}
	})
}

func TestCachedItemMapping(t *testing.T) {
	flight := mustItem(t, models.KindFlight, "SFO to SEA", 14999, 140)
	flight.Location = "San Francisco"
	flight.Category = "Economy"
	flight.Available = 67
	flight.Attrs = map[string]string{"origin": "San Francisco (SFO)", "destination": "Seattle (SEA)"}

	back := cachedToItem(itemToCached(flight))

	if back.ID != flight.ID {
		t.Errorf("id mismatch: %s != %s", back.ID, flight.ID)
	}
	if back.Rate.Cents() != 14999 {
		t.Errorf("rate = %d cents, want 14999", back.Rate.Cents())
	}
	if back.RateBasis != models.PerSeat {
		t.Errorf("rate basis = %q, want per_seat", back.RateBasis)
	}
	if back.Available != 67 || back.TotalCapacity != 140 {
		t.Errorf("capacity %d/%d, want 67/140", back.Available, back.TotalCapacity)
	}
	if back.Attrs["destination"] != "Seattle (SEA)" {
		t.Errorf("attrs lost in mapping: %v", back.Attrs)
	}
	if err := back.CheckInvariant(); err != nil {
		t.Error(err)
	}
}
