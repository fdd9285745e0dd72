package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	pkgcache "github.com/ghuser/wayfare/pkg/cache"
	"github.com/ghuser/wayfare/pkg/config"
	"github.com/ghuser/wayfare/pkg/logger"
	bookingdomain "github.com/ghuser/wayfare/services/booking/domain"
	"github.com/ghuser/wayfare/services/booking/domain/models"
	domainsvcs "github.com/ghuser/wayfare/services/booking/domain/services"
	catalogdomain "github.com/ghuser/wayfare/services/catalog/domain"
	catalogmodels "github.com/ghuser/wayfare/services/catalog/domain/models"
	catalogrepos "github.com/ghuser/wayfare/services/catalog/domain/repositories"
)

// fakeItemRepo serves items from memory.
type fakeItemRepo struct {
	items map[uuid.UUID]*catalogmodels.Item
}

func (f *fakeItemRepo) GetByID(_ context.Context, id uuid.UUID) (*catalogmodels.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, catalogdomain.ErrItemNotFound
	}
	// Return a snapshot the way a row scan would.
	copied := *item
	return &copied, nil
}

func (f *fakeItemRepo) List(_ context.Context, _ catalogrepos.Filter) ([]*catalogmodels.Item, error) {
	var out []*catalogmodels.Item
	for _, item := range f.items {
		copied := *item
		out = append(out, &copied)
	}
	return out, nil
}

// fakeBookingRepo mirrors the reconciliation contract in memory: the
// capacity delta and the ledger row change together or not at all.
type fakeBookingRepo struct {
	items    map[uuid.UUID]*catalogmodels.Item
	rows     []*models.Booking
	failNext error // next Create returns this error without persisting
}

func (f *fakeBookingRepo) Create(_ context.Context, b *models.Booking, capacityDelta int) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	item, ok := f.items[b.ItemID]
	if !ok {
		return catalogdomain.ErrItemNotFound
	}
	if !item.Reserve(capacityDelta) {
		return bookingdomain.ErrInsufficientCapacity
	}
	copied := *b
	f.rows = append(f.rows, &copied)
	return nil
}

func (f *fakeBookingRepo) CancelAndRelease(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	for _, row := range f.rows {
		if row.ID == id && row.Status == models.StatusConfirmed {
			row.Cancel()
			delta := row.Quantity
			if catalogmodels.BasisForKind(row.Kind) == catalogmodels.PerDay {
				delta = 1
			}
			f.items[row.ItemID].Release(delta)
			copied := *row
			return &copied, nil
		}
	}
	return nil, bookingdomain.ErrBookingNotFound
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	for _, row := range f.rows {
		if row.ID == id {
			copied := *row
			return &copied, nil
		}
	}
	return nil, bookingdomain.ErrBookingNotFound
}

func (f *fakeBookingRepo) List(_ context.Context) ([]*models.Booking, error) {
	out := make([]*models.Booking, len(f.rows))
	for i, row := range f.rows {
		copied := *row
		out[i] = &copied
	}
	return out, nil
}

// fakeAvail is an in-memory availability counter.
type fakeAvail struct {
	counters map[uuid.UUID]int
}

func (f *fakeAvail) Reserve(_ context.Context, itemID uuid.UUID, delta int) (pkgcache.ReserveResult, error) {
	current, ok := f.counters[itemID]
	if !ok {
		return pkgcache.ReserveMiss, nil
	}
	if current >= delta {
		f.counters[itemID] = current - delta
		return pkgcache.ReserveOK, nil
	}
	return pkgcache.ReserveShort, nil
}

func (f *fakeAvail) Release(_ context.Context, itemID uuid.UUID, delta int) error {
	if _, ok := f.counters[itemID]; ok {
		f.counters[itemID] += delta
	}
	return nil
}

func (f *fakeAvail) Seed(_ context.Context, itemID uuid.UUID, available int) error {
	f.counters[itemID] = available
	return nil
}

type fixture struct {
	svc      *BookingService
	items    *fakeItemRepo
	bookings *fakeBookingRepo
	avail    *fakeAvail
}

func newFixture(t *testing.T, withAvail bool, seed ...*catalogmodels.Item) *fixture {
	t.Helper()
	items := map[uuid.UUID]*catalogmodels.Item{}
	for _, item := range seed {
		items[item.ID] = item
	}
	itemRepo := &fakeItemRepo{items: items}
	bookingRepo := &fakeBookingRepo{items: items}

	var avail *fakeAvail
	var reserver AvailabilityReserver
	if withAvail {
		avail = &fakeAvail{counters: map[uuid.UUID]int{}}
		reserver = avail
	}

	log := logger.New(&config.Config{LogLevel: "error"})
	svc := NewBookingService(itemRepo, bookingRepo, reserver, domainsvcs.DefaultCaps, nil, log)
	return &fixture{svc: svc, items: itemRepo, bookings: bookingRepo, avail: avail}
}

func newEvent(t *testing.T, name string, rateCents int64, capacity int) *catalogmodels.Item {
	t.Helper()
	item, err := catalogmodels.NewItem(catalogmodels.KindEvent, name, catalogmodels.MoneyFromCents(rateCents), capacity)
	if err != nil {
		t.Fatalf("new item: %v", err)
	}
	return item
}

func newCar(t *testing.T, name string, dayRateCents int64) *catalogmodels.Item {
	t.Helper()
	item, err := catalogmodels.NewItem(catalogmodels.KindCar, name, catalogmodels.MoneyFromCents(dayRateCents), 1)
	if err != nil {
		t.Fatalf("new item: %v", err)
	}
	return item
}

func TestQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("prices without reserving", func(t *testing.T) {
		item := newEvent(t, "Jazz Night", 4599, 100)
		fx := newFixture(t, false, item)

		q, err := fx.svc.Quote(ctx, item.ID, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Quantity != 3 {
			t.Errorf("expected quantity 3, got %d", q.Quantity)
		}
		if q.Total.Cents() != 13797 {
			t.Errorf("expected total 13797 cents, got %d", q.Total.Cents())
		}
		if item.Available != 100 {
			t.Errorf("quote must not consume capacity, available = %d", item.Available)
		}
	})

	t.Run("clamps oversized requests", func(t *testing.T) {
		item := newEvent(t, "Jazz Night", 4599, 100)
		fx := newFixture(t, false, item)

		q, err := fx.svc.Quote(ctx, item.ID, 45)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Quantity != 10 {
			t.Errorf("expected clamp to 10, got %d", q.Quantity)
		}
	})

	t.Run("rejects sold-out items", func(t *testing.T) {
		item := newEvent(t, "Jazz Night", 4599, 0)
		fx := newFixture(t, false, item)

		_, err := fx.svc.Quote(ctx, item.ID, 1)
		if !errors.Is(err, bookingdomain.ErrInvalidQuantity) {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
	})

	t.Run("unknown item", func(t *testing.T) {
		fx := newFixture(t, false)
		_, err := fx.svc.Quote(ctx, uuid.New(), 1)
		if !errors.Is(err, catalogdomain.ErrItemNotFound) {
			t.Fatalf("expected ErrItemNotFound, got %v", err)
		}
	})
}

func TestCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("confirms and decrements capacity", func(t *testing.T) {
		item := newEvent(t, "Jazz Night", 4599, 100)
		fx := newFixture(t, false, item)

		booking, err := fx.svc.Commit(ctx, item.ID, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.Status != models.StatusConfirmed {
			t.Errorf("expected confirmed, got %s", booking.Status)
		}
		if booking.Total.Cents() != 13797 {
			t.Errorf("expected 13797 cents, got %d", booking.Total.Cents())
		}
		if item.Available != 97 {
			t.Errorf("expected available 97, got %d", item.Available)
		}
	})

	t.Run("exhausting capacity rejects the next request", func(t *testing.T) {
		item := newEvent(t, "Small Venue", 2000, 5)
		fx := newFixture(t, false, item)

		if _, err := fx.svc.Commit(ctx, item.ID, 5); err != nil {
			t.Fatalf("first commit: %v", err)
		}
		_, err := fx.svc.Commit(ctx, item.ID, 1)
		if !errors.Is(err, bookingdomain.ErrInvalidQuantity) {
			t.Fatalf("expected sold-out rejection, got %v", err)
		}
		if item.Available != 0 {
			t.Errorf("expected available 0, got %d", item.Available)
		}
	})

	t.Run("capacity race surfaces ErrInsufficientCapacity", func(t *testing.T) {
		item := newEvent(t, "Jazz Night", 4599, 100)
		fx := newFixture(t, false, item)
		fx.bookings.failNext = bookingdomain.ErrInsufficientCapacity

		_, err := fx.svc.Commit(ctx, item.ID, 2)
		if !errors.Is(err, bookingdomain.ErrInsufficientCapacity) {
			t.Fatalf("expected ErrInsufficientCapacity, got %v", err)
		}
		if len(fx.bookings.rows) != 0 {
			t.Error("failed commit must not leave a ledger row")
		}
	})

	t.Run("car rental holds one vehicle for the whole duration", func(t *testing.T) {
		car := newCar(t, "Compact Sedan", 8500)
		fx := newFixture(t, false, car)

		booking, err := fx.svc.Commit(ctx, car.ID, 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.Quantity != 7 {
			t.Errorf("expected 7 rental days, got %d", booking.Quantity)
		}
		if booking.Total.Cents() != 59500 {
			t.Errorf("expected 59500 cents, got %d", booking.Total.Cents())
		}
		if car.Available != 0 {
			t.Errorf("expected vehicle taken, available = %d", car.Available)
		}

		_, err = fx.svc.Commit(ctx, car.ID, 2)
		if !errors.Is(err, bookingdomain.ErrInvalidQuantity) {
			t.Fatalf("expected rejection while vehicle is out, got %v", err)
		}
	})
}

func TestCommit_FastPath(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds counter and reserves", func(t *testing.T) {
		item := newEvent(t, "Jazz Night", 4599, 100)
		fx := newFixture(t, true, item)

		if _, err := fx.svc.Commit(ctx, item.ID, 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := fx.avail.counters[item.ID]; got != 97 {
			t.Errorf("expected counter 97, got %d", got)
		}
	})

	t.Run("stale-short counter rejects before the database", func(t *testing.T) {
		item := newEvent(t, "Jazz Night", 4599, 100)
		fx := newFixture(t, true, item)
		fx.avail.counters[item.ID] = 0

		_, err := fx.svc.Commit(ctx, item.ID, 1)
		if !errors.Is(err, bookingdomain.ErrInsufficientCapacity) {
			t.Fatalf("expected ErrInsufficientCapacity, got %v", err)
		}
		if len(fx.bookings.rows) != 0 {
			t.Error("fast-path rejection must not reach the ledger")
		}
	})

	t.Run("database failure rolls the counter back", func(t *testing.T) {
		item := newEvent(t, "Jazz Night", 4599, 100)
		fx := newFixture(t, true, item)
		fx.avail.counters[item.ID] = 100
		fx.bookings.failNext = errors.New("connection reset")

		if _, err := fx.svc.Commit(ctx, item.ID, 4); err == nil {
			t.Fatal("expected error")
		}
		if got := fx.avail.counters[item.ID]; got != 100 {
			t.Errorf("expected counter restored to 100, got %d", got)
		}
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("restores exactly the booked capacity", func(t *testing.T) {
		item := newEvent(t, "Jazz Night", 4599, 100)
		fx := newFixture(t, false, item)

		booking, err := fx.svc.Commit(ctx, item.ID, 3)
		if err != nil {
			t.Fatalf("commit: %v", err)
		}
		if item.Available != 97 {
			t.Fatalf("expected 97 before cancel, got %d", item.Available)
		}

		cancelled, err := fx.svc.Cancel(ctx, booking.ID)
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if cancelled.Status != models.StatusCancelled {
			t.Errorf("expected cancelled, got %s", cancelled.Status)
		}
		if cancelled.CancelledAt == nil {
			t.Error("expected CancelledAt to be set")
		}
		if item.Available != 100 {
			t.Errorf("expected available restored to 100, got %d", item.Available)
		}
	})

	t.Run("unknown id is benign and mutates nothing", func(t *testing.T) {
		item := newEvent(t, "Jazz Night", 4599, 100)
		fx := newFixture(t, false, item)

		_, err := fx.svc.Cancel(ctx, uuid.New())
		if !errors.Is(err, bookingdomain.ErrBookingNotFound) {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
		if item.Available != 100 {
			t.Errorf("cancel of unknown id must not touch capacity, got %d", item.Available)
		}
	})

	t.Run("double cancel restores once", func(t *testing.T) {
		item := newEvent(t, "Jazz Night", 4599, 100)
		fx := newFixture(t, false, item)

		booking, _ := fx.svc.Commit(ctx, item.ID, 2)
		if _, err := fx.svc.Cancel(ctx, booking.ID); err != nil {
			t.Fatalf("first cancel: %v", err)
		}
		_, err := fx.svc.Cancel(ctx, booking.ID)
		if !errors.Is(err, bookingdomain.ErrBookingNotFound) {
			t.Fatalf("expected ErrBookingNotFound on repeat, got %v", err)
		}
		if item.Available != 100 {
			t.Errorf("repeat cancel must not over-restore, got %d", item.Available)
		}
	})

	t.Run("releases the fast-path counter", func(t *testing.T) {
		item := newEvent(t, "Jazz Night", 4599, 100)
		fx := newFixture(t, true, item)

		booking, err := fx.svc.Commit(ctx, item.ID, 3)
		if err != nil {
			t.Fatalf("commit: %v", err)
		}
		if _, err := fx.svc.Cancel(ctx, booking.ID); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if got := fx.avail.counters[item.ID]; got != 100 {
			t.Errorf("expected counter restored to 100, got %d", got)
		}
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()
	item := newEvent(t, "Jazz Night", 4599, 100)
	fx := newFixture(t, false, item)

	first, _ := fx.svc.Commit(ctx, item.ID, 1)
	second, _ := fx.svc.Commit(ctx, item.ID, 2)

	got, err := fx.svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Error("expected insertion order")
	}
}
