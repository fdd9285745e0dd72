package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgcache "github.com/ghuser/wayfare/pkg/cache"
	"github.com/ghuser/wayfare/pkg/logger"
	"github.com/ghuser/wayfare/pkg/telemetry"
	bookingdomain "github.com/ghuser/wayfare/services/booking/domain"
	"github.com/ghuser/wayfare/services/booking/domain/models"
	"github.com/ghuser/wayfare/services/booking/domain/repositories"
	domainsvcs "github.com/ghuser/wayfare/services/booking/domain/services"
	catalogmodels "github.com/ghuser/wayfare/services/catalog/domain/models"
	catalogrepos "github.com/ghuser/wayfare/services/catalog/domain/repositories"
)

// AvailabilityReserver is the Redis fast-path in front of the database's
// conditional capacity UPDATE. Implemented by pkg/cache.AvailabilityCache;
// faked in tests.
type AvailabilityReserver interface {
	Reserve(ctx context.Context, itemID uuid.UUID, delta int) (pkgcache.ReserveResult, error)
	Release(ctx context.Context, itemID uuid.UUID, delta int) error
	Seed(ctx context.Context, itemID uuid.UUID, available int) error
}

// Quotation is a priced, clamped reservation preview. Nothing is held;
// capacity is only consumed by Commit.
type Quotation struct {
	Item     *catalogmodels.Item
	Quantity int
	Total    catalogmodels.Money
}

// BookingService orchestrates the booking lifecycle: quote, commit, cancel,
// list. Quantity clamping and pricing are pure domain services; the
// repository owns the reconciliation transaction.
type BookingService struct {
	items    catalogrepos.ItemRepository
	bookings repositories.BookingRepository
	avail    AvailabilityReserver
	caps     domainsvcs.Caps
	metrics  *telemetry.BookingMetrics
	log      logger.Logger
}

// NewBookingService wires a BookingService. avail and metrics may be nil;
// both paths degrade gracefully.
func NewBookingService(
	items catalogrepos.ItemRepository,
	bookings repositories.BookingRepository,
	avail AvailabilityReserver,
	caps domainsvcs.Caps,
	metrics *telemetry.BookingMetrics,
	log logger.Logger,
) *BookingService {
	return &BookingService{
		items:    items,
		bookings: bookings,
		avail:    avail,
		caps:     caps,
		metrics:  metrics,
		log:      log,
	}
}

// Quote validates and prices a prospective booking without reserving
// anything. The returned quantity may be lower than requested when caps or
// availability clamp it.
func (s *BookingService) Quote(ctx context.Context, itemID uuid.UUID, requested int) (*Quotation, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}

	quantity, err := domainsvcs.ClampQuantity(item, requested, s.caps)
	if err != nil {
		return nil, err
	}

	total, err := domainsvcs.Quote(item, quantity)
	if err != nil {
		return nil, err
	}

	return &Quotation{Item: item, Quantity: quantity, Total: total}, nil
}

// Commit turns a request into a confirmed ledger entry. The flow re-reads
// the item, re-clamps, re-prices, tries the Redis fast path, then hands the
// write to the repository's single reconciliation transaction. A fast-path
// reservation whose database write fails is rolled back so the counter
// cannot leak capacity.
func (s *BookingService) Commit(ctx context.Context, itemID uuid.UUID, requested int) (*models.Booking, error) {
	start := time.Now()

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	quantity, err := domainsvcs.ClampQuantity(item, requested, s.caps)
	if err != nil {
		return nil, err
	}
	total, err := domainsvcs.Quote(item, quantity)
	if err != nil {
		return nil, err
	}

	delta := item.CapacityDelta(quantity)

	reserved, err := s.reserveFastPath(ctx, item, delta)
	if err != nil {
		s.recordConflict(ctx, item.Kind)
		return nil, err
	}

	booking := models.NewBooking(item, quantity, total)
	if err := s.bookings.Create(ctx, booking, delta); err != nil {
		if reserved {
			s.releaseFastPath(ctx, item.ID, delta)
		}
		if errors.Is(err, bookingdomain.ErrInsufficientCapacity) {
			s.recordConflict(ctx, item.Kind)
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordConfirmed(ctx, string(item.Kind))
		s.metrics.RecordCommitDuration(ctx, time.Since(start).Seconds())
	}
	s.log.InfoContext(ctx, "booking confirmed",
		"booking_id", booking.ID,
		"item_id", item.ID,
		"kind", item.Kind,
		"quantity", quantity,
		"total", total.String(),
	)
	return booking, nil
}

// Cancel transitions a booking to cancelled and restores its capacity.
// Cancelling an unknown or already-cancelled booking returns
// ErrBookingNotFound without mutating anything — callers treat it as benign.
func (s *BookingService) Cancel(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookings.CancelAndRelease(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.avail != nil {
		delta := booking.Quantity
		if catalogmodels.BasisForKind(booking.Kind) == catalogmodels.PerDay {
			delta = 1
		}
		if relErr := s.avail.Release(ctx, booking.ItemID, delta); relErr != nil {
			s.log.WarnContext(ctx, "availability counter release failed",
				"item_id", booking.ItemID, "error", relErr)
		}
	}

	if s.metrics != nil {
		s.metrics.RecordCancelled(ctx, string(booking.Kind))
	}
	s.log.InfoContext(ctx, "booking cancelled",
		"booking_id", booking.ID,
		"item_id", booking.ItemID,
	)
	return booking, nil
}

// GetByID returns one ledger entry.
func (s *BookingService) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// List returns the full ledger in insertion order.
func (s *BookingService) List(ctx context.Context) ([]*models.Booking, error) {
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// reserveFastPath tries the Redis availability counter before the database
// transaction. Returns (true, nil) when a counter was decremented, (false,
// nil) when the counter is unavailable and the database guard decides alone,
// and an error when the counter proves capacity is short.
//
// A cold counter is seeded from the item snapshot just read. The snapshot
// may already be stale, which only makes the counter conservative or lets a
// doomed request through to the database guard — never an oversell.
func (s *BookingService) reserveFastPath(ctx context.Context, item *catalogmodels.Item, delta int) (bool, error) {
	if s.avail == nil {
		return false, nil
	}

	res, err := s.avail.Reserve(ctx, item.ID, delta)
	if err != nil {
		s.log.WarnContext(ctx, "availability counter unavailable",
			"item_id", item.ID, "error", err)
		return false, nil
	}
	if res == pkgcache.ReserveMiss {
		if err := s.avail.Seed(ctx, item.ID, item.Available); err != nil {
			return false, nil
		}
		res, err = s.avail.Reserve(ctx, item.ID, delta)
		if err != nil || res == pkgcache.ReserveMiss {
			return false, nil
		}
	}
	if res == pkgcache.ReserveShort {
		return false, fmt.Errorf("%w: item %s", bookingdomain.ErrInsufficientCapacity, item.ID)
	}
	return true, nil
}

func (s *BookingService) releaseFastPath(ctx context.Context, itemID uuid.UUID, delta int) {
	if err := s.avail.Release(ctx, itemID, delta); err != nil {
		s.log.WarnContext(ctx, "availability counter rollback failed",
			"item_id", itemID, "error", err)
	}
}

func (s *BookingService) recordConflict(ctx context.Context, kind catalogmodels.Kind) {
	if s.metrics != nil {
		s.metrics.RecordCapacityConflict(ctx, string(kind))
	}
}
