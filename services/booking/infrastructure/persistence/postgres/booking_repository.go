package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/wayfare/pkg/database"
	"github.com/ghuser/wayfare/pkg/events"
	bookingdomain "github.com/ghuser/wayfare/services/booking/domain"
	domainevents "github.com/ghuser/wayfare/services/booking/domain/events"
	"github.com/ghuser/wayfare/services/booking/domain/models"
	catalogmodels "github.com/ghuser/wayfare/services/catalog/domain/models"
)

// BookingRepository implements repositories.BookingRepository against
// PostgreSQL. The reconciliation contract lives here: a ledger write and its
// catalog capacity delta always share one transaction, and lifecycle events
// are published through the same transaction (outbox pattern).
type BookingRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewBookingRepository returns a BookingRepository backed by the given
// connection pool and event bus. A nil bus disables event publishing.
func NewBookingRepository(database *database.Database, bus *events.EventBus) *BookingRepository {
	return &BookingRepository{db: database, bus: bus}
}

const bookingColumns = `id, item_id, kind, item_name, attrs, quantity,
	rate_cents, total_cents, status, created_at, cancelled_at`

// Create appends a confirmed booking and decrements the item's availability
// by capacityDelta in one transaction. The conditional UPDATE is the
// oversell guard: it only matches while enough capacity remains, so two
// racing commits can never both succeed on the last units. On a failed
// guard nothing is persisted and ErrInsufficientCapacity is returned.
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking, capacityDelta int) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE items
			 SET available = available - $1, updated_at = $2
			 WHERE id = $3 AND available >= $1`,
			capacityDelta, time.Now().UTC(), b.ItemID)
		if err != nil {
			return fmt.Errorf("decrement capacity: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("decrement capacity: %w", err)
		}
		if affected == 0 {
			return bookingdomain.ErrInsufficientCapacity
		}

		attrsRaw, err := json.Marshal(b.Attrs)
		if err != nil {
			return fmt.Errorf("encode attrs: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bookings
			 (id, item_id, kind, item_name, attrs, quantity, rate_cents, total_cents, status, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			b.ID, b.ItemID, string(b.Kind), b.ItemName, attrsRaw, b.Quantity,
			b.Rate.Cents(), b.Total.Cents(), string(b.Status), b.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}

		if r.bus != nil {
			if err := r.publishConfirmed(tx, b); err != nil {
				return fmt.Errorf("publish booking confirmed: %w", err)
			}
		}
		return nil
	})
}

// CancelAndRelease transitions a confirmed booking to cancelled and restores
// its capacity delta in one transaction. The status guard on the UPDATE makes
// repeat cancellations report ErrBookingNotFound without touching capacity,
// so double-cancel can never over-restore.
func (r *BookingRepository) CancelAndRelease(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var cancelled *models.Booking
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		row := tx.QueryRowContext(ctx,
			`UPDATE bookings
			 SET status = $1, cancelled_at = $2
			 WHERE id = $3 AND status = $4
			 RETURNING `+bookingColumns,
			string(models.StatusCancelled), now, id, string(models.StatusConfirmed))

		b, err := scanBooking(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return bookingdomain.ErrBookingNotFound
			}
			return fmt.Errorf("cancel booking: %w", err)
		}

		// LEAST caps the restore at total capacity so a drifted counter can
		// never be pushed past the ceiling.
		delta := capacityDelta(b)
		if _, err := tx.ExecContext(ctx,
			`UPDATE items
			 SET available = LEAST(total_capacity, available + $1), updated_at = $2
			 WHERE id = $3`,
			delta, now, b.ItemID); err != nil {
			return fmt.Errorf("restore capacity: %w", err)
		}

		if r.bus != nil {
			if err := r.publishCancelled(tx, b); err != nil {
				return fmt.Errorf("publish booking cancelled: %w", err)
			}
		}
		cancelled = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// GetByID returns a booking by identity. Returns ErrBookingNotFound if absent.
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	row := r.db.DB().QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bookingdomain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("query booking: %w", err)
	}
	return b, nil
}

// List returns all bookings in insertion order.
func (r *BookingRepository) List(ctx context.Context) ([]*models.Booking, error) {
	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return bookings, nil
}

// capacityDelta recomputes the capacity units a booking holds from its kind:
// per-day inventory holds one vehicle regardless of duration.
func capacityDelta(b *models.Booking) int {
	if catalogmodels.BasisForKind(b.Kind) == catalogmodels.PerDay {
		return 1
	}
	return b.Quantity
}

func (r *BookingRepository) publishConfirmed(tx *sql.Tx, b *models.Booking) error {
	event := domainevents.BookingConfirmedEvent{
		EventID:    uuid.New(),
		Version:    1,
		BookingID:  b.ID,
		ItemID:     b.ItemID,
		Kind:       b.Kind,
		ItemName:   b.ItemName,
		Quantity:   b.Quantity,
		TotalCents: b.Total.Cents(),
		OccurredAt: b.CreatedAt,
	}
	return r.publish(tx, domainevents.TopicBookingConfirmed, event.EventID, event)
}

func (r *BookingRepository) publishCancelled(tx *sql.Tx, b *models.Booking) error {
	occurredAt := time.Now().UTC()
	if b.CancelledAt != nil {
		occurredAt = *b.CancelledAt
	}
	event := domainevents.BookingCancelledEvent{
		EventID:    uuid.New(),
		Version:    1,
		BookingID:  b.ID,
		ItemID:     b.ItemID,
		Kind:       b.Kind,
		Quantity:   b.Quantity,
		OccurredAt: occurredAt,
	}
	return r.publish(tx, domainevents.TopicBookingCancelled, event.EventID, event)
}

func (r *BookingRepository) publish(tx *sql.Tx, topic string, eventID uuid.UUID, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", eventID.String())
	msg.Metadata.Set("event_version", "1")
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(topic, msg)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var (
		b           models.Booking
		kind        string
		status      string
		rateCents   int64
		totalCents  int64
		attrsRaw    []byte
		cancelledAt sql.NullTime
	)
	if err := row.Scan(
		&b.ID, &b.ItemID, &kind, &b.ItemName, &attrsRaw, &b.Quantity,
		&rateCents, &totalCents, &status, &b.CreatedAt, &cancelledAt,
	); err != nil {
		return nil, err
	}

	b.Kind = catalogmodels.Kind(kind)
	b.Status = models.Status(status)
	b.Rate = catalogmodels.MoneyFromCents(rateCents)
	b.Total = catalogmodels.MoneyFromCents(totalCents)
	b.Attrs = map[string]string{}
	if len(attrsRaw) > 0 {
		if err := json.Unmarshal(attrsRaw, &b.Attrs); err != nil {
			return nil, fmt.Errorf("decode attrs: %w", err)
		}
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}
	return &b, nil
}
