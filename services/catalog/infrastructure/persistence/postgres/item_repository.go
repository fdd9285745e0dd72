package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/wayfare/pkg/database"
	catalogdomain "github.com/ghuser/wayfare/services/catalog/domain"
	"github.com/ghuser/wayfare/services/catalog/domain/models"
	"github.com/ghuser/wayfare/services/catalog/domain/repositories"
)

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
// The catalog is read-only through this repository; availability is written
// exclusively by the booking ledger's reconciliation transaction.
type ItemRepository struct {
	db *database.Database
}

// NewItemRepository returns an ItemRepository backed by the given connection pool.
func NewItemRepository(database *database.Database) *ItemRepository {
	return &ItemRepository{db: database}
}

const itemColumns = `id, kind, name, description, location, category,
	rate_cents, rate_basis, total_capacity, available, attrs, created_at, updated_at`

// GetByID retrieves an Item by ID. Returns ErrItemNotFound if not found.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	row := r.db.DB().QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = $1`, id)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalogdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("query item: %w", err)
	}
	return item, nil
}

// List returns items matching the filter in insertion order. Origin and
// destination match the JSONB attrs of route inventory.
func (r *ItemRepository) List(ctx context.Context, f repositories.Filter) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE 1=1`
	args := []any{}

	if f.Kind != "" {
		args = append(args, string(f.Kind))
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.Origin != "" {
		args = append(args, f.Origin)
		query += fmt.Sprintf(" AND attrs->>'origin' = $%d", len(args))
	}
	if f.Destination != "" {
		args = append(args, f.Destination)
		query += fmt.Sprintf(" AND attrs->>'destination' = $%d", len(args))
	}
	query += " ORDER BY created_at, id"

	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var (
		item      models.Item
		kind      string
		rateBasis string
		rateCents int64
		attrsRaw  []byte
	)
	if err := row.Scan(
		&item.ID, &kind, &item.Name, &item.Description, &item.Location,
		&item.Category, &rateCents, &rateBasis, &item.TotalCapacity,
		&item.Available, &attrsRaw, &item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}

	item.Kind = models.Kind(kind)
	item.RateBasis = models.RateBasis(rateBasis)
	item.Rate = models.MoneyFromCents(rateCents)
	item.Attrs = map[string]string{}
	if len(attrsRaw) > 0 {
		if err := json.Unmarshal(attrsRaw, &item.Attrs); err != nil {
			return nil, fmt.Errorf("decode attrs: %w", err)
		}
	}
	return &item, nil
}
