package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/wayfare/services/catalog/domain/models"
)

// Filter narrows List results. Zero values mean "no constraint"; matching is
// a linear predicate scan in insertion order.
type Filter struct {
	Kind     models.Kind
	Category string
	// Origin and Destination match route attrs for bus and flight inventory.
	Origin      string
	Destination string
}

// ItemRepository is the persistence interface for the inventory catalog.
// The domain layer owns this interface; infrastructure implements it.
//
// Available is never written through this interface — capacity deltas are
// applied only by the booking ledger's reconciliation transaction.
type ItemRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)

	// List returns items matching the filter in insertion order.
	List(ctx context.Context, f Filter) ([]*models.Item, error)
}
