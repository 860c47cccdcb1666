package repository

import (
	"context"

	"github.com/openshelf/catalog-service/internal/domain"
)

// ItemRepository handles catalog item persistence.
type ItemRepository interface {
	// List retrieves every item ordered by name.
	List(ctx context.Context) ([]*domain.Item, error)

	// GetByID retrieves an item by its identifier.
	// Returns domain.ErrNotFound if no matching item exists.
	GetByID(ctx context.Context, id int64) (*domain.Item, error)

	// FindByName retrieves an item by its exact name.
	// Used by the import flow for deduplication.
	// Returns domain.ErrNotFound if no matching item exists.
	FindByName(ctx context.Context, name string) (*domain.Item, error)

	// Create inserts a new item and returns the stored row.
	// The creation UUID and timestamp are assigned server-side.
	Create(ctx context.Context, input domain.ItemCreate) (*domain.Item, error)

	// Replace overwrites every client-writable field of an existing item.
	// Returns domain.ErrNotFound if the item does not exist.
	Replace(ctx context.Context, id int64, input domain.ItemCreate) (*domain.Item, error)

	// Patch applies a partial update. Only fields marked as set are touched;
	// fields set to explicit null are cleared where the column is nullable.
	// An empty patch is a successful no-op that returns the current row.
	Patch(ctx context.Context, id int64, patch domain.ItemPatch) (*domain.Item, error)

	// Delete removes an item and, via cascade, its category links.
	// Returns domain.ErrNotFound if the item does not exist.
	Delete(ctx context.Context, id int64) error
}
