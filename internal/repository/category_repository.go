package repository

import (
	"context"

	"github.com/openshelf/catalog-service/internal/domain"
)

// CategoryRepository handles category persistence.
type CategoryRepository interface {
	// List retrieves every category ordered by name.
	List(ctx context.Context) ([]*domain.Category, error)

	// GetByID retrieves a category by its identifier.
	// Returns domain.ErrNotFound if no matching category exists.
	GetByID(ctx context.Context, id int64) (*domain.Category, error)

	// Create inserts a new category and returns the stored row.
	// The creation UUID and timestamp are assigned server-side.
	// Returns domain.ErrConflict when the name is already taken.
	Create(ctx context.Context, input domain.CategoryCreate) (*domain.Category, error)

	// Replace overwrites every client-writable field of an existing category.
	// Returns domain.ErrNotFound if the category does not exist and
	// domain.ErrConflict when the new name collides with another category.
	Replace(ctx context.Context, id int64, input domain.CategoryCreate) (*domain.Category, error)

	// Patch applies a partial update. Only fields marked as set are touched;
	// fields set to explicit null are cleared where the column is nullable.
	// An empty patch is a successful no-op that returns the current row.
	Patch(ctx context.Context, id int64, patch domain.CategoryPatch) (*domain.Category, error)

	// Delete removes a category and, via cascade, its item links.
	// Returns domain.ErrNotFound if the category does not exist.
	Delete(ctx context.Context, id int64) error
}
