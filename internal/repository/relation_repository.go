package repository

import (
	"context"

	"github.com/openshelf/catalog-service/internal/domain"
)

// RelationRepository handles the many-to-many relation between categories and items.
type RelationRepository interface {
	// ItemsForCategory retrieves all items linked to a category, ordered by name.
	// Returns domain.ErrNotFound if the category itself does not exist and an
	// empty slice when it exists but has no linked items.
	ItemsForCategory(ctx context.Context, categoryID int64) ([]*domain.Item, error)

	// CategoriesForItem retrieves all categories an item is linked to, ordered by name.
	// Returns domain.ErrNotFound if the item itself does not exist and an
	// empty slice when it exists but has no linked categories.
	CategoriesForItem(ctx context.Context, itemID int64) ([]*domain.Category, error)

	// Link associates an item with a category.
	// Returns domain.ErrNotFound when either side does not exist and
	// domain.ErrConflict when the link already exists.
	Link(ctx context.Context, categoryID, itemID int64) error

	// Unlink removes the association between an item and a category.
	// Returns domain.ErrNotFound when the link does not exist.
	Unlink(ctx context.Context, categoryID, itemID int64) error
}
