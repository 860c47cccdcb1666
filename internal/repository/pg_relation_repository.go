package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/openshelf/catalog-service/internal/domain"
)

// Compile-time interface verification.
var _ RelationRepository = (*PgRelationRepository)(nil)

// PgRelationRepository is a PostgreSQL implementation of RelationRepository.
type PgRelationRepository struct {
	db DB
}

// NewPgRelationRepository creates a new PostgreSQL relation repository.
func NewPgRelationRepository(db DB) *PgRelationRepository {
	return &PgRelationRepository{db: db}
}

// ItemsForCategory retrieves all items linked to a category.
// The category is checked first so a missing anchor is distinguishable
// from a category that simply has no linked items.
func (r *PgRelationRepository) ItemsForCategory(ctx context.Context, categoryID int64) ([]*domain.Item, error) {
	var exists bool
	existsQuery := `SELECT EXISTS (SELECT 1 FROM categories WHERE "categoryId" = $1)`
	if err := r.db.QueryRow(ctx, existsQuery, categoryID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check category existence: %w", err)
	}
	if !exists {
		return nil, domain.NewNotFoundError("category", strconv.FormatInt(categoryID, 10))
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM items i
		INNER JOIN categoryitems ci ON i."itemId" = ci."categoryitemItemId"
		WHERE ci."categoryitemCategoryId" = $1
		ORDER BY i."itemName"`, prefixColumns("i", itemColumns))

	rows, err := r.db.Query(ctx, selectQuery, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for category: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.Item, 0)
	for rows.Next() {
		item, err := scanItemFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// CategoriesForItem retrieves all categories an item is linked to.
// The item is checked first so a missing anchor is distinguishable
// from an item that simply has no linked categories.
func (r *PgRelationRepository) CategoriesForItem(ctx context.Context, itemID int64) ([]*domain.Category, error) {
	var exists bool
	existsQuery := `SELECT EXISTS (SELECT 1 FROM items WHERE "itemId" = $1)`
	if err := r.db.QueryRow(ctx, existsQuery, itemID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check item existence: %w", err)
	}
	if !exists {
		return nil, domain.NewNotFoundError("item", strconv.FormatInt(itemID, 10))
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM categories c
		INNER JOIN categoryitems ci ON c."categoryId" = ci."categoryitemCategoryId"
		WHERE ci."categoryitemItemId" = $1
		ORDER BY c."categoryName"`, prefixColumns("c", categoryColumns))

	rows, err := r.db.Query(ctx, selectQuery, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories for item: %w", err)
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		category, err := scanCategoryFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Link associates an item with a category inside its own transaction scope.
func (r *PgRelationRepository) Link(ctx context.Context, categoryID, itemID int64) error {
	return withTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO categoryitems ("categoryitemCategoryId", "categoryitemItemId")
			VALUES ($1, $2)`

		if _, err := tx.Exec(ctx, query, categoryID, itemID); err != nil {
			return classifyPgError(fmt.Errorf("failed to link item to category: %w", err), "category item link")
		}
		return nil
	})
}

// Unlink removes the association between an item and a category.
func (r *PgRelationRepository) Unlink(ctx context.Context, categoryID, itemID int64) error {
	return withTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			DELETE FROM categoryitems
			WHERE "categoryitemCategoryId" = $1 AND "categoryitemItemId" = $2`

		tag, err := tx.Exec(ctx, query, categoryID, itemID)
		if err != nil {
			return fmt.Errorf("failed to unlink item from category: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.NewNotFoundError("category item link", fmt.Sprintf("category=%d, item=%d", categoryID, itemID))
		}
		return nil
	})
}
