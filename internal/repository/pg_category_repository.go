package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/openshelf/catalog-service/internal/domain"
)

// Compile-time interface verification.
var _ CategoryRepository = (*PgCategoryRepository)(nil)

// categoryColumns is the canonical select list for category rows.
const categoryColumns = `"categoryId", "categoryName", "categoryStatusId", "categoryCrUUID", "categoryCrTimestamp", "categoryClientUUID"`

// PgCategoryRepository is a PostgreSQL implementation of CategoryRepository.
type PgCategoryRepository struct {
	db DB
}

// NewPgCategoryRepository creates a new PostgreSQL category repository.
func NewPgCategoryRepository(db DB) *PgCategoryRepository {
	return &PgCategoryRepository{db: db}
}

// List retrieves every category ordered by name.
func (r *PgCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM categories
		ORDER BY "categoryName"`, categoryColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
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

// GetByID retrieves a category by its identifier.
func (r *PgCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM categories
		WHERE "categoryId" = $1`, categoryColumns)

	row := r.db.QueryRow(ctx, query, id)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("category", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}

	return category, nil
}

// Create inserts a new category inside its own transaction scope.
func (r *PgCategoryRepository) Create(ctx context.Context, input domain.CategoryCreate) (*domain.Category, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		INSERT INTO categories ("categoryName", "categoryStatusId", "categoryCrUUID", "categoryClientUUID")
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, categoryColumns)

	var created *domain.Category
	err := withTransaction(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, query, input.Name, int32(input.StatusID), uuid.NewString(), input.ClientUUID)
		category, err := scanCategory(row)
		if err != nil {
			return classifyPgError(fmt.Errorf("failed to create category: %w", err), "category")
		}
		created = category
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Replace overwrites every client-writable field of an existing category.
func (r *PgCategoryRepository) Replace(ctx context.Context, id int64, input domain.CategoryCreate) (*domain.Category, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE categories
		SET "categoryName" = $1, "categoryStatusId" = $2, "categoryClientUUID" = $3
		WHERE "categoryId" = $4
		RETURNING %s`, categoryColumns)

	var replaced *domain.Category
	err := withTransaction(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, query, input.Name, int32(input.StatusID), input.ClientUUID, id)
		category, err := scanCategory(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.NewNotFoundError("category", strconv.FormatInt(id, 10))
			}
			return classifyPgError(fmt.Errorf("failed to replace category: %w", err), "category")
		}
		replaced = category
		return nil
	})
	if err != nil {
		return nil, err
	}

	return replaced, nil
}

// Patch applies a partial update built only from the supplied fields.
// An empty patch reads and returns the current row without opening a
// write transaction.
func (r *PgCategoryRepository) Patch(ctx context.Context, id int64, patch domain.CategoryPatch) (*domain.Category, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	var sets []string
	var args []interface{}
	argIndex := 1

	if patch.Name.IsValue() {
		sets = append(sets, fmt.Sprintf(`"categoryName" = $%d`, argIndex))
		args = append(args, patch.Name.Value)
		argIndex++
	}
	if patch.StatusID.IsValue() {
		sets = append(sets, fmt.Sprintf(`"categoryStatusId" = $%d`, argIndex))
		args = append(args, int32(patch.StatusID.Value))
		argIndex++
	}
	if patch.ClientUUID.Set {
		if patch.ClientUUID.Null {
			sets = append(sets, `"categoryClientUUID" = NULL`)
		} else {
			sets = append(sets, fmt.Sprintf(`"categoryClientUUID" = $%d`, argIndex))
			args = append(args, patch.ClientUUID.Value)
			argIndex++
		}
	}

	query := fmt.Sprintf(`
		UPDATE categories
		SET %s
		WHERE "categoryId" = $%d
		RETURNING %s`, strings.Join(sets, ", "), argIndex, categoryColumns)
	args = append(args, id)

	var patched *domain.Category
	err := withTransaction(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, query, args...)
		category, err := scanCategory(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.NewNotFoundError("category", strconv.FormatInt(id, 10))
			}
			return classifyPgError(fmt.Errorf("failed to patch category: %w", err), "category")
		}
		patched = category
		return nil
	})
	if err != nil {
		return nil, err
	}

	return patched, nil
}

// Delete removes a category; linked rows in categoryitems cascade.
func (r *PgCategoryRepository) Delete(ctx context.Context, id int64) error {
	return withTransaction(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE "categoryId" = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.NewNotFoundError("category", strconv.FormatInt(id, 10))
		}
		return nil
	})
}

// categoryScanDest holds the destination fields for scanning a category row.
type categoryScanDest struct {
	id          int64
	name        string
	statusID    int32
	crUUID      string
	crTimestamp time.Time
	clientUUID  *string
}

// destinations returns the slice of pointers for Scan operations.
func (d *categoryScanDest) destinations() []interface{} {
	return []interface{}{
		&d.id, &d.name, &d.statusID, &d.crUUID, &d.crTimestamp, &d.clientUUID,
	}
}

// finalize converts the scanned columns into a domain Category.
func (d *categoryScanDest) finalize() (*domain.Category, error) {
	return &domain.Category{
		ID:          d.id,
		Name:        d.name,
		StatusID:    uint16(d.statusID),
		CrUUID:      strings.TrimSpace(d.crUUID),
		CrTimestamp: d.crTimestamp,
		ClientUUID:  d.clientUUID,
	}, nil
}

// scanCategory scans a single row into a Category.
func scanCategory(row pgx.Row) (*domain.Category, error) {
	var dest categoryScanDest
	if err := row.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}

// scanCategoryFromRows scans the current row from pgx.Rows into a Category.
func scanCategoryFromRows(rows pgx.Rows) (*domain.Category, error) {
	var dest categoryScanDest
	if err := rows.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}
