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
	"github.com/shopspring/decimal"

	"github.com/openshelf/catalog-service/internal/domain"
)

// Compile-time interface verification.
var _ ItemRepository = (*PgItemRepository)(nil)

// itemColumns is the canonical select list for item rows. The list price is
// selected as text so the fixed-point value round-trips without a float
// conversion anywhere in the path.
const itemColumns = `"itemId", "itemName", "itemListPrice"::text, "itemModelYear", "itemStatusId", "itemCrUUID", "itemCrTimestamp", "itemClientUUID"`

// PgItemRepository is a PostgreSQL implementation of ItemRepository.
type PgItemRepository struct {
	db DB
}

// NewPgItemRepository creates a new PostgreSQL item repository.
func NewPgItemRepository(db DB) *PgItemRepository {
	return &PgItemRepository{db: db}
}

// List retrieves every item ordered by name.
func (r *PgItemRepository) List(ctx context.Context) ([]*domain.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM items
		ORDER BY "itemName"`, itemColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
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

// GetByID retrieves an item by its identifier.
func (r *PgItemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM items
		WHERE "itemId" = $1`, itemColumns)

	row := r.db.QueryRow(ctx, query, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("item", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to get item by ID: %w", err)
	}

	return item, nil
}

// FindByName retrieves an item by its exact name. When duplicates exist the
// oldest row wins, matching the import dedupe behavior.
func (r *PgItemRepository) FindByName(ctx context.Context, name string) (*domain.Item, error) {
	if name == "" {
		return nil, domain.NewValidationError("itemName", "is required")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM items
		WHERE "itemName" = $1
		ORDER BY "itemId"
		LIMIT 1`, itemColumns)

	row := r.db.QueryRow(ctx, query, name)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("item", name)
		}
		return nil, fmt.Errorf("failed to find item by name: %w", err)
	}

	return item, nil
}

// Create inserts a new item inside its own transaction scope.
func (r *PgItemRepository) Create(ctx context.Context, input domain.ItemCreate) (*domain.Item, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		INSERT INTO items ("itemName", "itemListPrice", "itemModelYear", "itemStatusId", "itemCrUUID", "itemClientUUID")
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, itemColumns)

	var created *domain.Item
	err := withTransaction(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, query,
			input.Name,
			input.ListPrice.StringFixed(2),
			modelYearArg(input.ModelYear),
			int32(input.StatusID),
			uuid.NewString(),
			input.ClientUUID,
		)
		item, err := scanItem(row)
		if err != nil {
			return classifyPgError(fmt.Errorf("failed to create item: %w", err), "item")
		}
		created = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Replace overwrites every client-writable field of an existing item.
func (r *PgItemRepository) Replace(ctx context.Context, id int64, input domain.ItemCreate) (*domain.Item, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE items
		SET "itemName" = $1, "itemListPrice" = $2, "itemModelYear" = $3, "itemStatusId" = $4, "itemClientUUID" = $5
		WHERE "itemId" = $6
		RETURNING %s`, itemColumns)

	var replaced *domain.Item
	err := withTransaction(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, query,
			input.Name,
			input.ListPrice.StringFixed(2),
			modelYearArg(input.ModelYear),
			int32(input.StatusID),
			input.ClientUUID,
			id,
		)
		item, err := scanItem(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.NewNotFoundError("item", strconv.FormatInt(id, 10))
			}
			return classifyPgError(fmt.Errorf("failed to replace item: %w", err), "item")
		}
		replaced = item
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
func (r *PgItemRepository) Patch(ctx context.Context, id int64, patch domain.ItemPatch) (*domain.Item, error) {
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
		sets = append(sets, fmt.Sprintf(`"itemName" = $%d`, argIndex))
		args = append(args, patch.Name.Value)
		argIndex++
	}
	if patch.ListPrice.IsValue() {
		sets = append(sets, fmt.Sprintf(`"itemListPrice" = $%d`, argIndex))
		args = append(args, patch.ListPrice.Value.StringFixed(2))
		argIndex++
	}
	if patch.ModelYear.Set {
		if patch.ModelYear.Null {
			sets = append(sets, `"itemModelYear" = NULL`)
		} else {
			sets = append(sets, fmt.Sprintf(`"itemModelYear" = $%d`, argIndex))
			args = append(args, int32(patch.ModelYear.Value))
			argIndex++
		}
	}
	if patch.StatusID.IsValue() {
		sets = append(sets, fmt.Sprintf(`"itemStatusId" = $%d`, argIndex))
		args = append(args, int32(patch.StatusID.Value))
		argIndex++
	}
	if patch.ClientUUID.Set {
		if patch.ClientUUID.Null {
			sets = append(sets, `"itemClientUUID" = NULL`)
		} else {
			sets = append(sets, fmt.Sprintf(`"itemClientUUID" = $%d`, argIndex))
			args = append(args, patch.ClientUUID.Value)
			argIndex++
		}
	}

	query := fmt.Sprintf(`
		UPDATE items
		SET %s
		WHERE "itemId" = $%d
		RETURNING %s`, strings.Join(sets, ", "), argIndex, itemColumns)
	args = append(args, id)

	var patched *domain.Item
	err := withTransaction(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, query, args...)
		item, err := scanItem(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.NewNotFoundError("item", strconv.FormatInt(id, 10))
			}
			return classifyPgError(fmt.Errorf("failed to patch item: %w", err), "item")
		}
		patched = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	return patched, nil
}

// Delete removes an item; linked rows in categoryitems cascade.
func (r *PgItemRepository) Delete(ctx context.Context, id int64) error {
	return withTransaction(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM items WHERE "itemId" = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.NewNotFoundError("item", strconv.FormatInt(id, 10))
		}
		return nil
	})
}

// modelYearArg converts an optional model year into a nullable SQL argument.
func modelYearArg(year *uint16) interface{} {
	if year == nil {
		return nil
	}
	return int32(*year)
}

// itemScanDest holds the destination fields for scanning an item row.
type itemScanDest struct {
	id          int64
	name        string
	listPrice   string
	modelYear   *int32
	statusID    int32
	crUUID      string
	crTimestamp time.Time
	clientUUID  *string
}

// destinations returns the slice of pointers for Scan operations.
func (d *itemScanDest) destinations() []interface{} {
	return []interface{}{
		&d.id, &d.name, &d.listPrice, &d.modelYear, &d.statusID,
		&d.crUUID, &d.crTimestamp, &d.clientUUID,
	}
}

// finalize converts the scanned columns into a domain Item.
func (d *itemScanDest) finalize() (*domain.Item, error) {
	price, err := decimal.NewFromString(d.listPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to parse list price %q: %w", d.listPrice, err)
	}

	var modelYear *uint16
	if d.modelYear != nil {
		year := uint16(*d.modelYear)
		modelYear = &year
	}

	return &domain.Item{
		ID:          d.id,
		Name:        d.name,
		ListPrice:   price,
		ModelYear:   modelYear,
		StatusID:    uint16(d.statusID),
		CrUUID:      strings.TrimSpace(d.crUUID),
		CrTimestamp: d.crTimestamp,
		ClientUUID:  d.clientUUID,
	}, nil
}

// scanItem scans a single row into an Item.
func scanItem(row pgx.Row) (*domain.Item, error) {
	var dest itemScanDest
	if err := row.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}

// scanItemFromRows scans the current row from pgx.Rows into an Item.
func scanItemFromRows(rows pgx.Rows) (*domain.Item, error) {
	var dest itemScanDest
	if err := rows.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}
