// Package repository provides data access interfaces and implementations
// for the catalog service.
//
// # Overview
//
// This package defines repository interfaces and their PostgreSQL implementations
// following the repository pattern to abstract data persistence from business logic.
//
// # Repository Interfaces
//
//   - CategoryRepository: Manages product category persistence
//   - ItemRepository: Manages catalog item persistence
//   - RelationRepository: Manages the category-item many-to-many relation
//
// # Thread Safety
//
// All repository implementations are safe for concurrent use by multiple goroutines.
// The underlying pgxpool handles connection pooling and synchronization.
//
// # Error Handling
//
// All methods return domain-specific errors from the domain package.
// Database errors are wrapped with context using fmt.Errorf with the %w verb.
// Common errors include:
//
//   - domain.ErrNotFound: Resource does not exist
//   - domain.ErrConflict: Unique or foreign key constraint violation
//   - domain.ErrInvalidInput: Invalid parameters provided
//
// # Transactions
//
// Every write operation runs inside a single transaction scope owned by the
// repository: withTransaction begins a transaction, rolls back and returns the
// original error on failure, and commits on success. Reads go straight to the
// pool. The DB interface below is satisfied by both *database.DB and pgxmock
// pools, which keeps the write paths testable without a live server.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openshelf/catalog-service/internal/database"
	"github.com/openshelf/catalog-service/internal/domain"
)

// DBTX is the database interface supporting both pool and transaction contexts.
type DBTX = database.DBTX

// DB is the connection surface repositories are constructed with: query
// execution plus the ability to begin a transaction.
type DB interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgreSQL error codes used for constraint classification.
const (
	pgUniqueViolation     = "23505" // unique_violation
	pgForeignKeyViolation = "23503" // foreign_key_violation
	pgCheckViolation      = "23514" // check_violation
)

// prefixColumns qualifies each column in a comma-separated select list with
// a table alias, for use in join queries.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, part := range parts {
		parts[i] = alias + "." + part
	}
	return strings.Join(parts, ", ")
}

// withTransaction executes fn within a database transaction.
// If fn returns an error, the transaction is rolled back and the original
// error is returned; a rollback failure is appended rather than masking it.
func withTransaction(ctx context.Context, db DB, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("transaction error: %w (rollback error: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// classifyPgError maps PostgreSQL constraint violations to domain errors.
// Unique violations become ConflictError, foreign key violations become
// NotFoundError for the referenced entity, and check violations become
// validation errors. Anything else is returned wrapped as-is.
func classifyPgError(err error, entity string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			detail := pgErr.Detail
			if detail == "" {
				detail = pgErr.ConstraintName
			}
			return domain.NewConflictError(entity, detail)
		case pgForeignKeyViolation:
			return domain.NewNotFoundError(entity, pgErr.ConstraintName)
		case pgCheckViolation:
			return domain.NewValidationError(entity, pgErr.ConstraintName)
		}
	}
	return err
}
