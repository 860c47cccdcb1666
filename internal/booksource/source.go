package booksource

import (
	"context"

	"github.com/openshelf/catalog-service/internal/domain"
)

// BookSource is the interface implemented by external bibliographic lookup
// clients. The importer depends on this interface, not on a concrete client,
// so lookups can be mocked in tests and additional catalogs added later.
type BookSource interface {
	// SearchOne looks up the single best match for the given free-text query.
	// It returns (nil, nil) when the source has no match; a nil error with a
	// nil book is the "not found upstream" signal, not an error condition.
	SearchOne(ctx context.Context, query string) (*domain.Book, error)

	// Name returns a short identifier for the source, used in logs and
	// metric labels.
	Name() string
}
