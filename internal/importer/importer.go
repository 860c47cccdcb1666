// Package importer orchestrates the external-lookup-then-store flow that
// brings bibliographic records into the catalog as items.
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/openshelf/catalog-service/internal/booksource"
	"github.com/openshelf/catalog-service/internal/domain"
	"github.com/openshelf/catalog-service/internal/observability"
)

// ItemStore defines the item persistence operations the importer needs.
// Satisfied by repository.ItemRepository.
type ItemStore interface {
	FindByName(ctx context.Context, name string) (*domain.Item, error)
	Create(ctx context.Context, input domain.ItemCreate) (*domain.Item, error)
}

// Result describes the outcome of a single import.
type Result struct {
	// External is the normalized record as returned by the lookup source.
	External *domain.Book

	// StoredItem is the catalog item the import resolved to. When Deduplicated
	// is true this is a pre-existing row, otherwise a freshly created one.
	StoredItem *domain.Item

	// Deduplicated reports whether an item with the same name already existed.
	Deduplicated bool
}

// Service imports externally looked-up books into the catalog.
type Service struct {
	source  booksource.BookSource
	items   ItemStore
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// New creates a new import service. Metrics may be nil, in which case no
// metrics are recorded.
func New(source booksource.BookSource, items ItemStore, logger zerolog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		source:  source,
		items:   items,
		logger:  logger,
		metrics: metrics,
	}
}

// ImportByQuery looks up the best external match for the query and stores it
// as a catalog item. An item whose name equals the looked-up title is reused
// instead of duplicated. New items are stored with a zero list price and the
// default status; the external record carries no pricing.
func (s *Service) ImportByQuery(ctx context.Context, query string) (*Result, error) {
	logger := observability.WithLookupContext(s.logger, s.source.Name(), query)
	logger.Info().Msg("starting book import")

	if s.metrics != nil {
		s.metrics.RecordImportStarted()
	}

	book, err := s.lookup(ctx, query)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordImportFailed()
		}
		return nil, err
	}

	if book == nil {
		if s.metrics != nil {
			s.metrics.RecordLookupEmpty(s.source.Name())
			s.metrics.RecordImportFailed()
		}
		logger.Info().Msg("lookup returned no match")
		return nil, domain.NewNotFoundError("book", query)
	}

	title := book.TrimmedTitle()
	if title == "" {
		if s.metrics != nil {
			s.metrics.RecordImportFailed()
		}
		logger.Warn().Msg("lookup returned a record without a usable title")
		return nil, fmt.Errorf("%w: record has no title", domain.ErrInvalidExternalData)
	}

	item, err := s.resolveItem(ctx, title, book)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordImportFailed()
		}
		return nil, err
	}

	deduplicated := item.existing
	if s.metrics != nil {
		if deduplicated {
			s.metrics.RecordImportDeduplicated()
		}
		s.metrics.RecordImportCompleted()
	}

	logger.Info().
		Int64("item_id", item.row.ID).
		Bool("deduplicated", deduplicated).
		Msg("book import completed")

	return &Result{
		External:     book,
		StoredItem:   item.row,
		Deduplicated: deduplicated,
	}, nil
}

// lookup runs the external search and records its duration.
func (s *Service) lookup(ctx context.Context, query string) (*domain.Book, error) {
	start := time.Now()
	book, err := s.source.SearchOne(ctx, query)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordLookupFailed(s.source.Name(), errorType(err))
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordLookup(s.source.Name(), time.Since(start).Seconds())
	}
	return book, nil
}

type resolvedItem struct {
	row      *domain.Item
	existing bool
}

// resolveItem returns the existing item with the looked-up title, or creates
// a new one.
func (s *Service) resolveItem(ctx context.Context, title string, book *domain.Book) (*resolvedItem, error) {
	existing, err := s.items.FindByName(ctx, title)
	switch {
	case err == nil:
		return &resolvedItem{row: existing, existing: true}, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	created, err := s.items.Create(ctx, domain.ItemCreate{
		Name:      title,
		ListPrice: decimal.Zero,
		ModelYear: modelYearFromBook(book),
		StatusID:  domain.DefaultStatusID,
	})
	if err != nil {
		return nil, err
	}
	return &resolvedItem{row: created}, nil
}

// modelYearFromBook maps the first publish year onto the item model year
// when it fits the column range. Out-of-range years are dropped, not clamped.
func modelYearFromBook(book *domain.Book) *uint16 {
	if book.FirstPublishYear == nil {
		return nil
	}
	year := *book.FirstPublishYear
	if year < 0 || year > 65535 {
		return nil
	}
	converted := uint16(year)
	return &converted
}

// errorType buckets a lookup failure for the metrics label.
func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrServiceUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrInvalidExternalData):
		return "invalid_data"
	default:
		return "other"
	}
}
