package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openshelf/catalog-service/internal/booksource"
	"github.com/openshelf/catalog-service/internal/domain"
	"github.com/openshelf/catalog-service/internal/observability"
)

const (
	// DefaultBaseURL is the default Open Library API base URL.
	DefaultBaseURL = "https://openlibrary.org"

	// DefaultRateLimit is the default rate limit for requests per second.
	DefaultRateLimit = 5.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 5

	// DefaultTimeout is the default per-attempt request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxAttempts is the default total number of attempts per lookup.
	DefaultMaxAttempts = 4

	// DefaultRetryBaseDelay is the default delay before the first retry.
	DefaultRetryBaseDelay = 1 * time.Second

	// DefaultRetryMaxDelay is the default cap on individual retry delays.
	DefaultRetryMaxDelay = 8 * time.Second

	// sourceName identifies this client in logs, metrics, and errors.
	sourceName = "OpenLibrary"

	// maxResponseBytes limits how much of a response body is decoded.
	maxResponseBytes = 10 << 20
)

// Config holds configuration for the Open Library client.
type Config struct {
	// BaseURL is the Open Library API base URL.
	// Defaults to https://openlibrary.org
	BaseURL string

	// Timeout is the per-attempt request timeout.
	// Defaults to 10 seconds.
	Timeout time.Duration

	// RateLimit is the maximum requests per second.
	// Defaults to 5 req/sec.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	// Defaults to 5.
	BurstSize int

	// MaxAttempts is the total number of attempts per lookup, the first
	// attempt included. Defaults to 4.
	MaxAttempts int

	// RetryBaseDelay is the delay before the first retry; each subsequent
	// delay doubles. Defaults to 1 second.
	RetryBaseDelay time.Duration

	// RetryMaxDelay caps each individual retry delay.
	// Defaults to 8 seconds.
	RetryMaxDelay time.Duration

	// Metrics, when set, counts each retry attempt made against
	// Open Library. Optional.
	Metrics *observability.Metrics
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.BurstSize == 0 {
		c.BurstSize = DefaultBurstSize
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryBaseDelay == 0 {
		c.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if c.RetryMaxDelay == 0 {
		c.RetryMaxDelay = DefaultRetryMaxDelay
	}
}

// Client implements the booksource.BookSource interface for Open Library.
type Client struct {
	config     Config
	httpClient *booksource.HTTPClient
}

// Ensure Client implements BookSource interface.
var _ booksource.BookSource = (*Client)(nil)

// New creates a new Open Library client with the given configuration.
func New(cfg Config) *Client {
	cfg.applyDefaults()

	httpCfg := booksource.HTTPClientConfig{
		Timeout:        cfg.Timeout,
		RateLimit:      cfg.RateLimit,
		BurstSize:      cfg.BurstSize,
		MaxAttempts:    cfg.MaxAttempts,
		RetryBaseDelay: cfg.RetryBaseDelay,
		RetryMaxDelay:  cfg.RetryMaxDelay,
		UserAgent:      "OpenShelf-CatalogService/1.0",
	}
	if m := cfg.Metrics; m != nil {
		httpCfg.OnRetry = func() { m.RecordLookupRetry(sourceName) }
	}
	httpClient := booksource.NewHTTPClient(httpCfg)

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// NewWithHTTPClient creates a new Open Library client with a custom HTTP
// client. This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *booksource.HTTPClient) *Client {
	cfg.applyDefaults()

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// Name returns the source identifier.
func (c *Client) Name() string {
	return sourceName
}

// SearchOne queries the Open Library search endpoint for the single best
// match and normalizes it to a domain book. It returns (nil, nil) when the
// search yields no documents. When every attempt fails, the last failure is
// wrapped as an ExternalAPIError whose cause carries ErrServiceUnavailable.
func (c *Client) SearchOne(ctx context.Context, query string) (*domain.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("query", "is required")
	}

	searchURL, err := c.buildSearchURL(query)
	if err != nil {
		return nil, fmt.Errorf("building search URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.wrapTransportError(ctx, err)
	}
	defer resp.Body.Close()

	var searchResp SearchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&searchResp); err != nil {
		return nil, domain.NewExternalAPIError(
			sourceName,
			resp.StatusCode,
			"malformed search response",
			fmt.Errorf("%w: %v", domain.ErrInvalidExternalData, err),
		)
	}

	if len(searchResp.Docs) == 0 {
		return nil, nil
	}

	return docToBook(&searchResp.Docs[0]), nil
}

// buildSearchURL constructs the search URL for the given query.
func (c *Client) buildSearchURL(query string) (string, error) {
	base, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	base.Path = strings.TrimSuffix(base.Path, "/") + "/search.json"

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", "1")
	params.Set("fields", "title,first_publish_year,author_name,isbn")
	base.RawQuery = params.Encode()

	return base.String(), nil
}

// wrapTransportError converts an exhausted-retries failure into an
// ExternalAPIError. When the caller's own context ended the lookup the error
// passes through untouched, so callers can distinguish their deadline from an
// unavailable upstream. Per-attempt timeouts do not take this path; they are
// retried inside the HTTP client and arrive here only after exhaustion.
func (c *Client) wrapTransportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return err
	}
	statusCode := 0
	var statusErr *booksource.StatusError
	if errors.As(err, &statusErr) {
		statusCode = statusErr.StatusCode
	}
	return domain.NewExternalAPIError(
		sourceName,
		statusCode,
		err.Error(),
		fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err),
	)
}

// docToBook normalizes an Open Library document to a domain book. Absent
// optional fields stay nil rather than defaulting to placeholder values.
func docToBook(doc *Doc) *domain.Book {
	book := &domain.Book{
		Title: doc.Title,
	}

	if doc.FirstPublishYear != nil {
		year := *doc.FirstPublishYear
		book.FirstPublishYear = &year
	}

	if len(doc.AuthorName) > 0 {
		author := strings.Join(doc.AuthorName, ", ")
		book.Author = &author
	}

	if len(doc.ISBN) > 0 {
		isbn := doc.ISBN[0]
		book.ISBN = &isbn
	}

	return book
}
