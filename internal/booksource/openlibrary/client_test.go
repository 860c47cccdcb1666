package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/catalog-service/internal/booksource"
	"github.com/openshelf/catalog-service/internal/domain"
	"github.com/openshelf/catalog-service/internal/observability"
)

// newTestClient creates a client configured for testing with the given server URL.
func newTestClient(serverURL string) *Client {
	cfg := Config{
		BaseURL: serverURL,
		Timeout: 5 * time.Second,
	}

	httpClient := booksource.NewHTTPClient(booksource.HTTPClientConfig{
		Timeout:        cfg.Timeout,
		RateLimit:      1000, // High rate for testing
		BurstSize:      1000,
		MaxAttempts:    4,
		RetryBaseDelay: 2 * time.Millisecond,
		RetryMaxDelay:  16 * time.Millisecond,
		UserAgent:      "TestClient/1.0",
	})

	return NewWithHTTPClient(cfg, httpClient)
}

func yearPtr(y int) *int { return &y }

// sampleSearchResponse returns a sample Open Library search response for testing.
func sampleSearchResponse() SearchResponse {
	return SearchResponse{
		NumFound: 1,
		Start:    0,
		Docs: []Doc{
			{
				Title:            "The Hobbit",
				FirstPublishYear: yearPtr(1937),
				AuthorName:       []string{"J.R.R. Tolkien"},
				ISBN:             []string{"9780261103344", "0261103342"},
			},
		},
	}
}

func TestClient_SearchOne(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "the hobbit", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(sampleSearchResponse()))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	book, err := client.SearchOne(context.Background(), "the hobbit")
	require.NoError(t, err)
	require.NotNil(t, book)

	assert.Equal(t, "The Hobbit", book.Title)
	require.NotNil(t, book.FirstPublishYear)
	assert.Equal(t, 1937, *book.FirstPublishYear)
	require.NotNil(t, book.Author)
	assert.Equal(t, "J.R.R. Tolkien", *book.Author)
	require.NotNil(t, book.ISBN)
	assert.Equal(t, "9780261103344", *book.ISBN)
}

func TestClient_SearchOne_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(SearchResponse{NumFound: 0}))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	book, err := client.SearchOne(context.Background(), "no such book anywhere")
	require.NoError(t, err)
	assert.Nil(t, book)
}

func TestClient_SearchOne_SparseDoc(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := SearchResponse{
			NumFound: 1,
			Docs:     []Doc{{Title: "Anonymous Pamphlet"}},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	book, err := client.SearchOne(context.Background(), "anonymous pamphlet")
	require.NoError(t, err)
	require.NotNil(t, book)

	assert.Equal(t, "Anonymous Pamphlet", book.Title)
	assert.Nil(t, book.FirstPublishYear)
	assert.Nil(t, book.Author)
	assert.Nil(t, book.ISBN)
}

func TestClient_SearchOne_YearZeroIsKept(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"numFound": 1, "docs": [{"title": "Ancient Scroll", "first_publish_year": 0}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	book, err := client.SearchOne(context.Background(), "ancient scroll")
	require.NoError(t, err)
	require.NotNil(t, book)

	require.NotNil(t, book.FirstPublishYear)
	assert.Equal(t, 0, *book.FirstPublishYear)
}

func TestClient_SearchOne_MultipleAuthors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := SearchResponse{
			NumFound: 1,
			Docs: []Doc{{
				Title:      "Good Omens",
				AuthorName: []string{"Terry Pratchett", "Neil Gaiman"},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	book, err := client.SearchOne(context.Background(), "good omens")
	require.NoError(t, err)
	require.NotNil(t, book)
	require.NotNil(t, book.Author)
	assert.Equal(t, "Terry Pratchett, Neil Gaiman", *book.Author)
}

func TestClient_SearchOne_RetriesThenSucceeds(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(sampleSearchResponse()))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	book, err := client.SearchOne(context.Background(), "the hobbit")
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, 3, calls)
}

func TestClient_SearchOne_ExhaustedRetries(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	book, err := client.SearchOne(context.Background(), "the hobbit")
	require.Error(t, err)
	assert.Nil(t, book)
	assert.Equal(t, 4, calls)

	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)

	var apiErr *domain.ExternalAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "OpenLibrary", apiErr.Source)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestClient_SearchOne_CountsRetries(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(sampleSearchResponse()))
	}))
	defer server.Close()

	metrics := observability.NewMetrics("test_openlibrary_retries")
	client := New(Config{
		BaseURL:        server.URL,
		RetryBaseDelay: 2 * time.Millisecond,
		RetryMaxDelay:  16 * time.Millisecond,
		Metrics:        metrics,
	})

	book, err := client.SearchOne(context.Background(), "the hobbit")
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, 3, calls)
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.LookupRetries.WithLabelValues(sourceName)))
}

func TestClient_SearchOne_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"numFound": "not a number"`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	book, err := client.SearchOne(context.Background(), "the hobbit")
	require.Error(t, err)
	assert.Nil(t, book)
	assert.ErrorIs(t, err, domain.ErrInvalidExternalData)
}

func TestClient_SearchOne_EmptyQuery(t *testing.T) {
	client := newTestClient("http://localhost:0")

	book, err := client.SearchOne(context.Background(), "   ")
	require.Error(t, err)
	assert.Nil(t, book)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClient_SearchOne_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SearchOne(ctx, "the hobbit")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	var apiErr *domain.ExternalAPIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.applyDefaults()

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultRateLimit, cfg.RateLimit)
	assert.Equal(t, DefaultBurstSize, cfg.BurstSize)
	assert.Equal(t, DefaultMaxAttempts, cfg.MaxAttempts)
	assert.Equal(t, DefaultRetryBaseDelay, cfg.RetryBaseDelay)
	assert.Equal(t, DefaultRetryMaxDelay, cfg.RetryMaxDelay)
}
