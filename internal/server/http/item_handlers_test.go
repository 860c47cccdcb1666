package httpserver

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openshelf/catalog-service/internal/domain"
)

func sampleItem(id int64, name, price string) *domain.Item {
	return &domain.Item{
		ID:          id,
		Name:        name,
		ListPrice:   decimal.RequireFromString(price),
		StatusID:    1,
		CrUUID:      "3f9d8a7b-6c5e-4d3f-8b2a-1e0c9d8f7a6b",
		CrTimestamp: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}
}

func TestListItems(t *testing.T) {
	items := &mockItemRepo{
		listFn: func(_ context.Context) ([]*domain.Item, error) {
			return []*domain.Item{
				sampleItem(1, "Mountain-100", "3399.99"),
				sampleItem(2, "Road-650", "782.99"),
			}, nil
		},
	}
	srv := newTestHTTPServer(testDeps{items: items})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/v1/items", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp listItemsResponse
	decodeJSON(t, rr, &resp)
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	if resp.Items[0].ListPrice != "3399.99" {
		t.Errorf("expected list_price as fixed string 3399.99, got %s", resp.Items[0].ListPrice)
	}
}

func TestCreateItem(t *testing.T) {
	var captured domain.ItemCreate
	items := &mockItemRepo{
		createFn: func(_ context.Context, input domain.ItemCreate) (*domain.Item, error) {
			captured = input
			return sampleItem(9, input.Name, "379.99"), nil
		},
	}
	srv := newTestHTTPServer(testDeps{items: items})

	body := `{"name":"Touring-1000","list_price":"379.99","model_year":2016}`
	rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/v1/items", bytes.NewBufferString(body)))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	if captured.Name != "Touring-1000" {
		t.Errorf("expected name Touring-1000, got %s", captured.Name)
	}
	if !captured.ListPrice.Equal(decimal.RequireFromString("379.99")) {
		t.Errorf("expected list_price 379.99, got %s", captured.ListPrice)
	}
	if captured.ModelYear == nil || *captured.ModelYear != 2016 {
		t.Errorf("expected model_year 2016, got %v", captured.ModelYear)
	}
	if captured.StatusID != domain.DefaultStatusID {
		t.Errorf("expected default status, got %d", captured.StatusID)
	}
}

func TestCreateItem_NumericPrice(t *testing.T) {
	var captured domain.ItemCreate
	items := &mockItemRepo{
		createFn: func(_ context.Context, input domain.ItemCreate) (*domain.Item, error) {
			captured = input
			return sampleItem(9, input.Name, "379.99"), nil
		},
	}
	srv := newTestHTTPServer(testDeps{items: items})

	body := `{"name":"Touring-1000","list_price":379.99}`
	rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/v1/items", bytes.NewBufferString(body)))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if !captured.ListPrice.Equal(decimal.RequireFromString("379.99")) {
		t.Errorf("expected list_price 379.99, got %s", captured.ListPrice)
	}
}

func TestCreateItem_RejectsBadPrices(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "negative", body: `{"name":"Touring-1000","list_price":"-1.00"}`},
		{name: "too many decimals", body: `{"name":"Touring-1000","list_price":"9.999"}`},
		{name: "not a number", body: `{"name":"Touring-1000","list_price":"cheap"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestHTTPServer(testDeps{})

			rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/v1/items", bytes.NewBufferString(tt.body)))

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestGetItem_EmbedsCategories(t *testing.T) {
	items := &mockItemRepo{
		getFn: func(_ context.Context, id int64) (*domain.Item, error) {
			return sampleItem(id, "Mountain-100", "3399.99"), nil
		},
	}
	relations := &mockRelationRepo{
		categoriesForItemFn: func(_ context.Context, itemID int64) ([]*domain.Category, error) {
			if itemID != 11 {
				t.Errorf("expected item id 11, got %d", itemID)
			}
			return []*domain.Category{sampleCategory(7, "Mountain Bikes")}, nil
		},
	}
	srv := newTestHTTPServer(testDeps{items: items, relations: relations})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/v1/items/11", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp itemWithCategoriesResponse
	decodeJSON(t, rr, &resp)
	if resp.ID != 11 {
		t.Errorf("expected id 11, got %d", resp.ID)
	}
	if len(resp.Categories) != 1 || resp.Categories[0].Name != "Mountain Bikes" {
		t.Errorf("expected embedded category Mountain Bikes, got %+v", resp.Categories)
	}
}

func TestGetItem_NotFound(t *testing.T) {
	srv := newTestHTTPServer(testDeps{})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/v1/items/404", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestReplaceItem(t *testing.T) {
	var captured domain.ItemCreate
	items := &mockItemRepo{
		replaceFn: func(_ context.Context, id int64, input domain.ItemCreate) (*domain.Item, error) {
			captured = input
			return sampleItem(id, input.Name, input.ListPrice.StringFixed(2)), nil
		},
	}
	srv := newTestHTTPServer(testDeps{items: items})

	body := `{"name":"Touring-2000","list_price":"599.00","status":2}`
	rr := serveHTTP(srv, httptest.NewRequest(http.MethodPut, "/api/v1/items/9", bytes.NewBufferString(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	// Replace is total: the omitted model_year overwrites with null.
	if captured.ModelYear != nil {
		t.Errorf("expected nil model_year, got %v", captured.ModelYear)
	}
	if captured.StatusID != 2 {
		t.Errorf("expected status 2, got %d", captured.StatusID)
	}
}

func TestPatchItem_PresenceSemantics(t *testing.T) {
	var captured domain.ItemPatch
	items := &mockItemRepo{
		patchFn: func(_ context.Context, _ int64, patch domain.ItemPatch) (*domain.Item, error) {
			captured = patch
			return sampleItem(9, "Touring-1000", "299.00"), nil
		},
	}
	srv := newTestHTTPServer(testDeps{items: items})

	body := `{"list_price":"299.00","model_year":null}`
	rr := serveHTTP(srv, httptest.NewRequest(http.MethodPatch, "/api/v1/items/9", bytes.NewBufferString(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	if !captured.ListPrice.IsValue() || !captured.ListPrice.Value.Equal(decimal.RequireFromString("299.00")) {
		t.Errorf("expected list_price set to 299.00, got %+v", captured.ListPrice)
	}
	if !captured.ModelYear.IsNull() {
		t.Error("expected model_year to be an explicit null")
	}
	if captured.Name.Set {
		t.Error("expected name to be absent from the patch")
	}
}

func TestPatchItem_RejectsBadPrice(t *testing.T) {
	srv := newTestHTTPServer(testDeps{})

	body := `{"list_price":"9.999"}`
	rr := serveHTTP(srv, httptest.NewRequest(http.MethodPatch, "/api/v1/items/9", bytes.NewBufferString(body)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestDeleteItem(t *testing.T) {
	var deletedID int64
	items := &mockItemRepo{
		deleteFn: func(_ context.Context, id int64) error {
			deletedID = id
			return nil
		},
	}
	srv := newTestHTTPServer(testDeps{items: items})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodDelete, "/api/v1/items/9", nil))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d: %s", rr.Code, rr.Body.String())
	}
	if deletedID != 9 {
		t.Errorf("expected id 9, got %d", deletedID)
	}
}

func TestListItemCategories_MissingAnchor(t *testing.T) {
	relations := &mockRelationRepo{
		categoriesForItemFn: func(_ context.Context, _ int64) ([]*domain.Category, error) {
			return nil, domain.NewNotFoundError("item", "404")
		},
	}
	srv := newTestHTTPServer(testDeps{relations: relations})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/v1/items/404/categories", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", rr.Code, rr.Body.String())
	}
}
