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

func sampleCategory(id int64, name string) *domain.Category {
	return &domain.Category{
		ID:          id,
		Name:        name,
		StatusID:    1,
		CrUUID:      "7b1c2f6e-1f2d-4c3b-9a8e-0d5f6a7b8c9d",
		CrTimestamp: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}
}

func TestListCategories(t *testing.T) {
	categories := &mockCategoryRepo{
		listFn: func(_ context.Context) ([]*domain.Category, error) {
			return []*domain.Category{
				sampleCategory(1, "Mountain Bikes"),
				sampleCategory(2, "Road Bikes"),
			}, nil
		},
	}
	srv := newTestHTTPServer(testDeps{categories: categories})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp listCategoriesResponse
	decodeJSON(t, rr, &resp)
	if len(resp.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(resp.Categories))
	}
	if resp.TotalCount != 2 {
		t.Errorf("expected total_count 2, got %d", resp.TotalCount)
	}
	if resp.Categories[0].Name != "Mountain Bikes" {
		t.Errorf("expected first category Mountain Bikes, got %s", resp.Categories[0].Name)
	}
}

func TestCreateCategory(t *testing.T) {
	var captured domain.CategoryCreate
	categories := &mockCategoryRepo{
		createFn: func(_ context.Context, input domain.CategoryCreate) (*domain.Category, error) {
			captured = input
			return sampleCategory(5, input.Name), nil
		},
	}
	srv := newTestHTTPServer(testDeps{categories: categories})

	body := `{"name":"Mountain Bikes","client_uuid":"client-42"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewBufferString(body))

	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	if captured.Name != "Mountain Bikes" {
		t.Errorf("expected name Mountain Bikes, got %s", captured.Name)
	}
	if captured.StatusID != domain.DefaultStatusID {
		t.Errorf("expected default status %d, got %d", domain.DefaultStatusID, captured.StatusID)
	}
	if captured.ClientUUID == nil || *captured.ClientUUID != "client-42" {
		t.Errorf("expected client_uuid client-42, got %v", captured.ClientUUID)
	}

	var resp categoryResponse
	decodeJSON(t, rr, &resp)
	if resp.ID != 5 {
		t.Errorf("expected id 5, got %d", resp.ID)
	}
}

func TestCreateCategory_ExplicitStatus(t *testing.T) {
	var captured domain.CategoryCreate
	categories := &mockCategoryRepo{
		createFn: func(_ context.Context, input domain.CategoryCreate) (*domain.Category, error) {
			captured = input
			return sampleCategory(5, input.Name), nil
		},
	}
	srv := newTestHTTPServer(testDeps{categories: categories})

	body := `{"name":"Archived Stock","status":3}`
	rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewBufferString(body)))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.StatusID != 3 {
		t.Errorf("expected status 3, got %d", captured.StatusID)
	}
}

func TestCreateCategory_MissingName(t *testing.T) {
	srv := newTestHTTPServer(testDeps{})

	body := `{"client_uuid":"client-42"}`
	rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewBufferString(body)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateCategory_InvalidJSON(t *testing.T) {
	srv := newTestHTTPServer(testDeps{})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewBufferString(`{"name":`)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateCategory_Conflict(t *testing.T) {
	categories := &mockCategoryRepo{
		createFn: func(_ context.Context, _ domain.CategoryCreate) (*domain.Category, error) {
			return nil, domain.NewConflictError("category", "name already exists")
		},
	}
	srv := newTestHTTPServer(testDeps{categories: categories})

	body := `{"name":"Mountain Bikes"}`
	rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewBufferString(body)))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestGetCategory_EmbedsItems(t *testing.T) {
	categories := &mockCategoryRepo{
		getFn: func(_ context.Context, id int64) (*domain.Category, error) {
			return sampleCategory(id, "Mountain Bikes"), nil
		},
	}
	relations := &mockRelationRepo{
		itemsForCategoryFn: func(_ context.Context, categoryID int64) ([]*domain.Item, error) {
			if categoryID != 7 {
				t.Errorf("expected category id 7, got %d", categoryID)
			}
			return []*domain.Item{
				{
					ID:        11,
					Name:      "Mountain-100",
					ListPrice: decimal.RequireFromString("3399.99"),
					StatusID:  1,
				},
			}, nil
		},
	}
	srv := newTestHTTPServer(testDeps{categories: categories, relations: relations})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/v1/categories/7", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp categoryWithItemsResponse
	decodeJSON(t, rr, &resp)
	if resp.ID != 7 {
		t.Errorf("expected id 7, got %d", resp.ID)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 embedded item, got %d", len(resp.Items))
	}
	if resp.Items[0].ListPrice != "3399.99" {
		t.Errorf("expected list_price 3399.99, got %s", resp.Items[0].ListPrice)
	}
}

func TestGetCategory_NotFound(t *testing.T) {
	categories := &mockCategoryRepo{
		getFn: func(_ context.Context, id int64) (*domain.Category, error) {
			return nil, domain.NewNotFoundError("category", "404")
		},
	}
	srv := newTestHTTPServer(testDeps{categories: categories})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/v1/categories/404", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestGetCategory_MalformedID(t *testing.T) {
	srv := newTestHTTPServer(testDeps{})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/v1/categories/abc", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestReplaceCategory(t *testing.T) {
	var capturedID int64
	var captured domain.CategoryCreate
	categories := &mockCategoryRepo{
		replaceFn: func(_ context.Context, id int64, input domain.CategoryCreate) (*domain.Category, error) {
			capturedID = id
			captured = input
			return sampleCategory(id, input.Name), nil
		},
	}
	srv := newTestHTTPServer(testDeps{categories: categories})

	body := `{"name":"Electric Bikes","status":2}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/categories/7", bytes.NewBufferString(body))

	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if capturedID != 7 {
		t.Errorf("expected id 7, got %d", capturedID)
	}
	if captured.Name != "Electric Bikes" || captured.StatusID != 2 {
		t.Errorf("unexpected replace input: %+v", captured)
	}
	// Replace without client_uuid overwrites it with null.
	if captured.ClientUUID != nil {
		t.Errorf("expected nil client_uuid, got %v", captured.ClientUUID)
	}
}

func TestPatchCategory_PresenceSemantics(t *testing.T) {
	var captured domain.CategoryPatch
	categories := &mockCategoryRepo{
		patchFn: func(_ context.Context, _ int64, patch domain.CategoryPatch) (*domain.Category, error) {
			captured = patch
			return sampleCategory(7, "Electric Bikes"), nil
		},
	}
	srv := newTestHTTPServer(testDeps{categories: categories})

	body := `{"name":"Electric Bikes","client_uuid":null}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/categories/7", bytes.NewBufferString(body))

	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	if !captured.Name.IsValue() || captured.Name.Value != "Electric Bikes" {
		t.Errorf("expected name set to Electric Bikes, got %+v", captured.Name)
	}
	if captured.StatusID.Set {
		t.Error("expected status to be absent from the patch")
	}
	if !captured.ClientUUID.IsNull() {
		t.Error("expected client_uuid to be an explicit null")
	}
}

func TestPatchCategory_EmptyBodyPatch(t *testing.T) {
	categories := &mockCategoryRepo{
		patchFn: func(_ context.Context, _ int64, patch domain.CategoryPatch) (*domain.Category, error) {
			if patch.Name.Set || patch.StatusID.Set || patch.ClientUUID.Set {
				t.Errorf("expected empty patch, got %+v", patch)
			}
			return sampleCategory(7, "Mountain Bikes"), nil
		},
	}
	srv := newTestHTTPServer(testDeps{categories: categories})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/categories/7", bytes.NewBufferString(`{}`))

	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestDeleteCategory(t *testing.T) {
	var deletedID int64
	categories := &mockCategoryRepo{
		deleteFn: func(_ context.Context, id int64) error {
			deletedID = id
			return nil
		},
	}
	srv := newTestHTTPServer(testDeps{categories: categories})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodDelete, "/api/v1/categories/7", nil))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d: %s", rr.Code, rr.Body.String())
	}
	if deletedID != 7 {
		t.Errorf("expected id 7, got %d", deletedID)
	}
}

func TestDeleteCategory_NotFound(t *testing.T) {
	srv := newTestHTTPServer(testDeps{})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodDelete, "/api/v1/categories/404", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestListCategoryItems_EmptyIsNotAnError(t *testing.T) {
	relations := &mockRelationRepo{
		itemsForCategoryFn: func(_ context.Context, _ int64) ([]*domain.Item, error) {
			return []*domain.Item{}, nil
		},
	}
	srv := newTestHTTPServer(testDeps{relations: relations})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/v1/categories/7/items", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp listItemsResponse
	decodeJSON(t, rr, &resp)
	if len(resp.Items) != 0 || resp.TotalCount != 0 {
		t.Errorf("expected an empty list, got %+v", resp)
	}
}

func TestListCategoryItems_MissingAnchor(t *testing.T) {
	relations := &mockRelationRepo{
		itemsForCategoryFn: func(_ context.Context, categoryID int64) ([]*domain.Item, error) {
			return nil, domain.NewNotFoundError("category", "404")
		},
	}
	srv := newTestHTTPServer(testDeps{relations: relations})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/v1/categories/404/items", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", rr.Code, rr.Body.String())
	}
}
