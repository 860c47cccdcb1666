package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/openshelf/catalog-service/internal/domain"
)

// Category and item response types for JSON serialization. Prices are
// rendered as fixed two-decimal strings, never as floats.

type categoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Status      uint16    `json:"status"`
	CrUUID      string    `json:"cr_uuid"`
	CrTimestamp time.Time `json:"cr_timestamp"`
	ClientUUID  *string   `json:"client_uuid,omitempty"`
}

type categoryWithItemsResponse struct {
	categoryResponse
	Items []itemResponse `json:"items"`
}

type listCategoriesResponse struct {
	Categories []categoryResponse `json:"categories"`
	TotalCount int64              `json:"total_count"`
}

type itemResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ListPrice   string    `json:"list_price"`
	ModelYear   *uint16   `json:"model_year,omitempty"`
	Status      uint16    `json:"status"`
	CrUUID      string    `json:"cr_uuid"`
	CrTimestamp time.Time `json:"cr_timestamp"`
	ClientUUID  *string   `json:"client_uuid,omitempty"`
}

type itemWithCategoriesResponse struct {
	itemResponse
	Categories []categoryResponse `json:"categories"`
}

type listItemsResponse struct {
	Items      []itemResponse `json:"items"`
	TotalCount int64          `json:"total_count"`
}

type bookResponse struct {
	Title            string  `json:"title"`
	FirstPublishYear *int    `json:"first_publish_year,omitempty"`
	Author           *string `json:"author,omitempty"`
	ISBN             *string `json:"isbn,omitempty"`
}

type importResponse struct {
	External     bookResponse `json:"external"`
	StoredItem   itemResponse `json:"stored_item"`
	Deduplicated bool         `json:"deduplicated"`
}

// Converter functions

func domainCategoryToResponse(c *domain.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Status:      c.StatusID,
		CrUUID:      c.CrUUID,
		CrTimestamp: c.CrTimestamp,
		ClientUUID:  c.ClientUUID,
	}
}

func domainCategoriesToResponse(categories []*domain.Category) []categoryResponse {
	out := make([]categoryResponse, len(categories))
	for i, c := range categories {
		out[i] = domainCategoryToResponse(c)
	}
	return out
}

func domainItemToResponse(it *domain.Item) itemResponse {
	return itemResponse{
		ID:          it.ID,
		Name:        it.Name,
		ListPrice:   it.ListPrice.StringFixed(2),
		ModelYear:   it.ModelYear,
		Status:      it.StatusID,
		CrUUID:      it.CrUUID,
		CrTimestamp: it.CrTimestamp,
		ClientUUID:  it.ClientUUID,
	}
}

func domainItemsToResponse(items []*domain.Item) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, it := range items {
		out[i] = domainItemToResponse(it)
	}
	return out
}

func domainBookToResponse(b *domain.Book) bookResponse {
	return bookResponse{
		Title:            b.Title,
		FirstPublishYear: b.FirstPublishYear,
		Author:           b.Author,
		ISBN:             b.ISBN,
	}
}

// writeDomainError maps domain errors to HTTP status codes and writes a JSON
// error response. Internal error details are not leaked to clients; typed
// validation and conflict errors carry safe, field-level messages.
func writeDomainError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			writeError(w, http.StatusNotFound, nf.Error())
		} else {
			writeError(w, http.StatusNotFound, "resource not found")
		}
	case errors.Is(err, domain.ErrConflict):
		var ce *domain.ConflictError
		if errors.As(err, &ce) {
			writeError(w, http.StatusConflict, ce.Error())
		} else {
			writeError(w, http.StatusConflict, "resource conflict")
		}
	case errors.Is(err, domain.ErrInvalidInput):
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
		} else {
			writeError(w, http.StatusBadRequest, "invalid input")
		}
	case errors.Is(err, domain.ErrInvalidExternalData):
		writeError(w, http.StatusBadGateway, "external source returned unusable data")
	case errors.Is(err, domain.ErrServiceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "external source unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
