package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openshelf/catalog-service/internal/domain"
)

// maxImportQueryLength bounds the free-text lookup query.
const maxImportQueryLength = 500

// importBook handles POST /import/book?q=. It looks up the best external
// match for the query and stores it as a catalog item, reusing an existing
// item with the same name.
func (s *Server) importBook(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}
	if len(query) > maxImportQueryLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("q must be at most %d characters", maxImportQueryLength))
		return
	}

	result, err := s.bookImporter.ImportByQuery(r.Context(), query)
	if err != nil {
		writeImportError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Deduplicated {
		status = http.StatusOK
	}

	writeJSON(w, status, importResponse{
		External:     domainBookToResponse(result.External),
		StoredItem:   domainItemToResponse(result.StoredItem),
		Deduplicated: result.Deduplicated,
	})
}

// writeImportError maps import failures like writeDomainError, except that
// unclassified store failures keep their diagnostic detail in the response.
func writeImportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidExternalData),
		errors.Is(err, domain.ErrServiceUnavailable):
		writeDomainError(w, err)
	default:
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to store imported item: %v", err))
	}
}
