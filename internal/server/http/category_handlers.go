package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// listCategories handles GET /categories.
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categoryRepo.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listCategoriesResponse{
		Categories: domainCategoriesToResponse(categories),
		TotalCount: int64(len(categories)),
	})
}

// createCategory handles POST /categories.
func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	category, err := s.categoryRepo.Create(r.Context(), req.toCreate())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, domainCategoryToResponse(category))
}

// getCategory handles GET /categories/{categoryID}. The response embeds the
// items linked to the category.
func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "categoryID"), "category_id")
	if !ok {
		return
	}

	category, err := s.categoryRepo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items, err := s.relationRepo.ItemsForCategory(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, categoryWithItemsResponse{
		categoryResponse: domainCategoryToResponse(category),
		Items:            domainItemsToResponse(items),
	})
}

// replaceCategory handles PUT /categories/{categoryID}.
func (s *Server) replaceCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "categoryID"), "category_id")
	if !ok {
		return
	}

	var req categoryRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	category, err := s.categoryRepo.Replace(r.Context(), id, req.toCreate())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, domainCategoryToResponse(category))
}

// patchCategory handles PATCH /categories/{categoryID}. Absent keys leave
// columns untouched; an explicit null clears nullable columns.
func (s *Server) patchCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "categoryID"), "category_id")
	if !ok {
		return
	}

	var req categoryPatchRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	category, err := s.categoryRepo.Patch(r.Context(), id, req.toPatch())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, domainCategoryToResponse(category))
}

// deleteCategory handles DELETE /categories/{categoryID}.
func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "categoryID"), "category_id")
	if !ok {
		return
	}

	if err := s.categoryRepo.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listCategoryItems handles GET /categories/{categoryID}/items. A category
// without linked items yields an empty list; a missing category yields 404.
func (s *Server) listCategoryItems(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "categoryID"), "category_id")
	if !ok {
		return
	}

	items, err := s.relationRepo.ItemsForCategory(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listItemsResponse{
		Items:      domainItemsToResponse(items),
		TotalCount: int64(len(items)),
	})
}
