package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// listItems handles GET /items.
func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.itemRepo.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listItemsResponse{
		Items:      domainItemsToResponse(items),
		TotalCount: int64(len(items)),
	})
}

// createItem handles POST /items.
func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if !validatePrice(w, req.ListPrice) {
		return
	}

	item, err := s.itemRepo.Create(r.Context(), req.toCreate())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, domainItemToResponse(item))
}

// getItem handles GET /items/{itemID}. The response embeds the categories
// the item is linked to.
func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "itemID"), "item_id")
	if !ok {
		return
	}

	item, err := s.itemRepo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	categories, err := s.relationRepo.CategoriesForItem(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, itemWithCategoriesResponse{
		itemResponse: domainItemToResponse(item),
		Categories:   domainCategoriesToResponse(categories),
	})
}

// replaceItem handles PUT /items/{itemID}.
func (s *Server) replaceItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "itemID"), "item_id")
	if !ok {
		return
	}

	var req itemRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if !validatePrice(w, req.ListPrice) {
		return
	}

	item, err := s.itemRepo.Replace(r.Context(), id, req.toCreate())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, domainItemToResponse(item))
}

// patchItem handles PATCH /items/{itemID}.
func (s *Server) patchItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "itemID"), "item_id")
	if !ok {
		return
	}

	var req itemPatchRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.ListPrice.IsValue() && !validatePrice(w, req.ListPrice.Value) {
		return
	}

	item, err := s.itemRepo.Patch(r.Context(), id, req.toPatch())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, domainItemToResponse(item))
}

// deleteItem handles DELETE /items/{itemID}. Category links are removed by
// cascade.
func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "itemID"), "item_id")
	if !ok {
		return
	}

	if err := s.itemRepo.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listItemCategories handles GET /items/{itemID}/categories. An item without
// linked categories yields an empty list; a missing item yields 404.
func (s *Server) listItemCategories(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "itemID"), "item_id")
	if !ok {
		return
	}

	categories, err := s.relationRepo.CategoriesForItem(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listCategoriesResponse{
		Categories: domainCategoriesToResponse(categories),
		TotalCount: int64(len(categories)),
	})
}
