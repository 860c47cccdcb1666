package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/openshelf/catalog-service/internal/domain"
)

// maxRequestBodySize bounds how much of a request body is read.
const maxRequestBodySize = 1 << 20 // 1 MB

// validate holds the shared validator instance. validator.Validate is safe
// for concurrent use and caches struct metadata.
var validate = validator.New()

// categoryRequest is the JSON request body for creating or replacing a category.
type categoryRequest struct {
	Name       string  `json:"name" validate:"required,max=100"`
	Status     *uint16 `json:"status"`
	ClientUUID *string `json:"client_uuid" validate:"omitempty,max=40"`
}

// toCreate converts the request body to a domain create input, applying the
// default status when omitted.
func (req *categoryRequest) toCreate() domain.CategoryCreate {
	statusID := uint16(domain.DefaultStatusID)
	if req.Status != nil {
		statusID = *req.Status
	}
	return domain.CategoryCreate{
		Name:       req.Name,
		StatusID:   statusID,
		ClientUUID: req.ClientUUID,
	}
}

// categoryPatchRequest is the JSON request body for partially updating a
// category. Optional fields distinguish absent keys from explicit nulls.
type categoryPatchRequest struct {
	Name       domain.Optional[string] `json:"name"`
	Status     domain.Optional[uint16] `json:"status"`
	ClientUUID domain.Optional[string] `json:"client_uuid"`
}

func (req *categoryPatchRequest) toPatch() domain.CategoryPatch {
	return domain.CategoryPatch{
		Name:       req.Name,
		StatusID:   req.Status,
		ClientUUID: req.ClientUUID,
	}
}

// itemRequest is the JSON request body for creating or replacing an item.
// ListPrice accepts both a JSON number and a decimal string.
type itemRequest struct {
	Name       string          `json:"name" validate:"required,max=100"`
	ListPrice  decimal.Decimal `json:"list_price"`
	ModelYear  *uint16         `json:"model_year"`
	Status     *uint16         `json:"status"`
	ClientUUID *string         `json:"client_uuid" validate:"omitempty,max=40"`
}

func (req *itemRequest) toCreate() domain.ItemCreate {
	statusID := uint16(domain.DefaultStatusID)
	if req.Status != nil {
		statusID = *req.Status
	}
	return domain.ItemCreate{
		Name:       req.Name,
		ListPrice:  req.ListPrice,
		ModelYear:  req.ModelYear,
		StatusID:   statusID,
		ClientUUID: req.ClientUUID,
	}
}

// itemPatchRequest is the JSON request body for partially updating an item.
type itemPatchRequest struct {
	Name       domain.Optional[string]          `json:"name"`
	ListPrice  domain.Optional[decimal.Decimal] `json:"list_price"`
	ModelYear  domain.Optional[uint16]          `json:"model_year"`
	Status     domain.Optional[uint16]          `json:"status"`
	ClientUUID domain.Optional[string]          `json:"client_uuid"`
}

func (req *itemPatchRequest) toPatch() domain.ItemPatch {
	return domain.ItemPatch{
		Name:       req.Name,
		ListPrice:  req.ListPrice,
		ModelYear:  req.ModelYear,
		StatusID:   req.Status,
		ClientUUID: req.ClientUUID,
	}
}

// decodeRequest reads and unmarshals a JSON request body into dst and runs
// struct validation. It writes the error response itself and reports success
// through the returned bool.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return false
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "request body is required")
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}

	return true
}

// validationMessage renders the first field violation as a client-facing
// message without echoing the submitted values back.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", fe.Field())
		case "max":
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		default:
			return fmt.Sprintf("%s is invalid", fe.Field())
		}
	}
	return "invalid request body"
}

// validatePrice enforces the price scale accepted by the store.
func validatePrice(w http.ResponseWriter, price decimal.Decimal) bool {
	if price.IsNegative() {
		writeError(w, http.StatusBadRequest, "list_price must not be negative")
		return false
	}
	if price.Exponent() < -2 {
		writeError(w, http.StatusBadRequest, "list_price must have at most 2 decimal places")
		return false
	}
	return true
}

// parseID parses a positive integer path parameter, writing a 400 response
// if it is malformed.
func parseID(w http.ResponseWriter, raw, fieldName string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s must be a positive integer", fieldName))
		return 0, false
	}
	return id, true
}
