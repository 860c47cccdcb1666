// Package domain contains the core entities and error taxonomy for the catalog service.
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultStatusID is the status assigned to entities created without an
// explicit status (active).
const DefaultStatusID uint16 = 1

// Field length limits shared by the boundary and the repositories.
const (
	// MaxNameLength is the maximum length of a category or item name.
	MaxNameLength = 100

	// MaxClientUUIDLength is the maximum length of a client-supplied UUID.
	MaxClientUUIDLength = 40
)

// Category is a catalog category row. ID, CrUUID and CrTimestamp are
// server-assigned and immutable.
type Category struct {
	ID          int64
	Name        string
	StatusID    uint16
	CrUUID      string
	CrTimestamp time.Time
	ClientUUID  *string
}

// Item is a catalog item row. ListPrice is a fixed-point decimal with two
// fraction digits and is never represented as a float.
type Item struct {
	ID          int64
	Name        string
	ListPrice   decimal.Decimal
	ModelYear   *uint16
	StatusID    uint16
	CrUUID      string
	CrTimestamp time.Time
	ClientUUID  *string
}

// CategoryCreate holds the client-settable fields for creating a category.
type CategoryCreate struct {
	Name       string
	StatusID   uint16
	ClientUUID *string
}

// Validate checks field constraints that do not depend on store state.
func (c CategoryCreate) Validate() error {
	if err := validateName(c.Name); err != nil {
		return err
	}
	return validateClientUUID(c.ClientUUID)
}

// CategoryPatch holds the tri-state fields of a partial category update.
// Only fields with Set=true are applied.
type CategoryPatch struct {
	Name       Optional[string]
	StatusID   Optional[uint16]
	ClientUUID Optional[string]
}

// Validate rejects explicit nulls on non-nullable columns and enforces
// field constraints on supplied values.
func (p CategoryPatch) Validate() error {
	if p.Name.IsNull() {
		return NewValidationError("categoryName", "must not be null")
	}
	if p.StatusID.IsNull() {
		return NewValidationError("categoryStatusId", "must not be null")
	}
	if p.Name.IsValue() {
		if err := validateName(p.Name.Value); err != nil {
			return err
		}
	}
	if p.ClientUUID.IsValue() && len(p.ClientUUID.Value) > MaxClientUUIDLength {
		return NewValidationError("categoryClientUUID", "too long")
	}
	return nil
}

// IsEmpty reports whether the patch supplies no fields at all.
func (p CategoryPatch) IsEmpty() bool {
	return !p.Name.Set && !p.StatusID.Set && !p.ClientUUID.Set
}

// ItemCreate holds the client-settable fields for creating an item.
type ItemCreate struct {
	Name       string
	ListPrice  decimal.Decimal
	ModelYear  *uint16
	StatusID   uint16
	ClientUUID *string
}

// Validate checks field constraints that do not depend on store state.
func (c ItemCreate) Validate() error {
	if err := validateName(c.Name); err != nil {
		return err
	}
	return validateClientUUID(c.ClientUUID)
}

// ItemPatch holds the tri-state fields of a partial item update.
type ItemPatch struct {
	Name       Optional[string]
	ListPrice  Optional[decimal.Decimal]
	ModelYear  Optional[uint16]
	StatusID   Optional[uint16]
	ClientUUID Optional[string]
}

// Validate rejects explicit nulls on non-nullable columns and enforces
// field constraints on supplied values.
func (p ItemPatch) Validate() error {
	if p.Name.IsNull() {
		return NewValidationError("itemName", "must not be null")
	}
	if p.ListPrice.IsNull() {
		return NewValidationError("itemListPrice", "must not be null")
	}
	if p.StatusID.IsNull() {
		return NewValidationError("itemStatusId", "must not be null")
	}
	if p.Name.IsValue() {
		if err := validateName(p.Name.Value); err != nil {
			return err
		}
	}
	if p.ClientUUID.IsValue() && len(p.ClientUUID.Value) > MaxClientUUIDLength {
		return NewValidationError("itemClientUUID", "too long")
	}
	return nil
}

// IsEmpty reports whether the patch supplies no fields at all.
func (p ItemPatch) IsEmpty() bool {
	return !p.Name.Set && !p.ListPrice.Set && !p.ModelYear.Set &&
		!p.StatusID.Set && !p.ClientUUID.Set
}

// Book is the normalized record returned by the external bibliographic lookup.
// Fields absent upstream stay nil, never defaulted to placeholder strings.
type Book struct {
	Title            string
	FirstPublishYear *int
	Author           *string
	ISBN             *string
}

// TrimmedTitle returns the title with surrounding whitespace removed.
func (b *Book) TrimmedTitle() string {
	return strings.TrimSpace(b.Title)
}

func validateName(name string) error {
	if name == "" {
		return NewValidationError("name", "is required")
	}
	if len(name) > MaxNameLength {
		return NewValidationError("name", "too long")
	}
	return nil
}

func validateClientUUID(clientUUID *string) error {
	if clientUUID != nil && len(*clientUUID) > MaxClientUUIDLength {
		return NewValidationError("clientUUID", "too long")
	}
	return nil
}
