package domain

import "encoding/json"

// Optional is a tri-state JSON field: absent from the payload (Set=false),
// present with an explicit null (Set=true, Null=true), or present with a
// value (Set=true, Null=false). Partial updates need all three states so
// that an absent key leaves a column untouched while an explicit null
// clears it.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON is only invoked for keys present in the payload, which is
// what makes Set a reliable presence marker.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// IsValue reports whether the field was supplied with a non-null value.
func (o Optional[T]) IsValue() bool {
	return o.Set && !o.Null
}

// IsNull reports whether the field was supplied as an explicit null.
func (o Optional[T]) IsNull() bool {
	return o.Set && o.Null
}

// SomeOf returns an Optional carrying the given value. Intended for tests
// and programmatic patch construction.
func SomeOf[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// NullOf returns an Optional carrying an explicit null.
func NullOf[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}
