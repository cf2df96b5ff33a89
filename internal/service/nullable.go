package service

import (
	"encoding/json"
)

// Nullable is an optional JSON field that distinguishes an omitted field
// (Set is false) from an explicit null (Set is true, Value is nil).
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Null returns a Nullable explicitly set to null
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// Of returns a Nullable set to v
func Of[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// UnmarshalJSON is only called for fields present in the payload
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// MarshalJSON writes the value or null
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}
