package domain

import (
	"bytes"
	"encoding/json"
)

// Optional is a patch field that distinguishes an absent key, an explicit null
// and a concrete value. The zero value is absent.
type Optional[T any] struct {
	set   bool
	null  bool
	value T
}

// Some returns an Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{set: true, value: v}
}

// Null returns an Optional holding an explicit null
func Null[T any]() Optional[T] {
	return Optional[T]{set: true, null: true}
}

// IsSet reports whether the field was present, null or not
func (o Optional[T]) IsSet() bool { return o.set }

// IsNull reports whether the field was an explicit null
func (o Optional[T]) IsNull() bool { return o.set && o.null }

// Get returns the value and whether one is present
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set && !o.null
}

// Ptr returns nil for null, a pointer to the value otherwise. Only meaningful when IsSet.
func (o Optional[T]) Ptr() *T {
	if o.null || !o.set {
		return nil
	}
	v := o.value
	return &v
}

// UnmarshalJSON is only invoked for keys present in the document
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.null = true
		var zero T
		o.value = zero
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.value)
}

// MarshalJSON writes null for absent and null fields
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
