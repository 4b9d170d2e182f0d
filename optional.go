package sdk

import (
	"bytes"
	"encoding/json"
)

// Optional is a field of a partial update. The zero value is unset and is
// omitted from the request body by the `omitzero` tag; Null sends an explicit
// JSON null.
type Optional[T any] struct {
	value T
	set   bool
	null  bool
}

// Some returns an Optional carrying v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Null returns an Optional that serializes as JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{set: true, null: true}
}

// IsZero reports whether the field was never set.
func (o Optional[T]) IsZero() bool { return !o.set }

// IsNull reports whether the field was set to null.
func (o Optional[T]) IsNull() bool { return o.set && o.null }

// Get returns the value and whether a non-null value is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set && !o.null
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
