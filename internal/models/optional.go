package models

import "encoding/json"

// Optional is a tri-state JSON field for partial updates: a field can be
// absent from the payload, present with a null value, or present with a
// value. Plain pointers collapse the first two states, which makes it
// impossible to tell "leave unchanged" apart from "clear".
type Optional[T any] struct {
	// Present is true when the key appeared in the payload at all.
	Present bool
	// Valid is true when the key carried a non-null value.
	Valid bool
	Value T
}

// UnmarshalJSON is only invoked for keys present in the payload, so Present
// is always true here; absent keys keep the zero Optional.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// MarshalJSON round-trips the value; an absent or null Optional encodes as
// null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
