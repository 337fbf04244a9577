package dto

import (
	"bytes"
	"encoding/json"
)

// Field records whether a JSON key was present and whether it was null,
// so a partial update can tell "omitted" from "set to null".
type Field[T any] struct {
	Value T
	Set   bool
	Null  bool
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Null = true
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}
