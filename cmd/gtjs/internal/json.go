// SPDX-FileCopyrightText: 2025 Antoni Szymański
// SPDX-License-Identifier: MPL-2.0

package internal

import (
	"bytes"
	"encoding/json"
)

func MarshalJSON(in any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(in); err != nil {
		return nil, err
	}
	out := buf.Bytes()[:buf.Len()-1] // remove a trailing newline
	return out, nil
}

// Array marshals like its underlying slice, except that an empty value
// stays "[]" rather than "null".
type Array[T any] []T

func (a Array[T]) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return []byte("[]"), nil
	}
	return MarshalJSON([]T(a))
}
