package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an opaque identifier in normalized string form. The comments API is
// inconsistent about identifier typing (the same field may arrive as a JSON
// number or a string), so every identifier crossing a boundary goes through
// this type and comparisons happen only on the normalized form.
type ID string

// NewID normalizes an arbitrary raw value into an ID. Nil becomes the zero ID.
func NewID(v any) ID {
	switch x := v.(type) {
	case nil:
		return ""
	case ID:
		return x
	case string:
		return ID(x)
	case json.Number:
		return ID(x.String())
	case float64:
		// JSON numbers decoded without UseNumber land here; integers survive
		// the round-trip for ids small enough to be exact in a float64.
		return ID(trimFloat(x))
	case int:
		return ID(fmt.Sprintf("%d", x))
	case int64:
		return ID(fmt.Sprintf("%d", x))
	default:
		return ID(fmt.Sprintf("%v", x))
	}
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%v", f)
}

func (id ID) String() string { return string(id) }

// IsZero reports whether the identifier is absent.
func (id ID) IsZero() bool { return id == "" }

// Equal compares two identifiers in normalized form.
func (id ID) Equal(other ID) bool { return !id.IsZero() && id == other }

// UnmarshalJSON accepts a string, a number, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid identifier %q: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON always emits the string form, so downstream consumers never see
// the mixed typing again.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}
