package luatable

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON renders a Value as plain JSON rather than as the tagged
// struct: nil -> null, arrays -> JSON arrays, maps -> JSON objects. The
// upload payload and the queue journal both rely on this shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNil:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.Bool)
	case KindNumber:
		return json.Marshal(v.Number)
	case KindString:
		return json.Marshal(v.Str)
	case KindArray:
		if v.Array == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Array)
	case KindMap:
		if v.Map == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.Map)
	default:
		return nil, fmt.Errorf("cannot marshal value of kind %d", v.Kind)
	}
}

// UnmarshalJSON is the inverse of MarshalJSON. JSON numbers always decode as
// KindNumber; there is no integer kind to preserve.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = fromAny(raw)
	return nil
}

func fromAny(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Nil()
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case string:
		return String(t)
	case []any:
		elems := make([]Value, 0, len(t))
		for _, elem := range t {
			elems = append(elems, fromAny(elem))
		}
		return Array(elems...)
	case map[string]any:
		entries := make(map[string]Value, len(t))
		for key, entry := range t {
			entries[key] = fromAny(entry)
		}
		return Map(entries)
	default:
		return Nil()
	}
}
