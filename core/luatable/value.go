package luatable

import (
	"math"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	// KindNil is the zero Value.
	KindNil Kind = iota
	// KindBool holds a boolean in Value.Bool.
	KindBool
	// KindNumber holds a float64 in Value.Number.
	KindNumber
	// KindString holds a string in Value.Str.
	KindString
	// KindArray holds an ordered list in Value.Array.
	KindArray
	// KindMap holds string-keyed entries in Value.Map.
	KindMap
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is the tagged variant produced by reduction. Exactly one of the
// payload fields is meaningful, selected by Kind. Values are produced
// transiently during decoding and never persisted.
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	Str    string
	Array  []Value
	Map    map[string]Value
}

// Nil returns the nil Value.
func Nil() Value { return Value{Kind: KindNil} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Number wraps a float64.
func Number(n float64) Value { return Value{Kind: KindNumber, Number: n} }

// String wraps a string.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Array wraps an ordered list of values.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Kind: KindArray, Array: elems}
}

// Map wraps string-keyed entries.
func Map(entries map[string]Value) Value {
	if entries == nil {
		entries = map[string]Value{}
	}
	return Value{Kind: KindMap, Map: entries}
}

// Field returns the entry for key from a map value. The boolean reports
// whether the value is a map and the key is present.
func (v Value) Field(key string) (Value, bool) {
	if v.Kind != KindMap {
		return Value{}, false
	}
	entry, ok := v.Map[key]
	return entry, ok
}

// FormatNumber renders a number the way table keys are rendered: integral
// values without a decimal point, everything else in shortest float form.
func FormatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
