package luatable

import "strings"

// Reduce transforms a parsed expression into a Value. It is a pure recursive
// transform: no state is threaded between calls, so individual node types can
// be exercised directly in tests.
func Reduce(e Expr) (Value, error) {
	switch n := e.(type) {
	case NilExpr:
		return Nil(), nil

	case BoolExpr:
		return Bool(n.Val), nil

	case NumberExpr:
		return Number(n.Val), nil

	case StringExpr:
		if n.Resolved {
			return String(n.Val), nil
		}
		return String(stripQuotes(n.Raw)), nil

	case NameExpr:
		// References are never looked up; the name itself is the value.
		return String(n.Name), nil

	case UnaryExpr:
		return reduceUnary(n)

	case TableExpr:
		return reduceTable(n)

	default:
		return Value{}, &DecodeError{NodeType: "unknown expression"}
	}
}

func reduceUnary(n UnaryExpr) (Value, error) {
	operand, err := Reduce(n.Operand)
	if err != nil {
		return Value{}, err
	}
	if n.Op != "-" || operand.Kind != KindNumber {
		return Value{}, &DecodeError{NodeType: "unary " + n.Op + " on " + operand.Kind.String()}
	}
	return Number(-operand.Number), nil
}

// reduceTable applies the serializer's shape heuristic: the first field's
// key-presence decides between map and array. A mixed table is still reduced
// consistently (positional fields in map mode get their ordinal as key; keys
// in array mode are ignored) rather than rejected.
func reduceTable(n TableExpr) (Value, error) {
	if len(n.Fields) == 0 {
		return Array(), nil
	}

	if n.Fields[0].Key != nil {
		entries := make(map[string]Value, len(n.Fields))
		ordinal := 0
		for _, field := range n.Fields {
			val, err := Reduce(field.Val)
			if err != nil {
				return Value{}, err
			}
			var key string
			if field.Key == nil {
				ordinal++
				key = FormatNumber(float64(ordinal))
			} else {
				key, err = reduceKey(field.Key)
				if err != nil {
					return Value{}, err
				}
			}
			entries[key] = val
		}
		// Empty tables serialize as "{}" and always decode as arrays; a map
		// reduced to zero entries normalizes the same way.
		if len(entries) == 0 {
			return Array(), nil
		}
		return Map(entries), nil
	}

	elems := make([]Value, 0, len(n.Fields))
	for _, field := range n.Fields {
		val, err := Reduce(field.Val)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, val)
	}
	return Array(elems...), nil
}

// reduceKey reduces a key expression to its string form. Keys must reduce to
// a string or a number.
func reduceKey(e Expr) (string, error) {
	val, err := Reduce(e)
	if err != nil {
		return "", err
	}
	switch val.Kind {
	case KindString:
		return val.Str, nil
	case KindNumber:
		return FormatNumber(val.Number), nil
	default:
		return "", &DecodeError{NodeType: val.Kind.String() + " table key"}
	}
}

// stripQuotes derives a string value from raw literal source when no resolved
// value is available.
func stripQuotes(raw string) string {
	if len(raw) >= 4 && strings.HasPrefix(raw, "[[") && strings.HasSuffix(raw, "]]") {
		return raw[2 : len(raw)-2]
	}
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '"' || first == '\'') && first == last {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}
