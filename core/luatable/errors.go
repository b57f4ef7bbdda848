package luatable

import (
	"errors"
	"fmt"
)

// ErrGlobalNotFound reports that no top-level assignment matched the
// requested global name.
var ErrGlobalNotFound = errors.New("global table not found")

// DecodeError reports a syntax construct outside the restricted table-literal
// grammar. NodeType names the offending construct (e.g. "function call",
// "conditional"); Line is 1-based when known, 0 otherwise.
type DecodeError struct {
	NodeType string
	Line     int
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("unsupported construct %q at line %d", e.NodeType, e.Line)
	}
	return fmt.Sprintf("unsupported construct %q", e.NodeType)
}
