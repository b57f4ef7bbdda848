package luatable

// Expr is a node in the restricted expression grammar. Each implementation
// reports a descriptive type name used in DecodeError messages.
type Expr interface {
	exprType() string
}

// NilExpr is the literal nil.
type NilExpr struct{}

// BoolExpr is the literal true or false.
type BoolExpr struct {
	Val bool
}

// NumberExpr is a numeric literal.
type NumberExpr struct {
	Val float64
	Raw string
}

// StringExpr is a string literal. Val holds the unescaped value when the
// parser resolved it; when Resolved is false, reduction falls back to Raw
// with the surrounding quote characters stripped.
type StringExpr struct {
	Val      string
	Raw      string
	Resolved bool
}

// NameExpr is a bare identifier reference. References are never resolved;
// reduction yields the identifier's name as a string, which only ever feeds
// key production.
type NameExpr struct {
	Name string
}

// UnaryExpr is a prefix operator application. Only negation of a numeric
// operand is representable data.
type UnaryExpr struct {
	Op      string
	Operand Expr
}

// TableExpr is a table constructor.
type TableExpr struct {
	Fields []TableField
}

// TableField is a single constructor field. Key is nil for positional
// fields.
type TableField struct {
	Key Expr
	Val Expr
}

// Assign is a top-level assignment statement binding Name to Val.
type Assign struct {
	Name string
	Val  Expr
	Line int
}

func (NilExpr) exprType() string    { return "nil literal" }
func (BoolExpr) exprType() string   { return "boolean literal" }
func (NumberExpr) exprType() string { return "number literal" }
func (StringExpr) exprType() string { return "string literal" }
func (NameExpr) exprType() string   { return "name reference" }
func (UnaryExpr) exprType() string  { return "unary expression" }
func (TableExpr) exprType() string  { return "table constructor" }
