package luatable

// parser is a recursive-descent parser for the restricted grammar:
//
//	chunk  := { Name '=' expr }
//	expr   := 'nil' | 'true' | 'false' | Number | String | Name
//	        | '-' expr | '{' [field {sep field} [sep]] '}'
//	field  := '[' expr ']' '=' expr | Name '=' expr | expr
//	sep    := ',' | ';'
//
// Anything else is rejected with a DecodeError naming the construct. The
// keyword set below only exists to produce precise error messages; none of
// these constructs are parsed.
type parser struct {
	lex *lexer
	tok token
}

var rejectedKeywords = map[string]string{
	"function": "function definition",
	"local":    "local declaration",
	"if":       "conditional",
	"for":      "loop",
	"while":    "loop",
	"repeat":   "loop",
	"return":   "return statement",
	"do":       "block",
	"end":      "block terminator",
}

// Parse tokenizes and parses src into its top-level assignment statements.
func Parse(src []byte) ([]Assign, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	var stmts []Assign
	for p.tok.kind != tkEOF {
		stmt, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) parseAssign() (Assign, error) {
	if p.tok.kind != tkName {
		return Assign{}, &DecodeError{NodeType: "statement", Line: p.tok.line}
	}
	if construct, ok := rejectedKeywords[p.tok.text]; ok {
		return Assign{}, &DecodeError{NodeType: construct, Line: p.tok.line}
	}
	name := p.tok.text
	line := p.tok.line
	if err := p.advance(); err != nil {
		return Assign{}, err
	}

	switch p.tok.kind {
	case tkAssign:
		// expected
	case tkDot, tkLBracket:
		return Assign{}, &DecodeError{NodeType: "field assignment", Line: p.tok.line}
	case tkLParen:
		return Assign{}, &DecodeError{NodeType: "function call", Line: p.tok.line}
	default:
		return Assign{}, &DecodeError{NodeType: "statement", Line: p.tok.line}
	}
	if err := p.advance(); err != nil {
		return Assign{}, err
	}

	val, err := p.parseExpr()
	if err != nil {
		return Assign{}, err
	}
	return Assign{Name: name, Val: val, Line: line}, nil
}

func (p *parser) parseExpr() (Expr, error) {
	switch p.tok.kind {
	case tkMinus:
		line := p.tok.line
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, ok := operand.(NumberExpr); !ok {
			return nil, &DecodeError{NodeType: "unary minus on " + operand.exprType(), Line: line}
		}
		return UnaryExpr{Op: "-", Operand: operand}, nil

	case tkNumber:
		e := NumberExpr{Val: p.tok.num, Raw: p.tok.text}
		return e, p.advance()

	case tkString:
		e := StringExpr{Val: p.tok.str, Raw: p.tok.text, Resolved: true}
		return e, p.advance()

	case tkName:
		return p.parseNameExpr()

	case tkLBrace:
		return p.parseTable()

	default:
		return nil, &DecodeError{NodeType: "token " + p.tok.text, Line: p.tok.line}
	}
}

func (p *parser) parseNameExpr() (Expr, error) {
	name := p.tok.text
	line := p.tok.line
	if construct, ok := rejectedKeywords[name]; ok {
		return nil, &DecodeError{NodeType: construct, Line: line}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	switch name {
	case "nil":
		return NilExpr{}, nil
	case "true":
		return BoolExpr{Val: true}, nil
	case "false":
		return BoolExpr{Val: false}, nil
	}
	if p.tok.kind == tkLParen {
		return nil, &DecodeError{NodeType: "function call", Line: line}
	}
	if p.tok.kind == tkDot {
		return nil, &DecodeError{NodeType: "field access", Line: line}
	}
	return NameExpr{Name: name}, nil
}

func (p *parser) parseTable() (Expr, error) {
	if err := p.advance(); err != nil { // consume '{'
		return nil, err
	}

	var fields []TableField
	for p.tok.kind != tkRBrace {
		field, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)

		if p.tok.kind == tkComma || p.tok.kind == tkSemi {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if p.tok.kind != tkRBrace {
			return nil, &DecodeError{NodeType: "table field separator", Line: p.tok.line}
		}
	}
	if err := p.advance(); err != nil { // consume '}'
		return nil, err
	}
	return TableExpr{Fields: fields}, nil
}

func (p *parser) parseField() (TableField, error) {
	switch p.tok.kind {
	case tkLBracket:
		if err := p.advance(); err != nil {
			return TableField{}, err
		}
		key, err := p.parseExpr()
		if err != nil {
			return TableField{}, err
		}
		if p.tok.kind != tkRBracket {
			return TableField{}, &DecodeError{NodeType: "table key", Line: p.tok.line}
		}
		if err := p.advance(); err != nil {
			return TableField{}, err
		}
		if p.tok.kind != tkAssign {
			return TableField{}, &DecodeError{NodeType: "table field", Line: p.tok.line}
		}
		if err := p.advance(); err != nil {
			return TableField{}, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return TableField{}, err
		}
		return TableField{Key: key, Val: val}, nil

	case tkName:
		// Either "name = expr" or a positional name reference. Two-token
		// lookahead is avoided by parsing the name first and checking for
		// '=' afterwards.
		expr, err := p.parseNameExpr()
		if err != nil {
			return TableField{}, err
		}
		name, isName := expr.(NameExpr)
		if isName && p.tok.kind == tkAssign {
			if err := p.advance(); err != nil {
				return TableField{}, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return TableField{}, err
			}
			return TableField{Key: StringExpr{Val: name.Name, Raw: name.Name, Resolved: true}, Val: val}, nil
		}
		return TableField{Val: expr}, nil

	default:
		val, err := p.parseExpr()
		if err != nil {
			return TableField{}, err
		}
		return TableField{Val: val}, nil
	}
}
