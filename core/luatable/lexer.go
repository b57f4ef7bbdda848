package luatable

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tkEOF tokenKind = iota
	tkName
	tkNumber
	tkString
	tkAssign   // =
	tkLBrace   // {
	tkRBrace   // }
	tkLBracket // [
	tkRBracket // ]
	tkLParen   // (
	tkRParen   // )
	tkComma    // ,
	tkSemi     // ;
	tkMinus    // -
	tkDot      // .
)

type token struct {
	kind tokenKind
	text string // identifier name or raw literal text
	str  string // unescaped value for tkString
	num  float64
	line int
}

// lexer produces tokens from raw file bytes. Comments (both "--" line
// comments and "--[[ ]]" block comments) are consumed silently.
type lexer struct {
	src  string
	pos  int
	line int
}

func newLexer(src []byte) *lexer {
	return &lexer{src: string(src), line: 1}
}

func (l *lexer) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", l.line, fmt.Sprintf(format, args...))
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
	}
	return c
}

// next returns the next token, skipping whitespace and comments.
func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) {
		c := l.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '-' && l.peekAt(1) == '-':
			l.advance()
			l.advance()
			if err := l.skipComment(); err != nil {
				return token{}, err
			}
		default:
			return l.scanToken()
		}
	}
	return token{kind: tkEOF, line: l.line}, nil
}

// skipComment consumes the remainder of a comment whose "--" prefix has
// already been read.
func (l *lexer) skipComment() error {
	if l.peek() == '[' && l.peekAt(1) == '[' {
		l.advance()
		l.advance()
		for l.pos < len(l.src) {
			if l.peek() == ']' && l.peekAt(1) == ']' {
				l.advance()
				l.advance()
				return nil
			}
			l.advance()
		}
		return l.errorf("unterminated block comment")
	}
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
	return nil
}

func (l *lexer) scanToken() (token, error) {
	line := l.line
	c := l.peek()
	switch {
	case isNameStart(c):
		return l.scanName(line), nil
	case c >= '0' && c <= '9':
		return l.scanNumber(line)
	case c == '.' && l.peekAt(1) >= '0' && l.peekAt(1) <= '9':
		return l.scanNumber(line)
	case c == '"' || c == '\'':
		return l.scanString(line)
	case c == '[' && l.peekAt(1) == '[':
		return l.scanLongString(line)
	}

	l.advance()
	simple := map[byte]tokenKind{
		'=': tkAssign,
		'{': tkLBrace,
		'}': tkRBrace,
		'[': tkLBracket,
		']': tkRBracket,
		'(': tkLParen,
		')': tkRParen,
		',': tkComma,
		';': tkSemi,
		'-': tkMinus,
		'.': tkDot,
	}
	if kind, ok := simple[c]; ok {
		return token{kind: kind, text: string(c), line: line}, nil
	}
	return token{}, l.errorf("unexpected character %q", string(c))
}

func (l *lexer) scanName(line int) token {
	start := l.pos
	for l.pos < len(l.src) && isNamePart(l.peek()) {
		l.advance()
	}
	return token{kind: tkName, text: l.src[start:l.pos], line: line}
}

func (l *lexer) scanNumber(line int) (token, error) {
	start := l.pos
	// Hex literals are emitted for some bit-flag fields.
	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.advance()
		l.advance()
		for l.pos < len(l.src) && isHexDigit(l.peek()) {
			l.advance()
		}
		raw := l.src[start:l.pos]
		n, err := strconv.ParseUint(raw[2:], 16, 64)
		if err != nil {
			return token{}, l.errorf("malformed hex number %q", raw)
		}
		return token{kind: tkNumber, text: raw, num: float64(n), line: line}, nil
	}
	for l.pos < len(l.src) {
		c := l.peek()
		if (c >= '0' && c <= '9') || c == '.' {
			l.advance()
			continue
		}
		if c == 'e' || c == 'E' {
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			continue
		}
		break
	}
	raw := l.src[start:l.pos]
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return token{}, l.errorf("malformed number %q", raw)
	}
	return token{kind: tkNumber, text: raw, num: n, line: line}, nil
}

func (l *lexer) scanString(line int) (token, error) {
	quote := l.advance()
	start := l.pos
	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.advance()
		switch c {
		case quote:
			raw := string(quote) + l.src[start:l.pos-1] + string(quote)
			return token{kind: tkString, text: raw, str: b.String(), line: line}, nil
		case '\n':
			return token{}, l.errorf("unterminated string")
		case '\\':
			if l.pos >= len(l.src) {
				return token{}, l.errorf("unterminated string")
			}
			if err := l.scanEscape(&b); err != nil {
				return token{}, err
			}
		default:
			b.WriteByte(c)
		}
	}
	return token{}, l.errorf("unterminated string")
}

func (l *lexer) scanEscape(b *strings.Builder) error {
	c := l.advance()
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'a':
		b.WriteByte(7)
	case 'b':
		b.WriteByte(8)
	case 'f':
		b.WriteByte(12)
	case 'v':
		b.WriteByte(11)
	case '\\', '"', '\'':
		b.WriteByte(c)
	case '\n':
		b.WriteByte('\n')
	default:
		// Decimal escapes (up to three digits) encode raw bytes, commonly
		// used for UI color codes in profession names.
		if c >= '0' && c <= '9' {
			n := int(c - '0')
			for i := 0; i < 2 && l.peek() >= '0' && l.peek() <= '9'; i++ {
				n = n*10 + int(l.advance()-'0')
			}
			if n > 255 {
				return l.errorf("decimal escape out of range")
			}
			b.WriteByte(byte(n))
			return nil
		}
		return l.errorf("unknown escape \\%s", string(c))
	}
	return nil
}

func (l *lexer) scanLongString(line int) (token, error) {
	l.advance()
	l.advance()
	start := l.pos
	for l.pos < len(l.src) {
		if l.peek() == ']' && l.peekAt(1) == ']' {
			val := l.src[start:l.pos]
			l.advance()
			l.advance()
			return token{kind: tkString, text: "[[" + val + "]]", str: val, line: line}, nil
		}
		l.advance()
	}
	return token{}, l.errorf("unterminated long string")
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNamePart(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
