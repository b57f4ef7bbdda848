package luatable

// DecodeGlobal parses src and returns the reduced value of the first
// top-level assignment whose target matches name. Later assignments to the
// same name are deliberately ignored: the add-on writes each global exactly
// once, and first-match keeps behavior stable if that ever changes.
//
// Returns ErrGlobalNotFound when no assignment matches.
func DecodeGlobal(src []byte, name string) (Value, error) {
	stmts, err := Parse(src)
	if err != nil {
		return Value{}, err
	}
	for _, stmt := range stmts {
		if stmt.Name == name {
			return Reduce(stmt.Val)
		}
	}
	return Value{}, ErrGlobalNotFound
}
