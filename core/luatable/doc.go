// Package luatable decodes the restricted Lua table-literal syntax used by
// SavedVariables files into a generic tagged value tree.
//
// SavedVariables files are machine-generated data, not programs: the add-on
// serializes its state as a sequence of top-level assignments whose right-hand
// sides are nested table constructors, literals, and the occasional negated
// number. The decoder therefore accepts exactly that subset and nothing else.
// Function calls, conditionals, loops, and any other executable construct are
// rejected with a DecodeError instead of being evaluated.
//
// # Pipeline
//
// Decoding happens in three pure stages:
//
//  1. Lexer: raw bytes -> token stream (comments are skipped here)
//  2. Parser: token stream -> AST of assignment statements
//  3. Reduce: AST expression -> Value (the tagged variant)
//
// Reduce is a stateless recursive transform, so each node type can be unit
// tested in isolation by constructing the AST directly.
//
// # Array/map disambiguation
//
// A table constructor is reduced to a map when its first field carries an
// explicit key and to an array otherwise. This mirrors the add-on's
// serializer and is a heuristic: a mixed table is classified solely by its
// first field. A map that ends up with zero entries normalizes to an empty
// array, matching the serializer's empty-table convention.
//
// # Usage
//
//	val, err := luatable.DecodeGlobal(data, "ScribeyDB")
//	if errors.Is(err, luatable.ErrGlobalNotFound) {
//	    // file does not contain the add-on's table
//	}
package luatable
