// Package token defines the lexical tokens of lisp source text and a Scanner
// that tracks their source locations.
package token

import "fmt"

// Token is a lexical token read from source text.
type Token struct {
	Type   Type
	Text   string
	Source *Location
}

func (tok *Token) String() string {
	return fmt.Sprintf("%s %s %q", tok.Source, tok.Type, tok.Text)
}

// Type is the type of a Token.
type Type uint

// Type constants used by the lexer and parser.
const (
	INVALID Type = iota
	ERROR
	// INCOMPLETE is emitted when input ends inside a token, such as an
	// unterminated string.
	INCOMPLETE
	EOF

	// Atomic expressions & literals
	SYMBOL
	INT
	FLOAT
	STRING

	COMMENT

	// Operators
	QUOTE

	// Delimiters
	PAREN_L
	PAREN_R

	numTokenTypes
)

var typeStrings = [numTokenTypes]string{
	INVALID:    "invalid",
	ERROR:      "error",
	INCOMPLETE: "incomplete",
	EOF:        "EOF",
	SYMBOL:     "symbol",
	INT:        "int",
	FLOAT:      "float",
	STRING:     "string",
	COMMENT:    ";",
	QUOTE:      "'",
	PAREN_L:    "(",
	PAREN_R:    ")",
}

func (typ Type) String() string {
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// Location is a position in a named source stream.
type Location struct {
	File string
	Pos  int // byte offset
	Line int // line number (starting at 1 when tracked)
	Col  int // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}
