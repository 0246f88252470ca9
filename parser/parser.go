// Package parser provides lisp readers.
//
// NewReader returns the default recursive-descent reader.  NewParsecReader
// returns an equivalent reader built from parser combinators for the grammar
//
//	expr   := '(' <expr>* ')' | '\'' <expr> | <float> | <int> | <string> | <symbol>
//	float  := /-?[0-9]+[.][0-9]*/
//	int    := /-?[0-9]+/
//	string := /"[^"]*"/
//	symbol := /[A-Za-z+\-*\/=!@#$%^&][A-Za-z0-9+\-*\/=!@#$%^&]*/
//	comment := /;[^\n]*/
//
// The parsec reader does not record source locations.
package parser

import (
	"fmt"
	"io"
	"strconv"

	"github.com/bmatsuo/minilisp/lisp"
	"github.com/bmatsuo/minilisp/parser/lexer"
	"github.com/bmatsuo/minilisp/parser/rdparser"
	"github.com/bmatsuo/minilisp/parser/token"
	parsec "github.com/prataprc/goparsec"
)

// NewReader returns the default lisp.Reader.
func NewReader() lisp.Reader {
	return rdparser.NewReader()
}

// NewParsecReader returns a lisp.Reader implemented with parser combinators.
func NewParsecReader() lisp.Reader {
	return &parsecReader{}
}

// ReaderByName returns the reader with the given name, "rd" or "parsec".
func ReaderByName(name string) (lisp.Reader, error) {
	switch name {
	case "", "rd":
		return NewReader(), nil
	case "parsec":
		return NewParsecReader(), nil
	default:
		return nil, fmt.Errorf("unknown reader: %q", name)
	}
}

type parsecReader struct{}

// Read implements lisp.Reader.
func (*parsecReader) Read(syms lisp.Interner, name string, r io.Reader) ([]*lisp.LVal, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseLVal(syms, name, text)
}

// ParseLVal parses all expressions in text.
func ParseLVal(syms lisp.Interner, name string, text []byte) ([]*lisp.LVal, error) {
	var exprs []*lisp.LVal
	s := parsec.NewScanner(text)
	expr := newParsecParser(syms)
	root, s := expr(s)
	for root != nil {
		v, err := getLVal(root)
		if err != nil {
			return nil, err
		}
		if v != nil {
			exprs = append(exprs, v)
		}
		root, s = expr(s)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		return nil, remainderError(name, text, s.GetCursor())
	}
	return exprs, nil
}

const (
	nodeInvalid nodeType = iota
	nodeTerm
	nodeList
	nodeQuote
)

var nodeTypeStrings = []string{
	nodeInvalid: "INVALID",
	nodeTerm:    "TERM",
	nodeList:    "LIST",
	nodeQuote:   "QUOTE",
}

type nodeType uint

func (t nodeType) String() string {
	if int(t) >= len(nodeTypeStrings) {
		return "INVALID"
	}
	return nodeTypeStrings[t]
}

// parseError is a node produced for a token that matched the grammar but
// could not be converted to a value.
type parseError struct {
	err error
}

func newParsecParser(syms lisp.Interner) parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	q := parsec.Atom("'", "QUOTE")
	comment := parsec.Token(`^;[^\n]*`, "COMMENT")
	float := parsec.Token(`^-?[0-9]+\.[0-9]*`, "FLOAT")
	integer := parsec.Token(`^-?[0-9]+`, "INT")
	str := parsec.Token(`^"[^"]*"`, "STRING")
	symbol := parsec.Token(`^[A-Za-z+\-*/=!@#$%^&][A-Za-z0-9+\-*/=!@#$%^&]*`, "SYMBOL")
	b := &astBuilder{syms: syms}
	term := parsec.OrdChoice(b.node(nodeTerm),
		float,
		integer,
		str,
		symbol, // symbol comes last because it swallows a leading '-'
	)
	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	list := parsec.And(b.node(nodeList), openP, exprList, closeP)
	quote := parsec.And(b.node(nodeQuote), q, &expr)
	expr = parsec.OrdChoice(nil, comment, term, list, quote)
	return expr
}

type astBuilder struct {
	syms lisp.Interner
}

func (b *astBuilder) node(t nodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return b.newAST(t, nodes)
	}
}

func (b *astBuilder) newAST(typ nodeType, nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanParsecNodeList(nodes)
	switch typ {
	case nodeTerm:
		term, ok := nodes[0].(*parsec.Terminal)
		if !ok {
			panic(fmt.Sprintf("unexpected term node: %T", nodes[0]))
		}
		return b.terminal(term)
	case nodeList:
		var lb lisp.ListBuilder
		// Skip the terminal nodes for '(' and ')' and any comments.
		for _, c := range nodes {
			switch c := c.(type) {
			case *lisp.LVal:
				lb.Append(c)
			case *parseError:
				return c
			}
		}
		return lb.List()
	case nodeQuote:
		for _, c := range nodes {
			switch c := c.(type) {
			case *lisp.LVal:
				return lisp.List(b.syms.Intern("quote"), c)
			case *parseError:
				return c
			}
		}
		// A quoted comment is not an expression.
		return &parseError{lisp.Errorf(lisp.ErrReader, "quote is not followed by an expression")}
	default:
		panic(fmt.Sprintf("unknown nodeType: %s (%d)", typ, typ))
	}
}

func (b *astBuilder) terminal(term *parsec.Terminal) parsec.ParsecNode {
	switch term.Name {
	case "FLOAT":
		f, err := strconv.ParseFloat(term.Value, 64)
		if err != nil {
			return &parseError{lisp.Errorf(lisp.ErrReader, "invalid floating point literal: %v", term.Value)}
		}
		return lisp.Float(f)
	case "INT":
		x, err := strconv.ParseInt(term.Value, 10, 64)
		if err != nil {
			return &parseError{lisp.Errorf(lisp.ErrReader, "integer literal overflows int64: %v", term.Value)}
		}
		return lisp.Int(x)
	case "STRING":
		return lisp.String(term.Value[1 : len(term.Value)-1])
	case "SYMBOL":
		return b.syms.Intern(term.Value)
	}
	panic(fmt.Sprintf("unknown terminal: %s", term.Name))
}

func cleanParsecNodeList(lis []parsec.ParsecNode) []parsec.ParsecNode {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case []parsec.ParsecNode:
			nodes = append(nodes, cleanParsecNodeList(node)...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// getLVal returns the value of a root node.  A nil value is returned for a
// top-level comment.
func getLVal(root parsec.ParsecNode) (*lisp.LVal, error) {
	nodes := cleanParsecNodeList([]parsec.ParsecNode{root})
	if len(nodes) == 0 {
		return nil, nil
	}
	switch node := nodes[0].(type) {
	case *lisp.LVal:
		return node, nil
	case *parseError:
		return nil, node.err
	}
	return nil, nil
}

// remainderError explains why text could not be parsed beyond offset.  Input
// that ends inside a list or string is reported as incomplete.
func remainderError(name string, text []byte, offset int) error {
	depth := 0
	quoted := false
	for i := offset; i < len(text); i++ {
		c := text[i]
		switch {
		case c == ';':
			for i < len(text) && text[i] != '\n' {
				i++
			}
			continue
		case c == '"':
			end := i + 1
			for end < len(text) && text[end] != '"' {
				end++
			}
			if end >= len(text) {
				return incompleteError(name, offset, "unterminated string")
			}
			i = end
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				return readerError(name, i, "unexpected )")
			}
		case c == '\'' || c == ' ' || c == '\t' || c == '\r' || c == '\n':
		case isSymbolByte(c):
		default:
			return readerError(name, i, fmt.Sprintf("unprocessed character: %q", c))
		}
		quoted = c == '\''
	}
	if depth > 0 {
		return incompleteError(name, offset, "unmatched (")
	}
	if quoted {
		return incompleteError(name, offset, "unexpected end of input")
	}
	return readerError(name, offset, "invalid syntax")
}

func isSymbolByte(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', c == '.':
		return true
	}
	for i := 0; i < len(lexer.SymbolPunct); i++ {
		if lexer.SymbolPunct[i] == c {
			return true
		}
	}
	return false
}

func readerError(name string, offset int, msg string) error {
	err := lisp.Errorf(lisp.ErrReader, "%s", msg)
	err.Source = &token.Location{File: name, Pos: offset}
	return err
}

func incompleteError(name string, offset int, msg string) error {
	err := lisp.WrapError(lisp.ErrReader, io.ErrUnexpectedEOF)
	err.Msg = msg
	err.Source = &token.Location{File: name, Pos: offset}
	return err
}
