// Package rdparser implements a recursive-descent parser for lisp source
// text.
package rdparser

import (
	"fmt"
	"io"
	"strconv"

	"github.com/bmatsuo/minilisp/lisp"
	"github.com/bmatsuo/minilisp/parser/lexer"
	"github.com/bmatsuo/minilisp/parser/token"
)

type reader struct {
}

// NewReader returns a lisp.Reader to use in a lisp.Runtime.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.
func (*reader) Read(syms lisp.Interner, name string, r io.Reader) ([]*lisp.LVal, error) {
	p := New(syms, token.NewScanner(name, r))
	return p.ParseProgram()
}

// Parser is a lisp parser.
type Parser struct {
	lex  *lexer.Lexer
	syms lisp.Interner
	curr *token.Token
	peek *token.Token
}

// New initializes and returns a new Parser that reads tokens from scanner and
// interns symbols using syms.
func New(syms lisp.Interner, scanner *token.Scanner) *Parser {
	p := &Parser{
		lex:  lexer.New(scanner),
		syms: syms,
	}
	// Setup the peek token so the parser is in the proper state when the
	// first parse function is called.
	p.ReadToken()
	return p
}

// ParseProgram parses all remaining expressions in the input.
func (p *Parser) ParseProgram() ([]*lisp.LVal, error) {
	var exprs []*lisp.LVal
	for {
		p.skipComments()
		if p.expect(token.EOF) {
			break
		}
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// ParseExpression parses the next expression in the input.
func (p *Parser) ParseExpression() (*lisp.LVal, error) {
	p.skipComments()
	switch p.PeekType() {
	case token.INT:
		return p.ParseLiteralInt()
	case token.FLOAT:
		return p.ParseLiteralFloat()
	case token.STRING:
		return p.ParseLiteralString()
	case token.QUOTE:
		return p.ParseQuote()
	case token.SYMBOL:
		return p.ParseSymbol()
	case token.PAREN_L:
		return p.ParseConsExpression()
	case token.EOF, token.INCOMPLETE:
		p.ReadToken()
		return nil, p.incompletef(p.Token().Source, "unexpected end of input")
	case token.ERROR, token.INVALID:
		p.ReadToken()
		return nil, p.errorf("%s", p.Token().Text)
	default:
		p.ReadToken()
		return nil, p.errorf("unexpected %s", p.Token().Type)
	}
}

func (p *Parser) ParseLiteralInt() (*lisp.LVal, error) {
	if !p.expect(token.INT) {
		return nil, p.errorf("invalid integer literal: %v", p.PeekType())
	}
	text := p.Token().Text
	x, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errorf("integer literal overflows int64: %v", text)
	}
	return lisp.Int(x), nil
}

func (p *Parser) ParseLiteralFloat() (*lisp.LVal, error) {
	if !p.expect(token.FLOAT) {
		return nil, p.errorf("invalid float literal: %v", p.PeekType())
	}
	text := p.Token().Text
	x, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf("invalid floating point literal: %v", text)
	}
	return lisp.Float(x), nil
}

func (p *Parser) ParseLiteralString() (*lisp.LVal, error) {
	if !p.expect(token.STRING) {
		return nil, p.errorf("invalid string literal: %v", p.PeekType())
	}
	text := p.Token().Text
	return lisp.String(text[1 : len(text)-1]), nil
}

func (p *Parser) ParseQuote() (*lisp.LVal, error) {
	if !p.expect(token.QUOTE) {
		return nil, p.errorf("invalid quote: %v", p.PeekType())
	}
	tok := p.Token()
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	v := lisp.List(p.syms.Intern("quote"), expr)
	v.Source = tok.Source
	return v, nil
}

func (p *Parser) ParseSymbol() (*lisp.LVal, error) {
	if !p.expect(token.SYMBOL) {
		return nil, p.errorf("invalid symbol: %v", p.PeekType())
	}
	return p.syms.Intern(p.Token().Text), nil
}

func (p *Parser) ParseConsExpression() (*lisp.LVal, error) {
	if !p.expect(token.PAREN_L) {
		return nil, p.errorf("invalid list: %v", p.PeekType())
	}
	open := p.Token()
	var b lisp.ListBuilder
	for {
		p.skipComments()
		if p.expect(token.EOF, token.INCOMPLETE) {
			return nil, p.incompletef(open.Source, "unmatched %s", open.Text)
		}
		if p.expect(token.PAREN_R) {
			break
		}
		x, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		b.Append(x)
	}
	expr := b.List()
	if !expr.IsNil() {
		expr.Source = open.Source
	}
	return expr, nil
}

func (p *Parser) ReadToken() *token.Token {
	p.curr = p.peek
	p.peek = p.lex.NextToken()
	return p.curr
}

func (p *Parser) Token() *token.Token {
	return p.curr
}

func (p *Parser) Peek() *token.Token {
	return p.peek
}

func (p *Parser) PeekType() token.Type {
	return p.peek.Type
}

func (p *Parser) skipComments() {
	for p.expect(token.COMMENT) {
	}
}

func (p *Parser) expect(typ ...token.Type) bool {
	peekType := p.peek.Type
	for _, typ := range typ {
		if typ == peekType {
			p.ReadToken()
			return true
		}
	}
	return false
}

func (p *Parser) errorf(format string, v ...interface{}) error {
	err := lisp.Errorf(lisp.ErrReader, format, v...)
	err.Source = p.Token().Source
	return err
}

// incompletef returns a reader error for input that ended before the
// expression starting at loc was complete.
func (p *Parser) incompletef(loc *token.Location, format string, v ...interface{}) error {
	return &lisp.Error{
		Kind:   lisp.ErrReader,
		Msg:    fmt.Sprintf(format, v...),
		Source: loc,
		Err:    io.ErrUnexpectedEOF,
	}
}
