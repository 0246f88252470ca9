// Package lexer splits lisp source text into tokens.
package lexer

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/bmatsuo/minilisp/parser/token"
)

// SymbolPunct are the non-alphanumeric characters allowed in symbols.
const SymbolPunct = "+-*/=!@#$%^&"

// Lexer produces tokens from a token.Scanner.
type Lexer struct {
	scanner *token.Scanner
	ch      rune // current unicode rune

	// readErr is the error that stopped scanning, if any.
	readErr error
}

// New returns a Lexer reading from s.
func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// NextToken returns the next token in the input.  Once an EOF, ERROR,
// INCOMPLETE or INVALID token has been returned the lexer will return EOF or
// ERROR tokens indefinitely.
func (lex *Lexer) NextToken() *token.Token {
	if lex.readErr != nil {
		return lex.emitError(lex.readErr, true)
	}
	lex.readErr = lex.skipWhitespace()
	if lex.readErr != nil {
		return lex.emitError(lex.readErr, true)
	}
	lex.readChar()
	if lex.readErr != nil {
		return lex.emitError(lex.readErr, true)
	}
	switch lex.ch {
	case '(':
		return lex.scanner.EmitToken(token.PAREN_L)
	case ')':
		return lex.scanner.EmitToken(token.PAREN_R)
	case '\'':
		return lex.scanner.EmitToken(token.QUOTE)
	case ';':
		for lex.peekRune() != '\n' {
			err := lex.readChar()
			if err == io.EOF {
				lex.readErr = nil
				return lex.scanner.EmitToken(token.COMMENT)
			}
			if err != nil {
				return lex.emitError(err, false)
			}
		}
		return lex.scanner.EmitToken(token.COMMENT)
	case '"':
		// Strings are raw.  They may span lines and backslash has no special
		// meaning.
		for lex.peekRune() != '"' {
			err := lex.readChar()
			if err != nil {
				return lex.emitError(err, false)
			}
		}
		err := lex.readChar()
		if err != nil {
			return lex.emitError(err, false)
		}
		return lex.scanner.EmitToken(token.STRING)
	case '-':
		if isDigit(lex.peekRune()) {
			return lex.readNumber()
		}
		return lex.readSymbol()
	default:
		if isDigit(lex.ch) {
			return lex.readNumber()
		}
		if isSymbolStart(lex.ch) {
			return lex.readSymbol()
		}
		lex.readErr = fmt.Errorf("unprocessed character: %q", lex.ch)
		return lex.emit(token.INVALID, lex.readErr.Error())
	}
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}
	lex.scanner.Ignore()
	return tok
}

// emitError returns a token for err.  An io.EOF is an EOF token when
// expectEOF is true and an INCOMPLETE token otherwise.
func (lex *Lexer) emitError(err error, expectEOF bool) *token.Token {
	if err == io.EOF {
		if expectEOF {
			return lex.emit(token.EOF, "")
		}
		return lex.emit(token.INCOMPLETE, "unexpected EOF")
	}
	return lex.emit(token.ERROR, err.Error())
}

func (lex *Lexer) readSymbol() *token.Token {
	for isSymbol(lex.peekRune()) {
		err := lex.readChar()
		if err != nil {
			return lex.emitError(err, false)
		}
	}
	return lex.scanner.EmitToken(token.SYMBOL)
}

// readNumber reads an optionally negative integer or a float.  A float has a
// decimal point and any number of fraction digits.
func (lex *Lexer) readNumber() *token.Token {
	for isDigit(lex.peekRune()) {
		err := lex.readChar()
		if err != nil {
			return lex.emitError(err, false)
		}
	}
	if lex.peekRune() != '.' {
		return lex.scanner.EmitToken(token.INT)
	}
	err := lex.readChar()
	if err != nil {
		return lex.emitError(err, false)
	}
	for isDigit(lex.peekRune()) {
		err := lex.readChar()
		if err != nil {
			return lex.emitError(err, false)
		}
	}
	return lex.scanner.EmitToken(token.FLOAT)
}

func (lex *Lexer) skipWhitespace() error {
	for unicode.IsSpace(lex.peekRune()) {
		err := lex.readChar()
		if err != nil {
			return err
		}
	}
	lex.scanner.Ignore()
	return nil
}

func (lex *Lexer) peekRune() rune {
	r, _ := lex.scanner.Peek()
	return r
}

func (lex *Lexer) readChar() error {
	lex.readErr = lex.scanner.ScanRune()
	if lex.readErr != nil {
		return lex.readErr
	}
	lex.ch = lex.scanner.Rune()
	return nil
}

func isASCIILetter(c rune) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isSymbolStart(c rune) bool {
	return isASCIILetter(c) || strings.ContainsRune(SymbolPunct, c)
}

func isSymbol(c rune) bool {
	return isSymbolStart(c) || isDigit(c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
