package lisp

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bmatsuo/minilisp/parser/token"
)

// ErrorKind classifies runtime errors.
type ErrorKind uint

// Possible ErrorKind values
const (
	ErrUnknown ErrorKind = iota
	ErrReader
	ErrUnboundSymbol
	ErrArity
	ErrType
	ErrNotCallable
	ErrMalformedParams
	ErrZeroDivision
	ErrStackOverflow
	ErrLoad
)

var errorKindStrings = []string{
	ErrUnknown:         "Error",
	ErrReader:          "ReaderError",
	ErrUnboundSymbol:   "UnboundSymbolError",
	ErrArity:           "ArityError",
	ErrType:            "TypeError",
	ErrNotCallable:     "NotCallableError",
	ErrMalformedParams: "MalformedParameterListError",
	ErrZeroDivision:    "ZeroDivisionError",
	ErrStackOverflow:   "StackOverflowError",
	ErrLoad:            "LoadError",
}

func (k ErrorKind) String() string {
	if int(k) >= len(errorKindStrings) {
		return errorKindStrings[ErrUnknown]
	}
	return errorKindStrings[k]
}

// Error is the error type returned by the reader and the evaluator.
type Error struct {
	Kind ErrorKind
	Msg  string
	// Form is the rendered text of the innermost form being evaluated when
	// the error occurred.
	Form string
	// Source is the location of the innermost form with source information.
	Source *token.Location
	// Stack is a snapshot of the call stack when the error was created.
	Stack *CallStack
	// Err is the underlying cause, if any.
	Err error
}

// Errorf returns a new Error of the given kind with a formatted message.
func Errorf(kind ErrorKind, format string, v ...interface{}) *Error {
	return &Error{
		Kind: kind,
		Msg:  fmt.Sprintf(format, v...),
	}
}

// WrapError returns a new Error of the given kind caused by err.
func WrapError(kind ErrorKind, err error) *Error {
	return &Error{
		Kind: kind,
		Msg:  err.Error(),
		Err:  err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var buf bytes.Buffer
	if e.Source != nil {
		buf.WriteString(e.Source.String())
		buf.WriteString(": ")
	}
	buf.WriteString(e.Kind.String())
	buf.WriteString(": ")
	buf.WriteString(e.Msg)
	return buf.String()
}

// Unwrap returns the cause of e.
func (e *Error) Unwrap() error {
	return e.Err
}

// Kind returns the ErrorKind of err.  Kind returns ErrUnknown if err is not
// an *Error.
func Kind(err error) ErrorKind {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr.Kind
	}
	return ErrUnknown
}

// annotate records form as the location of err if err does not already have
// one.
func annotate(err error, form *LVal) error {
	var lerr *Error
	if !errors.As(err, &lerr) {
		return err
	}
	if lerr.Form == "" {
		lerr.Form = form.String()
	}
	if lerr.Source == nil && form.Source != nil {
		lerr.Source = form.Source
	}
	return err
}
