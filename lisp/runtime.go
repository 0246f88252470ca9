package lisp

import (
	"io"
	"log"
	"os"

	"github.com/bmatsuo/minilisp/symbol"
)

// Interner returns the unique symbol value for a name.
type Interner interface {
	Intern(name string) *LVal
}

// Reader parses the forms in a source stream.  Symbols are resolved through
// the Interner so that the forms can be evaluated in the environment that
// supplied it.
type Reader interface {
	Read(syms Interner, name string, r io.Reader) ([]*LVal, error)
}

// Loader returns the source text of a named module.
type Loader func(name string) ([]byte, error)

// Runtime is state shared by every environment descending from one root
// environment.  A Runtime is not safe for concurrent use.
type Runtime struct {
	Symbols symbol.Table
	Stack   *CallStack
	Reader  Reader
	Loader  Loader
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *log.Logger

	syms    map[symbol.ID]*LVal
	modules map[string]bool
}

// NewRuntime returns a Runtime with an empty symbol table that writes to the
// process's standard streams and discards log output.
func NewRuntime() *Runtime {
	return &Runtime{
		Symbols: symbol.NewTable(),
		Stack:   &CallStack{MaxHeight: DefaultMaxStackHeight},
		Loader:  os.ReadFile,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Logger:  log.New(io.Discard, "", 0),
		syms:    make(map[symbol.ID]*LVal),
		modules: make(map[string]bool),
	}
}

// Intern returns the unique symbol named name, creating it if necessary.
func (rt *Runtime) Intern(name string) *LVal {
	id := rt.Symbols.Intern(name)
	sym, ok := rt.syms[id]
	if ok {
		return sym
	}
	sym = &LVal{Type: LSymbol, Str: name}
	rt.syms[id] = sym
	return sym
}

// Interned reports whether a symbol named name has been interned.
func (rt *Runtime) Interned(name string) bool {
	_, ok := rt.Symbols.Peek(name)
	return ok
}
