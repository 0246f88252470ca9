package lisp

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/bmatsuo/minilisp/internal/lfmt"
	"github.com/bmatsuo/minilisp/parser/token"
)

// LType is the type of an LVal
type LType uint

// Possible LType values
const (
	LInvalid LType = iota
	LNil
	LInt
	LFloat
	LString
	LBool
	LSymbol
	LCons
	LEnvType
	LBuiltin
	LFunction
	LLambda
	LMacro
)

var ltypeStrings = []string{
	LInvalid:  "UNDEFINED",
	LNil:      "NULL",
	LInt:      "INT",
	LFloat:    "FLOAT",
	LString:   "STRING",
	LBool:     "BOOL",
	LSymbol:   "SYMBOL",
	LCons:     "CONS",
	LEnvType:  "ENV",
	LBuiltin:  "BUILTIN",
	LFunction: "FUNCTION",
	LLambda:   "LAMBDA",
	LMacro:    "MACRO",
}

// String returns the type name used by the typeof builtin.
func (t LType) String() string {
	if int(t) >= len(ltypeStrings) {
		return ltypeStrings[LInvalid]
	}
	return ltypeStrings[t]
}

// TypeNames returns the names of all valid types in declaration order.
func TypeNames() []string {
	return append([]string(nil), ltypeStrings[LInvalid+1:]...)
}

// VarArgs is the arity of a builtin that accepts any number of arguments.
const VarArgs = -1

// LBuiltinFunc is a native function invoked by the evaluator.  Builtins
// receive their arguments evaluated, unless they are special operators.
type LBuiltinFunc func(env *LEnv, args *LVal) (*LVal, error)

// LVal is a lisp value.  The Type field determines which of the other fields
// are meaningful.
type LVal struct {
	Type LType

	Int   int64
	Float float64
	Bool  bool

	// Str holds the contents of an LString or the name of an LSymbol.
	Str string

	// CAR and CDR are the head and tail of an LCons.
	CAR *LVal
	CDR *LVal

	// Fields used by callable values.
	Name    string
	Arity   int
	Builtin LBuiltinFunc
	Special bool  // builtin receives unevaluated arguments
	Params  *LVal // list of symbols
	Body    *LVal // list of forms
	Env     *LEnv // captured environment (LLambda) or the value of an LEnvType

	// Source is the location of a list read from source text.
	Source *token.Location
}

const (
	intCacheMin = -5
	intCacheMax = 256
)

var (
	lnil     = &LVal{Type: LNil}
	ltrue    = &LVal{Type: LBool, Bool: true}
	lfalse   = &LVal{Type: LBool, Bool: false}
	intCache [intCacheMax - intCacheMin]*LVal
)

func init() {
	for i := range intCache {
		intCache[i] = &LVal{Type: LInt, Int: int64(i + intCacheMin)}
	}
}

// Nil returns the LNil value.  There is exactly one LNil value.
func Nil() *LVal {
	return lnil
}

// Int returns an LInt representing x.  Values in the range [-5, 256) are
// cached and always return the same *LVal.
func Int(x int64) *LVal {
	if x >= intCacheMin && x < intCacheMax {
		return intCache[x-intCacheMin]
	}
	return &LVal{Type: LInt, Int: x}
}

// Float returns an LFloat representing x.
func Float(x float64) *LVal {
	return &LVal{Type: LFloat, Float: x}
}

// String returns an LString containing s.
func String(s string) *LVal {
	return &LVal{Type: LString, Str: s}
}

// Bool returns the LBool value corresponding to ok.
func Bool(ok bool) *LVal {
	if ok {
		return ltrue
	}
	return lfalse
}

// True returns the true LBool.
func True() *LVal {
	return ltrue
}

// False returns the false LBool.
func False() *LVal {
	return lfalse
}

// Cons returns a new LCons with the given head and tail.
func Cons(head, tail *LVal) *LVal {
	return &LVal{Type: LCons, CAR: head, CDR: tail}
}

// EnvVal returns an LEnvType value wrapping env.
func EnvVal(env *LEnv) *LVal {
	return &LVal{Type: LEnvType, Env: env}
}

// Fun returns an LBuiltin value that evaluates its arguments before calling
// fn.
func Fun(name string, arity int, fn LBuiltinFunc) *LVal {
	return &LVal{
		Type:    LBuiltin,
		Name:    name,
		Arity:   arity,
		Builtin: fn,
	}
}

// SpecialOp returns an LBuiltin value that receives its arguments
// unevaluated.
func SpecialOp(name string, arity int, fn LBuiltinFunc) *LVal {
	v := Fun(name, arity, fn)
	v.Special = true
	return v
}

// IsNil returns true if v is LNil.
func (v *LVal) IsNil() bool {
	return v.Type == LNil
}

// IsNumeric returns true if v is an LInt or an LFloat.
func (v *LVal) IsNumeric() bool {
	return v.Type == LInt || v.Type == LFloat
}

// IsCallable returns true if v can be applied to arguments.
func (v *LVal) IsCallable() bool {
	switch v.Type {
	case LBuiltin, LFunction, LLambda, LMacro:
		return true
	}
	return false
}

// IsTrue returns false if v is the false LBool or LNil and true otherwise.
func (v *LVal) IsTrue() bool {
	switch v.Type {
	case LNil:
		return false
	case LBool:
		return v.Bool
	}
	return true
}

// SymbolEqual returns true if v and other are the same symbol.  Interned
// symbols are compared by identity with a fallback to their names.
func (v *LVal) SymbolEqual(other *LVal) bool {
	if v == other {
		return true
	}
	return v.Type == LSymbol && other.Type == LSymbol && v.Str == other.Str
}

// String returns the textual rendering of v.
func (v *LVal) String() string {
	var buf strings.Builder
	_, _ = Format(&buf, v)
	return buf.String()
}

// Format writes the textual rendering of v to w.
func Format(w io.Writer, v *LVal) (int, error) {
	switch v.Type {
	case LNil:
		return io.WriteString(w, "null")
	case LInt:
		return io.WriteString(w, strconv.FormatInt(v.Int, 10))
	case LFloat:
		return io.WriteString(w, formatFloat(v.Float))
	case LString:
		return io.WriteString(w, v.Str)
	case LBool:
		return io.WriteString(w, strconv.FormatBool(v.Bool))
	case LSymbol:
		return io.WriteString(w, v.Str)
	case LCons:
		return formatCons(w, v)
	default:
		return fmt.Fprintf(w, "<%s>", v.Type)
	}
}

// formatFloat renders x with six fraction digits.  Infinities and NaN are
// written inf, -inf and nan.
func formatFloat(x float64) string {
	switch {
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	case math.IsNaN(x):
		return "nan"
	}
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func formatCons(w io.Writer, v *LVal) (int, error) {
	cw := lfmt.NewCountingWriter(w)
	_, err := cw.WriteString("(")
	if err != nil {
		return cw.N(), err
	}
	for p := v; !p.IsNil(); p = p.CDR {
		if p.Type != LCons {
			_, err = cw.WriteString(". ")
			if err != nil {
				return cw.N(), err
			}
			_, err = cw.DeferCount(func(w io.Writer) (int, error) { return Format(w, p) })
			if err != nil {
				return cw.N(), err
			}
			break
		}
		_, err = cw.DeferCount(func(w io.Writer) (int, error) { return Format(w, p.CAR) })
		if err != nil {
			return cw.N(), err
		}
		if !p.CDR.IsNil() {
			_, err = cw.WriteString(" ")
			if err != nil {
				return cw.N(), err
			}
		}
	}
	_, err = cw.WriteString(")")
	return cw.N(), err
}

// Equal returns true if v1 and v2 are structurally equal.  Numbers are
// compared by value, never by identity.
func Equal(v1, v2 *LVal) bool {
	if v1 == v2 {
		return true
	}
	if v1.Type != v2.Type {
		return false
	}
	switch v1.Type {
	case LInt:
		return v1.Int == v2.Int
	case LFloat:
		return v1.Float == v2.Float
	case LString:
		return v1.Str == v2.Str
	case LBool:
		return v1.Bool == v2.Bool
	case LSymbol:
		return v1.SymbolEqual(v2)
	case LCons:
		return Equal(v1.CAR, v2.CAR) && Equal(v1.CDR, v2.CDR)
	default:
		return false
	}
}
