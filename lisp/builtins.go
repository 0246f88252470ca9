package lisp

import (
	"math"
)

// LBuiltinDef is a built-in function
type LBuiltinDef interface {
	Name() string
	Arity() int
	Eval(env *LEnv, args *LVal) (*LVal, error)
}

type langBuiltin struct {
	name  string
	arity int
	fun   LBuiltinFunc
}

// NewBuiltin returns an LBuiltinDef for fn.
func NewBuiltin(name string, arity int, fn LBuiltinFunc) LBuiltinDef {
	return &langBuiltin{name, arity, fn}
}

func (fun *langBuiltin) Name() string {
	return fun.name
}

func (fun *langBuiltin) Arity() int {
	return fun.arity
}

func (fun *langBuiltin) Eval(env *LEnv, args *LVal) (*LVal, error) {
	return fun.fun(env, args)
}

var langBuiltins = []*langBuiltin{
	{"print", 1, builtinPrint},
	{"println", 1, builtinPrintln},
	{"+", 2, builtinAdd},
	{"-", 2, builtinSub},
	{"*", 2, builtinMul},
	{"/", 2, builtinDiv},
	{"list", VarArgs, builtinList},
	{"car", 1, builtinCAR},
	{"cdr", 1, builtinCDR},
	{"cons", 2, builtinCons},
	{"length", 1, builtinLength},
	{"eq", 2, builtinEq},
	{"neq", 2, builtinNeq},
	{"gt", 2, builtinGT},
	{"gte", 2, builtinGTE},
	{"lt", 2, builtinLT},
	{"lte", 2, builtinLTE},
	{"typeof", 1, builtinTypeof},
	{"eval", 1, builtinEval},
	{"macroexpand", 1, builtinMacroExpand},
	{"import", 1, builtinImport},
}

// DefaultBuiltins returns the default set of LBuiltinDef bound by
// InitializeUserEnv.
func DefaultBuiltins() []LBuiltinDef {
	funs := make([]LBuiltinDef, len(langBuiltins))
	for i := range langBuiltins {
		funs[i] = langBuiltins[i]
	}
	return funs
}

func builtinPrint(env *LEnv, args *LVal) (*LVal, error) {
	_, err := Format(env.Runtime.Stdout, args.CAR)
	if err != nil {
		return nil, err
	}
	return Nil(), nil
}

func builtinPrintln(env *LEnv, args *LVal) (*LVal, error) {
	_, err := builtinPrint(env, args)
	if err != nil {
		return nil, err
	}
	_, err = env.Runtime.Stdout.Write([]byte{'\n'})
	if err != nil {
		return nil, err
	}
	return Nil(), nil
}

func builtinAdd(env *LEnv, args *LVal) (*LVal, error) {
	a, b := args.CAR, args.CDR.CAR
	if a.Type == LString && b.Type == LString {
		return String(a.Str + b.Str), nil
	}
	return arith(env, "+", a, b,
		func(x, y int64) int64 { return x + y },
		func(x, y float64) float64 { return x + y })
}

func builtinSub(env *LEnv, args *LVal) (*LVal, error) {
	return arith(env, "-", args.CAR, args.CDR.CAR,
		func(x, y int64) int64 { return x - y },
		func(x, y float64) float64 { return x - y })
}

func builtinMul(env *LEnv, args *LVal) (*LVal, error) {
	return arith(env, "*", args.CAR, args.CDR.CAR,
		func(x, y int64) int64 { return x * y },
		func(x, y float64) float64 { return x * y })
}

func builtinDiv(env *LEnv, args *LVal) (*LVal, error) {
	a, b := args.CAR, args.CDR.CAR
	if a.Type == LInt && b.Type == LInt && b.Int == 0 {
		return nil, env.Errorf(ErrZeroDivision, "integer division by zero")
	}
	return arith(env, "/", a, b,
		func(x, y int64) int64 {
			if x == math.MinInt64 && y == -1 {
				return x
			}
			return x / y
		},
		func(x, y float64) float64 { return x / y })
}

// arith applies a binary numeric operator.  Two integers produce an integer
// and any float operand produces a float.
func arith(env *LEnv, op string, a, b *LVal, fi func(x, y int64) int64, ff func(x, y float64) float64) (*LVal, error) {
	switch {
	case a.Type == LInt && b.Type == LInt:
		return Int(fi(a.Int, b.Int)), nil
	case a.IsNumeric() && b.IsNumeric():
		return Float(ff(toFloat(a), toFloat(b))), nil
	}
	return nil, env.Errorf(ErrType, "unsupported operand type(s) for %s: '%s' and '%s'", op, a.Type, b.Type)
}

func toFloat(v *LVal) float64 {
	if v.Type == LInt {
		return float64(v.Int)
	}
	return v.Float
}

func builtinList(env *LEnv, args *LVal) (*LVal, error) {
	return args, nil
}

func builtinCAR(env *LEnv, args *LVal) (*LVal, error) {
	v := args.CAR
	if v.Type != LCons {
		return nil, env.Errorf(ErrType, "car: argument is not a pair: %s", v.Type)
	}
	return v.CAR, nil
}

func builtinCDR(env *LEnv, args *LVal) (*LVal, error) {
	v := args.CAR
	if v.Type != LCons {
		return nil, env.Errorf(ErrType, "cdr: argument is not a pair: %s", v.Type)
	}
	return v.CDR, nil
}

func builtinCons(env *LEnv, args *LVal) (*LVal, error) {
	return Cons(args.CAR, args.CDR.CAR), nil
}

func builtinLength(env *LEnv, args *LVal) (*LVal, error) {
	return Int(int64(Length(args.CAR))), nil
}

// compareOp evaluates a comparison between a and b.  The result of cmp is
// negative, zero or positive as a is less than, equal to or greater than b.
type compareOp struct {
	name     string
	equality bool
	test     func(cmp int) bool
}

var (
	opEq  = &compareOp{"eq", true, func(c int) bool { return c == 0 }}
	opNeq = &compareOp{"neq", true, func(c int) bool { return c != 0 }}
	opGT  = &compareOp{"gt", false, func(c int) bool { return c > 0 }}
	opGTE = &compareOp{"gte", false, func(c int) bool { return c >= 0 }}
	opLT  = &compareOp{"lt", false, func(c int) bool { return c < 0 }}
	opLTE = &compareOp{"lte", false, func(c int) bool { return c <= 0 }}
)

func (op *compareOp) apply(env *LEnv, a, b *LVal) (*LVal, error) {
	if op.equality {
		switch {
		case a.IsNil() || b.IsNil():
			return Bool(op.test(eqInt(a == b))), nil
		case a.Type == LString && b.Type == LString:
			return Bool(op.test(eqInt(a.Str == b.Str))), nil
		case a.Type == LSymbol && b.Type == LSymbol:
			return Bool(op.test(eqInt(a.SymbolEqual(b)))), nil
		}
	}
	switch {
	case a.Type == LInt && b.Type == LInt:
		return Bool(op.test(cmpInt(a.Int, b.Int))), nil
	case a.IsNumeric() && b.IsNumeric():
		x, y := toFloat(a), toFloat(b)
		if math.IsNaN(x) || math.IsNaN(y) {
			return Bool(op.name == "neq"), nil
		}
		return Bool(op.test(cmpFloat(x, y))), nil
	}
	return nil, env.Errorf(ErrType, "'%s' not supported between instances of '%s' and '%s'", op.name, a.Type, b.Type)
}

func eqInt(ok bool) int {
	if ok {
		return 0
	}
	return 1
}

func cmpInt(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func cmpFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func builtinEq(env *LEnv, args *LVal) (*LVal, error) {
	return opEq.apply(env, args.CAR, args.CDR.CAR)
}

func builtinNeq(env *LEnv, args *LVal) (*LVal, error) {
	return opNeq.apply(env, args.CAR, args.CDR.CAR)
}

func builtinGT(env *LEnv, args *LVal) (*LVal, error) {
	return opGT.apply(env, args.CAR, args.CDR.CAR)
}

func builtinGTE(env *LEnv, args *LVal) (*LVal, error) {
	return opGTE.apply(env, args.CAR, args.CDR.CAR)
}

func builtinLT(env *LEnv, args *LVal) (*LVal, error) {
	return opLT.apply(env, args.CAR, args.CDR.CAR)
}

func builtinLTE(env *LEnv, args *LVal) (*LVal, error) {
	return opLTE.apply(env, args.CAR, args.CDR.CAR)
}

func builtinTypeof(env *LEnv, args *LVal) (*LVal, error) {
	return env.Intern(args.CAR.Type.String()), nil
}

func builtinEval(env *LEnv, args *LVal) (*LVal, error) {
	v := args.CAR
	if v.Type == LString {
		return env.LoadString("eval", v.Str)
	}
	return env.Eval(v)
}

func builtinMacroExpand(env *LEnv, args *LVal) (*LVal, error) {
	expanded, _, err := env.MacroExpand(args.CAR)
	if err != nil {
		return nil, err
	}
	return expanded, nil
}

func builtinImport(env *LEnv, args *LVal) (*LVal, error) {
	name := args.CAR
	if name.Type != LString {
		return nil, env.Errorf(ErrType, "import: argument is not a string: %s", name.Type)
	}
	_, err := env.LoadModule(name.Str)
	if err != nil {
		return nil, err
	}
	return Nil(), nil
}
