// Package libmath provides numeric functions beyond the arithmetic builtins.
package libmath

import (
	"math"

	"github.com/bmatsuo/minilisp/lisp"
)

// LoadPackage adds the math functions and the constants inf and -inf to env.
func LoadPackage(env *lisp.LEnv) error {
	env.AddVar(env.Intern("inf"), lisp.Float(math.Inf(1)))
	env.AddVar(env.Intern("-inf"), lisp.Float(math.Inf(-1)))
	env.AddBuiltins(builtins...)
	return nil
}

var builtins = []lisp.LBuiltinDef{
	lisp.NewBuiltin("ceil", 1, builtinCeil),
	lisp.NewBuiltin("floor", 1, builtinFloor),
	lisp.NewBuiltin("sqrt", 1, builtinSqrt),
	lisp.NewBuiltin("exp", 1, builtinExp),
	lisp.NewBuiltin("ln", 1, builtinLn),
	lisp.NewBuiltin("log", 2, builtinLog),
	lisp.NewBuiltin("mod", 2, builtinMod),
}

func builtinCeil(env *lisp.LEnv, args *lisp.LVal) (*lisp.LVal, error) {
	x := args.CAR
	if !x.IsNumeric() {
		return nil, env.Errorf(lisp.ErrType, "argument is not a number: %v", x.Type)
	}
	if x.Type == lisp.LInt {
		return x, nil
	}
	return lisp.Float(math.Ceil(x.Float)), nil
}

func builtinFloor(env *lisp.LEnv, args *lisp.LVal) (*lisp.LVal, error) {
	x := args.CAR
	if !x.IsNumeric() {
		return nil, env.Errorf(lisp.ErrType, "argument is not a number: %v", x.Type)
	}
	if x.Type == lisp.LInt {
		return x, nil
	}
	return lisp.Float(math.Floor(x.Float)), nil
}

func builtinSqrt(env *lisp.LEnv, args *lisp.LVal) (*lisp.LVal, error) {
	return floatFunc(env, args.CAR, math.Sqrt)
}

func builtinExp(env *lisp.LEnv, args *lisp.LVal) (*lisp.LVal, error) {
	return floatFunc(env, args.CAR, math.Exp)
}

func builtinLn(env *lisp.LEnv, args *lisp.LVal) (*lisp.LVal, error) {
	return floatFunc(env, args.CAR, math.Log)
}

func builtinLog(env *lisp.LEnv, args *lisp.LVal) (*lisp.LVal, error) {
	b, x := args.CAR, args.CDR.CAR
	if !b.IsNumeric() {
		return nil, env.Errorf(lisp.ErrType, "argument is not a number: %v", b.Type)
	}
	if !x.IsNumeric() {
		return nil, env.Errorf(lisp.ErrType, "argument is not a number: %v", x.Type)
	}
	return lisp.Float(math.Log(toFloat(x)) / math.Log(toFloat(b))), nil
}

// builtinMod returns the remainder of integer division, with the sign of the
// dividend.
func builtinMod(env *lisp.LEnv, args *lisp.LVal) (*lisp.LVal, error) {
	a, b := args.CAR, args.CDR.CAR
	if a.Type != lisp.LInt || b.Type != lisp.LInt {
		return nil, env.Errorf(lisp.ErrType, "unsupported operand type(s) for mod: '%s' and '%s'", a.Type, b.Type)
	}
	if b.Int == 0 {
		return nil, env.Errorf(lisp.ErrZeroDivision, "integer modulo by zero")
	}
	if b.Int == -1 {
		return lisp.Int(0), nil
	}
	return lisp.Int(a.Int % b.Int), nil
}

func floatFunc(env *lisp.LEnv, x *lisp.LVal, fn func(float64) float64) (*lisp.LVal, error) {
	if !x.IsNumeric() {
		return nil, env.Errorf(lisp.ErrType, "argument is not a number: %v", x.Type)
	}
	return lisp.Float(fn(toFloat(x))), nil
}

func toFloat(x *lisp.LVal) float64 {
	if x.Type == lisp.LFloat {
		return x.Float
	}
	return float64(x.Int)
}
