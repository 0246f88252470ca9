package lisp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// LEnv is a lisp environment.  Each LEnv holds one frame of variable
// bindings and a pointer to the frame enclosing it.
type LEnv struct {
	Parent *LEnv
	// Vars is a list of (symbol . value) pairs, most recent binding first.
	Vars    *LVal
	Runtime *Runtime
}

// NewEnv returns initializes and returns a new LEnv.  A nil parent creates a
// root environment with a new Runtime.
func NewEnv(parent *LEnv) *LEnv {
	var rt *Runtime
	if parent != nil {
		rt = parent.Runtime
	} else {
		rt = NewRuntime()
	}
	return &LEnv{
		Parent:  parent,
		Vars:    Nil(),
		Runtime: rt,
	}
}

// PushEnv returns a child of parent binding each symbol in params to the
// corresponding value in args.
func PushEnv(parent *LEnv, params, args *LVal) (*LEnv, error) {
	nparams, nargs := Length(params), Length(args)
	if nparams != nargs {
		return nil, parent.Errorf(ErrArity, "expected %d arguments but %d were given", nparams, nargs)
	}
	env := NewEnv(parent)
	for p, q := params, args; !p.IsNil(); p, q = p.CDR, q.CDR {
		env.AddVar(p.CAR, q.CAR)
	}
	return env, nil
}

// Intern returns the unique symbol named name in env's runtime.
func (env *LEnv) Intern(name string) *LVal {
	return env.Runtime.Intern(name)
}

// Root returns the outermost environment enclosing env.
func (env *LEnv) Root() *LEnv {
	for env.Parent != nil {
		env = env.Parent
	}
	return env
}

// Find returns the binding pair for sym searching env and then its
// ancestors.  Find returns nil if sym is unbound.
func (env *LEnv) Find(sym *LVal) *LVal {
	for e := env; e != nil; e = e.Parent {
		for p := e.Vars; !p.IsNil(); p = p.CDR {
			if p.CAR.CAR.SymbolEqual(sym) {
				return p.CAR
			}
		}
	}
	return nil
}

// Get returns the value bound to sym.
func (env *LEnv) Get(sym *LVal) (*LVal, error) {
	pair := env.Find(sym)
	if pair == nil {
		return nil, env.Errorf(ErrUnboundSymbol, "can't find symbol: %s", sym.Str)
	}
	return pair.CDR, nil
}

// AddVar binds sym to v in env's frame.  Any binding of sym in an enclosing
// frame is shadowed.
func (env *LEnv) AddVar(sym, v *LVal) {
	env.Vars = Cons(Cons(sym, v), env.Vars)
}

// Setq assigns v to sym.  If sym is bound in env or an enclosing frame the
// existing binding is updated, otherwise sym is bound in env's frame.
func (env *LEnv) Setq(sym, v *LVal) *LVal {
	pair := env.Find(sym)
	if pair != nil {
		pair.CDR = v
		return v
	}
	env.AddVar(sym, v)
	return v
}

// AddBuiltins binds the given functions in env.  AddBuiltins panics if a
// name is given twice.
func (env *LEnv) AddBuiltins(funs ...LBuiltinDef) {
	env.addBuiltins(false, funs)
}

// AddSpecialOps binds the given special operators in env.  Special operators
// receive their arguments unevaluated.
func (env *LEnv) AddSpecialOps(ops ...LBuiltinDef) {
	env.addBuiltins(true, ops)
}

func (env *LEnv) addBuiltins(special bool, defs []LBuiltinDef) {
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		name := def.Name()
		if seen[name] {
			panic(fmt.Sprintf("duplicate builtin: %s", name))
		}
		seen[name] = true
		var fun *LVal
		if special {
			fun = SpecialOp(name, def.Arity(), def.Eval)
		} else {
			fun = Fun(name, def.Arity(), def.Eval)
		}
		env.AddVar(env.Intern(name), fun)
	}
}

// Errorf returns an Error of the given kind with a snapshot of the current
// call stack.
func (env *LEnv) Errorf(kind ErrorKind, format string, v ...interface{}) *Error {
	err := Errorf(kind, format, v...)
	err.Stack = env.Runtime.Stack.Copy()
	return err
}

// annotate attaches the enclosing form, if any, and a stack snapshot to err.
func (env *LEnv) annotate(err error, form *LVal) error {
	var lerr *Error
	if errors.As(err, &lerr) && lerr.Stack == nil {
		lerr.Stack = env.Runtime.Stack.Copy()
	}
	if form == nil {
		return err
	}
	return annotate(err, form)
}

// Eval evaluates v in env.
func (env *LEnv) Eval(v *LVal) (*LVal, error) {
	switch v.Type {
	case LSymbol:
		return env.Get(v)
	case LCons:
		return env.evalCons(v)
	default:
		return v, nil
	}
}

func (env *LEnv) evalCons(form *LVal) (*LVal, error) {
	fun, err := env.Eval(form.CAR)
	if err != nil {
		return nil, env.annotate(err, form)
	}
	var ret *LVal
	switch fun.Type {
	case LBuiltin, LFunction, LLambda:
		ret, err = env.Apply(fun, form.CDR)
	case LMacro:
		ret, err = env.applyMacro(fun, form.CDR)
	default:
		err = env.Errorf(ErrNotCallable, "can't call type: %s(%s)", fun.Type, fun)
	}
	if err != nil {
		return nil, env.annotate(err, form)
	}
	return ret, nil
}

// EvalList evaluates each element of list from left to right and returns a
// list of the results.
func (env *LEnv) EvalList(list *LVal) (*LVal, error) {
	var b ListBuilder
	for p := list; !p.IsNil(); p = p.CDR {
		if p.Type != LCons {
			return nil, env.Errorf(ErrType, "argument list is not a proper list: %s", list)
		}
		v, err := env.Eval(p.CAR)
		if err != nil {
			return nil, err
		}
		b.Append(v)
	}
	return b.List(), nil
}

func (env *LEnv) checkArity(fun, args *LVal) error {
	nargs := Length(args)
	if nargs < 0 {
		return env.Errorf(ErrType, "argument list is not a proper list: %s", args)
	}
	if fun.Arity != VarArgs && nargs != fun.Arity {
		return env.Errorf(ErrArity, "%s() takes %d positional arguments but %d were given",
			fun.Name, fun.Arity, nargs)
	}
	return nil
}

// Apply calls fun with the unevaluated argument forms args.  Unless fun is a
// special operator the arguments are evaluated in env first.
func (env *LEnv) Apply(fun, args *LVal) (*LVal, error) {
	if !fun.IsCallable() || fun.Type == LMacro {
		return nil, env.Errorf(ErrNotCallable, "can't call type: %s(%s)", fun.Type, fun)
	}
	err := env.checkArity(fun, args)
	if err != nil {
		return nil, err
	}
	if !fun.Special {
		args, err = env.EvalList(args)
		if err != nil {
			return nil, err
		}
	}
	return env.call(fun, args)
}

// Call calls fun with already evaluated arguments.
func (env *LEnv) Call(fun, args *LVal) (*LVal, error) {
	if !fun.IsCallable() || fun.Type == LMacro {
		return nil, env.Errorf(ErrNotCallable, "can't call type: %s(%s)", fun.Type, fun)
	}
	err := env.checkArity(fun, args)
	if err != nil {
		return nil, err
	}
	return env.call(fun, args)
}

func (env *LEnv) call(fun, args *LVal) (*LVal, error) {
	stack := env.Runtime.Stack
	err := stack.Push(fun)
	if err != nil {
		return nil, env.annotate(err, nil)
	}
	defer stack.Pop()

	switch fun.Type {
	case LBuiltin:
		return fun.Builtin(env, args)
	case LFunction:
		// Free variables of a function body resolve in the caller's
		// environment.
		fenv, err := PushEnv(env, fun.Params, args)
		if err != nil {
			return nil, err
		}
		return fenv.Progn(fun.Body)
	case LLambda:
		fenv, err := PushEnv(fun.Env, fun.Params, args)
		if err != nil {
			return nil, err
		}
		return fenv.Progn(fun.Body)
	}
	panic("unreachable")
}

// Progn evaluates each form in body inside a new child environment of env
// and returns the value of the last one.  Progn returns Nil when body is
// empty.
func (env *LEnv) Progn(body *LVal) (*LVal, error) {
	penv := NewEnv(env)
	ret := Nil()
	for p := body; !p.IsNil(); p = p.CDR {
		if p.Type != LCons {
			return nil, env.Errorf(ErrType, "body is not a proper list: %s", body)
		}
		var err error
		ret, err = penv.Eval(p.CAR)
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// MacroExpand returns the expansion of form.  If form is not a call to a
// macro it is returned unchanged with a false second value.
func (env *LEnv) MacroExpand(form *LVal) (*LVal, bool, error) {
	if form.Type != LCons || form.CAR.Type != LSymbol {
		return form, false, nil
	}
	pair := env.Find(form.CAR)
	if pair == nil || pair.CDR.Type != LMacro {
		return form, false, nil
	}
	mac := pair.CDR
	stack := env.Runtime.Stack
	err := stack.Push(mac)
	if err != nil {
		return nil, false, env.annotate(err, form)
	}
	defer stack.Pop()
	expanded, err := env.expand(mac, form.CDR)
	if err != nil {
		return nil, false, env.annotate(err, form)
	}
	return expanded, true, nil
}

func (env *LEnv) expand(mac, args *LVal) (*LVal, error) {
	err := env.checkArity(mac, args)
	if err != nil {
		return nil, err
	}
	menv, err := PushEnv(env, mac.Params, args)
	if err != nil {
		return nil, err
	}
	return menv.Progn(mac.Body)
}

// applyMacro keeps a frame for mac on the stack until its expansion has been
// evaluated, so a macro that expands into a call to itself overflows the
// stack instead of recursing without bound.
func (env *LEnv) applyMacro(mac, args *LVal) (*LVal, error) {
	stack := env.Runtime.Stack
	err := stack.Push(mac)
	if err != nil {
		return nil, env.annotate(err, nil)
	}
	defer stack.Pop()
	expanded, err := env.expand(mac, args)
	if err != nil {
		return nil, err
	}
	return env.Eval(expanded)
}

// EvalForms evaluates forms in order and returns the value of the last one.
// Evaluation stops at the first error.  EvalForms returns Nil if forms is
// empty.
func (env *LEnv) EvalForms(forms []*LVal) (*LVal, error) {
	ret := Nil()
	for _, form := range forms {
		var err error
		ret, err = env.Eval(form)
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// Read parses the forms in r using the runtime's Reader.
func (env *LEnv) Read(name string, r io.Reader) ([]*LVal, error) {
	if env.Runtime.Reader == nil {
		return nil, env.Errorf(ErrReader, "no reader configured")
	}
	return env.Runtime.Reader.Read(env.Runtime, name, r)
}

// Load reads the forms in r and evaluates them in env.
func (env *LEnv) Load(name string, r io.Reader) (*LVal, error) {
	forms, err := env.Read(name, r)
	if err != nil {
		return nil, err
	}
	return env.EvalForms(forms)
}

// LoadString evaluates the forms in source in env.
func (env *LEnv) LoadString(name, source string) (*LVal, error) {
	return env.Load(name, strings.NewReader(source))
}

// LoadModule loads the named module through the runtime's Loader and
// evaluates it in env.  A module is loaded at most once per runtime and
// LoadModule returns Nil when it has already been loaded.
func (env *LEnv) LoadModule(name string) (*LVal, error) {
	rt := env.Runtime
	if rt.modules[name] {
		return Nil(), nil
	}
	rt.modules[name] = true
	rt.Logger.Printf("load module: %s", name)
	src, err := rt.Loader(name)
	if err != nil {
		delete(rt.modules, name)
		lerr := WrapError(ErrLoad, err)
		lerr.Stack = rt.Stack.Copy()
		return nil, lerr
	}
	return env.Load(name, bytes.NewReader(src))
}
