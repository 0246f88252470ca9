package lisp

var langSpecialOps = []*langBuiltin{
	{"quote", 1, opQuote},
	{"setq", 2, opSetq},
	{"defun", VarArgs, opDefun},
	{"lambda", VarArgs, opLambda},
	{"defmacro", VarArgs, opDefmacro},
	{"cond", VarArgs, opCond},
	{"progn", VarArgs, opProgn},
	{"if", VarArgs, opIf},
}

// DefaultSpecialOps returns the default set of LBuiltinDef bound by
// InitializeUserEnv.
func DefaultSpecialOps() []LBuiltinDef {
	ops := make([]LBuiltinDef, len(langSpecialOps))
	for i := range langSpecialOps {
		ops[i] = langSpecialOps[i]
	}
	return ops
}

func opQuote(env *LEnv, args *LVal) (*LVal, error) {
	return args.CAR, nil
}

func opSetq(env *LEnv, args *LVal) (*LVal, error) {
	sym := args.CAR
	if sym.Type != LSymbol {
		return nil, env.Errorf(ErrType, "setq: first argument is not a symbol: %s", sym.Type)
	}
	v, err := env.Eval(args.CDR.CAR)
	if err != nil {
		return nil, err
	}
	return env.Setq(sym, v), nil
}

func opDefun(env *LEnv, args *LVal) (*LVal, error) {
	fun, err := defineCallable(env, "defun", LFunction, args)
	if err != nil {
		return nil, err
	}
	env.AddVar(args.CAR, fun)
	return fun, nil
}

func opDefmacro(env *LEnv, args *LVal) (*LVal, error) {
	mac, err := defineCallable(env, "defmacro", LMacro, args)
	if err != nil {
		return nil, err
	}
	env.AddVar(args.CAR, mac)
	return mac, nil
}

// defineCallable builds a named function or macro from (name params body...).
func defineCallable(env *LEnv, op string, typ LType, args *LVal) (*LVal, error) {
	nargs := Length(args)
	if nargs < 2 {
		return nil, env.Errorf(ErrArity, "%s() takes at least 2 positional arguments but %d were given", op, nargs)
	}
	name := args.CAR
	if name.Type != LSymbol {
		return nil, env.Errorf(ErrType, "%s: name is not a symbol: %s", op, name.Type)
	}
	params, err := checkParams(env, args.CDR.CAR)
	if err != nil {
		return nil, err
	}
	return &LVal{
		Type:   typ,
		Name:   name.Str,
		Arity:  Length(params),
		Params: params,
		Body:   args.CDR.CDR,
	}, nil
}

func opLambda(env *LEnv, args *LVal) (*LVal, error) {
	nargs := Length(args)
	if nargs < 1 {
		return nil, env.Errorf(ErrArity, "lambda() takes at least 1 positional argument but %d were given", nargs)
	}
	params, err := checkParams(env, args.CAR)
	if err != nil {
		return nil, err
	}
	return &LVal{
		Type:   LLambda,
		Name:   "lambda",
		Arity:  Length(params),
		Params: params,
		Body:   args.CDR,
		Env:    env,
	}, nil
}

// checkParams validates a parameter list.  The symbol null denotes an empty
// parameter list.
func checkParams(env *LEnv, params *LVal) (*LVal, error) {
	if params.Type == LSymbol && params.Str == "null" {
		return Nil(), nil
	}
	if Length(params) < 0 {
		return nil, env.Errorf(ErrMalformedParams, "parameter list is not a flat list: %s", params)
	}
	for p := params; !p.IsNil(); p = p.CDR {
		if p.CAR.Type != LSymbol {
			return nil, env.Errorf(ErrMalformedParams, "parameter must be a symbol: %s", p.CAR)
		}
		for q := p.CDR; !q.IsNil(); q = q.CDR {
			if q.CAR.SymbolEqual(p.CAR) {
				return nil, env.Errorf(ErrMalformedParams, "duplicate parameter: %s", p.CAR)
			}
		}
	}
	return params, nil
}

func opCond(env *LEnv, args *LVal) (*LVal, error) {
	for p := args; !p.IsNil(); p = p.CDR {
		clause := p.CAR
		if clause.Type != LCons || Length(clause) < 0 {
			return nil, env.Errorf(ErrType, "cond: clause is not a non-empty list: %s", clause)
		}
		test, err := env.Eval(clause.CAR)
		if err != nil {
			return nil, err
		}
		if !test.IsTrue() {
			continue
		}
		ret := test
		for q := clause.CDR; !q.IsNil(); q = q.CDR {
			ret, err = env.Eval(q.CAR)
			if err != nil {
				return nil, err
			}
		}
		return ret, nil
	}
	return Nil(), nil
}

func opProgn(env *LEnv, args *LVal) (*LVal, error) {
	return env.Progn(args)
}

func opIf(env *LEnv, args *LVal) (*LVal, error) {
	nargs := Length(args)
	if nargs != 2 && nargs != 3 {
		return nil, env.Errorf(ErrArity, "if() takes 2 or 3 positional arguments but %d were given", nargs)
	}
	test, err := env.Eval(args.CAR)
	if err != nil {
		return nil, err
	}
	if test.IsTrue() {
		return env.Eval(args.CDR.CAR)
	}
	if nargs == 2 {
		return Nil(), nil
	}
	return env.Eval(args.CDR.CDR.CAR)
}
