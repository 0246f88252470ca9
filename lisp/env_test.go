package lisp

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T, configs ...Config) *LEnv {
	t.Helper()
	env := NewEnv(nil)
	require.NoError(t, InitializeUserEnv(env, configs...))
	return env
}

func TestEnvFind(t *testing.T) {
	root := NewEnv(nil)
	x, y := root.Intern("x"), root.Intern("y")
	root.AddVar(x, Int(1))
	child := NewEnv(root)
	assert.True(t, child.Runtime == root.Runtime)
	assert.True(t, child.Root() == root)
	child.AddVar(y, Int(2))

	pair := child.Find(x)
	if assert.NotNil(t, pair) {
		assert.True(t, pair.CAR == x)
		assert.Equal(t, int64(1), pair.CDR.Int)
	}
	assert.Nil(t, root.Find(y))
	assert.Nil(t, child.Find(child.Intern("z")))

	// Shadowing binds in the child frame only.
	child.AddVar(x, Int(3))
	v, err := child.Get(x)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.Int)
	v, err = root.Get(x)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int)

	_, err = root.Get(y)
	assert.Equal(t, ErrUnboundSymbol, Kind(err))
	assert.EqualError(t, err, "UnboundSymbolError: can't find symbol: y")
}

func TestEnvSetq(t *testing.T) {
	root := NewEnv(nil)
	x, y := root.Intern("x"), root.Intern("y")
	root.AddVar(x, Int(1))
	pair := root.Find(x)

	child := NewEnv(root)
	child.Setq(x, Int(2))
	// The existing binding was mutated, not shadowed.
	assert.True(t, child.Vars.IsNil())
	assert.Equal(t, int64(2), pair.CDR.Int)
	assert.True(t, root.Find(x) == pair)

	child.Setq(y, Int(3))
	assert.Nil(t, root.Find(y))
	assert.NotNil(t, child.Find(y))
}

func TestPushEnv(t *testing.T) {
	root := NewEnv(nil)
	a, b := root.Intern("a"), root.Intern("b")
	env, err := PushEnv(root, List(a, b), List(Int(1), Int(2)))
	require.NoError(t, err)
	assert.True(t, env.Parent == root)
	assert.Equal(t, "((b . 2) (a . 1))", env.Vars.String())

	_, err = PushEnv(root, List(a, b), List(Int(1)))
	assert.Equal(t, ErrArity, Kind(err))
}

func TestEvalSelf(t *testing.T) {
	env := testEnv(t)
	for _, v := range []*LVal{
		Nil(), Int(1), Float(2.5), String("s"), True(), EnvVal(env),
	} {
		ret, err := env.Eval(v)
		require.NoError(t, err)
		assert.True(t, ret == v)
	}
	ret, err := env.Eval(env.Intern("INT"))
	require.NoError(t, err)
	assert.True(t, ret == env.Intern("INT"))
	ret, err = env.Eval(env.Intern("null"))
	require.NoError(t, err)
	assert.True(t, ret == Nil())
}

func TestApply(t *testing.T) {
	env := testEnv(t)
	plus := env.Intern("+")

	ret, err := env.Eval(List(plus, Int(1), List(plus, Int(2), Float(0.5))))
	require.NoError(t, err)
	assert.Equal(t, "3.500000", ret.String())

	_, err = env.Eval(List(plus, Int(1)))
	assert.Equal(t, ErrArity, Kind(err))
	assert.Contains(t, err.Error(), "+() takes 2 positional arguments but 1 were given")

	_, err = env.Eval(List(Int(1), Int(2)))
	assert.Equal(t, ErrNotCallable, Kind(err))
	assert.Contains(t, err.Error(), "can't call type: INT(1)")

	fun, err := env.Get(plus)
	require.NoError(t, err)
	ret, err = env.Call(fun, List(Int(4), Int(5)))
	require.NoError(t, err)
	assert.Equal(t, int64(9), ret.Int)
}

func TestErrorForm(t *testing.T) {
	env := testEnv(t)
	form := List(env.Intern("car"), Int(1))
	_, err := env.Eval(List(env.Intern("list"), form))
	var lerr *Error
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, ErrType, lerr.Kind)
	assert.Equal(t, "(car 1)", lerr.Form)
	if assert.NotNil(t, lerr.Stack) {
		assert.Equal(t, 1, lerr.Stack.Height())
		assert.Equal(t, "car", lerr.Stack.Top().Name)
	}
	assert.Equal(t, 0, env.Runtime.Stack.Height())
}

func TestStackOverflow(t *testing.T) {
	env := testEnv(t, WithMaximumStackHeight(50))
	f := env.Intern("f")
	// (defun f () (f))
	_, err := env.Eval(List(env.Intern("defun"), f, Nil(), List(f)))
	require.NoError(t, err)
	_, err = env.Eval(List(f))
	assert.Equal(t, ErrStackOverflow, Kind(err))
	assert.Equal(t, 0, env.Runtime.Stack.Height())

	var buf bytes.Buffer
	var lerr *Error
	require.True(t, errors.As(err, &lerr))
	_, err = lerr.Stack.DebugPrint(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Stack Trace [50 frames -- entrypoint last]:\n  height 49: f [FUNCTION]\n")
}

func TestMacroStackOverflow(t *testing.T) {
	env := testEnv(t, WithMaximumStackHeight(50))
	loop, x := env.Intern("loop"), env.Intern("x")
	// (defmacro loop (x) (list 'loop x))
	body := List(env.Intern("list"), List(env.Intern("quote"), loop), x)
	_, err := env.Eval(List(env.Intern("defmacro"), loop, List(x), body))
	require.NoError(t, err)
	_, err = env.Eval(List(loop, Int(1)))
	assert.Equal(t, ErrStackOverflow, Kind(err))
	assert.Equal(t, 0, env.Runtime.Stack.Height())

	expanded, ok, err := env.MacroExpand(List(loop, Int(1)))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "(loop 1)", expanded.String())
	assert.Equal(t, 0, env.Runtime.Stack.Height())
}

type formsReader map[string][]*LVal

func (r formsReader) Read(syms Interner, name string, src io.Reader) ([]*LVal, error) {
	_, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return r[name], nil
}

func TestLoadModule(t *testing.T) {
	var loads []string
	loader := func(name string) ([]byte, error) {
		loads = append(loads, name)
		if name == "missing.lisp" {
			return nil, os.ErrNotExist
		}
		return []byte("ignored"), nil
	}
	env := testEnv(t, WithLoader(loader))
	x := env.Intern("x")
	plus := env.Intern("+")
	reader := formsReader{
		"mod.lisp": {List(env.Intern("setq"), x, List(plus, x, Int(1)))},
	}
	require.NoError(t, WithReader(reader)(env))
	env.AddVar(x, Int(0))

	imp := List(env.Intern("import"), String("mod.lisp"))
	for i := 0; i < 3; i++ {
		ret, err := env.Eval(imp)
		require.NoError(t, err)
		assert.True(t, ret.IsNil())
	}
	assert.Equal(t, []string{"mod.lisp"}, loads)
	v, err := env.Get(x)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int)

	_, err = env.Eval(List(env.Intern("import"), String("missing.lisp")))
	assert.Equal(t, ErrLoad, Kind(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = env.Eval(List(env.Intern("import"), Int(1)))
	assert.Equal(t, ErrType, Kind(err))
}

func TestReadWithoutReader(t *testing.T) {
	env := testEnv(t)
	_, err := env.LoadString("test", "1")
	assert.Equal(t, ErrReader, Kind(err))
}

func TestAddBuiltinsDuplicate(t *testing.T) {
	env := NewEnv(nil)
	fn := func(env *LEnv, args *LVal) (*LVal, error) { return Nil(), nil }
	assert.Panics(t, func() {
		env.AddBuiltins(NewBuiltin("f", 0, fn), NewBuiltin("f", 1, fn))
	})
}
