package lisp

import (
	"math"
	"strings"
	"testing"

	"github.com/bmatsuo/minilisp/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNil(t *testing.T) {
	v := Nil()
	require.Equal(t, LNil, v.Type)
	assert.True(t, v == Nil())
	assert.True(t, v.IsNil())
	assert.False(t, v.IsTrue())
	assert.Equal(t, "null", v.String())
}

func TestInt(t *testing.T) {
	for _, x := range []int64{
		-5, -1, 0, 1, 255,
	} {
		assert.True(t, Int(x) == Int(x), "input: %v", x)
		assert.Equal(t, x, Int(x).Int, "input: %v", x)
	}
	for _, x := range []int64{
		-6, 256, 100000, -100000,
	} {
		assert.False(t, Int(x) == Int(x), "input: %v", x)
		assert.Equal(t, x, Int(x).Int, "input: %v", x)
		assert.True(t, Equal(Int(x), Int(x)), "input: %v", x)
	}
}

func TestBool(t *testing.T) {
	assert.True(t, Bool(true) == True())
	assert.True(t, Bool(false) == False())
	assert.True(t, True().IsTrue())
	assert.False(t, False().IsTrue())
	assert.True(t, Int(0).IsTrue())
	assert.True(t, String("").IsTrue())
}

func TestIntern(t *testing.T) {
	rt := NewRuntime()
	a := rt.Intern("abc")
	assert.True(t, a == rt.Intern("abc"))
	assert.Equal(t, LSymbol, a.Type)
	assert.Equal(t, "abc", a.Str)
	assert.False(t, a == rt.Intern("abd"))
	assert.True(t, rt.Interned("abd"))
	assert.False(t, rt.Interned("xyz"))

	// Each runtime has its own symbols; equality falls back to names.
	other := NewRuntime().Intern("abc")
	assert.False(t, a == other)
	assert.True(t, a.SymbolEqual(other))
	assert.False(t, a.SymbolEqual(String("abc")))
}

func TestTypeNames(t *testing.T) {
	names := TypeNames()
	assert.Equal(t, []string{
		"NULL", "INT", "FLOAT", "STRING", "BOOL", "SYMBOL", "CONS",
		"ENV", "BUILTIN", "FUNCTION", "LAMBDA", "MACRO",
	}, names)
	names[0] = "X"
	assert.Equal(t, "NULL", LNil.String())
	assert.Equal(t, "UNDEFINED", LType(100).String())
}

func TestFormat(t *testing.T) {
	rt := NewRuntime()
	a, b := rt.Intern("a"), rt.Intern("b")
	env := NewEnv(nil)
	tests := []struct {
		v    *LVal
		text string
	}{
		{Nil(), "null"},
		{Int(-42), "-42"},
		{Float(1.5), "1.500000"},
		{Float(-0.25), "-0.250000"},
		{Float(math.Inf(1)), "inf"},
		{Float(math.Inf(-1)), "-inf"},
		{Float(math.NaN()), "nan"},
		{String("hello world"), "hello world"},
		{True(), "true"},
		{False(), "false"},
		{a, "a"},
		{List(a, Int(1), String("x")), "(a 1 x)"},
		{List(List(a), Nil()), "((a) null)"},
		{Cons(a, b), "(a . b)"},
		{Cons(a, Cons(b, Int(3))), "(a b . 3)"},
		{EnvVal(env), "<ENV>"},
		{Fun("f", 1, nil), "<BUILTIN>"},
		{&LVal{Type: LLambda}, "<LAMBDA>"},
		{&LVal{Type: LMacro}, "<MACRO>"},
		{&LVal{Type: LFunction}, "<FUNCTION>"},
	}
	for i, test := range tests {
		assert.Equal(t, test.text, test.v.String(), "test %d", i)
		var buf strings.Builder
		n, err := Format(&buf, test.v)
		if assert.NoError(t, err, "test %d", i) {
			assert.Equal(t, len(test.text), n, "test %d", i)
		}
	}
}

func TestBuiltinValues(t *testing.T) {
	var double LBuiltinFunc = func(env *LEnv, args *LVal) (*LVal, error) {
		return Int(2 * args.CAR.Int), nil
	}
	fun := Fun("double", 1, double)
	assert.Equal(t, LBuiltin, fun.Type)
	assert.False(t, fun.Special)
	op := SpecialOp("double", 1, double)
	assert.Equal(t, LBuiltin, op.Type)
	assert.True(t, op.Special)

	env := NewEnv(nil)
	ret, err := env.Call(fun, List(Int(21)))
	require.NoError(t, err)
	assert.Equal(t, int64(42), ret.Int)

	def := NewBuiltin("double", 1, double)
	ret, err = def.Eval(env, List(Int(4)))
	require.NoError(t, err)
	assert.Equal(t, int64(8), ret.Int)
}

func TestLength(t *testing.T) {
	assert.Equal(t, 0, Length(Nil()))
	assert.Equal(t, 3, Length(List(Int(1), Int(2), Int(3))))
	assert.Equal(t, -1, Length(Cons(Int(1), Int(2))))
	assert.Equal(t, -1, Length(Int(1)))
	assert.True(t, IsList(Nil()))
	assert.False(t, IsList(String("abc")))

	cells, ok := Slice(List(Int(1), Int(2)))
	if assert.True(t, ok) {
		assert.Len(t, cells, 2)
	}
	_, ok = Slice(Cons(Int(1), Int(2)))
	assert.False(t, ok)
}

func TestListBuilder(t *testing.T) {
	var b ListBuilder
	assert.True(t, b.List().IsNil())
	b.Append(Int(1))
	b.Append(Int(2), Int(3))
	assert.Equal(t, "(1 2 3)", b.List().String())
}

func TestError(t *testing.T) {
	err := Errorf(ErrArity, "f() takes %d positional arguments but %d were given", 1, 2)
	assert.Equal(t, "ArityError: f() takes 1 positional arguments but 2 were given", err.Error())
	err.Source = &token.Location{File: "test", Line: 3, Col: 5}
	assert.Equal(t, "test:3:5: ArityError: f() takes 1 positional arguments but 2 were given", err.Error())
	assert.Equal(t, ErrArity, Kind(err))
	assert.Equal(t, ErrUnknown, Kind(assert.AnError))
	assert.Equal(t, "Error", ErrorKind(99).String())
}
