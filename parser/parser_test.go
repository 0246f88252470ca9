package parser

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bmatsuo/minilisp/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderAll(forms []*lisp.LVal) []string {
	var text []string
	for _, v := range forms {
		text = append(text, v.String())
	}
	return text
}

func TestReaders(t *testing.T) {
	sources := []string{
		"",
		"  ; comment only\n",
		"1 2.5 -3 -4. abc",
		"(a (b c) ())",
		"'x '(1 2)",
		"(a ; comment\n b)",
		`(print "hello \n world")`,
		"\"multi\nline\"",
		"(- 5 3) (-5) (+ -1.25 x-1)",
		"(defun fact (n) (if (lte n 1) 1 (* n (fact (- n 1)))))",
	}
	for i, source := range sources {
		rt := lisp.NewRuntime()
		rd, err := NewReader().Read(rt, "test", strings.NewReader(source))
		require.NoError(t, err, "test %d: %q", i, source)
		pc, err := NewParsecReader().Read(rt, "test", strings.NewReader(source))
		require.NoError(t, err, "test %d: %q", i, source)
		assert.Equal(t, renderAll(rd), renderAll(pc), "test %d: %q", i, source)
		if len(rd) == len(pc) {
			for j := range rd {
				assert.True(t, lisp.Equal(rd[j], pc[j]), "test %d: form %d", i, j)
			}
		}
	}
}

func TestReaders_errors(t *testing.T) {
	tests := []struct {
		source     string
		incomplete bool
	}{
		{"(1 2", true},
		{"(1 (2 3)", true},
		{"\"abc", true},
		{"(a \"abc", true},
		{"'", true},
		{")", false},
		{"(a ~)", false},
		{"99999999999999999999", false},
	}
	for _, reader := range []lisp.Reader{NewReader(), NewParsecReader()} {
		for i, test := range tests {
			_, err := reader.Read(lisp.NewRuntime(), "test", strings.NewReader(test.source))
			if !assert.Error(t, err, "test %d: %q", i, test.source) {
				continue
			}
			assert.Equal(t, lisp.ErrReader, lisp.Kind(err), "test %d: %q", i, test.source)
			assert.Equal(t, test.incomplete, errors.Is(err, io.ErrUnexpectedEOF), "test %d: %q", i, test.source)
		}
	}
}

// Rendered ints, floats, symbols and lists of them read back as equal values.
func TestRoundTrip(t *testing.T) {
	rt := lisp.NewRuntime()
	a, b := rt.Intern("a"), rt.Intern("+-*/")
	values := []*lisp.LVal{
		lisp.Int(0),
		lisp.Int(-17),
		lisp.Int(1 << 40),
		lisp.Float(2.5),
		lisp.Float(-0.125),
		a,
		lisp.List(a, lisp.Int(1), lisp.List(b, lisp.Float(3))),
		lisp.List(lisp.List(a), a),
	}
	for _, reader := range []lisp.Reader{NewReader(), NewParsecReader()} {
		for i, v := range values {
			forms, err := reader.Read(rt, "test", strings.NewReader(v.String()))
			if !assert.NoError(t, err, "test %d", i) {
				continue
			}
			if assert.Len(t, forms, 1, "test %d", i) {
				assert.True(t, lisp.Equal(v, forms[0]), "test %d: %s != %s", i, v, forms[0])
			}
		}
	}
}

func TestReaderByName(t *testing.T) {
	for _, name := range []string{"", "rd", "parsec"} {
		r, err := ReaderByName(name)
		assert.NoError(t, err)
		assert.NotNil(t, r)
	}
	_, err := ReaderByName("yacc")
	assert.Error(t, err)
}
