// Package lisptest runs tables of lisp expressions against fresh
// environments and checks their results.
package lisptest

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/bmatsuo/minilisp/lisp"
	"github.com/bmatsuo/minilisp/parser"
)

// Runner is a test runner.
type Runner struct {
	// Reader parses test expressions.  When Reader is nil parser.NewReader is
	// used.
	Reader lisp.Reader
	// Loader is called to load libraries into each test environment, after
	// the default builtins are bound.
	Loader func(*lisp.LEnv) error
	// Configs are applied to each test environment.
	Configs []lisp.Config
}

// NewEnv returns an initialized environment whose console output is written
// to stdout.
func (r *Runner) NewEnv(stdout *bytes.Buffer) (*lisp.LEnv, error) {
	reader := r.Reader
	if reader == nil {
		reader = parser.NewReader()
	}
	configs := []lisp.Config{
		lisp.WithReader(reader),
		lisp.WithStdout(stdout),
		lisp.WithStderr(stdout),
	}
	configs = append(configs, r.Configs...)
	env := lisp.NewEnv(nil)
	err := lisp.InitializeUserEnv(env, configs...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize lisp environment: %w", err)
	}
	if r.Loader != nil {
		err = r.Loader(env)
		if err != nil {
			return nil, fmt.Errorf("failed to load library: %w", err)
		}
	}
	return env, nil
}

// TestSequence is a sequence of lisp expressions which are evaluated
// sequentially by a lisp.LEnv.
type TestSequence []struct {
	Expr   string // a lisp expression
	Result string // the rendered result or error
	Output string // expected console output
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// Result returns the text a TestSequence expects from evaluating an
// expression.  Errors are rendered as their kind and message without source
// location.
func Result(v *lisp.LVal, err error) string {
	if err == nil {
		return v.String()
	}
	var lerr *lisp.Error
	if errors.As(err, &lerr) {
		return lerr.Kind.String() + ": " + lerr.Msg
	}
	return err.Error()
}

// Eval reads and evaluates source in env and returns the Result.
func Eval(env *lisp.LEnv, source string) string {
	return Result(env.LoadString("test", source))
}

// RunTestSuite runs each TestSequence in tests on isolated lisp.LEnvs.
func (r *Runner) RunTestSuite(t *testing.T, tests TestSuite) {
	t.Helper()
	for i, test := range tests {
		var stdout bytes.Buffer
		env, err := r.NewEnv(&stdout)
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		for j, expr := range test.TestSequence {
			stdout.Reset()
			result := Eval(env, expr.Expr)
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if stdout.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected output %q (got %q)", i, test.Name, j, expr.Output, stdout.String())
			}
			if h := env.Runtime.Stack.Height(); h != 0 {
				t.Errorf("test %d %q: expr %d: stack height %d after evaluation", i, test.Name, j, h)
			}
		}
	}
}

// RunTestSuite runs tests with the default Runner.
func RunTestSuite(t *testing.T, tests TestSuite) {
	t.Helper()
	(&Runner{}).RunTestSuite(t, tests)
}
