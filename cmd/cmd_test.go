package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bmatsuo/minilisp/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags() {
	rootVerbose = false
	rootReader = "rd"
	rootLoad = nil
	rootNoStdlib = false
	rootMaxStack = lisp.DefaultMaxStackHeight
	runExpression = false
	runPrint = false
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags()
	var outbuf, errbuf bytes.Buffer
	rootCmd.SetOut(&outbuf)
	rootCmd.SetErr(&errbuf)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return outbuf.String(), errbuf.String(), err
}

func TestRunExpression(t *testing.T) {
	stdout, _, err := execute(t, "run", "-e", "-p", "(+ 1 2)", "(setq x 'a) (list x x)")
	require.NoError(t, err)
	assert.Equal(t, "3\na\n(a a)\n", stdout)

	stdout, _, err = execute(t, "run", "-e", "(println (* 6 7))")
	require.NoError(t, err)
	assert.Equal(t, "42\n", stdout)

	for _, reader := range []string{"rd", "parsec"} {
		stdout, _, err = execute(t, "--reader", reader, "run", "-e", "-p", "'(1 2.5 x)")
		require.NoError(t, err, reader)
		assert.Equal(t, "(1 2.500000 x)\n", stdout, reader)
	}
}

func TestRunErrors(t *testing.T) {
	stdout, _, err := execute(t, "run", "-e", "(println 1) (car 1) (println 2)")
	require.Error(t, err)
	assert.Equal(t, lisp.ErrType, lisp.Kind(err))
	assert.Equal(t, "1\n", stdout)

	_, _, err = execute(t, "run", "-e", "(+ 1")
	require.Error(t, err)
	assert.Equal(t, lisp.ErrReader, lisp.Kind(err))

	_, _, err = execute(t, "--reader", "bogus", "run", "-e", "1")
	assert.Error(t, err)

	_, _, err = execute(t, "--max-stack", "20", "run", "-e", "(defun f () (f)) (f)")
	require.Error(t, err)
	assert.Equal(t, lisp.ErrStackOverflow, lisp.Kind(err))

	_, stderr, err := execute(t, "--verbose", "run", "-e", "(defun g () (car 1)) (g)")
	require.Error(t, err)
	assert.Contains(t, stderr, "Stack Trace")
}

func TestRunStdlib(t *testing.T) {
	stdout, _, err := execute(t, "run", "-e", "-p", "(mod 7 4)")
	require.NoError(t, err)
	assert.Equal(t, "3\n", stdout)

	_, _, err = execute(t, "--no-stdlib", "run", "-e", "(mod 7 4)")
	require.Error(t, err)
	assert.Equal(t, lisp.ErrUnboundSymbol, lisp.Kind(err))
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	prelude := filepath.Join(dir, "prelude.lisp")
	prog := filepath.Join(dir, "prog.lisp")
	err := os.WriteFile(prelude, []byte("(defun sq (x) (* x x))\n"), 0600)
	require.NoError(t, err)
	err = os.WriteFile(prog, []byte("; squares\n(println (sq 9))\n"), 0600)
	require.NoError(t, err)

	stdout, _, err := execute(t, "--load", prelude, "run", prog)
	require.NoError(t, err)
	assert.Equal(t, "81\n", stdout)

	_, _, err = execute(t, "run", prog)
	require.Error(t, err)
	assert.Equal(t, lisp.ErrUnboundSymbol, lisp.Kind(err))

	_, _, err = execute(t, "run", filepath.Join(dir, "missing.lisp"))
	assert.Error(t, err)
}
