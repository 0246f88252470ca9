// Package repl implements an interactive read-eval-print loop.
package repl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bmatsuo/minilisp/lisp"
	"github.com/chzyer/readline"
)

// Session accumulates lines of interactive input and evaluates each
// complete form in a single environment.  Values are printed to the
// runtime's stdout and errors to its stderr.  An error aborts the
// remaining forms of the input it occurred in but never the session.
type Session struct {
	env        *lisp.LEnv
	prompt     string
	contPrompt string
	buf        []byte
}

// NewSession returns a Session evaluating input in env.
func NewSession(env *lisp.LEnv, prompt string) *Session {
	return &Session{
		env:        env,
		prompt:     prompt,
		contPrompt: strings.Repeat(" ", len(prompt)), // prompt had better be ascii...
	}
}

// Prompt returns the prompt to display before the next line of input.
func (s *Session) Prompt() string {
	if s.Pending() {
		return s.contPrompt
	}
	return s.prompt
}

// Pending returns true if the session is holding an incomplete form.
func (s *Session) Pending() bool {
	return len(s.buf) != 0
}

// Reset discards any incomplete input.
func (s *Session) Reset() {
	s.buf = nil
}

// Input handles one line of input.  If the input read so far ends inside a
// form Input holds on to it until a later line completes the form.
func (s *Session) Input(line string) {
	if s.Pending() {
		s.buf = append(s.buf, '\n')
	}
	s.buf = append(s.buf, line...)
	if len(bytes.TrimSpace(s.buf)) == 0 {
		s.buf = nil
		return
	}

	forms, err := s.env.Read("stdin", bytes.NewReader(s.buf))
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return
	}
	s.buf = nil
	if err != nil {
		s.errln(err)
		return
	}
	for _, form := range forms {
		v, err := s.env.Eval(form)
		if err != nil {
			s.errln(err)
			return
		}
		fmt.Fprintln(s.env.Runtime.Stdout, v)
	}
}

func (s *Session) errln(err error) {
	rt := s.env.Runtime
	fmt.Fprintln(rt.Stderr, err)
	var lerr *lisp.Error
	if errors.As(err, &lerr) && lerr.Stack != nil && lerr.Stack.Height() > 0 {
		var buf bytes.Buffer
		lerr.Stack.DebugPrint(&buf)
		rt.Logger.Print(buf.String())
	}
}

// RunRepl runs a simple repl reading lines from the terminal.  RunRepl
// returns when input is closed.
func RunRepl(env *lisp.LEnv, prompt string) error {
	s := NewSession(env, prompt)
	rl, err := readline.NewEx(&readline.Config{
		Prompt: prompt,
		Stdout: env.Runtime.Stdout,
		Stderr: env.Runtime.Stderr,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		rl.SetPrompt(s.Prompt())
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			s.Reset()
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		s.Input(line)
	}
}
