package lisp

import (
	"io"
	"log"
)

// Config is a function that configures a root environment or its runtime.
type Config func(env *LEnv) error

// InitializeUserEnv binds the default builtins and special operators in env
// and then applies configs in order.
func InitializeUserEnv(env *LEnv, configs ...Config) error {
	env.AddSpecialOps(DefaultSpecialOps()...)
	env.AddBuiltins(DefaultBuiltins()...)
	env.AddVar(env.Intern("null"), Nil())
	env.AddVar(env.Intern("true"), True())
	env.AddVar(env.Intern("false"), False())
	for _, name := range TypeNames() {
		sym := env.Intern(name)
		env.AddVar(sym, sym)
	}
	for _, fn := range configs {
		err := fn(env)
		if err != nil {
			return err
		}
	}
	return nil
}

// WithMaximumStackHeight returns a Config that will prevent an execution
// environment from allowing more than n nested function calls.  A
// non-positive n removes the limit.
func WithMaximumStackHeight(n int) Config {
	return func(env *LEnv) error {
		env.Runtime.Stack.MaxHeight = n
		return nil
	}
}

// WithReader returns a Config that makes environments use r to parse source
// streams.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *LEnv) error {
		env.Runtime.Reader = r
		return nil
	}
}

// WithLoader returns a Config that makes the import builtin read module
// source using fn instead of the default, os.ReadFile.
func WithLoader(fn Loader) Config {
	return func(env *LEnv) error {
		env.Runtime.Loader = fn
		return nil
	}
}

// WithStdout returns a Config that makes environments write console output
// to w instead of the default, os.Stdout.
func WithStdout(w io.Writer) Config {
	return func(env *LEnv) error {
		env.Runtime.Stdout = w
		return nil
	}
}

// WithStderr returns a Config that makes environments write debugging output
// to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(env *LEnv) error {
		env.Runtime.Stderr = w
		return nil
	}
}

// WithLogger returns a Config that makes the runtime log diagnostics to
// logger.  By default log output is discarded.
func WithLogger(logger *log.Logger) Config {
	return func(env *LEnv) error {
		env.Runtime.Logger = logger
		return nil
	}
}
