// Package cmd implements the minilisp command line interface.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/bmatsuo/minilisp/lisp"
	"github.com/bmatsuo/minilisp/lisp/lisplib"
	"github.com/bmatsuo/minilisp/parser"
	"github.com/spf13/cobra"
)

var (
	rootVerbose  bool
	rootReader   string
	rootLoad     []string
	rootNoStdlib bool
	rootMaxStack int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "minilisp",
	Short: "A small lisp interpreter",
	Long: `A small lisp interpreter with functions, closures and macros.

Run programs with the run command or start an interactive session with the
repl command.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.  This is called by main.main(). It only needs to happen once
// to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&rootVerbose, "verbose", "v", false,
		"Log module loads and error stack traces to stderr")
	flags.StringVar(&rootReader, "reader", "rd",
		"Reader implementation used to parse source (rd or parsec)")
	flags.StringSliceVar(&rootLoad, "load", nil,
		"Lisp files evaluated before any other input")
	flags.BoolVar(&rootNoStdlib, "no-stdlib", false,
		"Do not bind the math and string libraries")
	flags.IntVar(&rootMaxStack, "max-stack", lisp.DefaultMaxStackHeight,
		"Maximum number of nested function calls")
}

// rootEnv returns an environment configured by the persistent flags with
// any prelude files evaluated.
func rootEnv(stdout, stderr io.Writer) (*lisp.LEnv, error) {
	reader, err := parser.ReaderByName(rootReader)
	if err != nil {
		return nil, err
	}
	logger := log.New(io.Discard, "", 0)
	if rootVerbose {
		logger = log.New(stderr, "minilisp: ", 0)
	}
	env := lisp.NewEnv(nil)
	err = lisp.InitializeUserEnv(env,
		lisp.WithReader(reader),
		lisp.WithStdout(stdout),
		lisp.WithStderr(stderr),
		lisp.WithLogger(logger),
		lisp.WithMaximumStackHeight(rootMaxStack),
	)
	if err != nil {
		return nil, err
	}
	if !rootNoStdlib {
		err = lisplib.LoadLibrary(env)
		if err != nil {
			return nil, err
		}
	}
	for _, path := range rootLoad {
		_, err = env.LoadModule(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return env, nil
}

// logStack writes the stack trace carried by err, if any, to the runtime's
// logger.
func logStack(env *lisp.LEnv, err error) {
	var lerr *lisp.Error
	if !errors.As(err, &lerr) || lerr.Stack == nil || lerr.Stack.Height() == 0 {
		return
	}
	w := env.Runtime.Logger.Writer()
	lerr.Stack.DebugPrint(w)
}
