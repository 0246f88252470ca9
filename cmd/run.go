package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/bmatsuo/minilisp/lisp"
	"github.com/spf13/cobra"
)

var (
	runExpression bool
	runPrint      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] FILE...",
	Short: "Run lisp code",
	Long:  `Run lisp code provided supplied via the command line or a file.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := rootEnv(cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return runSources(env, args)
	},
}

// runSources evaluates each source in order and stops at the first error.
func runSources(env *lisp.LEnv, args []string) error {
	srcs, err := runReadExpressions(args)
	if err != nil {
		return err
	}
	for i, src := range srcs {
		name := args[i]
		if runExpression {
			name = "expr" + strconv.Itoa(i+1)
		}
		err = runSource(env, name, src)
		if err != nil {
			logStack(env, err)
			return err
		}
	}
	return nil
}

func runSource(env *lisp.LEnv, name string, src []byte) error {
	forms, err := env.Read(name, bytes.NewReader(src))
	if err != nil {
		return err
	}
	for _, form := range forms {
		v, err := env.Eval(form)
		if err != nil {
			return err
		}
		if runPrint {
			printValue(env.Runtime.Stdout, v)
		}
	}
	return nil
}

func printValue(w io.Writer, v *lisp.LVal) {
	fmt.Fprintln(w, v)
}

func runReadExpressions(args []string) ([][]byte, error) {
	exprs := make([][]byte, len(args))
	if runExpression {
		for i := range args {
			exprs[i] = []byte(args[i])
		}
		return exprs, nil
	}
	for i, path := range args {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		exprs[i] = b
	}
	return exprs, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Here flags for the run command are defined
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
}
