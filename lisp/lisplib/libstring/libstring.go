// Package libstring provides string functions.
package libstring

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bmatsuo/minilisp/lisp"
)

// LoadPackage adds the string functions to env.
func LoadPackage(env *lisp.LEnv) error {
	env.AddBuiltins(builtins...)
	return nil
}

var builtins = []lisp.LBuiltinDef{
	lisp.NewBuiltin("format", lisp.VarArgs, builtinFormat),
	lisp.NewBuiltin("concat", lisp.VarArgs, builtinConcat),
	lisp.NewBuiltin("strlen", 1, builtinStrlen),
}

// builtinFormat substitutes the rendered values for each "{}" in a format
// string.  Literal braces are written "{{" and "}}".
func builtinFormat(env *lisp.LEnv, args *lisp.LVal) (*lisp.LVal, error) {
	if args.IsNil() {
		return nil, env.Errorf(lisp.ErrArity, "format() takes at least 1 positional argument but 0 were given")
	}
	format := args.CAR
	if format.Type != lisp.LString {
		return nil, env.Errorf(lisp.ErrType, "first argument is not a string: %v", format.Type)
	}
	parts, err := parseFormatString(format.Str)
	if err != nil {
		return nil, env.Errorf(lisp.ErrType, "%v", err)
	}
	fvals, _ := lisp.Slice(args.CDR)
	var buf bytes.Buffer
	i := 0
	for _, p := range parts {
		if p.directive {
			if i >= len(fvals) {
				return nil, env.Errorf(lisp.ErrType, "too many formatting directives for supplied values")
			}
			_, err := lisp.Format(&buf, fvals[i])
			if err != nil {
				return nil, err
			}
			i++
			continue
		}
		buf.WriteString(p.text)
	}
	if i < len(fvals) {
		return nil, env.Errorf(lisp.ErrType, "too many values for formatting directives")
	}
	return lisp.String(buf.String()), nil
}

type formatPart struct {
	text      string
	directive bool
}

func parseFormatString(f string) ([]formatPart, error) {
	var parts []formatPart
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, formatPart{text: text.String()})
			text.Reset()
		}
	}
	for i := 0; i < len(f); i++ {
		switch f[i] {
		case '{':
			switch {
			case strings.HasPrefix(f[i:], "{{"):
				text.WriteByte('{')
				i++
			case strings.HasPrefix(f[i:], "{}"):
				flush()
				parts = append(parts, formatPart{directive: true})
				i++
			case strings.IndexByte(f[i:], '}') < 0:
				return nil, fmt.Errorf("unclosed formatting directive")
			default:
				return nil, fmt.Errorf("formatting directives must be empty")
			}
		case '}':
			if !strings.HasPrefix(f[i:], "}}") {
				return nil, fmt.Errorf("unexpected closing brace '}' outside of formatting directive")
			}
			text.WriteByte('}')
			i++
		default:
			text.WriteByte(f[i])
		}
	}
	flush()
	return parts, nil
}

func builtinConcat(env *lisp.LEnv, args *lisp.LVal) (*lisp.LVal, error) {
	var buf strings.Builder
	for p := args; !p.IsNil(); p = p.CDR {
		if p.CAR.Type != lisp.LString {
			return nil, env.Errorf(lisp.ErrType, "argument is not a string: %v", p.CAR.Type)
		}
		buf.WriteString(p.CAR.Str)
	}
	return lisp.String(buf.String()), nil
}

// builtinStrlen returns the number of unicode code points in a string.
func builtinStrlen(env *lisp.LEnv, args *lisp.LVal) (*lisp.LVal, error) {
	s := args.CAR
	if s.Type != lisp.LString {
		return nil, env.Errorf(lisp.ErrType, "argument is not a string: %v", s.Type)
	}
	return lisp.Int(int64(utf8.RuneCountInString(s.Str))), nil
}
