// Package lisplib is used to conveniently load the standard library into a
// lisp environment.
package lisplib

import (
	"github.com/bmatsuo/minilisp/lisp"
	"github.com/bmatsuo/minilisp/lisp/lisplib/libmath"
	"github.com/bmatsuo/minilisp/lisp/lisplib/libstring"
)

// LoadLibrary binds the functions of every library package in env.
func LoadLibrary(env *lisp.LEnv) error {
	err := libmath.LoadPackage(env)
	if err != nil {
		return err
	}
	return libstring.LoadPackage(env)
}
