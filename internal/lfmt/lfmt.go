// Package lfmt contains helpers for writing formatted lisp values.
package lfmt

import "io"

// WriteOp is a function that looks like w.Write but may involve many calls to
// w.Write and aggregate the result.
type WriteOp func(w io.Writer) (int, error)

// CountingWriter is an io.Writer that tracks the total number of bytes written
// across all calls to the Write method.
type CountingWriter interface {
	io.Writer
	io.StringWriter
	// N returns the total number of bytes written.
	N() int
	// DeferCount passes the underlying io.Writer to the WriteOp and counts the
	// reported number of bytes using the WriteOp's return value.  DeferCount
	// avoids updating the counter once per Write call when a value is
	// formatted recursively.
	DeferCount(WriteOp) (int, error)
}

// NewCountingWriter wraps w as a CountingWriter.
func NewCountingWriter(w io.Writer) CountingWriter {
	return &countingWriter{w: w}
}

type countingWriter struct {
	n int
	w io.Writer
}

var _ CountingWriter = (*countingWriter)(nil)

func (w *countingWriter) count(n int, err error) (int, error) {
	w.n += n
	return n, err
}

// N implements CountingWriter
func (w *countingWriter) N() int {
	return w.n
}

// Write implements io.Writer
func (w *countingWriter) Write(b []byte) (int, error) {
	return w.count(w.w.Write(b))
}

// WriteString implements io.StringWriter
func (w *countingWriter) WriteString(s string) (int, error) {
	return w.count(io.WriteString(w.w, s))
}

// DeferCount implements CountingWriter
func (w *countingWriter) DeferCount(fn WriteOp) (int, error) {
	return w.count(fn(w.w))
}
