package parser

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/bmatsuo/minilisp/lisp"
)

func benchmarkSource() []byte {
	var buf bytes.Buffer
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&buf, "(defun f%d (x y) ; function %d\n  (if (lt x %d.5) (+ x y) '(x \"y\" %d)))\n", i, i, i, -i)
	}
	return buf.Bytes()
}

func benchmarkReader(b *testing.B, r lisp.Reader) {
	src := benchmarkSource()
	rt := lisp.NewRuntime()
	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := r.Read(rt, "bench", bytes.NewReader(src))
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReader(b *testing.B) {
	benchmarkReader(b, NewReader())
}

func BenchmarkParsecReader(b *testing.B) {
	benchmarkReader(b, NewParsecReader())
}
