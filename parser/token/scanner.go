package token

import (
	"fmt"
	"io"
	"unicode/utf8"
)

const defaultBufSize = 8 << 10

// Scanner reads runes from a byte stream and groups them into tokens, keeping
// track of the source location where each token begins.  The buffer grows
// when a single token does not fit in it.
type Scanner struct {
	file string

	totalPos     int // stream offset of the current rune
	linePos      int // totalPos at the first byte of the current line
	line         int
	startLinePos int // linePos at the first byte of the current token
	startLine    int

	r       io.Reader
	readErr error

	buf   []byte
	start int // buffer index of the current token
	pos   int // buffer index of c
	next  int // buffer index of the rune following c
	c     Rune
	peek  []Rune
}

// NewScanner initializes and returns a new Scanner reading from r.  The file
// name is used in the Location of each token.
func NewScanner(file string, r io.Reader) *Scanner {
	return newScannerBuf(file, r, make([]byte, defaultBufSize))
}

func newScannerBuf(file string, r io.Reader, buf []byte) *Scanner {
	s := &Scanner{
		file:      file,
		r:         r,
		buf:       buf,
		line:      1,
		startLine: 1,
	}
	s.fill(0)
	return s
}

// EmitToken returns a token of type typ containing the text scanned since the
// last call to either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore discards the text scanned since the last call to either EmitToken
// or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.next
	s.startLine = s.line
	s.startLinePos = s.linePos
	if s.c.C == '\n' {
		s.startLine++
		s.startLinePos = s.totalPos + 1
	}
}

// Text returns the text scanned since the last call to either EmitToken or
// Ignore.
func (s *Scanner) Text() string {
	return string(s.buf[s.start:s.next])
}

// Rune returns the most recently scanned rune.
func (s *Scanner) Rune() rune {
	return s.c.C
}

// Peek returns the next rune without scanning it.  Peek returns false when
// the input is exhausted or the next bytes are not valid utf-8, in which case
// the following call to ScanRune returns the cause.
func (s *Scanner) Peek() (rune, bool) {
	if len(s.peek) > 0 {
		return s.peek[0].C, true
	}
	if s.checkExtend() != nil {
		return 0, false
	}
	c, n := utf8.DecodeRune(s.buf[s.next:])
	r := Rune{c, n}
	if r.IsRuneError() {
		return utf8.RuneError, false
	}
	s.peek = append(s.peek, r)
	return c, true
}

// ScanRune adds the next rune in the input to the current token.  ScanRune
// returns io.EOF at the end of input.
func (s *Scanner) ScanRune() error {
	if len(s.peek) > 0 {
		s.scan(s.peek[0])
		s.peek = s.peek[1:]
		return nil
	}
	err := s.checkExtend()
	if err != nil {
		return err
	}
	c, n := utf8.DecodeRune(s.buf[s.next:])
	r := Rune{c, n}
	if r.IsRuneError() {
		// A truncated sequence may be the result of a read error.
		if s.readErr != nil && s.readErr != io.EOF {
			return s.readErr
		}
		return fmt.Errorf("invalid utf-8 sequence in source text starting with byte %q", s.buf[s.next])
	}
	s.scan(r)
	return nil
}

func (s *Scanner) scan(r Rune) {
	old := s.c
	s.c = r
	s.totalPos += old.N
	s.pos += old.N
	s.next += r.N
	if old.C == '\n' {
		s.line++
		s.linePos = s.totalPos
	}
}

// LocStart returns the Location of the beginning of the current token.
func (s *Scanner) LocStart() *Location {
	startPos := s.totalPos - (s.pos - s.start)
	if s.start > s.pos {
		startPos = s.totalPos + s.c.N
	}
	return &Location{
		File: s.file,
		Line: s.startLine,
		Col:  startPos - s.startLinePos + 1,
		Pos:  startPos,
	}
}

// Loc returns the Location of the most recently scanned rune.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Line: s.line,
		Col:  s.totalPos - s.linePos + 1,
		Pos:  s.totalPos,
	}
}

func (s *Scanner) checkExtend() error {
	if len(s.buf)-s.next < utf8.UTFMax {
		s.extend()
	}
	if len(s.buf)-s.next == 0 {
		if s.readErr != nil && s.readErr != io.EOF {
			return s.readErr
		}
		return io.EOF
	}
	return nil
}

// extend makes room at the end of the buffer and reads more input.  Scanned
// text before the current token is discarded; the buffer doubles when the
// current token fills it.
func (s *Scanner) extend() {
	if s.readErr != nil {
		return
	}
	if s.start > 0 {
		end := copy(s.buf, s.buf[s.start:])
		s.pos -= s.start
		s.next -= s.start
		s.start = 0
		s.buf = s.buf[:end]
	} else if cap(s.buf)-len(s.buf) < utf8.UTFMax {
		buf := make([]byte, len(s.buf), 2*cap(s.buf)+utf8.UTFMax)
		copy(buf, s.buf)
		s.buf = buf
	}
	s.fill(len(s.buf))
}

func (s *Scanner) fill(end int) {
	buf := s.buf[:cap(s.buf)]
	n, err := io.ReadFull(s.r, buf[end:])
	s.buf = buf[:end+n]
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	s.readErr = err
}

// Rune is a rune and its encoded length in bytes.
type Rune struct {
	C rune
	N int
}

// IsRuneError returns true if r represents an invalid utf-8 sequence decoded
// by utf8.DecodeRune.
func (r Rune) IsRuneError() bool {
	return r.C == utf8.RuneError && r.N == 1
}
