// Package source implements the character-source abstraction named as an
// external collaborator in spec.md §1/§6: it supplies decoded lines in file
// order and owns charset sniffing (BOM detection). Multi-byte stream
// decoding beyond UTF-8/UTF-8-with-BOM is a stated non-goal, so this is
// intentionally thin.
package source

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Source supplies decoded text lines, in order, to the framer.
type Source interface {
	// NextLine returns the next decoded line (without its line terminator)
	// and true, or ("", false) at end of input.
	NextLine() (string, bool)
}

type lineSource struct {
	scanner *bufio.Scanner
}

// stripBOM removes a leading UTF-8 byte-order mark, the only charset
// sniffing this module performs (spec.md Non-goals: "multi-byte stream
// decoding").
func stripBOM(b []byte) []byte {
	const bom = "\xef\xbb\xbf"
	if len(b) >= 3 && string(b[:3]) == bom {
		return b[3:]
	}
	return b
}

// FromReader builds a Source over an io.Reader, sniffing and stripping a
// leading UTF-8 BOM.
func FromReader(r io.Reader) Source {
	br := bufio.NewReader(r)
	peek, _ := br.Peek(3)
	if len(peek) >= 3 && string(peek) == "\xef\xbb\xbf" {
		_, _ = br.Discard(3)
	}
	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &lineSource{scanner: sc}
}

// FromString builds a Source over an in-memory string.
func FromString(s string) Source {
	return FromReader(strings.NewReader(s))
}

// FromBytes builds a Source over an in-memory byte slice, stripping a
// leading BOM if present.
func FromBytes(b []byte) Source {
	b = stripBOM(b)
	return FromReader(strings.NewReader(string(b)))
}

// FromFile opens path and builds a Source over its contents. The returned
// closer should be closed by the caller once parsing completes.
func FromFile(path string) (Source, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return FromReader(f), f, nil
}

func (s *lineSource) NextLine() (string, bool) {
	if s.scanner.Scan() {
		return s.scanner.Text(), true
	}
	return "", false
}
