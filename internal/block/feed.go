// Package block implements the Block State Machines of spec.md §4.E: the
// Initial/Mapping/Sequence/BlockScalar machines driven by indentation, plus
// the recursive descent that threads the document Context through them.
package block

import "strings"

type rawLine struct {
	text string
	num  int
}

// LineFeed is a pull-based line source with one level of pushback, used so
// a block that reads one line too far (to discover a dedent) can hand that
// line back to its caller instead of losing it. This is what lets nested
// blocks share "the stack" purely through Go's own call stack, as spec.md
// §3 describes for the nested Block/Child hierarchy.
type LineFeed struct {
	pending []rawLine
	pull    func() (string, int, bool)
}

// NewLineFeed wraps a pull function (supplied by the framer) that returns
// the next content line, or ok=false at end of input.
func NewLineFeed(pull func() (string, int, bool)) *LineFeed {
	return &LineFeed{pull: pull}
}

// Next consumes and returns the next line.
func (f *LineFeed) Next() (string, int, bool) {
	if n := len(f.pending); n > 0 {
		rl := f.pending[n-1]
		f.pending = f.pending[:n-1]
		return rl.text, rl.num, true
	}
	return f.pull()
}

// Peek returns the next line without consuming it.
func (f *LineFeed) Peek() (string, int, bool) {
	text, num, ok := f.Next()
	if ok {
		f.Unget(text, num)
	}
	return text, num, ok
}

// Unget pushes a line back, to be returned again by the next Next()/Peek().
func (f *LineFeed) Unget(text string, num int) {
	f.pending = append(f.pending, rawLine{text, num})
}

func isBlankText(text string) bool { return strings.TrimSpace(text) == "" }

// peekNextNonBlank consumes any run of blank lines and returns the first
// non-blank line found, without consuming it.
func peekNextNonBlank(feed *LineFeed) (string, int, bool) {
	for {
		text, lineNo, ok := feed.Peek()
		if !ok {
			return "", 0, false
		}
		if !isBlankText(text) {
			return text, lineNo, true
		}
		feed.Next()
	}
}
