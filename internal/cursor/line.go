// Package cursor implements the Line Cursor (spec.md §4.A): an index-based
// scanner over a single decoded line with no allocation beyond the input
// string. Every higher-level lexer in this module (scalar, flow, block)
// reads through a *Line instead of touching strings directly.
package cursor

import "strings"

// Line wraps one decoded source line with a mutable read cursor.
//
// Invariant: 0 <= idx <= len(text). Leading spaces are consumed at
// construction time so idx starts past any leading indentation; callers
// that need the original indent column read it before constructing, or via
// LeadingSpaces on the raw text.
type Line struct {
	Number int
	text   string
	idx    int
	mark   int // start-of-last-match, for Captured()
}

// New returns a Line over text, with the cursor positioned after any
// leading spaces (but not tabs — YAML indentation is spaces only).
func New(number int, text string) *Line {
	l := &Line{Number: number, text: text}
	l.idx = leadingSpaces(text)
	l.mark = l.idx
	return l
}

// NewAt returns a Line over text with the cursor at an explicit index,
// used when re-dispatching a partially-consumed line to a new sub-machine.
func NewAt(number int, text string, idx int) *Line {
	return &Line{Number: number, text: text, idx: idx, mark: idx}
}

func leadingSpaces(s string) int {
	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return i
}

// LeadingSpaces counts the leading space run of text, without constructing
// a Line. Used by block machines to learn a line's indent column before
// deciding which child should own it.
func LeadingSpaces(text string) int { return leadingSpaces(text) }

// Text returns the full underlying line text.
func (l *Line) Text() string { return l.text }

// Pos returns the current 0-based cursor index (Column() gives the 1-based
// form).
func (l *Line) Pos() int { return l.idx }

// Column returns the 1-based column of the cursor, for error reporting.
func (l *Line) Column() int { return l.idx + 1 }

// SetPos forcibly repositions the cursor, used when a sub-lexer finishes
// and the caller needs to resume scanning from where it left off.
func (l *Line) SetPos(idx int) { l.idx = idx }

// AtEnd reports whether the cursor has reached the end of the raw text
// (not the logical end-of-content, which also considers comments).
func (l *Line) AtEnd() bool { return l.idx >= len(l.text) }

// Peek returns the byte at the cursor without consuming it, and false at
// end of text.
func (l *Line) Peek() (byte, bool) {
	if l.idx >= len(l.text) {
		return 0, false
	}
	return l.text[l.idx], true
}

// PeekAt returns the byte offset positions ahead of the cursor.
func (l *Line) PeekAt(offset int) (byte, bool) {
	i := l.idx + offset
	if i < 0 || i >= len(l.text) {
		return 0, false
	}
	return l.text[i], true
}

// Advance consumes one character unconditionally, a no-op at end of text.
func (l *Line) Advance() {
	if l.idx < len(l.text) {
		l.idx++
	}
}

// Revert backs the cursor up one position, the inverse of Advance, used to
// push back a character read during look-ahead.
func (l *Line) Revert() {
	if l.idx > 0 {
		l.idx--
	}
}

// ConsumeChar consumes and reports success if the next character equals c.
func (l *Line) ConsumeChar(c byte) bool {
	if b, ok := l.Peek(); ok && b == c {
		l.idx++
		return true
	}
	return false
}

// ConsumePrefix consumes and reports success if the remaining text starts
// with prefix.
func (l *Line) ConsumePrefix(prefix string) bool {
	if strings.HasPrefix(l.text[l.idx:], prefix) {
		l.idx += len(prefix)
		return true
	}
	return false
}

// ConsumeAny consumes a single character if it is a member of set.
func (l *Line) ConsumeAny(set string) (byte, bool) {
	b, ok := l.Peek()
	if !ok || !strings.ContainsRune(set, rune(b)) {
		return 0, false
	}
	l.idx++
	return b, true
}

// ConsumeWhile advances the cursor past every character for which pred
// holds, stopping at the first character that does not (or at end of
// text), and returns how many characters were consumed.
func (l *Line) ConsumeWhile(pred func(byte) bool) int {
	start := l.idx
	for l.idx < len(l.text) && pred(l.text[l.idx]) {
		l.idx++
	}
	return l.idx - start
}

// Mark records the current cursor position as the start of the next
// Captured() call.
func (l *Line) Mark() { l.mark = l.idx }

// Captured returns the substring from the last Mark() to the current
// cursor position.
func (l *Line) Captured() string {
	if l.mark > l.idx {
		return ""
	}
	return l.text[l.mark:l.idx]
}

// SkipSpaces advances past any run of spaces and tabs.
func (l *Line) SkipSpaces() {
	l.ConsumeWhile(func(b byte) bool { return b == ' ' || b == '\t' })
}

// SkipBackSpaces backs the cursor up over trailing spaces/tabs that
// precede it, used to trim a plain scalar's trailing whitespace before it
// is considered terminated (spec.md §4.B, §9 "skipBackSpaces").
func (l *Line) SkipBackSpaces() {
	for l.idx > 0 && (l.text[l.idx-1] == ' ' || l.text[l.idx-1] == '\t') {
		l.idx--
	}
}

// AtLogicalEnd reports whether the cursor is at the logical end of content:
// either the literal end of text, or a '#' that starts a comment (at
// column 0, or preceded by whitespace).
func (l *Line) AtLogicalEnd() bool {
	if l.idx >= len(l.text) {
		return true
	}
	if l.text[l.idx] != '#' {
		return false
	}
	return l.idx == 0 || l.text[l.idx-1] == ' ' || l.text[l.idx-1] == '\t'
}

// TrimComment returns the index at which a trailing comment begins (or
// len(text) if there is none), without moving the cursor.
func TrimComment(text string) int {
	for i := 0; i < len(text); i++ {
		if text[i] == '#' && (i == 0 || text[i-1] == ' ' || text[i-1] == '\t') {
			return i
		}
	}
	return len(text)
}

// ConsumeColon succeeds only if the next character is ':' followed by
// whitespace or end of line — this is what distinguishes the mapping
// indicator from a bare colon inside a plain scalar like "a:b" (spec.md
// §4.A "colon matcher").
func (l *Line) ConsumeColon() bool {
	return l.consumeDelimiter(':')
}

// ConsumeDash succeeds only if the next character is '-' followed by
// whitespace or end of line (spec.md §4.A "dash matcher").
func (l *Line) ConsumeDash() bool {
	return l.consumeDelimiter('-')
}

func (l *Line) consumeDelimiter(c byte) bool {
	if l.idx >= len(l.text) || l.text[l.idx] != c {
		return false
	}
	next := l.idx + 1
	if next >= len(l.text) || l.text[next] == ' ' || l.text[next] == '\t' {
		l.idx++
		return true
	}
	return false
}

// ConsumeHexDigits consumes exactly n hex digits and returns their value.
// Returns ok=false, with the cursor left where it was, if fewer than n hex
// digits were available.
func (l *Line) ConsumeHexDigits(n int) (value int, ok bool) {
	start := l.idx
	v := 0
	for i := 0; i < n; i++ {
		b, has := l.Peek()
		if !has {
			l.idx = start
			return 0, false
		}
		d, isHex := hexVal(b)
		if !isHex {
			l.idx = start
			return 0, false
		}
		v = v*16 + d
		l.idx++
	}
	return v, true
}

func hexVal(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	default:
		return 0, false
	}
}

// ConsumeDecimal consumes a run of decimal digits and returns their value.
func (l *Line) ConsumeDecimal() (value int, ok bool) {
	start := l.idx
	v := 0
	n := 0
	for {
		b, has := l.Peek()
		if !has || b < '0' || b > '9' {
			break
		}
		v = v*10 + int(b-'0')
		l.idx++
		n++
	}
	if n == 0 {
		l.idx = start
		return 0, false
	}
	return v, true
}

// IsFlowIndicator reports whether b is one of the flow delimiter
// characters that terminate a flow-plain scalar (spec.md §4.B).
func IsFlowIndicator(b byte) bool {
	switch b {
	case '[', ']', '{', '}', ',':
		return true
	default:
		return false
	}
}
