// Package scalar implements the Scalar Lexers (spec.md §4.B) and the
// Scalar Classifier (spec.md §4.C). Each lexer is invoked with the cursor
// positioned just after its opening delimiter (if any) and accumulates
// text across calls to Continuation as the owning Child reports itself
// unterminated at end of line.
package scalar

import (
	"strings"
	"unicode/utf8"

	"github.com/pwall567/kjson-yaml/internal/cursor"
	"github.com/pwall567/kjson-yaml/internal/yamlerr"
)

func joinContinuation(sb *strings.Builder, suppress bool) {
	if suppress {
		return
	}
	s := sb.String()
	if s != "" && !strings.HasSuffix(s, " ") {
		sb.WriteByte(' ')
	}
}

// DoubleQuoted lexes a double-quoted scalar across one or more lines.
type DoubleQuoted struct {
	sb            strings.Builder
	terminated    bool
	suppressSpace bool
	first         bool
}

func NewDoubleQuoted() *DoubleQuoted { return &DoubleQuoted{first: true} }

func (d *DoubleQuoted) Terminated() bool { return d.terminated }
func (d *DoubleQuoted) Text() string     { return d.sb.String() }

// Continuation scans one line's worth of double-quoted content. On lines
// after the first it joins with a space per spec.md §4.B, unless the text
// already ends in a space or the previous line ended in a bare backslash.
func (d *DoubleQuoted) Continuation(line *cursor.Line) error {
	if !d.first {
		joinContinuation(&d.sb, d.suppressSpace)
	}
	d.first = false
	d.suppressSpace = false

	for {
		b, ok := line.Peek()
		if !ok {
			return nil // unterminated at line end is legal
		}
		if b == '"' {
			line.Advance()
			d.terminated = true
			return nil
		}
		if b != '\\' {
			line.Advance()
			d.sb.WriteByte(b)
			continue
		}
		line.Advance() // consume backslash
		esc, ok := line.Peek()
		if !ok {
			// backslash is the line's last character: suppress the
			// implicit join space on the next continuation (spec.md §4.B).
			d.suppressSpace = true
			return nil
		}
		if err := d.decodeEscape(line, esc); err != nil {
			return err
		}
	}
}

func (d *DoubleQuoted) decodeEscape(line *cursor.Line, esc byte) error {
	line.Advance()
	switch esc {
	case '0':
		d.sb.WriteByte(0)
	case 'a':
		d.sb.WriteByte(0x07)
	case 'b':
		d.sb.WriteByte(0x08)
	case 't', '\t':
		d.sb.WriteByte(0x09)
	case 'n':
		d.sb.WriteByte(0x0A)
	case 'v':
		d.sb.WriteByte(0x0B)
	case 'f':
		d.sb.WriteByte(0x0C)
	case 'r':
		d.sb.WriteByte(0x0D)
	case 'e':
		d.sb.WriteByte(0x1B)
	case ' ':
		d.sb.WriteByte(' ')
	case '"':
		d.sb.WriteByte('"')
	case '/':
		d.sb.WriteByte('/')
	case '\\':
		d.sb.WriteByte('\\')
	case 'N':
		d.sb.WriteRune(0x85)
	case '_':
		d.sb.WriteRune(0xA0)
	case 'L':
		d.sb.WriteRune(0x2028)
	case 'P':
		d.sb.WriteRune(0x2029)
	case 'x':
		return d.decodeHexRune(line, 2)
	case 'u':
		return d.decodeHexRune(line, 4)
	case 'U':
		return d.decodeHexRune(line, 8)
	default:
		return yamlerr.New(yamlerr.Encoding, line.Number, line.Column(), "illegal escape sequence \\%c", esc)
	}
	return nil
}

func (d *DoubleQuoted) decodeHexRune(line *cursor.Line, digits int) error {
	v, ok := line.ConsumeHexDigits(digits)
	if !ok {
		return yamlerr.New(yamlerr.Encoding, line.Number, line.Column(), "illegal hex escape, expected %d hex digits", digits)
	}
	if v > utf8.MaxRune {
		return yamlerr.New(yamlerr.Encoding, line.Number, line.Column(), "supplementary code point out of range: %#x", v)
	}
	d.sb.WriteRune(rune(v))
	return nil
}

// SingleQuoted lexes a single-quoted scalar across one or more lines.
// "''" is a literal apostrophe; a lone "'" terminates.
type SingleQuoted struct {
	sb         strings.Builder
	terminated bool
	first      bool
}

func NewSingleQuoted() *SingleQuoted { return &SingleQuoted{first: true} }

func (s *SingleQuoted) Terminated() bool { return s.terminated }
func (s *SingleQuoted) Text() string     { return s.sb.String() }

func (s *SingleQuoted) Continuation(line *cursor.Line) error {
	if !s.first {
		joinContinuation(&s.sb, false)
	}
	s.first = false

	for {
		b, ok := line.Peek()
		if !ok {
			return nil
		}
		if b == '\'' {
			line.Advance()
			if nb, ok := line.Peek(); ok && nb == '\'' {
				line.Advance()
				s.sb.WriteByte('\'')
				continue
			}
			s.terminated = true
			return nil
		}
		line.Advance()
		s.sb.WriteByte(b)
	}
}

// Plain lexes a block-context plain scalar: it stops at a colon followed by
// whitespace/EOL, or a whitespace-preceded comment, or end of line.
// Trailing whitespace is trimmed before termination is decided.
type Plain struct {
	sb         strings.Builder
	terminated bool // true once a ":"+ws mapping indicator is seen
	first      bool
}

func NewPlain() *Plain { return &Plain{first: true} }

func (p *Plain) Terminated() bool { return p.terminated }
func (p *Plain) Text() string     { return p.sb.String() }

func (p *Plain) Continuation(line *cursor.Line) error {
	if !p.first {
		joinContinuation(&p.sb, false)
	}
	p.first = false

	start := line.Pos()
	for {
		if line.AtLogicalEnd() {
			break
		}
		if line.ConsumeColon() {
			line.SetPos(line.Pos() - 1) // colon matcher consumed the colon; keep it out of the scalar
			p.terminated = true
			break
		}
		line.Advance()
	}
	text := line.Text()[start:line.Pos()]
	text = strings.TrimRight(text, " \t")
	p.sb.WriteString(text)
	return nil
}

// FlowPlain lexes a plain scalar inside flow context: as Plain, but it also
// stops at any of `[ ] { } ,` without consuming, which marks it terminated.
type FlowPlain struct {
	sb         strings.Builder
	terminated bool
	first      bool
}

func NewFlowPlain() *FlowPlain { return &FlowPlain{first: true} }

func (f *FlowPlain) Terminated() bool { return f.terminated }
func (f *FlowPlain) Text() string     { return f.sb.String() }

func (f *FlowPlain) Continuation(line *cursor.Line) error {
	if !f.first {
		joinContinuation(&f.sb, false)
	}
	f.first = false

	start := line.Pos()
	for {
		if line.AtLogicalEnd() {
			break
		}
		if b, ok := line.Peek(); ok && cursor.IsFlowIndicator(b) {
			f.terminated = true
			break
		}
		if line.ConsumeColon() {
			line.SetPos(line.Pos() - 1)
			f.terminated = true
			break
		}
		line.Advance()
	}
	text := line.Text()[start:line.Pos()]
	text = strings.TrimRight(text, " \t")
	f.sb.WriteString(text)
	return nil
}
