package block

import (
	"strings"

	"github.com/pwall567/kjson-yaml/internal/cursor"
	"github.com/pwall567/kjson-yaml/internal/yamlerr"
	"github.com/pwall567/kjson-yaml/value"
)

// ChompMode selects how a block scalar's trailing line breaks are handled
// (spec.md §4.E "chomping indicators").
type ChompMode int

const (
	ChompClip ChompMode = iota
	ChompStrip
	ChompKeep
)

// parseChomping reads the optional '-' / '+' chomping indicator following a
// '|' or '>' block scalar header, defaulting to Clip.
func parseChomping(line *cursor.Line) (ChompMode, error) {
	mode := ChompClip
	if b, ok := line.Peek(); ok {
		switch b {
		case '-':
			line.Advance()
			mode = ChompStrip
		case '+':
			line.Advance()
			mode = ChompKeep
		}
	}
	line.SkipSpaces()
	if !line.AtLogicalEnd() {
		return mode, yamlerr.New(yamlerr.Syntax, line.Number, line.Column(), "bad block scalar header")
	}
	return mode, nil
}

// RunBlockScalar implements the BlockScalarLiteral/BlockScalarFolded block
// (spec.md §4.E): it reads lines indented at or beyond headerIndent, the
// first of which fixes the scalar's content indent, until a real dedent or a
// comment-only dedented line (which is tolerated and skipped) or end of
// input, then applies folding (if any) and chomping.
func RunBlockScalar(feed *LineFeed, folded bool, chomp ChompMode, headerIndent int) (*value.Value, error) {
	indent := -1
	leadingBlanks := 0
	var lines []string

	for {
		text, _, ok := feed.Peek()
		if !ok {
			break
		}
		if isBlankText(text) {
			feed.Next()
			if indent < 0 {
				leadingBlanks++
			} else {
				lines = append(lines, "")
			}
			continue
		}
		col := cursor.LeadingSpaces(text)
		if indent < 0 {
			if col < headerIndent {
				break // no content at all: empty scalar
			}
			indent = col
			for i := 0; i < leadingBlanks; i++ {
				lines = append(lines, "")
			}
		}
		if col < indent {
			if strings.HasPrefix(strings.TrimLeft(text, " \t"), "#") {
				feed.Next() // dedented comment: tolerated, not part of the scalar
				continue
			}
			break
		}
		feed.Next()
		lines = append(lines, text[indent:])
	}

	var raw string
	if folded {
		raw = foldLines(lines)
	} else {
		raw = literalLines(lines)
	}
	return value.NewString(applyChomp(raw, chomp)), nil
}

func literalLines(lines []string) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// foldLines implements block-scalar folding (spec.md §4.E): a line break
// between two non-blank lines becomes a space, while a run of blank lines
// between content is preserved as that many literal newlines (a single
// blank line reads as one paragraph break).
func foldLines(lines []string) string {
	var sb strings.Builder
	prevBlank := true
	for _, l := range lines {
		if l == "" {
			sb.WriteByte('\n')
			prevBlank = true
			continue
		}
		if !prevBlank {
			sb.WriteByte(' ')
		}
		sb.WriteString(l)
		prevBlank = false
	}
	if len(lines) > 0 {
		sb.WriteByte('\n')
	}
	return sb.String()
}

func applyChomp(s string, mode ChompMode) string {
	switch mode {
	case ChompStrip:
		return strings.TrimRight(s, "\n")
	case ChompKeep:
		return s
	default: // ChompClip
		trimmed := strings.TrimRight(s, "\n")
		if trimmed == "" {
			return trimmed
		}
		return trimmed + "\n"
	}
}
