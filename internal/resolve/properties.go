// Package resolve implements the Node-Property Resolver (spec.md §4.F):
// parsing and applying `&anchor`, `*alias`, and `!tag` prefixes, and
// resolving tag handles declared by %TAG directives or the two built-in
// defaults. Grounded on the tag-constant table style of the
// gopkg.in/yaml.v3-derived resolve package (WillAbides-yaml
// internal/resolve), generalized from a fixed resolution table to the
// handle-lookup scheme spec.md describes.
package resolve

import (
	"strconv"
	"strings"

	"github.com/pwall567/kjson-yaml/internal/cursor"
	"github.com/pwall567/kjson-yaml/internal/doc"
	"github.com/pwall567/kjson-yaml/internal/yamlerr"
)

// ParseNodeProperties consumes, in any order and repeatedly, anchor and tag
// tokens separated by spaces at the current cursor position, recording
// them as pending on ctx. It stops (without error) at the first character
// that starts neither an anchor nor a tag.
func ParseNodeProperties(line *cursor.Line, ctx *doc.Context) error {
	for {
		line.SkipSpaces()
		b, ok := line.Peek()
		if !ok {
			return nil
		}
		switch b {
		case '&':
			line.Advance() // consume '&'
			name := parseName(line)
			if name == "" {
				return yamlerr.New(yamlerr.Syntax, line.Number, line.Column(), "empty anchor name")
			}
			if err := ctx.SetPendingAnchor(name, line.Number, line.Column()); err != nil {
				return err
			}
		case '!':
			raw := parseTagToken(line)
			tag, err := ResolveTag(raw, ctx, line.Number, line.Column())
			if err != nil {
				return err
			}
			ctx.SetPendingTag(tag)
		default:
			return nil
		}
	}
}

// ParseAliasName parses the name of a `*alias` reference at the cursor,
// which must be positioned at the '*'.
func ParseAliasName(line *cursor.Line) string {
	line.Advance() // consume '*'
	return parseName(line)
}

// parseName captures a name run starting at the cursor, which must already
// be positioned just past the '&' or '*' sigil.
func parseName(line *cursor.Line) string {
	line.Mark()
	line.ConsumeWhile(isNameChar)
	return line.Captured()
}

func isNameChar(b byte) bool {
	return b != ' ' && b != '\t' && !cursor.IsFlowIndicator(b) && b != ':'
}

// parseTagToken captures the raw text of one tag token, starting at '!'
// through to the next whitespace or flow-indicator character, or through a
// balanced `!<...>` verbatim form.
func parseTagToken(line *cursor.Line) string {
	line.Mark()
	line.Advance() // consume leading '!'
	if b, ok := line.Peek(); ok && b == '<' {
		line.Advance()
		for {
			b, ok := line.Peek()
			if !ok {
				break
			}
			line.Advance()
			if b == '>' {
				break
			}
		}
		return line.Captured()
	}
	line.ConsumeWhile(func(b byte) bool {
		return b != ' ' && b != '\t' && !cursor.IsFlowIndicator(b)
	})
	return line.Captured()
}

// ResolveTag resolves a raw tag token (as captured by parseTagToken, always
// starting with '!') into a full tag URI, per spec.md §4.F.
func ResolveTag(raw string, ctx *doc.Context, line, col int) (string, error) {
	switch {
	case strings.HasPrefix(raw, "!<"):
		if !strings.HasSuffix(raw, ">") {
			return "", yamlerr.New(yamlerr.Syntax, line, col, "unterminated verbatim tag %q", raw)
		}
		return raw[2 : len(raw)-1], nil

	case strings.HasPrefix(raw, "!!"):
		suffix, err := percentDecode(raw[2:])
		if err != nil {
			return "", yamlerr.Wrap(yamlerr.Encoding, line, col, err)
		}
		prefix, _ := ctx.TagHandle("!!")
		return prefix + suffix, nil

	default:
		rest := raw[1:]
		if idx := strings.IndexByte(rest, '!'); idx >= 0 {
			handle := "!" + rest[:idx+1]
			prefix, ok := ctx.TagHandle(handle)
			if !ok {
				return "", yamlerr.New(yamlerr.Reference, line, col, "undeclared tag handle %q", handle)
			}
			suffix, err := percentDecode(rest[idx+1:])
			if err != nil {
				return "", yamlerr.Wrap(yamlerr.Encoding, line, col, err)
			}
			return prefix + suffix, nil
		}
		prefix, ok := ctx.TagHandle("!")
		if !ok {
			return "", yamlerr.New(yamlerr.Reference, line, col, "undeclared tag handle \"!\"")
		}
		suffix, err := percentDecode(rest)
		if err != nil {
			return "", yamlerr.Wrap(yamlerr.Encoding, line, col, err)
		}
		return prefix + suffix, nil
	}
}

// percentDecode applies RFC 3986 %HH decoding to a tag suffix, leaving
// every other URI character (including the extended tag-suffix set
// `#;/?:@&=+$,_.~*'()[]` and tag-handle characters) untouched.
func percentDecode(s string) (string, error) {
	if !strings.ContainsRune(s, '%') {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			sb.WriteByte(s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", yamlerr.New(yamlerr.Encoding, 0, 0, "illegal percent-encoding in tag suffix %q", s)
		}
		v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
		if err != nil {
			return "", yamlerr.New(yamlerr.Encoding, 0, 0, "illegal percent-encoding in tag suffix %q", s)
		}
		sb.WriteByte(byte(v))
		i += 2
	}
	return sb.String(), nil
}
