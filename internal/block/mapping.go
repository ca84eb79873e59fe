package block

import (
	"github.com/pwall567/kjson-yaml/internal/cursor"
	"github.com/pwall567/kjson-yaml/internal/doc"
	"github.com/pwall567/kjson-yaml/internal/node"
	"github.com/pwall567/kjson-yaml/internal/resolve"
	"github.com/pwall567/kjson-yaml/internal/yamlerr"
	"github.com/pwall567/kjson-yaml/value"
)

// RunMapping implements the Mapping block (spec.md §4.E): indent is the
// column of the first key, firstKeyLine is positioned right after that
// key's ':' (ready to read its value), and firstKey is the already-resolved
// key string.
func RunMapping(feed *LineFeed, ctx *doc.Context, indent int, firstKeyLine *cursor.Line, firstKey string) (*value.Value, error) {
	m := value.NewMapping()
	valueIndent := indent + 1
	key := firstKey
	keyLine := firstKeyLine

	for {
		childCtx := ctx.Child(key)
		val, err := runChildValue(keyLine, feed, childCtx, valueIndent, true)
		if err != nil {
			return nil, err
		}
		if m.ContainsKey(key) {
			return nil, yamlerr.New(yamlerr.Reference, keyLine.Number, keyLine.Column(), "duplicate key %q", key)
		}
		m.Add(key, val)

		text, lineNo, ok := peekNextNonBlank(feed)
		if !ok {
			return m, nil
		}
		col := cursor.LeadingSpaces(text)
		if col < indent {
			return m, nil
		}
		if col > indent {
			return nil, yamlerr.New(yamlerr.Indentation, lineNo, col+1, "unexpected indentation in block mapping")
		}
		feed.Next()
		nl := cursor.NewAt(lineNo, text, col)
		nextKey, nextLine, err := readMappingKey(nl, feed, ctx, indent)
		if err != nil {
			return nil, err
		}
		key = nextKey
		keyLine = nextLine
	}
}

// finishExplicitKeyMapping is reached when an Initial slot's first token is
// '?': keyStr has already been resolved, and what remains is to find the
// matching ':' at the same indent and begin the Mapping block that '?'
// introduced (spec.md §4.E "? + ws explicit-key mapping").
func finishExplicitKeyMapping(feed *LineFeed, ctx *doc.Context, indent int, keyStr string) (*value.Value, error) {
	text, lineNo, ok := peekNextNonBlank(feed)
	if !ok {
		return nil, yamlerr.New(yamlerr.Indentation, 0, 0, "missing ':' for explicit mapping key")
	}
	col := cursor.LeadingSpaces(text)
	if col != indent {
		return nil, yamlerr.New(yamlerr.Indentation, lineNo, col+1, "expected ':' at mapping indent for explicit key")
	}
	feed.Next()
	colonLine := cursor.NewAt(lineNo, text, col)
	if !colonLine.ConsumeColon() {
		return nil, yamlerr.New(yamlerr.Syntax, lineNo, colonLine.Column(), "expected ':' for explicit mapping key")
	}
	return RunMapping(feed, ctx, indent, colonLine, keyStr)
}

// readMappingKey reads one key at the mapping's indent, whether a simple
// plain/quoted scalar key or a '?'-introduced explicit (possibly complex)
// key, and returns the resolved key string plus the line positioned right
// after the key's ':' (spec.md §4.E "QM_CHILD"/"COLON" states).
func readMappingKey(line *cursor.Line, feed *LineFeed, ctx *doc.Context, indent int) (string, *cursor.Line, error) {
	// A key position is a fresh node position like any other (spec.md
	// §4.F): an `&anchor`/`!tag` prefix here is read as a node property,
	// not as literal scalar text, and is recorded on this mapping's own
	// Context, the same as continueInitialLine does for the first key/value.
	if err := resolve.ParseNodeProperties(line, ctx); err != nil {
		return "", nil, err
	}
	if b, ok := line.Peek(); ok && b == '?' {
		line.Advance()
		keyCtx := ctx.Child(scratchKeyName(indent))
		keyVal, err := runChildValue(line, feed, keyCtx, indent+2, false)
		if err != nil {
			return "", nil, err
		}
		keyStr := stringifyComplexKey(keyVal)
		text, lineNo, ok := peekNextNonBlank(feed)
		if !ok {
			return "", nil, yamlerr.New(yamlerr.Indentation, line.Number, line.Column(), "missing ':' for explicit mapping key")
		}
		col := cursor.LeadingSpaces(text)
		if col != indent {
			return "", nil, yamlerr.New(yamlerr.Indentation, lineNo, col+1, "expected ':' at mapping indent for explicit key")
		}
		feed.Next()
		colonLine := cursor.NewAt(lineNo, text, col)
		if !colonLine.ConsumeColon() {
			return "", nil, yamlerr.New(yamlerr.Syntax, lineNo, colonLine.Column(), "expected ':' for explicit mapping key")
		}
		return keyStr, colonLine, nil
	}

	var keyVal *value.Value
	var cur *cursor.Line
	var err error
	switch b, _ := line.Peek(); b {
	case '"':
		line.Advance()
		keyVal, cur, err = readQuotedAcrossLines(node.NewDoubleQuotedScalar(), line, feed)
	case '\'':
		line.Advance()
		keyVal, cur, err = readQuotedAcrossLines(node.NewSingleQuotedScalar(), line, feed)
	default:
		keyVal, cur, err = readPlainKey(line, feed, ctx.Child(scratchKeyName(indent+1)), indent)
	}
	if err != nil {
		return "", nil, err
	}
	cur.SkipSpaces()
	if !cur.ConsumeColon() {
		return "", nil, yamlerr.New(yamlerr.Indentation, cur.Number, cur.Column(), "block mapping value missing")
	}
	return stringifyComplexKey(keyVal), cur, nil
}

func readPlainKey(line *cursor.Line, feed *LineFeed, ctx *doc.Context, indent int) (*value.Value, *cursor.Line, error) {
	sc := node.NewPlainScalar()
	if err := sc.Continuation(line); err != nil {
		return nil, nil, err
	}
	cur := line
	for !sc.Terminated() {
		text, lineNo, ok := peekNextNonBlank(feed)
		if !ok {
			break
		}
		col := cursor.LeadingSpaces(text)
		if col < indent {
			break
		}
		feed.Next()
		nl := cursor.NewAt(lineNo, text, col)
		if err := sc.Continuation(nl); err != nil {
			return nil, nil, err
		}
		cur = nl
	}
	val, err := sc.GetValue(ctx)
	if err != nil {
		return nil, nil, err
	}
	return val, cur, nil
}
