package block

import (
	"github.com/pwall567/kjson-yaml/internal/cursor"
	"github.com/pwall567/kjson-yaml/internal/doc"
	"github.com/pwall567/kjson-yaml/internal/node"
	"github.com/pwall567/kjson-yaml/internal/resolve"
	"github.com/pwall567/kjson-yaml/internal/yamlerr"
	"github.com/pwall567/kjson-yaml/value"
)

// ParseDocument drives the Initial block machine over feed for one
// document's worth of content lines, starting at the root indent (spec.md
// §4.E "Initial"). ctx must be a fresh *doc.Context for this document.
func ParseDocument(feed *LineFeed, ctx *doc.Context) (*value.Value, error) {
	return RunInitial(feed, ctx, 0)
}

// RunInitial implements the Initial block: it awaits the first content line
// at or past requiredIndent, consumes any leading node properties, and
// dispatches on the first remaining token to decide what kind of node this
// slot holds (spec.md §4.E). It returns Null, with no error, if the
// position is empty (immediate dedent or end of input).
func RunInitial(feed *LineFeed, ctx *doc.Context, requiredIndent int) (*value.Value, error) {
	text, lineNo, ok := peekNextNonBlank(feed)
	if !ok {
		return finish(ctx, value.NewNull())
	}
	col := cursor.LeadingSpaces(text)
	if col < requiredIndent {
		return finish(ctx, value.NewNull())
	}
	feed.Next()
	line := cursor.NewAt(lineNo, text, col)
	val, err := continueInitialLine(line, feed, ctx, col)
	if err != nil {
		return nil, err
	}
	return finish(ctx, val)
}

func finish(ctx *doc.Context, val *value.Value) (*value.Value, error) {
	ctx.SaveNodeProperties(val)
	return val, nil
}

// continueInitialLine handles one already-consumed content line sitting at
// an Initial position. It loops internally over "nothing but properties on
// this line" (an anchor/tag on its own line ahead of the actual node), then
// dispatches once real content is found. effIndent is the required column
// for any further awaited lines.
func continueInitialLine(line *cursor.Line, feed *LineFeed, ctx *doc.Context, effIndent int) (*value.Value, error) {
	for {
		if err := resolve.ParseNodeProperties(line, ctx); err != nil {
			return nil, err
		}
		if !line.AtLogicalEnd() {
			return dispatchContent(line, feed, ctx, effIndent)
		}
		text, lineNo, ok := peekNextNonBlank(feed)
		if !ok {
			return value.NewNull(), nil
		}
		col := cursor.LeadingSpaces(text)
		if col < effIndent {
			return value.NewNull(), nil
		}
		feed.Next()
		line = cursor.NewAt(lineNo, text, col)
	}
}

// dispatchContent implements spec.md §4.E's Initial dispatch table: line is
// positioned at the first non-property content character of a line already
// known to belong to this slot.
func dispatchContent(line *cursor.Line, feed *LineFeed, ctx *doc.Context, indent int) (*value.Value, error) {
	b, ok := line.Peek()
	if !ok {
		return value.NewNull(), nil
	}
	col := line.Pos()
	switch {
	case b == '*':
		name := resolve.ParseAliasName(line)
		alias, err := node.NewAliasNode(name, ctx, line.Number, line.Column())
		if err != nil {
			return nil, err
		}
		return alias.GetValue(ctx)

	case line.ConsumeDash():
		// The sequence's own indent is the column the dash actually sits
		// at, not the caller's minimum-continuation floor: siblings must
		// align to wherever the user chose to indent, which is commonly
		// deeper than that floor (spec.md §4.E).
		return RunSequence(feed, ctx, col, line)

	case b == '"':
		line.Advance()
		return runQuotedOrMapping(node.NewDoubleQuotedScalar(), line, feed, ctx, indent)

	case b == '\'':
		line.Advance()
		return runQuotedOrMapping(node.NewSingleQuotedScalar(), line, feed, ctx, indent)

	case b == '[':
		line.Advance()
		return runFlow(node.NewFlowSequence(ctx), line, feed)

	case b == '{':
		line.Advance()
		return runFlow(node.NewFlowMapping(ctx), line, feed)

	case b == '?' && questionFollowedByWS(line):
		line.Advance()
		keyCtx := ctx.Child(scratchKeyName(0))
		keyVal, err := runChildValue(line, feed, keyCtx, indent+2, false)
		if err != nil {
			return nil, err
		}
		keyStr := stringifyComplexKey(keyVal)
		// As with plain/quoted keys, the new mapping aligns to the '?'
		// column itself, not the caller's continuation floor.
		return finishExplicitKeyMapping(feed, ctx, col, keyStr)

	case line.ConsumeColon():
		return nil, yamlerr.New(yamlerr.Syntax, line.Number, line.Column(), "mapping value indicator with no key")

	case b == '|' || b == '>':
		folded := b == '>'
		line.Advance()
		chomp, err := parseChomping(line)
		if err != nil {
			return nil, err
		}
		return RunBlockScalar(feed, folded, chomp, indent)

	default:
		return runPlainOrMapping(line, feed, ctx, indent)
	}
}

// runQuotedOrMapping reads a quoted scalar; if a ':'+ws immediately follows
// it on the same logical line, the scalar was actually a mapping key and
// this slot becomes a Mapping (spec.md §4.E "quoted-scalar same-line
// mapping upgrade").
func runQuotedOrMapping(scalar node.Child, line *cursor.Line, feed *LineFeed, ctx *doc.Context, indent int) (*value.Value, error) {
	keyCol := line.Pos() - 1 // back up over the opening quote already consumed by the caller
	val, endLine, err := readQuotedAcrossLines(scalar, line, feed)
	if err != nil {
		return nil, err
	}
	endLine.SkipSpaces()
	if endLine.ConsumeColon() {
		keyStr := stringifyComplexKey(val)
		// As in runPlainOrMapping: align to the key's actual column.
		return RunMapping(feed, ctx, keyCol, endLine, keyStr)
	}
	return val, nil
}

func readQuotedAcrossLines(scalar node.Child, line *cursor.Line, feed *LineFeed) (*value.Value, *cursor.Line, error) {
	if err := scalar.Continuation(line); err != nil {
		return nil, nil, err
	}
	cur := line
	for !scalar.Terminated() {
		text, lineNo, ok := feed.Next()
		if !ok {
			break
		}
		nl := cursor.New(lineNo, text)
		if err := scalar.Continuation(nl); err != nil {
			return nil, nil, err
		}
		cur = nl
	}
	val, err := scalar.GetValue(nil)
	if err != nil {
		return nil, nil, err
	}
	return val, cur, nil
}

func runFlow(f node.Child, line *cursor.Line, feed *LineFeed) (*value.Value, error) {
	if err := f.Continuation(line); err != nil {
		return nil, err
	}
	for !f.Terminated() {
		text, lineNo, ok := feed.Next()
		if !ok {
			return nil, yamlerr.New(yamlerr.Syntax, line.Number, line.Column(), "unexpected end of input inside flow collection")
		}
		nl := cursor.NewAt(lineNo, text, cursor.LeadingSpaces(text))
		if err := f.Continuation(nl); err != nil {
			return nil, err
		}
	}
	return f.GetValue(nil)
}

// runPlainOrMapping reads a plain scalar starting at line; if it terminates
// on a ':'+ws, this slot becomes a Mapping with that scalar as its first key
// (spec.md §4.E "plain-scalar-with-colon mapping upgrade").
func runPlainOrMapping(line *cursor.Line, feed *LineFeed, ctx *doc.Context, indent int) (*value.Value, error) {
	keyCol := line.Pos()
	sc := node.NewPlainScalar()
	if err := sc.Continuation(line); err != nil {
		return nil, err
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
			return nil, err
		}
		cur = nl
	}
	val, err := sc.GetValue(ctx)
	if err != nil {
		return nil, err
	}
	if !sc.Terminated() {
		return val, nil
	}
	keyStr := stringifyComplexKey(val)
	cur.ConsumeColon() // the plain lexer stops with the cursor on the ':'
	// The mapping's own indent is this key's actual column, not the
	// caller's minimum-continuation floor — sibling keys must align to
	// wherever the user indented this one (spec.md §4.E).
	return RunMapping(feed, ctx, keyCol, cur, keyStr)
}

// stringifyComplexKey coerces a resolved key node into the string used to
// address it in the mapping, shared with the flow-mapping path in
// internal/node (spec.md §9 "obscure corner": non-string mapping keys).
func stringifyComplexKey(v *value.Value) string {
	return value.StringifyKey(v)
}

func itoaKey(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func scratchKeyName(n int) string { return "\x00qmkey" + itoaKey(int64(n)) }

func questionFollowedByWS(line *cursor.Line) bool {
	nb, ok := line.PeekAt(1)
	return !ok || nb == ' ' || nb == '\t'
}
