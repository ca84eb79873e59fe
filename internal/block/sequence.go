package block

import (
	"github.com/pwall567/kjson-yaml/internal/cursor"
	"github.com/pwall567/kjson-yaml/internal/doc"
	"github.com/pwall567/kjson-yaml/internal/yamlerr"
	"github.com/pwall567/kjson-yaml/value"
)

// RunSequence implements the Sequence block (spec.md §4.E): indent is the
// column of the leading '-' that identified this slot as a sequence, and
// firstLine is that same line with the '-'+ws already consumed, positioned
// at the first item's content (or end of line).
func RunSequence(feed *LineFeed, ctx *doc.Context, indent int, firstLine *cursor.Line) (*value.Value, error) {
	seq := value.NewSequence()
	itemIndent := indent + 2
	idx := 0
	cur := firstLine

	for {
		childCtx := ctx.ChildIndex(idx)
		val, err := runChildValue(cur, feed, childCtx, itemIndent, false)
		if err != nil {
			return nil, err
		}
		seq.Append(val)
		idx++

		text, lineNo, ok := peekNextNonBlank(feed)
		if !ok {
			return seq, nil
		}
		col := cursor.LeadingSpaces(text)
		if col < indent {
			return seq, nil
		}
		if col > indent {
			return nil, yamlerr.New(yamlerr.Indentation, lineNo, col+1, "unexpected indentation in block sequence")
		}
		feed.Next()
		nl := cursor.NewAt(lineNo, text, col)
		if !nl.ConsumeDash() {
			return nil, yamlerr.New(yamlerr.Syntax, lineNo, nl.Column(), "expected '-' at sequence indent")
		}
		cur = nl
	}
}

// runChildValue resolves the value occupying a key's or sequence item's
// slot: either inline content remaining on the current line, or content
// introduced on a subsequent line at childIndent. dashAccommodation enables
// the mapping-block special case (spec.md §4.E) where a '-' at one column
// less than the nominal child indent is still accepted as that child's
// value, since a sequence value is conventionally written at the same
// indent as its owning key.
func runChildValue(line *cursor.Line, feed *LineFeed, ctx *doc.Context, childIndent int, dashAccommodation bool) (*value.Value, error) {
	line.SkipSpaces()
	if !line.AtLogicalEnd() {
		// Use the slot's own structural indent as the floor for whatever
		// continuation lines may follow, not the column where this inline
		// content happens to start — a long key name or "- " prefix must
		// not force deeper-than-conventional indentation on a block scalar
		// or multi-line plain scalar that follows it (spec.md §4.E).
		val, err := continueInitialLine(line, feed, ctx, childIndent)
		if err != nil {
			return nil, err
		}
		return finish(ctx, val)
	}

	text, lineNo, ok := peekNextNonBlank(feed)
	if !ok {
		return finish(ctx, value.NewNull())
	}
	col := cursor.LeadingSpaces(text)
	eff := childIndent
	if dashAccommodation && col == childIndent-1 {
		rest := text[col:]
		if len(rest) > 0 && rest[0] == '-' && (len(rest) == 1 || rest[1] == ' ' || rest[1] == '\t') {
			eff = col
		}
	}
	if col < eff {
		return finish(ctx, value.NewNull())
	}
	feed.Next()
	nl := cursor.NewAt(lineNo, text, col)
	val, err := continueInitialLine(nl, feed, ctx, eff)
	if err != nil {
		return nil, err
	}
	return finish(ctx, val)
}
