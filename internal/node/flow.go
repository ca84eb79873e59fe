package node

import (
	"github.com/pwall567/kjson-yaml/internal/cursor"
	"github.com/pwall567/kjson-yaml/internal/doc"
	"github.com/pwall567/kjson-yaml/internal/resolve"
	"github.com/pwall567/kjson-yaml/internal/yamlerr"
	"github.com/pwall567/kjson-yaml/value"
)

// dispatchChild chooses and constructs the Child for a flow item/value
// position, after node properties (if any) have already been consumed from
// line. line must be positioned at the first content character.
func dispatchChild(line *cursor.Line, itemCtx *doc.Context) (Child, error) {
	b, ok := line.Peek()
	if !ok {
		return nil, yamlerr.New(yamlerr.Syntax, line.Number, line.Column(), "expected a value, found end of line")
	}
	switch b {
	case '"':
		line.Advance()
		return NewDoubleQuotedScalar(), nil
	case '\'':
		line.Advance()
		return NewSingleQuotedScalar(), nil
	case '[':
		line.Advance()
		return NewFlowSequence(itemCtx), nil
	case '{':
		line.Advance()
		return NewFlowMapping(itemCtx), nil
	case '*':
		name := resolve.ParseAliasName(line)
		return NewAliasNode(name, itemCtx, line.Number, line.Column())
	default:
		return NewFlowNode(), nil
	}
}

type flowState int

const (
	flowItem flowState = iota
	flowContinuation
	flowComma
	flowClosed
)

// FlowSequence implements the flow sequence half of the Flow Sub-parser
// (spec.md §4.D).
type FlowSequence struct {
	parent  *doc.Context
	seq     *value.Value
	state   flowState
	index   int
	current Child
	curCtx  *doc.Context

	havePendingKey bool
	pendingKey     *value.Value
}

func NewFlowSequence(parent *doc.Context) *FlowSequence {
	return &FlowSequence{parent: parent, seq: value.NewSequence(), state: flowItem}
}

func (f *FlowSequence) Terminated() bool { return f.state == flowClosed }
func (f *FlowSequence) Complete() bool   { return f.state == flowClosed }

func (f *FlowSequence) GetValue(ctx *doc.Context) (*value.Value, error) { return f.seq, nil }

func (f *FlowSequence) Continuation(line *cursor.Line) error {
	for {
		switch f.state {
		case flowContinuation:
			if err := f.current.Continuation(line); err != nil {
				return err
			}
			if !f.current.Terminated() {
				return nil
			}
			val, err := f.current.GetValue(f.curCtx)
			if err != nil {
				return err
			}
			f.curCtx.SaveNodeProperties(val)
			if b, ok := line.Peek(); ok && b == ':' {
				line.Advance()
				f.havePendingKey = true
				f.pendingKey = val
				f.state = flowItem
				continue
			}
			if f.havePendingKey {
				entry := value.NewMapping()
				kstr := stringifyKey(f.pendingKey)
				entry.Add(kstr, val)
				f.seq.Append(entry)
				f.havePendingKey = false
				f.pendingKey = nil
			} else {
				f.seq.Append(val)
			}
			f.index++
			f.state = flowComma

		case flowComma:
			line.SkipSpaces()
			if line.AtLogicalEnd() {
				return nil
			}
			b, _ := line.Peek()
			switch b {
			case ',':
				line.Advance()
				f.state = flowItem
			case ']':
				line.Advance()
				f.state = flowClosed
				return nil
			default:
				return yamlerr.New(yamlerr.Syntax, line.Number, line.Column(), "expected ',' or ']' in flow sequence")
			}

		case flowItem:
			line.SkipSpaces()
			if line.AtLogicalEnd() {
				return nil
			}
			b, _ := line.Peek()
			if b == ']' {
				line.Advance()
				f.state = flowClosed
				return nil
			}
			if b == ',' {
				// Empty entry: dropped (spec.md §4.D "Null entries").
				line.Advance()
				f.index++
				continue
			}
			itemCtx := f.parent.ChildIndex(f.index)
			if err := resolve.ParseNodeProperties(line, itemCtx); err != nil {
				return err
			}
			child, err := dispatchChild(line, itemCtx)
			if err != nil {
				return err
			}
			f.current = child
			f.curCtx = itemCtx
			f.state = flowContinuation

		case flowClosed:
			return nil
		}
	}
}

type mapState int

const (
	mapKey mapState = iota
	mapReadingKey
	mapReadingValue
	mapComma
	mapClosed
)

// FlowMapping implements the flow mapping half of the Flow Sub-parser
// (spec.md §4.D).
type FlowMapping struct {
	parent  *doc.Context
	mapVal  *value.Value
	state   mapState
	current Child
	curCtx  *doc.Context
	keyCtx  *doc.Context
	keySeq  int

	key string
}

func NewFlowMapping(parent *doc.Context) *FlowMapping {
	return &FlowMapping{parent: parent, mapVal: value.NewMapping(), state: mapKey}
}

func (f *FlowMapping) Terminated() bool { return f.state == mapClosed }
func (f *FlowMapping) Complete() bool   { return f.state == mapClosed }

func (f *FlowMapping) GetValue(ctx *doc.Context) (*value.Value, error) { return f.mapVal, nil }

func (f *FlowMapping) Continuation(line *cursor.Line) error {
	for {
		switch f.state {
		case mapReadingKey:
			if err := f.current.Continuation(line); err != nil {
				return err
			}
			// Double-quoted keys accept a bare ':' with no following
			// whitespace (spec.md §4.D concession); quoted scalars report
			// Terminated() on the closing quote already, so that is
			// naturally satisfied here without special-casing.
			if !f.current.Terminated() {
				return nil
			}
			keyVal, err := f.current.GetValue(f.keyCtx)
			if err != nil {
				return err
			}
			f.keyCtx.SaveNodeProperties(keyVal)
			f.key = stringifyKey(keyVal)
			line.SkipSpaces()
			if !line.ConsumeChar(':') {
				return yamlerr.New(yamlerr.Syntax, line.Number, line.Column(), "expected ':' after flow mapping key")
			}
			line.SkipSpaces()
			f.curCtx = f.parent.Child(f.key)
			if err := resolve.ParseNodeProperties(line, f.curCtx); err != nil {
				return err
			}
			child, err := dispatchChild(line, f.curCtx)
			if err != nil {
				return err
			}
			f.current = child
			f.state = mapReadingValue
			continue

		case mapReadingValue:
			if err := f.current.Continuation(line); err != nil {
				return err
			}
			if !f.current.Terminated() {
				return nil
			}
			val, err := f.current.GetValue(f.curCtx)
			if err != nil {
				return err
			}
			f.curCtx.SaveNodeProperties(val)
			if f.mapVal.ContainsKey(f.key) {
				return yamlerr.New(yamlerr.Reference, line.Number, line.Column(), "duplicate key %q", f.key)
			}
			f.mapVal.Add(f.key, val)
			f.state = mapComma

		case mapComma:
			line.SkipSpaces()
			if line.AtLogicalEnd() {
				return nil
			}
			b, _ := line.Peek()
			switch b {
			case ',':
				line.Advance()
				f.state = mapKey
			case '}':
				line.Advance()
				f.state = mapClosed
				return nil
			default:
				return yamlerr.New(yamlerr.Syntax, line.Number, line.Column(), "expected ',' or '}' in flow mapping")
			}

		case mapKey:
			line.SkipSpaces()
			if line.AtLogicalEnd() {
				return nil
			}
			b, _ := line.Peek()
			if b == '}' {
				line.Advance()
				f.state = mapClosed
				return nil
			}
			if b == ',' {
				return yamlerr.New(yamlerr.Reference, line.Number, line.Column(), "missing key before ',' in flow mapping")
			}
			f.keySeq++
			f.keyCtx = f.parent.Child(scratchKeyName(f.keySeq))
			if err := resolve.ParseNodeProperties(line, f.keyCtx); err != nil {
				return err
			}
			child, err := dispatchChild(line, f.keyCtx)
			if err != nil {
				return err
			}
			f.current = child
			f.state = mapReadingKey

		case mapClosed:
			return nil
		}
	}
}

// stringifyKey coerces a resolved flow-mapping key node into the string
// used to address it, shared with the block-mapping path (spec.md §9
// "obscure corner": non-string mapping keys, including complex
// sequence/mapping keys such as `{[1,2]: a, [3,4]: b}`).
func stringifyKey(v *value.Value) string {
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

func scratchKeyName(n int) string {
	return "\x00key" + itoaKey(int64(n))
}
