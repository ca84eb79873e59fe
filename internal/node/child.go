// Package node implements the Child (flow/scalar node) hierarchy of
// spec.md §3 and the Flow Sub-parser of spec.md §4.D. A Child is anything
// that can sit in a single scalar/flow "slot": it may terminate within one
// line or request further lines via Continuation.
package node

import (
	"github.com/pwall567/kjson-yaml/internal/cursor"
	"github.com/pwall567/kjson-yaml/internal/doc"
	"github.com/pwall567/kjson-yaml/internal/scalar"
	"github.com/pwall567/kjson-yaml/internal/yamlerr"
	"github.com/pwall567/kjson-yaml/value"
)

// Child is the common surface of every flow/scalar node variant (spec.md
// §3). Block-style block scalars (`|`, `>`) are block machines in their
// own right (internal/block) rather than Children, since their lifecycle
// is indentation-driven rather than single-line.
type Child interface {
	// Terminated reports whether this child's syntactic delimiter has
	// been seen (closing quote, closing flow bracket, stopping token).
	Terminated() bool
	// Complete reports whether the child may be serialized even though it
	// is not Terminated — true for plain scalars at a dedent.
	Complete() bool
	// Continuation consumes the next line of input for this child.
	Continuation(line *cursor.Line) error
	// GetValue produces the typed node once the child is done.
	GetValue(ctx *doc.Context) (*value.Value, error)
}

// PlainScalar wraps the block-context plain scalar lexer.
type PlainScalar struct{ lex *scalar.Plain }

func NewPlainScalar() *PlainScalar { return &PlainScalar{lex: scalar.NewPlain()} }

func (p *PlainScalar) Terminated() bool                          { return p.lex.Terminated() }
func (p *PlainScalar) Complete() bool                             { return true }
func (p *PlainScalar) Continuation(line *cursor.Line) error       { return p.lex.Continuation(line) }
func (p *PlainScalar) Text() string                               { return p.lex.Text() }
func (p *PlainScalar) GetValue(ctx *doc.Context) (*value.Value, error) {
	val, inferred, err := scalar.Classify(p.lex.Text(), ctx.PendingTag(), ctx.Version())
	if err != nil {
		return nil, err
	}
	if inferred != "" {
		ctx.RecordInferredTag(inferred)
	}
	return val, nil
}

// FlowNode wraps a plain scalar inside flow context.
type FlowNode struct{ lex *scalar.FlowPlain }

func NewFlowNode() *FlowNode { return &FlowNode{lex: scalar.NewFlowPlain()} }

func (f *FlowNode) Terminated() bool                    { return f.lex.Terminated() }
func (f *FlowNode) Complete() bool                       { return true }
func (f *FlowNode) Continuation(line *cursor.Line) error { return f.lex.Continuation(line) }
func (f *FlowNode) Text() string                         { return f.lex.Text() }
func (f *FlowNode) GetValue(ctx *doc.Context) (*value.Value, error) {
	val, inferred, err := scalar.Classify(f.lex.Text(), ctx.PendingTag(), ctx.Version())
	if err != nil {
		return nil, err
	}
	if inferred != "" {
		ctx.RecordInferredTag(inferred)
	}
	return val, nil
}

// SingleQuotedScalar and DoubleQuotedScalar always resolve to a string
// value regardless of tag (spec.md §4.C: the classifier applies only to
// plain scalars).

type SingleQuotedScalar struct{ lex *scalar.SingleQuoted }

func NewSingleQuotedScalar() *SingleQuotedScalar {
	return &SingleQuotedScalar{lex: scalar.NewSingleQuoted()}
}
func (s *SingleQuotedScalar) Terminated() bool                    { return s.lex.Terminated() }
func (s *SingleQuotedScalar) Complete() bool                      { return s.lex.Terminated() }
func (s *SingleQuotedScalar) Continuation(line *cursor.Line) error { return s.lex.Continuation(line) }
func (s *SingleQuotedScalar) GetValue(ctx *doc.Context) (*value.Value, error) {
	return value.NewString(s.lex.Text()), nil
}

type DoubleQuotedScalar struct{ lex *scalar.DoubleQuoted }

func NewDoubleQuotedScalar() *DoubleQuotedScalar {
	return &DoubleQuotedScalar{lex: scalar.NewDoubleQuoted()}
}
func (d *DoubleQuotedScalar) Terminated() bool                    { return d.lex.Terminated() }
func (d *DoubleQuotedScalar) Complete() bool                      { return d.lex.Terminated() }
func (d *DoubleQuotedScalar) Continuation(line *cursor.Line) error { return d.lex.Continuation(line) }
func (d *DoubleQuotedScalar) GetValue(ctx *doc.Context) (*value.Value, error) {
	return value.NewString(d.lex.Text()), nil
}

// AliasNode resolves `*name` against the document's anchor map. It is
// always complete and terminated the instant it is constructed, since an
// alias is a single token with no continuation.
type AliasNode struct {
	val *value.Value
}

// NewAliasNode resolves name immediately; spec.md §7 treats an unknown
// alias as a fatal Reference error.
func NewAliasNode(name string, ctx *doc.Context, line, col int) (*AliasNode, error) {
	val, ok := ctx.ResolveAlias(name)
	if !ok {
		return nil, yamlerr.New(yamlerr.Reference, line, col, "unknown alias %q", name)
	}
	return &AliasNode{val: val}, nil
}

func (a *AliasNode) Terminated() bool                          { return true }
func (a *AliasNode) Complete() bool                             { return true }
func (a *AliasNode) Continuation(line *cursor.Line) error       { return nil }
func (a *AliasNode) GetValue(ctx *doc.Context) (*value.Value, error) { return a.val, nil }
