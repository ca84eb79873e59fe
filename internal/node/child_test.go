package node

import (
	"testing"

	"github.com/pwall567/kjson-yaml/internal/cursor"
	"github.com/pwall567/kjson-yaml/internal/doc"
	"github.com/pwall567/kjson-yaml/value"
)

func TestPlainScalarClassification(t *testing.T) {
	ctx := doc.New()
	p := NewPlainScalar()
	line := cursor.New(1, "42")
	if err := p.Continuation(line); err != nil {
		t.Fatal(err)
	}
	v, err := p.GetValue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := v.Int64(); !ok || n != 42 {
		t.Fatalf("GetValue() = %v,%v, want 42,true", n, ok)
	}
}

func TestDoubleQuotedScalarAlwaysString(t *testing.T) {
	ctx := doc.New()
	ctx.SetPendingTag(value.TagInt)
	d := NewDoubleQuotedScalar()
	line := cursor.New(1, `42"`)
	if err := d.Continuation(line); err != nil {
		t.Fatal(err)
	}
	v, err := d.GetValue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != value.String {
		t.Fatalf("Kind() = %v, want String (quoted scalars bypass the classifier)", v.Kind())
	}
}

func TestAliasNodeResolvesAnchor(t *testing.T) {
	ctx := doc.New()
	anchored := value.NewString("shared")
	if err := ctx.SetPendingAnchor("a1", 1, 1); err != nil {
		t.Fatal(err)
	}
	ctx.SaveNodeProperties(anchored)

	alias, err := NewAliasNode("a1", ctx, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	v, err := alias.GetValue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v != anchored {
		t.Fatal("alias did not resolve to the same *value.Value as the anchor")
	}
}

func TestAliasNodeUnknownIsReferenceError(t *testing.T) {
	ctx := doc.New()
	if _, err := NewAliasNode("nope", ctx, 1, 1); err == nil {
		t.Fatal("expected a Reference error for an unknown alias")
	}
}
