package node

import (
	"testing"

	"github.com/pwall567/kjson-yaml/internal/cursor"
	"github.com/pwall567/kjson-yaml/internal/doc"
	"github.com/pwall567/kjson-yaml/value"
)

func runFlow(t *testing.T, ctx *doc.Context, f interface {
	Continuation(*cursor.Line) error
	Terminated() bool
	GetValue(*doc.Context) (*value.Value, error)
}, text string) *value.Value {
	t.Helper()
	line := cursor.New(1, text)
	if err := f.Continuation(line); err != nil {
		t.Fatalf("Continuation(%q): %v", text, err)
	}
	if !f.Terminated() {
		t.Fatalf("not Terminated() after a single complete line %q", text)
	}
	v, err := f.GetValue(ctx)
	if err != nil {
		t.Fatalf("GetValue: %v", err)
	}
	return v
}

func TestFlowSequenceScalars(t *testing.T) {
	ctx := doc.New()
	f := NewFlowSequence(ctx)
	v := runFlow(t, ctx, f, "1, two, 3.5]")
	if v.Kind() != value.Sequence || v.Len() != 3 {
		t.Fatalf("got kind=%v len=%d, want Sequence len 3", v.Kind(), v.Len())
	}
	e0, _ := v.At(0)
	if n, _ := e0.Int64(); n != 1 {
		t.Fatalf("element 0 = %v, want 1", n)
	}
	e1, _ := v.At(1)
	if s, _ := e1.String(); s != "two" {
		t.Fatalf("element 1 = %q, want two", s)
	}
}

func TestFlowSequenceEmptyEntryDropped(t *testing.T) {
	ctx := doc.New()
	f := NewFlowSequence(ctx)
	v := runFlow(t, ctx, f, "1,,3]")
	if v.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (empty entry dropped)", v.Len())
	}
}

func TestFlowMappingBasic(t *testing.T) {
	ctx := doc.New()
	f := NewFlowMapping(ctx)
	v := runFlow(t, ctx, f, "a: 1, b: two}")
	if v.Kind() != value.Mapping {
		t.Fatalf("Kind() = %v, want Mapping", v.Kind())
	}
	a, ok := v.Get("a")
	if !ok {
		t.Fatal("missing key a")
	}
	if n, _ := a.Int64(); n != 1 {
		t.Fatalf("a = %v, want 1", n)
	}
	b, ok := v.Get("b")
	if !ok {
		t.Fatal("missing key b")
	}
	if s, _ := b.String(); s != "two" {
		t.Fatalf("b = %q, want two", s)
	}
}

func TestFlowMappingDuplicateKeyIsError(t *testing.T) {
	ctx := doc.New()
	f := NewFlowMapping(ctx)
	line := cursor.New(1, "a: 1, a: 2}")
	err := f.Continuation(line)
	if err == nil {
		t.Fatal("expected an error for a duplicate flow-mapping key")
	}
}

func TestFlowMappingComplexKeysDoNotCollide(t *testing.T) {
	ctx := doc.New()
	f := NewFlowMapping(ctx)
	v := runFlow(t, ctx, f, "[1,2]: a, [3,4]: b}")
	if v.Kind() != value.Mapping {
		t.Fatalf("Kind() = %v, want Mapping", v.Kind())
	}
	if got := v.Keys(); len(got) != 2 {
		t.Fatalf("Keys() = %v, want 2 distinct complex keys", got)
	}
	k0, ok := v.Get("[1,2]")
	if !ok {
		t.Fatal(`missing key "[1,2]"`)
	}
	if s, _ := k0.String(); s != "a" {
		t.Fatalf(`v["[1,2]"] = %q, want "a"`, s)
	}
	k1, ok := v.Get("[3,4]")
	if !ok {
		t.Fatal(`missing key "[3,4]"`)
	}
	if s, _ := k1.String(); s != "b" {
		t.Fatalf(`v["[3,4]"] = %q, want "b"`, s)
	}
}

func TestFlowSequenceOfMappings(t *testing.T) {
	ctx := doc.New()
	f := NewFlowSequence(ctx)
	v := runFlow(t, ctx, f, "{a: 1}, {b: 2}]")
	if v.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", v.Len())
	}
	e0, _ := v.At(0)
	if e0.Kind() != value.Mapping {
		t.Fatalf("element 0 kind = %v, want Mapping", e0.Kind())
	}
}
