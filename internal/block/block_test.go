package block

import (
	"testing"

	"github.com/pwall567/kjson-yaml/internal/doc"
	"github.com/pwall567/kjson-yaml/value"
)

func feedOf(lines ...string) *LineFeed {
	i := 0
	return NewLineFeed(func() (string, int, bool) {
		if i >= len(lines) {
			return "", 0, false
		}
		i++
		return lines[i-1], i, true
	})
}

func parse(t *testing.T, lines ...string) *value.Value {
	t.Helper()
	ctx := doc.New()
	v, err := ParseDocument(feedOf(lines...), ctx)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	return v
}

func TestSimpleMapping(t *testing.T) {
	v := parse(t, "a: 1", "b: two")
	if v.Kind() != value.Mapping {
		t.Fatalf("Kind() = %v, want Mapping", v.Kind())
	}
	a, _ := v.Get("a")
	if n, _ := a.Int64(); n != 1 {
		t.Fatalf("a = %v, want 1", n)
	}
	b, _ := v.Get("b")
	if s, _ := b.String(); s != "two" {
		t.Fatalf("b = %q, want two", s)
	}
}

func TestNestedMapping(t *testing.T) {
	v := parse(t,
		"outer:",
		"  inner: 42",
		"  other: x",
	)
	outer, ok := v.Get("outer")
	if !ok || outer.Kind() != value.Mapping {
		t.Fatalf("outer = %v,%v, want a Mapping", outer, ok)
	}
	inner, _ := outer.Get("inner")
	if n, _ := inner.Int64(); n != 42 {
		t.Fatalf("inner = %v, want 42", n)
	}
}

func TestBlockSequence(t *testing.T) {
	v := parse(t, "- one", "- two", "- three")
	if v.Kind() != value.Sequence || v.Len() != 3 {
		t.Fatalf("Kind()/Len() = %v/%d, want Sequence/3", v.Kind(), v.Len())
	}
	e1, _ := v.At(1)
	if s, _ := e1.String(); s != "two" {
		t.Fatalf("At(1) = %q, want two", s)
	}
}

func TestSequenceOfMappings(t *testing.T) {
	v := parse(t,
		"- name: alice",
		"  age: 30",
		"- name: bob",
		"  age: 25",
	)
	if v.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", v.Len())
	}
	e0, _ := v.At(0)
	name, _ := e0.Get("name")
	if s, _ := name.String(); s != "alice" {
		t.Fatalf("element 0 name = %q, want alice", s)
	}
}

func TestMappingValueDashAccommodation(t *testing.T) {
	v := parse(t,
		"items:",
		"- one",
		"- two",
	)
	items, ok := v.Get("items")
	if !ok {
		t.Fatal("missing key items")
	}
	if items.Kind() != value.Sequence || items.Len() != 2 {
		t.Fatalf("items = kind %v len %d, want Sequence len 2", items.Kind(), items.Len())
	}
}

func TestFlowSequenceValue(t *testing.T) {
	v := parse(t, "nums: [1, 2, 3]")
	nums, _ := v.Get("nums")
	if nums.Kind() != value.Sequence || nums.Len() != 3 {
		t.Fatalf("nums = kind %v len %d, want Sequence len 3", nums.Kind(), nums.Len())
	}
}

func TestQuotedKeyMappingUpgrade(t *testing.T) {
	v := parse(t, `"a key": value`)
	got, ok := v.Get("a key")
	if !ok {
		t.Fatal("missing quoted key \"a key\"")
	}
	if s, _ := got.String(); s != "value" {
		t.Fatalf("value = %q, want value", s)
	}
}

func TestExplicitKeyMapping(t *testing.T) {
	v := parse(t, "? complex", ": value")
	got, ok := v.Get("complex")
	if !ok {
		t.Fatal("missing explicit key \"complex\"")
	}
	if s, _ := got.String(); s != "value" {
		t.Fatalf("value = %q, want value", s)
	}
}

func TestBlockLiteralScalar(t *testing.T) {
	v := parse(t,
		"text: |",
		"  line one",
		"  line two",
	)
	text, _ := v.Get("text")
	if s, _ := text.String(); s != "line one\nline two\n" {
		t.Fatalf("text = %q, want %q", s, "line one\nline two\n")
	}
}

func TestBlockFoldedScalarWithStrip(t *testing.T) {
	v := parse(t,
		"text: >-",
		"  line one",
		"  line two",
		"",
	)
	text, _ := v.Get("text")
	if s, _ := text.String(); s != "line one line two" {
		t.Fatalf("text = %q, want %q", s, "line one line two")
	}
}

func TestAnchorAndAlias(t *testing.T) {
	v := parse(t,
		"base: &b hello",
		"derived: *b",
	)
	base, _ := v.Get("base")
	derived, _ := v.Get("derived")
	if base != derived {
		t.Fatal("derived did not alias the same *value.Value as base")
	}
}

func TestAnchorOnSequenceItem(t *testing.T) {
	v := parse(t,
		"- &first one",
		"- *first",
	)
	e0, _ := v.At(0)
	e1, _ := v.At(1)
	if e0 != e1 {
		t.Fatal("second item did not alias the first via *first")
	}
}

func TestAnchorBeforeSubsequentKeyDoesNotCorruptKey(t *testing.T) {
	v := parse(t, "a: 1", "&x b: 2")
	got, ok := v.Get("b")
	if !ok {
		t.Fatal(`missing key "b" — the "&x" prefix was not recognized as a node property`)
	}
	if n, _ := got.Int64(); n != 2 {
		t.Fatalf("b = %v, want 2", n)
	}
}

func TestDuplicateKeyIsError(t *testing.T) {
	_, err := ParseDocument(feedOf("a: 1", "a: 2"), doc.New())
	if err == nil {
		t.Fatal("expected a duplicate-key error")
	}
}

func TestUnknownAliasIsError(t *testing.T) {
	_, err := ParseDocument(feedOf("a: *nope"), doc.New())
	if err == nil {
		t.Fatal("expected an unknown-alias error")
	}
}
