package doc

import (
	"testing"

	"github.com/pwall567/kjson-yaml/value"
)

func TestDefaultTagHandles(t *testing.T) {
	ctx := New()
	if prefix, ok := ctx.TagHandle("!"); !ok || prefix != "!" {
		t.Fatalf("TagHandle(\"!\") = %q,%v, want \"!\",true", prefix, ok)
	}
	if prefix, ok := ctx.TagHandle("!!"); !ok || prefix != "tag:yaml.org,2002:" {
		t.Fatalf("TagHandle(\"!!\") = %q,%v, want tag:yaml.org,2002:,true", prefix, ok)
	}
}

func TestChildClearsPendingButSharesMaps(t *testing.T) {
	ctx := New()
	if err := ctx.SetPendingAnchor("a1", 1, 1); err != nil {
		t.Fatal(err)
	}
	ctx.SetPendingTag("!!str")

	child := ctx.Child("key")
	if child.HasPendingProperties() {
		t.Fatal("child Context inherited pending anchor/tag, want cleared")
	}
	if !ctx.HasPendingProperties() {
		t.Fatal("parent Context's pending properties were cleared by Child()")
	}

	// anchors recorded through the child must be visible from the parent,
	// since both share the same anchorMap by reference.
	if err := child.SetPendingAnchor("a2", 2, 1); err != nil {
		t.Fatal(err)
	}
	v := value.NewString("hello")
	child.SaveNodeProperties(v)
	if got, ok := ctx.ResolveAlias("a2"); !ok || got != v {
		t.Fatalf("ResolveAlias(\"a2\") from parent = %v,%v, want the child's *value.Value, true", got, ok)
	}
}

func TestSaveNodePropertiesRecordsAnchorAndTag(t *testing.T) {
	ctx := New()
	if err := ctx.SetPendingAnchor("anchor1", 1, 1); err != nil {
		t.Fatal(err)
	}
	ctx.SetPendingTag("tag:yaml.org,2002:str")
	v := value.NewString("x")
	ctx.SaveNodeProperties(v)

	got, ok := ctx.ResolveAlias("anchor1")
	if !ok || got != v {
		t.Fatalf("ResolveAlias(\"anchor1\") = %v,%v, want the same *value.Value, true", got, ok)
	}
	if tag, ok := ctx.TagMap()[ctx.Pointer()]; !ok || tag != "tag:yaml.org,2002:str" {
		t.Fatalf("TagMap()[root] = %q,%v, want tag:yaml.org,2002:str,true", tag, ok)
	}
	if ctx.HasPendingProperties() {
		t.Fatal("pending properties not cleared after SaveNodeProperties")
	}
}

func TestDuplicateAnchorIsReferenceError(t *testing.T) {
	ctx := New()
	if err := ctx.SetPendingAnchor("a", 1, 1); err != nil {
		t.Fatal(err)
	}
	err := ctx.SetPendingAnchor("b", 2, 1)
	if err == nil {
		t.Fatal("expected an error setting a second pending anchor on the same Context")
	}
}

func TestChildPointerPath(t *testing.T) {
	ctx := New()
	c := ctx.Child("items").ChildIndex(2).Child("name")
	if got, want := c.Pointer().String(), "/items/2/name"; got != want {
		t.Fatalf("Pointer() = %q, want %q", got, want)
	}
}
