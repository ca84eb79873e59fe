package yaml

import (
	"testing"

	"github.com/pwall567/kjson-yaml/pointer"
	"github.com/pwall567/kjson-yaml/source"
	"github.com/pwall567/kjson-yaml/value"
)

func TestParseSimpleDocument(t *testing.T) {
	doc, err := Parse(source.FromString("name: widget\ncount: 3\n"))
	if err != nil {
		t.Fatal(err)
	}
	root := doc.Root()
	if root.Kind() != value.Mapping {
		t.Fatalf("Root().Kind() = %v, want Mapping", root.Kind())
	}
	name, ok := root.Get("name")
	if !ok {
		t.Fatal("missing key name")
	}
	if s, _ := name.String(); s != "widget" {
		t.Fatalf("name = %q, want widget", s)
	}
}

func TestParseEmptyInputYieldsNullRoot(t *testing.T) {
	doc, err := Parse(source.FromString(""))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Root().Kind() != value.Null {
		t.Fatalf("Root().Kind() = %v, want Null", doc.Root().Kind())
	}
	major, minor := doc.Version()
	if major != 1 || minor != 2 {
		t.Fatalf("Version() = %d.%d, want the default 1.2", major, minor)
	}
}

func TestParseStreamEmptyInputYieldsOneDocument(t *testing.T) {
	docs, err := ParseStream(source.FromString(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1", len(docs))
	}
	if docs[0].Root().Kind() != value.Null {
		t.Fatalf("Root().Kind() = %v, want Null", docs[0].Root().Kind())
	}
}

func TestParseRejectsMultipleDocuments(t *testing.T) {
	_, err := Parse(source.FromString("---\na: 1\n---\nb: 2\n"))
	if err == nil {
		t.Fatal("expected an error: Parse must reject a stream with more than one document")
	}
}

func TestParseStreamReturnsAll(t *testing.T) {
	docs, err := ParseStream(source.FromString("---\na: 1\n---\nb: 2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("len(docs) = %d, want 2", len(docs))
	}
}

func TestDocumentAtPointer(t *testing.T) {
	doc, err := Parse(source.FromString("users:\n  - name: alice\n    roles: [admin, dev]\n  - name: bob\n"))
	if err != nil {
		t.Fatal(err)
	}
	v, err := doc.At(pointer.Root.Child("users").Index(0).Child("roles").Index(1))
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := v.String(); s != "dev" {
		t.Fatalf("At(...) = %q, want dev", s)
	}
}

func TestDocumentAtPointerOutOfRange(t *testing.T) {
	doc, err := Parse(source.FromString("items: [1, 2]\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := doc.At(pointer.Root.Child("items").Index(5)); err == nil {
		t.Fatal("expected an out-of-range error")
	}
}

func TestDocumentTagDefaultsByKind(t *testing.T) {
	doc, err := Parse(source.FromString("a: 1\nb: text\n"))
	if err != nil {
		t.Fatal(err)
	}
	tag, err := doc.Tag(pointer.Root.Child("a"))
	if err != nil {
		t.Fatal(err)
	}
	if tag != value.TagInt {
		t.Fatalf("Tag(a) = %q, want %q (default, no explicit tag)", tag, value.TagInt)
	}
}

func TestDocumentExplicitTag(t *testing.T) {
	doc, err := Parse(source.FromString("a: !!str 42\n"))
	if err != nil {
		t.Fatal(err)
	}
	v, _ := doc.Root().Get("a")
	if v.Kind() != value.String {
		t.Fatalf("a kind = %v, want String (forced by !!str)", v.Kind())
	}
	tag, err := doc.Tag(pointer.Root.Child("a"))
	if err != nil {
		t.Fatal(err)
	}
	if tag != value.TagStr {
		t.Fatalf("Tag(a) = %q, want %q", tag, value.TagStr)
	}
}

func TestAnchorAliasShareIdentity(t *testing.T) {
	doc, err := Parse(source.FromString("defaults: &defaults\n  retries: 3\ntask:\n  <<: *defaults\n  retries: 3\n"))
	if err != nil {
		t.Fatal(err)
	}
	defaults, _ := doc.Root().Get("defaults")
	task, _ := doc.Root().Get("task")
	merged, ok := task.Get("<<")
	if !ok {
		t.Fatal("missing merge key \"<<\" (no merge-key expansion is performed; spec Non-goal)")
	}
	if merged != defaults {
		t.Fatal("*defaults did not resolve to the same *value.Value as the anchor")
	}
}

func TestWithMaxDocumentSizeRejectsOversizedInput(t *testing.T) {
	big := ""
	for i := 0; i < 100; i++ {
		big += "- 1\n"
	}
	_, err := Parse(source.FromString(big), WithMaxDocumentSize(10))
	if err == nil {
		t.Fatal("expected a Structural error for input exceeding WithMaxDocumentSize")
	}
}

func TestWithStrictVersionPromotesWarning(t *testing.T) {
	_, err := Parse(source.FromString("%YAML 1.9\n---\na: 1\n"), WithStrictVersion())
	if err == nil {
		t.Fatal("expected a fatal error in strict mode for an unsupported minor version")
	}
}

func TestWithCharsetHintRejectsUnsupported(t *testing.T) {
	_, err := Parse(source.FromString("a: 1\n"), WithCharsetHint("utf-16"))
	if err == nil {
		t.Fatal("expected an Encoding error for an unsupported charset hint")
	}
}

func TestWithCharsetHintAcceptsUTF8(t *testing.T) {
	_, err := Parse(source.FromString("a: 1\n"), WithCharsetHint("utf-8"))
	if err != nil {
		t.Fatalf("unexpected error for a supported charset hint: %v", err)
	}
}

func TestDuplicateKeyRejected(t *testing.T) {
	_, err := Parse(source.FromString("a: 1\na: 2\n"))
	if err == nil {
		t.Fatal("expected a duplicate-key error")
	}
}

func TestScalarRoundTripTable(t *testing.T) {
	cases := []struct {
		yaml string
		kind value.Kind
	}{
		{"~", value.Null},
		{"null", value.Null},
		{"true", value.Bool},
		{"false", value.Bool},
		{"123", value.Int},
		{"-45", value.Int},
		{"3.25", value.Decimal},
		{"plain text", value.String},
		{"'single quoted'", value.String},
		{`"double quoted"`, value.String},
	}
	for _, c := range cases {
		doc, err := Parse(source.FromString("v: " + c.yaml + "\n"))
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.yaml, err)
		}
		v, _ := doc.Root().Get("v")
		if v.Kind() != c.kind {
			t.Errorf("Parse(%q) kind = %v, want %v", c.yaml, v.Kind(), c.kind)
		}
	}
}

func TestJSONSuperset(t *testing.T) {
	jsonLike := `{"name": "widget", "tags": ["a", "b"], "count": 2, "active": true, "meta": null}`
	doc, err := Parse(source.FromString(jsonLike + "\n"))
	if err != nil {
		t.Fatal(err)
	}
	root := doc.Root()
	if root.Kind() != value.Mapping {
		t.Fatalf("Kind() = %v, want Mapping", root.Kind())
	}
	tags, _ := root.Get("tags")
	if tags.Kind() != value.Sequence || tags.Len() != 2 {
		t.Fatalf("tags = kind %v len %d, want Sequence len 2", tags.Kind(), tags.Len())
	}
	meta, _ := root.Get("meta")
	if meta.Kind() != value.Null {
		t.Fatalf("meta kind = %v, want Null", meta.Kind())
	}
}
