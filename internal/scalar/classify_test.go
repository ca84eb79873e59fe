package scalar

import (
	"testing"

	"github.com/pwall567/kjson-yaml/internal/doc"
	"github.com/pwall567/kjson-yaml/value"
)

func classify12(t *testing.T, text, explicitTag string) (*value.Value, string) {
	t.Helper()
	v, inferred, err := Classify(text, explicitTag, doc.Version{Major: 1, Minor: 2})
	if err != nil {
		t.Fatalf("Classify(%q, %q) error: %v", text, explicitTag, err)
	}
	return v, inferred
}

func TestClassifyCoreScalars(t *testing.T) {
	cases := []struct {
		text string
		kind value.Kind
	}{
		{"", value.Null},
		{"null", value.Null},
		{"~", value.Null},
		{"true", value.Bool},
		{"False", value.Bool},
		{"42", value.Int},
		{"-7", value.Int},
		{"3.14", value.Decimal},
		{"just text", value.String},
	}
	for _, c := range cases {
		v, _ := classify12(t, c.text, "")
		if v.Kind() != c.kind {
			t.Errorf("Classify(%q) kind = %v, want %v", c.text, v.Kind(), c.kind)
		}
	}
}

func TestClassifyLegacyBoolOnlyBefore12(t *testing.T) {
	v, _, err := Classify("yes", "", doc.Version{Major: 1, Minor: 1})
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != value.Bool {
		t.Fatalf("1.1: Classify(\"yes\") kind = %v, want Bool", v.Kind())
	}
	v12, _ := classify12(t, "yes", "")
	if v12.Kind() != value.String {
		t.Fatalf("1.2: Classify(\"yes\") kind = %v, want String (legacy bool retired)", v12.Kind())
	}
}

func TestClassifyHexAndOctal(t *testing.T) {
	v, _ := classify12(t, "0x1F", "")
	if n, ok := v.Int64(); !ok || n != 31 {
		t.Fatalf("Classify(\"0x1F\") = %v,%v, want 31,true", n, ok)
	}
	v2, _ := classify12(t, "0o17", "")
	if n, ok := v2.Int64(); !ok || n != 15 {
		t.Fatalf("Classify(\"0o17\") = %v,%v, want 15,true", n, ok)
	}
}

func TestClassifyFloatSpecialInfersTag(t *testing.T) {
	v, inferred := classify12(t, ".nan", "")
	if v.Kind() != value.String {
		t.Fatalf("Classify(\".nan\") kind = %v, want String", v.Kind())
	}
	if inferred != value.TagFloat {
		t.Fatalf("inferredTag = %q, want %q", inferred, value.TagFloat)
	}
}

func TestClassifyExplicitStrTagForcesString(t *testing.T) {
	v, _ := classify12(t, "42", value.TagStr)
	if v.Kind() != value.String {
		t.Fatalf("Classify with !!str tag kind = %v, want String", v.Kind())
	}
}

func TestClassifyExplicitIntTagOnWholeDecimal(t *testing.T) {
	v, _ := classify12(t, "3.0", value.TagInt)
	if v.Kind() != value.Int {
		t.Fatalf("Classify(\"3.0\", !!int) kind = %v, want Int", v.Kind())
	}
	n, _ := v.Int64()
	if n != 3 {
		t.Fatalf("Int64() = %d, want 3", n)
	}
}

func TestClassifyOutOfRangeIntWidensToDecimal(t *testing.T) {
	v, _ := classify12(t, "99999999999999999999999999", "")
	if v.Kind() != value.Decimal {
		t.Fatalf("Classify of an oversized integer literal kind = %v, want Decimal", v.Kind())
	}
}
