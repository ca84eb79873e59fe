// Package value implements the JSON-style value model the parser builds
// into. It is the "consumed collaborator" named in spec.md §6: the parser
// itself never branches on Go's own dynamic typing for scalars — it always
// goes through the narrow construction surface here (null, bool, 64-bit
// integer, arbitrary-precision decimal, string, ordered sequence,
// insertion-ordered mapping) so that the parsing logic stays decoupled from
// how values are ultimately represented.
package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Kind identifies which alternative of the JSON-superset value a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Decimal
	String
	Sequence
	Mapping
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Decimal:
		return "decimal"
	case String:
		return "str"
	case Sequence:
		return "seq"
	case Mapping:
		return "map"
	default:
		return "unknown"
	}
}

// Default YAML 1.2 core schema tag URIs, see spec.md §6.
const (
	TagNull  = "tag:yaml.org,2002:null"
	TagBool  = "tag:yaml.org,2002:bool"
	TagInt   = "tag:yaml.org,2002:int"
	TagFloat = "tag:yaml.org,2002:float"
	TagStr   = "tag:yaml.org,2002:str"
	TagSeq   = "tag:yaml.org,2002:seq"
	TagMap   = "tag:yaml.org,2002:map"
)

// DefaultTag returns the YAML 1.2 core schema tag implied by kind alone,
// with no explicit tag present. Decimal nodes default to the float tag;
// every other kind maps one-to-one. See spec.md §4.H.
func DefaultTag(k Kind) string {
	switch k {
	case Null:
		return TagNull
	case Bool:
		return TagBool
	case Int:
		return TagInt
	case Decimal:
		return TagFloat
	case String:
		return TagStr
	case Sequence:
		return TagSeq
	case Mapping:
		return TagMap
	default:
		return TagStr
	}
}

// Value is a single node of the parsed tree: a tagged union over the seven
// kinds above. The zero Value is not valid; use the New* constructors.
type Value struct {
	kind Kind

	b   bool
	i   int64
	dec *apd.Decimal
	s   string
	seq []*Value

	keys []string
	vals map[string]*Value
}

func NewNull() *Value { return &Value{kind: Null} }

func NewBool(b bool) *Value { return &Value{kind: Bool, b: b} }

// NewInt holds a signed 64-bit integer. Every integer scalar that fits in
// int64 becomes an Int; no separate 32-bit form is kept, so callers that
// need to know whether a value fits in 32 bits compare Int64() against
// math.MinInt32 / math.MaxInt32 themselves.
func NewInt(i int64) *Value { return &Value{kind: Int, i: i} }

// NewDecimal holds an arbitrary-precision decimal, used both for YAML float
// scalars and for integers too wide for int64 (spec.md §4.C rule 9).
func NewDecimal(d *apd.Decimal) *Value { return &Value{kind: Decimal, dec: d} }

// NewDecimalFromString parses text (already known to be decimal-shaped by
// the classifier) into an arbitrary-precision decimal.
func NewDecimalFromString(text string) (*Value, error) {
	d, _, err := apd.NewFromString(text)
	if err != nil {
		return nil, fmt.Errorf("value: invalid decimal %q: %w", text, err)
	}
	return &Value{kind: Decimal, dec: d}, nil
}

// NewString holds either a genuine YAML string scalar, or (per spec.md
// §4.C rule 11) the raw text of a float-special literal such as ".nan"
// whose Kind stays String but whose node tag the resolver overrides to the
// float tag.
func NewString(s string) *Value { return &Value{kind: String, s: s} }

// NewSequence returns an empty, appendable ordered sequence.
func NewSequence() *Value { return &Value{kind: Sequence, seq: []*Value{}} }

// Append adds v as the next element of an ordered sequence. Panics if v is
// not a Sequence, which would be a parser bug, not a user-facing error.
func (v *Value) Append(elem *Value) {
	if v.kind != Sequence {
		panic("value: Append on non-sequence Value")
	}
	v.seq = append(v.seq, elem)
}

// NewMapping returns an empty, insertion-ordered string-keyed mapping.
func NewMapping() *Value {
	return &Value{kind: Mapping, keys: []string{}, vals: map[string]*Value{}}
}

// ContainsKey reports whether key has already been added to a mapping.
// Parsers use this to detect duplicate keys (spec.md §7 Reference errors).
func (v *Value) ContainsKey(key string) bool {
	if v.kind != Mapping {
		return false
	}
	_, ok := v.vals[key]
	return ok
}

// Add appends a new key/value pair to an insertion-ordered mapping. Add does
// not itself reject duplicates; callers must call ContainsKey first and
// raise a Reference error (spec.md §4.E "Duplicate keys are fatal").
func (v *Value) Add(key string, val *Value) {
	if v.kind != Mapping {
		panic("value: Add on non-mapping Value")
	}
	if _, exists := v.vals[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.vals[key] = val
}

func (v *Value) Kind() Kind { return v.kind }

func (v *Value) Bool() (bool, bool) {
	if v.kind != Bool {
		return false, false
	}
	return v.b, true
}

func (v *Value) Int64() (int64, bool) {
	if v.kind != Int {
		return 0, false
	}
	return v.i, true
}

func (v *Value) Decimal() (*apd.Decimal, bool) {
	if v.kind != Decimal {
		return nil, false
	}
	return v.dec, true
}

func (v *Value) String() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.s, true
}

// Keys returns the insertion-ordered keys of a mapping, or nil otherwise.
func (v *Value) Keys() []string {
	if v.kind != Mapping {
		return nil
	}
	return v.keys
}

// Get looks up a mapping value by key.
func (v *Value) Get(key string) (*Value, bool) {
	if v.kind != Mapping {
		return nil, false
	}
	val, ok := v.vals[key]
	return val, ok
}

// Len returns the number of elements of a sequence, or -1 otherwise.
func (v *Value) Len() int {
	if v.kind != Sequence {
		return -1
	}
	return len(v.seq)
}

// At returns the i-th element of a sequence.
func (v *Value) At(i int) (*Value, bool) {
	if v.kind != Sequence || i < 0 || i >= len(v.seq) {
		return nil, false
	}
	return v.seq[i], true
}

// StringifyKey coerces a resolved key node into the string used to address
// it in an ordered Mapping. A plain string key is used as-is; every other
// kind (numbers, booleans, null, and complex sequence/mapping keys) is
// coerced through a JSON-ish rendering so it has a stable, unambiguous
// string form (spec.md §9 "obscure corner": non-string mapping keys). Both
// the block-style and flow-style mapping paths share this so that two
// distinct complex keys never collide on a common placeholder string.
func StringifyKey(v *Value) string {
	if v.kind == String {
		return v.s
	}
	var sb strings.Builder
	writeJSONishKey(&sb, v)
	return sb.String()
}

func writeJSONishKey(sb *strings.Builder, v *Value) {
	switch v.kind {
	case Null:
		sb.WriteString("null")
	case Bool:
		if v.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case Int:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case Decimal:
		sb.WriteString(v.dec.String())
	case String:
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(strings.ReplaceAll(v.s, `\`, `\\`), `"`, `\"`))
		sb.WriteByte('"')
	case Sequence:
		sb.WriteByte('[')
		for i, elem := range v.seq {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeJSONishKey(sb, elem)
		}
		sb.WriteByte(']')
	case Mapping:
		sb.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeJSONishKey(sb, &Value{kind: String, s: k})
			sb.WriteByte(':')
			writeJSONishKey(sb, v.vals[k])
		}
		sb.WriteByte('}')
	}
}
