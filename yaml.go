// Package yaml is the public entry point of this module: it parses a YAML
// 1.2 byte stream into the JSON-superset value tree of the value package,
// retaining tag/anchor metadata alongside it (spec.md §1 OVERVIEW).
package yaml

import (
	"fmt"

	"github.com/pwall567/kjson-yaml/internal/framer"
	"github.com/pwall567/kjson-yaml/internal/yamlerr"
	"github.com/pwall567/kjson-yaml/pointer"
	"github.com/pwall567/kjson-yaml/source"
	"github.com/pwall567/kjson-yaml/value"
)

// Warning is a non-fatal condition observed while parsing: an unknown
// directive, or an unexpected %YAML minor version (spec.md §7, §9
// "Warnings surface").
type Warning struct {
	Line int
	Text string
}

// Document is one parsed YAML document: its root node plus the metadata
// the plain value tree can't carry on its own — the resolved YAML version,
// explicit or inferred tag assignments keyed by JSON pointer, and any warnings raised
// while building it.
type Document struct {
	root     *value.Value
	major    int
	minor    int
	tags     map[string]string
	warnings []Warning
}

// Root returns the document's root node.
func (d *Document) Root() *value.Value { return d.root }

// Version returns the document's resolved (major, minor) YAML version.
func (d *Document) Version() (major, minor int) { return d.major, d.minor }

// Warnings returns the non-fatal conditions observed while parsing this
// document, in the order they were raised.
func (d *Document) Warnings() []Warning { return d.warnings }

// Tag returns the explicit or inferred tag recorded for the node at ptr, or
// the kind-derived default tag if none was recorded (spec.md §4.H).
func (d *Document) Tag(ptr pointer.Pointer) (string, error) {
	if tag, ok := d.tags[ptr.String()]; ok {
		return tag, nil
	}
	node, err := d.At(ptr)
	if err != nil {
		return "", err
	}
	return value.DefaultTag(node.Kind()), nil
}

// At resolves ptr against the document tree, per spec.md §1's "navigable
// via JSON pointers".
func (d *Document) At(ptr pointer.Pointer) (*value.Value, error) {
	cur := d.root
	for _, seg := range ptr.Segments() {
		switch cur.Kind() {
		case value.Mapping:
			next, ok := cur.Get(seg)
			if !ok {
				return nil, fmt.Errorf("yaml: no such pointer segment %q", seg)
			}
			cur = next
		case value.Sequence:
			idx, err := pointerIndex(seg, cur.Len())
			if err != nil {
				return nil, err
			}
			next, _ := cur.At(idx)
			cur = next
		default:
			return nil, fmt.Errorf("yaml: pointer segment %q does not address into a %s", seg, cur.Kind())
		}
	}
	return cur, nil
}

func pointerIndex(seg string, length int) (int, error) {
	n := 0
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return 0, fmt.Errorf("yaml: non-numeric sequence pointer segment %q", seg)
		}
		n = n*10 + int(seg[i]-'0')
	}
	if len(seg) == 0 || n >= length {
		return 0, fmt.Errorf("yaml: sequence pointer segment %q out of range", seg)
	}
	return n, nil
}

func fromConfig(cfg *parseConfig, src source.Source) (*framer.Framer, error) {
	if cfg.charsetHint != "" && cfg.charsetHint != "utf-8" && cfg.charsetHint != "UTF-8" {
		return nil, yamlerr.New(yamlerr.Encoding, 0, 0, "unsupported charset hint %q", cfg.charsetHint)
	}
	fr := framer.New(src)
	fr.SetMaxLines(cfg.maxDocumentSize)
	fr.SetStrict(cfg.strictVersion)
	return fr, nil
}

func toDocument(d *framer.Document) *Document {
	warnings := make([]Warning, len(d.Warnings))
	for i, w := range d.Warnings {
		warnings[i] = Warning{Line: w.Line, Text: w.Text}
	}
	return &Document{
		root:     d.Root,
		major:    d.Major,
		minor:    d.Minor,
		tags:     d.TagMap,
		warnings: warnings,
	}
}

// Parse reads exactly one document from src. A stream containing more than
// one `---`-delimited document is an error here; use ParseStream for that.
func Parse(src source.Source, opts ...ParseOption) (*Document, error) {
	cfg := newParseConfig(opts)
	fr, err := fromConfig(cfg, src)
	if err != nil {
		return nil, err
	}
	docs, err := fr.ParseAll()
	if err != nil {
		return nil, err
	}
	if len(docs) != 1 {
		return nil, yamlerr.New(yamlerr.Structural, 0, 0, "input contains %d documents, want exactly one", len(docs))
	}
	return toDocument(docs[0]), nil
}

// ParseStream reads every document from src in order.
func ParseStream(src source.Source, opts ...ParseOption) ([]*Document, error) {
	cfg := newParseConfig(opts)
	fr, err := fromConfig(cfg, src)
	if err != nil {
		return nil, err
	}
	docs, err := fr.ParseAll()
	if err != nil {
		return nil, err
	}
	out := make([]*Document, len(docs))
	for i, d := range docs {
		out[i] = toDocument(d)
	}
	return out, nil
}
