// Package doc implements the Document Assembler's per-document Context
// (spec.md §3, §4.H): the anchor map, tag map, tag-handle table, YAML
// version, and the current JSON-pointer path, shared across the whole
// nested block/child hierarchy that makes up one document.
package doc

import (
	"github.com/pwall567/kjson-yaml/internal/yamlerr"
	"github.com/pwall567/kjson-yaml/pointer"
	"github.com/pwall567/kjson-yaml/value"
)

// Version is the (major, minor) pair parsed from a %YAML directive,
// defaulting to 1.2 (spec.md §6).
type Version struct {
	Major, Minor int
}

// DefaultVersion is used when a document carries no %YAML directive.
var DefaultVersion = Version{Major: 1, Minor: 2}

// Context is the per-document state shared by every Block and Child in the
// document's nested descent. It is never shared across documents: the
// framer constructs a fresh one at each --- / ... boundary.
type Context struct {
	tagHandles map[string]string
	anchorMap  map[string]*value.Value
	tagMap     map[pointer.Pointer]string
	version    Version

	ptr pointer.Pointer

	pendingAnchor string
	pendingTag    string
}

// New returns a fresh document Context, pre-populated with the default
// "!" and "!!" tag handles (spec.md §3).
func New() *Context {
	return &Context{
		tagHandles: map[string]string{
			"!":  "!",
			"!!": "tag:yaml.org,2002:",
		},
		anchorMap: map[string]*value.Value{},
		tagMap:    map[pointer.Pointer]string{},
		version:   DefaultVersion,
		ptr:       pointer.Root,
	}
}

// Child returns a new Context sharing this Context's tag handles, anchor
// map, tag map and version, but rooted at an extended mapping-key pointer
// and with freshly cleared pending anchor/tag (spec.md §3 "child(name)").
func (c *Context) Child(key string) *Context {
	child := *c
	child.ptr = c.ptr.Child(key)
	child.pendingAnchor = ""
	child.pendingTag = ""
	return &child
}

// ChildIndex is Child for a sequence index rather than a mapping key.
func (c *Context) ChildIndex(i int) *Context {
	child := *c
	child.ptr = c.ptr.Index(i)
	child.pendingAnchor = ""
	child.pendingTag = ""
	return &child
}

// Pointer returns this Context's current path from the document root.
func (c *Context) Pointer() pointer.Pointer { return c.ptr }

// Version returns the document's YAML version.
func (c *Context) Version() Version { return c.version }

// SetVersion records the %YAML directive's version.
func (c *Context) SetVersion(major, minor int) { c.version = Version{Major: major, Minor: minor} }

// DeclareTagHandle records a %TAG directive's handle -> prefix mapping.
func (c *Context) DeclareTagHandle(handle, prefix string) { c.tagHandles[handle] = prefix }

// TagHandle looks up a handle ("!", "!!", or "!h!") declared either by
// default or by a %TAG directive.
func (c *Context) TagHandle(handle string) (string, bool) {
	prefix, ok := c.tagHandles[handle]
	return prefix, ok
}

// SetPendingAnchor records an anchor token seen before a node, to be
// attached when that node is finalized. Returns a Reference error if an
// anchor is already pending in this Context (duplicate anchor token on the
// same node, spec.md §4.F).
func (c *Context) SetPendingAnchor(name string, line, col int) error {
	if c.pendingAnchor != "" {
		return yamlerr.New(yamlerr.Reference, line, col, "duplicate anchor indicator for the same node")
	}
	c.pendingAnchor = name
	return nil
}

// SetPendingTag records a tag token seen before a node.
func (c *Context) SetPendingTag(tag string) { c.pendingTag = tag }

// PendingTag returns the tag pending attachment to the node about to be
// produced in this Context, used by the scalar classifier (spec.md §4.C).
func (c *Context) PendingTag() string { return c.pendingTag }

// PendingAnchor returns the anchor pending attachment, without consuming it.
func (c *Context) PendingAnchor() string { return c.pendingAnchor }

// HasPendingProperties reports whether an anchor or tag token has been
// seen and not yet attached to a node.
func (c *Context) HasPendingProperties() bool {
	return c.pendingAnchor != "" || c.pendingTag != ""
}

// SaveNodeProperties attaches this Context's pending anchor/tag to v, once
// v is fully built (spec.md §3: "An anchor is recorded only after its node
// is fully built"). It must be called exactly once per produced node.
func (c *Context) SaveNodeProperties(v *value.Value) {
	if c.pendingAnchor != "" {
		c.anchorMap[c.pendingAnchor] = v
		c.pendingAnchor = ""
	}
	if c.pendingTag != "" {
		c.tagMap[c.ptr] = c.pendingTag
		c.pendingTag = ""
	} else if v != nil {
		// No explicit tag: record nothing here. getTag falls back to the
		// kind-derived default tag lazily (spec.md §4.H), so the tag map
		// only ever holds explicit/inferred overrides.
		_ = v
	}
}

// RecordInferredTag is used by the scalar classifier for the one case
// (spec.md §4.C rule 11) where a node gets a tag without an explicit `!`
// token: float-special literals like ".nan" keep a String value but carry
// the float tag.
func (c *Context) RecordInferredTag(tag string) {
	c.tagMap[c.ptr] = tag
}

// ResolveAlias looks up an anchor by name.
func (c *Context) ResolveAlias(name string) (*value.Value, bool) {
	v, ok := c.anchorMap[name]
	return v, ok
}

// TagMap returns the accumulated pointer -> explicit or inferred tag table.
func (c *Context) TagMap() map[pointer.Pointer]string { return c.tagMap }
