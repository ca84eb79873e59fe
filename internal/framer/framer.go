// Package framer implements the Directive & Document Framer (spec.md
// §4.G): it walks the raw line stream, recognizes `%YAML`/`%TAG`
// directives and `---`/`...` document markers, and hands each document's
// content lines to the block machinery (internal/block) through a fresh
// per-document Context.
package framer

import (
	"strconv"
	"strings"

	"github.com/pwall567/kjson-yaml/internal/block"
	"github.com/pwall567/kjson-yaml/internal/doc"
	"github.com/pwall567/kjson-yaml/internal/yamlerr"
	"github.com/pwall567/kjson-yaml/source"
	"github.com/pwall567/kjson-yaml/value"
)

// docState tracks where a single document sits between separators, per
// spec.md §4.G.
type docState int

const (
	stateInitial docState = iota
	stateDirective
	stateMain
	stateEnded
)

// Warning is a non-fatal condition raised while framing a document: an
// unknown directive, or a %YAML minor version beyond what this module
// implements (spec.md §7, §9 "Warnings surface").
type Warning struct {
	Line int
	Text string
}

// Document is one parsed document's root value, together with its resolved
// version, explicit or inferred tag assignments, and any non-fatal warnings raised
// while building it (spec.md §4.G, §9 "Warnings surface").
type Document struct {
	Root     *value.Value
	Major    int
	Minor    int
	TagMap   map[string]string
	Warnings []Warning
}

type rawLine struct {
	text string
	num  int
	has  bool
}

// Framer drives one Source through the directive/marker state machine,
// producing a Document per `---`-delimited section (or a single implicit
// document when the stream carries no explicit markers).
type Framer struct {
	src       source.Source
	lookahead *rawLine
	lineNo    int
	warnings  []Warning
	maxLines  int
	overLimit bool
	strict    bool
}

// New wraps src for framing.
func New(src source.Source) *Framer {
	return &Framer{src: src}
}

// SetMaxLines caps the number of source lines that will be read; zero means
// unlimited. Exceeding it causes ParseAll to fail with a Structural error
// rather than continuing to buffer an adversarially large input.
func (fr *Framer) SetMaxLines(n int) { fr.maxLines = n }

// SetStrict promotes version warnings to fatal Version errors instead of
// accumulating them on Document.Warnings.
func (fr *Framer) SetStrict(strict bool) { fr.strict = strict }

// Overflowed reports whether the configured line limit was exceeded.
func (fr *Framer) Overflowed() bool { return fr.overLimit }

func (fr *Framer) nextRaw() (string, int, bool) {
	if fr.overLimit {
		return "", 0, false
	}
	text, ok := fr.src.NextLine()
	if !ok {
		return "", 0, false
	}
	fr.lineNo++
	if fr.maxLines > 0 && fr.lineNo > fr.maxLines {
		fr.overLimit = true
		return "", 0, false
	}
	return text, fr.lineNo, true
}

func (fr *Framer) peekRaw() (string, int, bool) {
	if fr.lookahead == nil {
		text, num, ok := fr.nextRaw()
		fr.lookahead = &rawLine{text: text, num: num, has: ok}
	}
	return fr.lookahead.text, fr.lookahead.num, fr.lookahead.has
}

func (fr *Framer) takeRaw() {
	fr.lookahead = nil
}

func (fr *Framer) pushBack(text string, num int) {
	fr.lookahead = &rawLine{text: text, num: num, has: true}
}

func isSeparator(trimmed string) bool {
	return trimmed == "---" || strings.HasPrefix(trimmed, "--- ") || trimmed == "..." || strings.HasPrefix(trimmed, "%")
}

// ParseAll reads the whole stream and returns every document found. An
// input with no content at all still yields exactly one document: a
// null-root document at the default version (spec.md §4.G, §6 "at least
// one document is always returned").
func (fr *Framer) ParseAll() ([]*Document, error) {
	var docs []*Document
	for {
		d, ok, err := fr.parseOne()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		docs = append(docs, d)
	}
	if fr.overLimit {
		return nil, yamlerr.New(yamlerr.Structural, fr.lineNo, 1, "input exceeds configured maximum document size")
	}
	if len(docs) == 0 {
		docs = []*Document{{
			Root:  value.NewNull(),
			Major: doc.DefaultVersion.Major,
			Minor: doc.DefaultVersion.Minor,
		}}
	}
	return docs, nil
}

func (fr *Framer) warn(lineNo int, msg string) {
	fr.warnings = append(fr.warnings, Warning{Line: lineNo, Text: msg})
}

// parseOne consumes one document's worth of input: any leading directives,
// an optional `---` marker, the document body, and a trailing `...` if
// present. ok is false once the stream is exhausted with nothing left to
// read.
func (fr *Framer) parseOne() (*Document, bool, error) {
	ctx := doc.New()
	fr.warnings = nil
	state := stateInitial
	sawYAMLDirective := false
	bodyStarted := false

	for !bodyStarted {
		text, lineNo, ok := fr.peekRaw()
		if !ok {
			if state == stateInitial {
				return nil, false, nil
			}
			bodyStarted = true
			break
		}
		trimmed := strings.TrimRight(text, " \t\r")

		switch {
		case strings.HasPrefix(trimmed, "%"):
			if state == stateMain || state == stateEnded {
				return nil, false, yamlerr.New(yamlerr.Structural, lineNo, 1, "directive not allowed after document content")
			}
			fr.takeRaw()
			state = stateDirective
			if err := fr.applyDirective(trimmed, ctx, lineNo, &sawYAMLDirective); err != nil {
				return nil, false, err
			}

		case trimmed == "---" || strings.HasPrefix(trimmed, "--- "):
			if state == stateMain || state == stateEnded {
				// A new document begins; leave the marker for the next call.
				bodyStarted = true
				break
			}
			fr.takeRaw()
			state = stateMain
			rest := strings.TrimPrefix(trimmed, "---")
			rest = strings.TrimLeft(rest, " ")
			if rest != "" && !strings.HasPrefix(rest, "#") {
				fr.pushBack(rest, lineNo)
			}
			bodyStarted = true

		case trimmed == "...":
			fr.takeRaw()
			state = stateEnded
			bodyStarted = true

		default:
			state = stateMain
			bodyStarted = true
		}
	}

	feed := block.NewLineFeed(func() (string, int, bool) {
		text, lineNo, ok := fr.peekRaw()
		if !ok {
			return "", 0, false
		}
		if isSeparator(strings.TrimRight(text, " \t\r")) {
			return "", 0, false
		}
		fr.takeRaw()
		return text, lineNo, true
	})

	root, err := block.ParseDocument(feed, ctx)
	if err != nil {
		return nil, false, err
	}

	// Drain a trailing "..." marker belonging to this document, if present.
	if text, _, ok := fr.peekRaw(); ok && strings.TrimRight(text, " \t\r") == "..." {
		fr.takeRaw()
	}

	tm := make(map[string]string, len(ctx.TagMap()))
	for ptr, tag := range ctx.TagMap() {
		tm[ptr.String()] = tag
	}

	return &Document{
		Root:     root,
		Major:    ctx.Version().Major,
		Minor:    ctx.Version().Minor,
		TagMap:   tm,
		Warnings: append([]Warning(nil), fr.warnings...),
	}, true, nil
}

func (fr *Framer) applyDirective(line string, ctx *doc.Context, lineNo int, sawYAML *bool) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "%YAML":
		if *sawYAML {
			return yamlerr.New(yamlerr.Version, lineNo, 1, "duplicate YAML directive")
		}
		*sawYAML = true
		if len(fields) < 2 {
			return yamlerr.New(yamlerr.Version, lineNo, 1, "malformed YAML directive")
		}
		major, minor, err := parseVersion(fields[1])
		if err != nil {
			return yamlerr.New(yamlerr.Version, lineNo, 1, "malformed YAML version %q", fields[1])
		}
		if major != 1 {
			return yamlerr.New(yamlerr.Version, lineNo, 1, "unsupported YAML major version %d", major)
		}
		if minor > 2 {
			msg := "document declares YAML 1." + itoa(minor) + ", parsing as if 1.2"
			if fr.strict {
				return yamlerr.New(yamlerr.Version, lineNo, 1, msg)
			}
			fr.warn(lineNo, msg)
		}
		ctx.SetVersion(major, minor)

	case "%TAG":
		if len(fields) < 3 {
			return yamlerr.New(yamlerr.Syntax, lineNo, 1, "malformed TAG directive")
		}
		ctx.DeclareTagHandle(fields[1], fields[2])

	default:
		fr.warn(lineNo, "unknown directive "+fields[0])
	}
	return nil
}

func parseVersion(s string) (major, minor int, err error) {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 {
		major, minor = 0, 0
		err = strconv.ErrSyntax
		return
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return major, minor, nil
}

func itoa(n int) string { return strconv.Itoa(n) }
