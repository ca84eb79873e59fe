// Package yamlerr implements the structured parse-failure model of
// spec.md §7: every fatal error carries a human-readable message, a line
// number and a 1-based column, and is wrapped with golang.org/x/xerrors so
// that %+v prints a caller frame, mirroring the internal/errors split used
// by goccy/go-yaml's errors package.
package yamlerr

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Kind classifies a fatal parse error, per spec.md §7.
type Kind int

const (
	Syntax Kind = iota
	Indentation
	Reference
	Encoding
	Version
	Structural
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax"
	case Indentation:
		return "indentation"
	case Reference:
		return "reference"
	case Encoding:
		return "encoding"
	case Version:
		return "version"
	case Structural:
		return "structural"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned for every fatal parse failure.
type Error struct {
	Kind    Kind
	Msg     string
	Line    int
	Column  int
	frame   xerrors.Frame
	wrapped error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s error at line %d, column %d: %s", e.Kind, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.wrapped }

func (e *Error) FormatError(p xerrors.Printer) error {
	p.Print(e.Error())
	if p.Detail() {
		e.frame.Format(p)
	}
	return e.wrapped
}

func (e *Error) Format(f fmt.State, verb rune) { xerrors.FormatError(e, f, verb) }

// New builds a Kind-tagged error at the given position.
func New(kind Kind, line, column int, format string, args ...interface{}) *Error {
	return &Error{
		Kind:   kind,
		Msg:    xerrors.Errorf(format, args...).Error(),
		Line:   line,
		Column: column,
		frame:  xerrors.Caller(1),
	}
}

// Wrap attaches position information to an error produced by a lower layer,
// preserving it as the unwrap target.
func Wrap(kind Kind, line, column int, err error) *Error {
	return &Error{
		Kind:    kind,
		Msg:     err.Error(),
		Line:    line,
		Column:  column,
		frame:   xerrors.Caller(1),
		wrapped: err,
	}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if xerrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
