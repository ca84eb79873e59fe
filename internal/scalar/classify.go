package scalar

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pwall567/kjson-yaml/internal/doc"
	"github.com/pwall567/kjson-yaml/value"
)

var (
	integerShapeRE = regexp.MustCompile(`^[-+]?[0-9]+$`)
	decimalShapeRE = regexp.MustCompile(`^[-+]?[0-9]*\.[0-9]+([eE][-+]?[0-9]+)?$|^[-+]?[0-9]+[eE][-+]?[0-9]+$`)
	legacyOctalRE  = regexp.MustCompile(`^0[0-7]+$`)
)

var floatSpecials = map[string]bool{
	".nan": true, ".NaN": true, ".NAN": true,
	".inf": true, ".Inf": true, ".INF": true,
	"+.inf": true, "+.Inf": true, "+.INF": true,
	"-.inf": true, "-.Inf": true, "-.INF": true,
}

var legacyBoolTrue = map[string]bool{
	"yes": true, "Yes": true, "YES": true,
	"on": true, "On": true, "ON": true,
}

var legacyBoolFalse = map[string]bool{
	"no": true, "No": true, "NO": true,
	"off": true, "Off": true, "OFF": true,
}

var coreBoolTrue = map[string]bool{"true": true, "True": true, "TRUE": true}
var coreBoolFalse = map[string]bool{"false": true, "False": true, "FALSE": true}

var nullLiterals = map[string]bool{"": true, "null": true, "Null": true, "NULL": true, "~": true}

// Classify maps a plain scalar's text to its null/bool/int/float/string
// value per spec.md §4.C, applying the resolved tag (if any) and the
// document's YAML version. When the text is a float-special literal with
// no explicit tag, it also returns the tag that should be recorded for the
// node (spec.md §4.C rule 11); inferredTag is empty otherwise.
func Classify(text, explicitTag string, version doc.Version) (val *value.Value, inferredTag string, err error) {
	switch explicitTag {
	case value.TagStr:
		return value.NewString(text), "", nil
	case value.TagFloat:
		if integerShapeRE.MatchString(text) {
			v, derr := value.NewDecimalFromString(text)
			if derr != nil {
				return nil, "", derr
			}
			return v, "", nil
		}
	case value.TagInt:
		if !integerShapeRE.MatchString(text) {
			if intText, ok := wholeDecimalAsInt(text); ok {
				return value.NewInt(mustParseInt(intText)), "", nil
			}
		}
	}

	if version.Minor < 2 {
		if legacyBoolTrue[text] {
			return value.NewBool(true), "", nil
		}
		if legacyBoolFalse[text] {
			return value.NewBool(false), "", nil
		}
		if len(text) > 1 && text[0] == '0' && legacyOctalRE.MatchString(text) {
			n, perr := strconv.ParseInt(text[1:], 8, 64)
			if perr == nil {
				return value.NewInt(n), "", nil
			}
		}
	}

	if nullLiterals[text] {
		return value.NewNull(), "", nil
	}
	if coreBoolTrue[text] {
		return value.NewBool(true), "", nil
	}
	if coreBoolFalse[text] {
		return value.NewBool(false), "", nil
	}
	if strings.HasPrefix(text, "0o") && len(text) > 2 && isOctalDigits(text[2:]) {
		n, perr := strconv.ParseInt(text[2:], 8, 64)
		if perr == nil {
			return value.NewInt(n), "", nil
		}
	}
	if strings.HasPrefix(text, "0x") && len(text) > 2 && isHexDigits(text[2:]) {
		n, perr := strconv.ParseInt(text[2:], 16, 64)
		if perr == nil {
			return value.NewInt(n), "", nil
		}
	}
	if integerShapeRE.MatchString(text) {
		if n, perr := strconv.ParseInt(text, 10, 64); perr == nil {
			return value.NewInt(n), "", nil
		}
		// Out of int64 range: fall back to arbitrary-precision decimal
		// (spec.md §9 "Numeric widening").
		v, derr := value.NewDecimalFromString(text)
		if derr != nil {
			return nil, "", derr
		}
		return v, "", nil
	}
	if decimalShapeRE.MatchString(text) {
		v, derr := value.NewDecimalFromString(text)
		if derr != nil {
			return nil, "", derr
		}
		return v, "", nil
	}
	if explicitTag == "" && floatSpecials[text] {
		return value.NewString(text), value.TagFloat, nil
	}
	return value.NewString(text), "", nil
}

func isOctalDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '7' {
			return false
		}
	}
	return true
}

func isHexDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if !(b >= '0' && b <= '9' || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F') {
			return false
		}
	}
	return true
}

// wholeDecimalAsInt reports whether text is decimal-shaped with a zero
// fractional part (e.g. "3.0", "-4.00"), returning the equivalent integer
// literal text (spec.md §4.C rule 3).
func wholeDecimalAsInt(text string) (string, bool) {
	if !decimalShapeRE.MatchString(text) {
		return "", false
	}
	mantissa := text
	if i := strings.IndexAny(text, "eE"); i >= 0 {
		return "", false // exponent form is never treated as a plain integer here
	}
	dot := strings.IndexByte(mantissa, '.')
	if dot < 0 {
		return "", false
	}
	frac := mantissa[dot+1:]
	for i := 0; i < len(frac); i++ {
		if frac[i] != '0' {
			return "", false
		}
	}
	intPart := mantissa[:dot]
	if intPart == "" || intPart == "-" || intPart == "+" {
		intPart += "0"
	}
	return intPart, true
}

func mustParseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
