package yaml

// ParseOption configures Parse/ParseStream, following the functional-option
// pattern (spec.md SPEC_FULL.md "Configuration").
type ParseOption func(*parseConfig)

type parseConfig struct {
	maxDocumentSize int
	strictVersion   bool
	charsetHint     string
}

func newParseConfig(opts []ParseOption) *parseConfig {
	cfg := &parseConfig{maxDocumentSize: 0}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithMaxDocumentSize caps the number of source lines read before parsing
// fails with a Structural error, guarding against unbounded memory use on
// adversarial input. Zero (the default) means unlimited.
func WithMaxDocumentSize(lines int) ParseOption {
	return func(c *parseConfig) { c.maxDocumentSize = lines }
}

// WithStrictVersion promotes version-related warnings (an unexpected %YAML
// minor version) to fatal errors instead of accumulating them on
// Document.Warnings.
func WithStrictVersion() ParseOption {
	return func(c *parseConfig) { c.strictVersion = true }
}

// WithCharsetHint records the caller's expectation of the input's charset.
// Only "utf-8" is actually supported (spec.md Non-goals: multi-byte stream
// decoding beyond UTF-8/UTF-8-with-BOM), so this is informational: a hint
// naming anything else is rejected up front rather than silently
// mis-decoding the input.
func WithCharsetHint(charset string) ParseOption {
	return func(c *parseConfig) { c.charsetHint = charset }
}
