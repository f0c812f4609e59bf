// Package format defines the interface for bibliography file format plugins.
package format

import (
	"io"

	"github.com/lehigh-university-libraries/bibfield/entry"
	"github.com/lehigh-university-libraries/bibfield/key"
	"github.com/lehigh-university-libraries/bibfield/prefs"
	"github.com/lehigh-university-libraries/bibfield/schema"
)

// Format defines the interface that all format plugins must implement.
type Format interface {
	// Name returns the format identifier (e.g., "bibtex", "json", "csv")
	Name() string

	// Description returns a human-readable format description
	Description() string

	// Extensions returns file extensions associated with this format
	Extensions() []string

	// CanParse returns true if this format can parse the given input
	CanParse(peek []byte) bool
}

// Parser is a format that can read entries.
type Parser interface {
	Format

	// Parse reads input and returns entries in file order.
	Parse(r io.Reader, opts *ParseOptions) ([]*entry.Entry, error)
}

// Serializer is a format that can write entries.
type Serializer interface {
	Format

	// Serialize writes entries to the output.
	Serialize(w io.Writer, entries []*entry.Entry, opts *SerializeOptions) error
}

// ParseOptions contains options for parsing.
type ParseOptions struct {
	// Prefs steers field decoding (capital protection, string resolution)
	Prefs *prefs.Preferences

	// Types resolves entry type names
	Types *schema.TypeRegistry

	// IDs hands out entry identifiers and vets those read from input.
	// Defaults to the process-wide generator.
	IDs *key.IDGenerator

	// Strings receives @string macro definitions when non-nil
	Strings map[string]string

	// StripHTML removes HTML from imported text (tabular formats)
	StripHTML bool

	// Strict fails on malformed input instead of skipping it
	Strict bool

	// SourceName is an identifier for the source (for error messages)
	SourceName string
}

// SerializeOptions contains options for serialization.
type SerializeOptions struct {
	// Prefs steers field encoding (capital protection, wrapping)
	Prefs *prefs.Preferences

	// Fields decides which fields are written
	Fields *schema.Registry

	// Strings holds @string macro definitions to write ahead of the entries
	Strings map[string]string

	// Columns specifies which columns to include (for tabular formats)
	Columns []string

	// IncludeHeader includes a header row (for tabular formats)
	IncludeHeader bool

	// Pretty enables pretty-printing (for JSON)
	Pretty bool
}

// NewParseOptions creates ParseOptions with defaults.
func NewParseOptions() *ParseOptions {
	return &ParseOptions{
		Prefs:     prefs.New(),
		Types:     schema.StandardTypes(),
		IDs:       key.DefaultIDs(),
		StripHTML: true,
	}
}

// NewSerializeOptions creates SerializeOptions with defaults.
func NewSerializeOptions() *SerializeOptions {
	return &SerializeOptions{
		Prefs:         prefs.New(),
		Fields:        schema.StandardFields(),
		IncludeHeader: true,
	}
}

// Normalize fills unset fields of opts with defaults. A nil opts yields
// NewParseOptions().
func (opts *ParseOptions) Normalize() *ParseOptions {
	if opts == nil {
		return NewParseOptions()
	}
	if opts.Prefs == nil {
		opts.Prefs = prefs.New()
	}
	if opts.Types == nil {
		opts.Types = schema.StandardTypes()
	}
	if opts.IDs == nil {
		opts.IDs = key.DefaultIDs()
	}
	return opts
}

// Normalize fills unset fields of opts with defaults. A nil opts yields
// NewSerializeOptions().
func (opts *SerializeOptions) Normalize() *SerializeOptions {
	if opts == nil {
		return NewSerializeOptions()
	}
	if opts.Prefs == nil {
		opts.Prefs = prefs.New()
	}
	if opts.Fields == nil {
		opts.Fields = schema.StandardFields()
	}
	return opts
}
