// Package csv provides a format plugin that exchanges entries as rows of a
// table, one column per field.
//
// The header row names the fields. Two column names are special:
// "entrytype" holds the entry type and "id" the entry identifier. Every
// other column, "bibtexkey" included, is an ordinary field whose cells are
// the normalized field values.
package csv

import (
	"bytes"

	"github.com/lehigh-university-libraries/bibfield/format"
)

// Format implements the CSV format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format     = (*Format)(nil)
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "csv"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Comma-separated values (CSV), one entry per row"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"csv", "tsv"}
}

// CanParse returns true if the input looks like CSV data.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 {
		return false
	}

	// CSV typically starts with text, not { or [ or @
	if peek[0] == '{' || peek[0] == '[' || peek[0] == '<' || peek[0] == '@' {
		return false
	}

	hasComma := bytes.Contains(peek, []byte(","))
	hasTab := bytes.Contains(peek, []byte("\t"))
	hasNewline := bytes.Contains(peek, []byte("\n"))

	// If it has delimiters and newlines, it's probably CSV
	return (hasComma || hasTab) && hasNewline
}

// delimiter picks tab when the header line has tabs but no commas.
func delimiter(data []byte) rune {
	header, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.ContainsRune(header, '\t') && !bytes.ContainsRune(header, ',') {
		return '\t'
	}
	return ','
}

func init() {
	format.Register(&Format{})
}
