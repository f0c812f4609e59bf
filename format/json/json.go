// Package json provides a format plugin that exchanges entries as JSON.
//
// The document is an object with an "entries" array and an optional
// "strings" object of macro definitions:
//
//	{
//	  "strings": {"ieee": "IEEE Transactions"},
//	  "entries": [
//	    {"id": "00000001", "type": "article", "key": "knuth84",
//	     "date": "1984-05", "fields": {"author": "Knuth", "month": "#may#"}}
//	  ]
//	}
//
// Field values are written in normalized form. "date" is derived from the
// year and month fields on write and ignored on read. A bare array of
// entries is accepted on read.
package json

import (
	"bytes"

	"github.com/lehigh-university-libraries/bibfield/format"
)

// Document keys.
const (
	keyEntries = "entries"
	keyStrings = "strings"
	keyID      = "id"
	keyType    = "type"
	keyKey     = "key"
	keyDate    = "date"
	keyFields  = "fields"
)

// Format implements the JSON format.
type Format struct{}

var (
	_ format.Format     = (*Format)(nil)
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "json"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "JSON entry list"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"json"}
}

// CanParse returns true if the input looks like a JSON object or array.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 {
		return false
	}
	return peek[0] == '{' || peek[0] == '['
}

func init() {
	format.Register(&Format{})
}
