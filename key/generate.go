package key

import (
	"strings"

	"github.com/lehigh-university-libraries/bibfield/codec"
	"github.com/lehigh-university-libraries/bibfield/entry"
	"github.com/lehigh-university-libraries/bibfield/value"
)

// Generate builds the default [auth][year] citation key for e: the first
// author's family name (or first editor's) followed by the four-digit
// year, passed through s.CheckLegalKey. Two-digit years are expanded
// against referenceYear. Missing parts fall back to "unknown" and "nd". A
// crossref parent is consulted through lookup, which may be nil.
func Generate(e *entry.Entry, s *Sanitizer, strict bool, lookup entry.Lookup, referenceYear int) string {
	if s == nil {
		s = defaultSanitizer
	}

	author := ""
	for _, field := range []string{"author", "editor"} {
		if v, ok := e.ResolvedField(field, lookup); ok {
			author = firstFamilyName(v)
			if author != "" {
				break
			}
		}
	}
	if author == "" {
		author = "unknown"
	}

	year := ""
	if v, ok := e.ResolvedField("year", lookup); ok {
		year = value.ToFourDigitYear(strings.TrimSpace(codec.Shave(v)), referenceYear)
	}
	if year == "" {
		year = "nd"
	}

	return s.CheckLegalKey(author+year, strict)
}
