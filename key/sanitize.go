// Package key cleans and generates BibTeX citation keys and hands out
// neutral entry identifiers.
package key

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Replacement maps one non-ASCII character sequence to its ASCII spelling.
type Replacement struct {
	From string `yaml:"from" toml:"from"`
	To   string `yaml:"to" toml:"to"`
}

// defaultTable spells out the letters whose plain accent-stripped form
// would lose information (umlauts, ligatures, stroked letters). Anything
// else is handled by decomposition.
var defaultTable = []Replacement{
	{"ä", "ae"}, {"ö", "oe"}, {"ü", "ue"},
	{"Ä", "Ae"}, {"Ö", "Oe"}, {"Ü", "Ue"},
	{"ß", "ss"},
	{"æ", "ae"}, {"Æ", "AE"},
	{"œ", "oe"}, {"Œ", "OE"},
	{"ø", "o"}, {"Ø", "O"},
	{"å", "aa"}, {"Å", "AA"},
	{"ð", "d"}, {"Ð", "D"},
	{"þ", "th"}, {"Þ", "TH"},
	{"ł", "l"}, {"Ł", "L"},
	{"đ", "d"}, {"Đ", "D"},
	{"ı", "i"},
}

// Sanitizer turns arbitrary text into a legal citation key.
type Sanitizer struct {
	table    []Replacement
	replacer *strings.Replacer
}

var defaultSanitizer = NewSanitizer(defaultTable)

// DefaultSanitizer returns the sanitizer built on the standard table.
func DefaultSanitizer() *Sanitizer {
	return defaultSanitizer
}

// NewSanitizer creates a sanitizer that applies table in order. A nil
// table disables substitution; decomposition still applies.
func NewSanitizer(table []Replacement) *Sanitizer {
	pairs := make([]string, 0, 2*len(table))
	for _, r := range table {
		if r.From == "" {
			continue
		}
		pairs = append(pairs, r.From, r.To)
	}
	return &Sanitizer{
		table:    append([]Replacement(nil), table...),
		replacer: strings.NewReplacer(pairs...),
	}
}

// Table returns a copy of the replacement table.
func (s *Sanitizer) Table() []Replacement {
	return append([]Replacement(nil), s.table...)
}

// ReplaceSpecialCharacters substitutes table entries and then reduces any
// remaining accented letter to its base letter.
func (s *Sanitizer) ReplaceSpecialCharacters(in string) string {
	out := s.replacer.Replace(in)
	if isASCII(out) {
		return out
	}
	return stripMarks(out)
}

// CheckLegalKey removes characters that would break BibTeX parsing. The
// lenient form drops whitespace and { } \ " , only. The strict form also
// drops # ~ ^ ' and replaces special characters.
func (s *Sanitizer) CheckLegalKey(key string, strict bool) string {
	var sb strings.Builder
	sb.Grow(len(key))
	for _, r := range key {
		if dropped(r, strict) {
			continue
		}
		sb.WriteRune(r)
	}
	if !strict {
		return sb.String()
	}
	return s.ReplaceSpecialCharacters(sb.String())
}

// CheckLegalKey runs the default sanitizer.
func CheckLegalKey(key string, strict bool) string {
	return defaultSanitizer.CheckLegalKey(key, strict)
}

func dropped(r rune, strict bool) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '{', '}', '\\', '"', ',':
		return true
	case '#', '~', '^', '\'':
		return strict
	}
	return false
}

func stripMarks(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		sb.WriteRune(r)
	}
	return norm.NFC.String(sb.String())
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}
