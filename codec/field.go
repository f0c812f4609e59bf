// Package codec implements the transducers that move BibTeX field content
// between its on-disk grammar and the normalized form held in an entry.
//
// Every function here is total: malformed input (unbalanced braces, stray
// quotes, unknown tokens) produces a best-effort result, never an error.
// All functions are pure and safe for concurrent use.
package codec

import (
	"strconv"
	"strings"
)

// RefMarker delimits a string-reference (macro) name in normalized values:
// the BibTeX value `"a" # jan # "b"` becomes `a#jan#b`.
const RefMarker = '#'

// ParseField converts a field value from BibTeX notation, where literals
// sit in braces or quotes and macro references are concatenated with '#',
// into normalized notation where macro references are wrapped in a pair of
// '#' characters. Bare integers stay literal.
//
// Segments are split on '#' characters that are outside any brace group or
// quoted literal and not preceded by a backslash.
func ParseField(content string) string {
	if content == "" {
		return content
	}

	var sb strings.Builder
	for _, segment := range splitConcatenation(content) {
		s := strings.TrimFunc(segment, isSpace)
		if s == "" {
			continue
		}
		if s[0] == '{' || s[0] == '"' {
			sb.WriteString(Shave(segment))
			continue
		}
		// Bare token: a number, or else a string reference.
		s = Shave(s)
		if isInteger(s) {
			sb.WriteString(s)
			continue
		}
		sb.WriteByte(RefMarker)
		sb.WriteString(s)
		sb.WriteByte(RefMarker)
	}
	return sb.String()
}

// splitConcatenation splits on top-level, unescaped '#'.
func splitConcatenation(s string) []string {
	var (
		parts   []string
		depth   int
		quoted  bool
		escaped bool
		start   int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
			continue
		case c == '\\':
			escaped = true
			continue
		case c == '{':
			depth++
		case c == '}':
			if depth > 0 {
				depth--
			}
		case c == '"' && depth == 0:
			quoted = !quoted
		case c == RefMarker && depth == 0 && !quoted:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// isInteger mirrors a 32-bit base-10 parse: optional sign, digits only.
func isInteger(s string) bool {
	_, err := strconv.ParseInt(s, 10, 32)
	return err == nil
}

// Shave trims surrounding whitespace and then removes at most one matching
// pair of braces or double quotes enclosing the whole remaining value.
func Shave(s string) string {
	s = strings.TrimFunc(s, isSpace)
	if len(s) > 1 {
		first, last := s[0], s[len(s)-1]
		if (first == '{' && last == '}') || (first == '"' && last == '"') {
			s = s[1 : len(s)-1]
		}
	}
	return s
}

// ShavePtr is Shave for optional values: nil stays nil.
func ShavePtr(s *string) *string {
	if s == nil {
		return nil
	}
	shaved := Shave(*s)
	return &shaved
}

// isSpace reports ASCII whitespace only; the grammar does not recognise
// Unicode spacing as a separator.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// FormatField converts a normalized value back to BibTeX notation, the
// inverse of ParseField: literal runs are braced, string references are
// written bare and the parts are joined with " # ". A '#' pair counts as a
// reference only when the text between the markers is a plausible macro
// name (non-empty, no whitespace, braces, quotes, '=' or ','); any other
// '#' stays literal. The empty value becomes "{}".
func FormatField(value string) string {
	var (
		parts []string
		lit   strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, "{"+lit.String()+"}")
			lit.Reset()
		}
	}

	for i := 0; i < len(value); i++ {
		c := value[i]
		if c == '\\' && i+1 < len(value) {
			lit.WriteByte(c)
			lit.WriteByte(value[i+1])
			i++
			continue
		}
		if c == RefMarker {
			if end := strings.IndexByte(value[i+1:], RefMarker); end >= 0 {
				name := value[i+1 : i+1+end]
				if isMacroName(name) {
					flush()
					parts = append(parts, name)
					i += end + 1
					continue
				}
			}
		}
		lit.WriteByte(c)
	}
	flush()

	if len(parts) == 0 {
		return "{}"
	}
	return strings.Join(parts, " # ")
}

func isMacroName(s string) bool {
	if s == "" {
		return false
	}
	return !strings.ContainsFunc(s, func(r rune) bool {
		return isSpace(r) || strings.ContainsRune(`{}"=,\`, r)
	})
}
