package codec

import (
	"regexp"
	"strings"
)

// quoteState is the unquote scanner state.
type quoteState uint8

const (
	quoteNormal quoteState = iota
	quoteEscaped
)

// Quote prefixes every occurrence of quoteChar and of any rune in specials
// with quoteChar. When wrapWidth > 0 a quoteChar+newline pair is inserted
// once the running line length reaches wrapWidth, or one rune earlier when
// the next rune is special, so an escape pair is never split. Unquote
// removes those line breaks again.
func Quote(s, specials string, quoteChar rune, wrapWidth int) string {
	var sb strings.Builder
	sb.Grow(len(s))

	lineLength := 0
	for _, c := range s {
		special := c == quoteChar || strings.ContainsRune(specials, c)
		if wrapWidth > 0 {
			lineLength++
			if lineLength >= wrapWidth || (special && lineLength >= wrapWidth-1) {
				sb.WriteRune(quoteChar)
				sb.WriteByte('\n')
				lineLength = 0
			}
		}
		if special {
			sb.WriteRune(quoteChar)
			lineLength++
		}
		sb.WriteRune(c)
	}
	return sb.String()
}

// Unquote reverses Quote. A rune following quoteChar is emitted literally,
// except a newline, which only ever marks a wrap point.
func Unquote(s string, quoteChar rune) string {
	var sb strings.Builder
	sb.Grow(len(s))

	state := quoteNormal
	for _, c := range s {
		switch state {
		case quoteEscaped:
			if c != '\n' {
				sb.WriteRune(c)
			}
			state = quoteNormal
		default:
			if c == quoteChar {
				state = quoteEscaped
				continue
			}
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// QuoteMeta escapes every regular-expression metacharacter in s so the
// result matches s literally.
func QuoteMeta(s string) string {
	return regexp.QuoteMeta(s)
}
