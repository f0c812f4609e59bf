package codec

import (
	"regexp"
	"strings"
	"unicode"
)

// scanState names the region a capitals scan is in.
type scanState uint8

const (
	scanNormal scanState = iota
	scanEscaped
	scanInBrace
	scanInStringRef
)

func (s scanState) String() string {
	switch s {
	case scanNormal:
		return "normal"
	case scanEscaped:
		return "escaped"
	case scanInBrace:
		return "in-brace"
	case scanInStringRef:
		return "in-string-ref"
	default:
		return "unknown"
	}
}

// capScanner tracks brace depth, '#' string-reference regions, and a
// one-character backslash escape while WrapCapitals walks its input.
type capScanner struct {
	depth   int
	inRef   bool
	escaped bool
}

// state reports the dominant region. Brace depth wins over a string
// reference, which wins over a pending escape.
func (c *capScanner) state() scanState {
	switch {
	case c.depth != 0:
		return scanInBrace
	case c.inRef:
		return scanInStringRef
	case c.escaped:
		return scanEscaped
	default:
		return scanNormal
	}
}

// enter updates region tracking for r before r is considered for wrapping.
// The '#' toggle is honoured at any brace depth.
func (c *capScanner) enter(r rune) {
	switch {
	case r == '{':
		c.depth++
	case r == '}':
		c.depth--
	case r == RefMarker && !c.escaped:
		c.inRef = !c.inRef
	}
}

// leave updates the escape flag after r has been emitted. An escape covers
// exactly one character.
func (c *capScanner) leave(r rune) {
	c.escaped = r == '\\' && !c.escaped
}

// wraps reports whether a capital seen in state s may start a braced run.
func (s scanState) wraps() bool {
	return s == scanNormal || s == scanEscaped
}

func isCapital(r rune) bool {
	return unicode.IsLetter(r) && unicode.IsUpper(r)
}

// WrapCapitals wraps runs of uppercase letters in braces so BibTeX styles
// do not change their case: "IEEE Trans" becomes "{IEEE} Trans". A single
// capital that begins a lowercase word is an ordinary capitalized word and
// is left unwrapped. Text already inside braces and string references
// between '#' markers is left alone.
func WrapCapitals(s string) string {
	var (
		sc      capScanner
		bracing bool
		run     strings.Builder
		runLen  int
		sb      strings.Builder
	)
	sb.Grow(len(s) + 8)

	closeRun := func(next rune, hasNext bool) {
		if runLen == 1 && hasNext && unicode.IsLower(next) {
			sb.WriteString(run.String())
		} else {
			sb.WriteByte('{')
			sb.WriteString(run.String())
			sb.WriteByte('}')
		}
		run.Reset()
		runLen = 0
		bracing = false
	}

	for _, r := range s {
		sc.enter(r)

		if !bracing && sc.state().wraps() && isCapital(r) {
			bracing = true
		}
		if bracing && !isCapital(r) {
			closeRun(r, true)
		}

		if bracing {
			run.WriteRune(r)
			runLen++
		} else {
			sb.WriteRune(r)
		}
		sc.leave(r)
	}
	if bracing {
		closeRun(0, false)
	}
	return sb.String()
}

var bracedCapitals = regexp.MustCompile(`\{\p{Lu}+\}`)

// UnwrapCapitalsOnce removes one layer of braces around uppercase runs:
// "{AB}" becomes "AB", "{{T}}" becomes "{T}".
func UnwrapCapitalsOnce(s string) string {
	return bracedCapitals.ReplaceAllStringFunc(s, func(m string) string {
		return m[1 : len(m)-1]
	})
}

// UnwrapCapitals removes braces around uppercase runs at any nesting depth,
// repeating single passes until the string stops shrinking.
func UnwrapCapitals(s string) string {
	for {
		next := UnwrapCapitalsOnce(s)
		if len(next) >= len(s) {
			return next
		}
		s = next
	}
}
