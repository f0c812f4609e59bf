package codec

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)
	htmlCommentRegex = regexp.MustCompile(`<!--[\s\S]*?-->`)
	brTagRegex       = regexp.MustCompile(`<br\s*/?>`)
	blockEndRegex    = regexp.MustCompile(`</(?:p|div|li|h[1-6]|blockquote|tr)>`)
	multiSpaceRegex  = regexp.MustCompile(`[ \t]+`)
	blankLinesRegex  = regexp.MustCompile(`\n\s*\n`)
)

// QuoteForHTML renders every character of s as a numeric character
// reference, so "ab" becomes "&#97;&#98;".
func QuoteForHTML(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) * 5)
	for _, r := range s {
		sb.WriteString("&#")
		sb.WriteString(strconv.Itoa(int(r)))
		sb.WriteByte(';')
	}
	return sb.String()
}

// ToHTML renders a normalized field value for display: capital protection
// braces are removed, string references lose their '#' markers, markup
// characters are escaped and newlines become <br>.
func ToHTML(s string) string {
	s = UnwrapCapitals(s)
	s = stripRefMarkers(s)
	s = html.EscapeString(s)
	return strings.ReplaceAll(s, "\n", "<br>")
}

// stripRefMarkers drops unescaped '#' characters.
func stripRefMarkers(s string) string {
	if !strings.ContainsRune(s, RefMarker) {
		return s
	}
	var sb strings.Builder
	escaped := false
	for _, r := range s {
		if r == RefMarker && !escaped {
			continue
		}
		escaped = r == '\\' && !escaped
		sb.WriteRune(r)
	}
	return sb.String()
}

// StripHTML removes tags and comments from imported text and decodes
// entities. Block-level closing tags and <br> become line breaks.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	s = htmlCommentRegex.ReplaceAllString(s, "")
	s = blockEndRegex.ReplaceAllString(s, "\n")
	s = brTagRegex.ReplaceAllString(s, "\n")
	s = htmlTagRegex.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	s = multiSpaceRegex.ReplaceAllString(s, " ")
	s = blankLinesRegex.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}

// WrapHTML breaks s into lines of at most lineLength characters, breaking
// only at spaces, and joins them with "<br>\n". Existing newlines are kept
// as breaks. A lineLength below 1 returns s unchanged.
func WrapHTML(s string, lineLength int) string {
	if lineLength < 1 {
		return s
	}

	var out []string
	for _, para := range strings.Split(s, "\n") {
		var line strings.Builder
		width := 0
		for _, word := range strings.Fields(para) {
			n := len([]rune(word))
			if width > 0 && width+1+n > lineLength {
				out = append(out, line.String())
				line.Reset()
				width = 0
			}
			if width > 0 {
				line.WriteByte(' ')
				width++
			}
			line.WriteString(word)
			width += n
		}
		out = append(out, line.String())
	}
	return strings.Join(out, "<br>\n")
}
