package codec

import (
	"net/url"
	"regexp"
	"strings"
)

// DOIResolver is prepended to bare DOIs by SanitizeURL.
const DOIResolver = "https://doi.org/"

var doiScheme = regexp.MustCompile(`^doi:/*`)

// SanitizeURL turns a url/doi field value into a link: a \url{...} wrapper
// is removed, "doi:" prefixes and bare "10." DOIs are pointed at
// DOIResolver, the value is percent-decoded and characters that may not
// appear in a URI are escaped again.
func SanitizeURL(link string) string {
	link = strings.TrimSpace(link)
	if strings.HasPrefix(link, `\url{`) && strings.HasSuffix(link, "}") {
		link = link[len(`\url{`) : len(link)-1]
	}

	if doiScheme.MatchString(link) {
		link = DOIResolver + doiScheme.ReplaceAllString(link, "")
	}
	if strings.HasPrefix(link, "10.") {
		link = DOIResolver + link
	}

	link = strings.ReplaceAll(link, "+", "%2B")
	if decoded, err := url.QueryUnescape(link); err == nil {
		link = decoded
	}
	return escapeURI(link)
}

// escapeURI percent-encodes every byte that is not a legal URI character.
func escapeURI(s string) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIChar(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0x0f])
	}
	return sb.String()
}

func isURIChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'();/?:@&=+$,[]", c) >= 0
}
