package codec

import (
	"slices"
	"strings"
)

// SortWordsAndRemoveDuplicates tidies a ", "-separated keyword list:
// entries are trimmed, sorted and deduplicated. A result shorter than three
// characters is treated as noise and returned empty.
func SortWordsAndRemoveDuplicates(text string) string {
	var words []string
	for _, w := range strings.Split(text, ", ") {
		w = strings.TrimSpace(w)
		if w != "" {
			words = append(words, w)
		}
	}
	slices.Sort(words)
	words = slices.Compact(words)

	out := strings.Join(words, ", ")
	if len(out) <= 2 {
		return ""
	}
	return out
}
