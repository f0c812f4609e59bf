package key

import (
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/bibfield/codec"
)

var (
	// Suffixes that appear after a name
	nameSuffixes = []string{"Jr.", "Jr", "Sr.", "Sr", "III", "II", "IV", "PhD", "Ph.D.", "MD", "M.D.", "Esq.", "Esq"}

	// Name particles that belong to the family name
	nameParticles = []string{"van", "von", "de", "del", "della", "di", "da", "le", "la", "du", "des", "den", "der", "het", "ter", "ten", "op", "d'", "al-", "el-", "ibn"}

	// Pattern for "Last, First Middle" format
	invertedNameRegex = regexp.MustCompile(`^([^,]+),\s*(.*)$`)
)

// firstFamilyName extracts the family name of the first person in a
// BibTeX name list. Both "Last, First and ..." and "First Last and ..."
// are understood; in the latter, particles such as "van" are kept with the
// family name and a trailing suffix such as "Jr." is dropped.
func firstFamilyName(names string) string {
	names = codec.UnwrapCapitals(codec.Shave(names))
	first, _, _ := strings.Cut(names, " and ")
	first = strings.NewReplacer("{", "", "}", "").Replace(strings.TrimSpace(first))

	if m := invertedNameRegex.FindStringSubmatch(first); m != nil {
		return strings.TrimSpace(m[1])
	}

	parts := strings.Fields(trimSuffix(first))
	if len(parts) == 0 {
		return ""
	}

	start := len(parts) - 1
	for start > 1 && isParticle(parts[start-1]) {
		start--
	}
	return strings.Join(parts[start:], " ")
}

func trimSuffix(name string) string {
	for _, suffix := range nameSuffixes {
		if rest, ok := strings.CutSuffix(name, " "+suffix); ok {
			return rest
		}
	}
	return name
}

func isParticle(word string) bool {
	lower := strings.ToLower(word)
	for _, p := range nameParticles {
		if lower == p {
			return true
		}
	}
	return false
}
