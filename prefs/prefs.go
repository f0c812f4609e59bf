// Package prefs holds the user preferences that steer field encoding:
// which fields get capital protection, which are never line-wrapped, which
// sort numerically, and how citation keys are cleaned.
package prefs

import (
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/bibfield/key"
	"github.com/lehigh-university-libraries/bibfield/schema"
	"github.com/lehigh-university-libraries/bibfield/value"
)

// Preference keys.
const (
	EnforceLegalBibtexKey   = "enforceLegalBibtexKey"
	PutBracesAroundCapitals = "putBracesAroundCapitals"
	NonWrappableFields      = "nonWrappableFields"
	NumericFields           = "numericFields"
	DefaultLabelPattern     = "defaultLabelPattern"
	ColumnNames             = "columnNames"
	ColumnWidths            = "columnWidths"
	AutoCompleteFields      = "autoCompleteFields"
	GeneralFields           = "generalFields"
	TimeStampFormat         = "timeStampFormat"
	GroupKeywordSeparator   = "groupKeywordSeparator"
	DoNotResolveStringsFor  = "doNotResolveStringsFor"
	LineLength              = "lineLength"
	ReferenceYear           = "referenceYear"
)

// defaults mirrors the values a fresh installation starts with. Lists are
// stored in the ';' list format.
var defaults = map[string]string{
	EnforceLegalBibtexKey:   "true",
	PutBracesAroundCapitals: "",
	NonWrappableFields:      "pdf;ps;url;doi;file",
	NumericFields:           "mittnum;author",
	DefaultLabelPattern:     "[auth][year]",
	ColumnNames:             "entrytype;author;title;year;journal;owner;timestamp;bibtexkey",
	ColumnWidths:            "75;280;400;60;100;100;100;100",
	AutoCompleteFields:      "author;editor;title;journal;publisher;keywords;crossref",
	GeneralFields:           "crossref;keywords;file;doi;url;urldate;pdf;comment;owner",
	TimeStampFormat:         "yyyy.MM.dd",
	GroupKeywordSeparator:   ", ",
	DoNotResolveStringsFor:  "url",
	LineLength:              "65",
	ReferenceYear:           "0",
}

// Defaults returns a copy of the default table.
func Defaults() map[string]string {
	return maps.Clone(defaults)
}

// Preferences is a string-valued key/value store layered over the defaults.
// It is safe for concurrent use.
type Preferences struct {
	mu           sync.RWMutex
	values       map[string]string
	replacements []key.Replacement
}

// New returns preferences holding only the defaults.
func New() *Preferences {
	return &Preferences{values: make(map[string]string)}
}

// Get returns the value for k, falling back to the default. Unknown keys
// return "".
func (p *Preferences) Get(k string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if v, ok := p.values[k]; ok {
		return v
	}
	return defaults[k]
}

// Put stores v under k.
func (p *Preferences) Put(k, v string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[k] = v
}

// Remove drops a stored value so k reads its default again.
func (p *Preferences) Remove(k string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.values, k)
}

// Keys returns every key that has a stored or default value, sorted.
func (p *Preferences) Keys() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	set := maps.Clone(defaults)
	maps.Copy(set, p.values)
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// GetBool parses k as a boolean. Unparseable values fall back to the
// default.
func (p *Preferences) GetBool(k string) bool {
	v := p.Get(k)
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Debug("unparseable boolean preference", "key", k, "value", v)
		b, _ = strconv.ParseBool(defaults[k])
	}
	return b
}

// PutBool stores a boolean.
func (p *Preferences) PutBool(k string, b bool) {
	p.Put(k, strconv.FormatBool(b))
}

// GetInt parses k as an integer. Unparseable values fall back to the
// default.
func (p *Preferences) GetInt(k string) int {
	v := p.Get(k)
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		slog.Debug("unparseable integer preference", "key", k, "value", v)
		n, _ = strconv.Atoi(defaults[k])
	}
	return n
}

// PutInt stores an integer.
func (p *Preferences) PutInt(k string, n int) {
	p.Put(k, strconv.Itoa(n))
}

// GetStringArray decodes k as a ';' list.
func (p *Preferences) GetStringArray(k string) []string {
	return value.DecodeList(p.Get(k))
}

// PutStringArray stores list in the ';' list format.
func (p *Preferences) PutStringArray(k string, list []string) {
	p.Put(k, value.EncodeList(list))
}

func (p *Preferences) listContains(k, field string) bool {
	field = strings.ToLower(field)
	for _, f := range p.GetStringArray(k) {
		if strings.ToLower(strings.TrimSpace(f)) == field {
			return true
		}
	}
	return false
}

// PutBracesAroundCapitalsIn reports whether field values get their
// capitals wrapped in braces on write.
func (p *Preferences) PutBracesAroundCapitalsIn(field string) bool {
	return p.listContains(PutBracesAroundCapitals, field)
}

// IsNonWrappableField reports whether field values must never be
// line-wrapped on write.
func (p *Preferences) IsNonWrappableField(field string) bool {
	return p.listContains(NonWrappableFields, field)
}

// ResolvesStrings reports whether @string macros are expanded in field.
func (p *Preferences) ResolvesStrings(field string) bool {
	return !p.listContains(DoNotResolveStringsFor, field)
}

// ApplyNumericFields marks the numericFields list on r.
func (p *Preferences) ApplyNumericFields(r *schema.Registry) {
	r.SetNumericFields(p.GetStringArray(NumericFields))
}

// SetReplacements installs a custom key sanitizer table.
func (p *Preferences) SetReplacements(table []key.Replacement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replacements = slices.Clone(table)
}

// Sanitizer returns the key sanitizer for these preferences: the custom
// table when one was loaded, the built-in one otherwise.
func (p *Preferences) Sanitizer() *key.Sanitizer {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.replacements) == 0 {
		return key.DefaultSanitizer()
	}
	return key.NewSanitizer(p.replacements)
}

// CheckLegalKey cleans k, strictly when enforceLegalBibtexKey is set.
func (p *Preferences) CheckLegalKey(k string) string {
	return p.Sanitizer().CheckLegalKey(k, p.GetBool(EnforceLegalBibtexKey))
}

// ReferenceYear returns the year two-digit years are expanded around. The
// stored value 0 means the current year.
func (p *Preferences) ReferenceYear() int {
	if y := p.GetInt(ReferenceYear); y != 0 {
		return y
	}
	return time.Now().Year()
}
