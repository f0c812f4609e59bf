// Package entry holds the in-memory model of one bibliographic record.
//
// An Entry is not safe for concurrent mutation; callers sharing one across
// goroutines provide their own exclusion.
package entry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/bibfield/schema"
)

var (
	// ErrMissingID is returned when an entry would be left without an id.
	ErrMissingID = errors.New("every entry must have an id")

	// ErrMissingType is returned for a nil entry type. Use schema.Other.
	ErrMissingType = errors.New("every entry must have a type")

	// ErrReservedField is returned when "id" is used as a data field name.
	ErrReservedField = errors.New("field name is reserved")

	// ErrIDVetoed is returned when an IDVetoer rejects a new id.
	ErrIDVetoed = errors.New("id change vetoed")
)

// IDSource hands out fresh entry identifiers. *key.IDGenerator satisfies it.
type IDSource interface {
	Next() string
}

// IDVetoer is consulted before an entry changes its id, typically by the
// collection that indexes entries by id.
type IDVetoer interface {
	VetoID(e *Entry, newID string) error
}

// Lookup finds another entry by citation key. It is used to follow a
// crossref field one hop.
type Lookup func(citeKey string) (*Entry, bool)

// IndexByKey returns a Lookup over entries keyed by citation key. Entries
// without a key are not indexed; on duplicate keys the first wins.
func IndexByKey(entries []*Entry) Lookup {
	index := make(map[string]*Entry, len(entries))
	for _, e := range entries {
		k := e.CiteKey()
		if k == "" {
			continue
		}
		if _, dup := index[k]; !dup {
			index[k] = e
		}
	}
	return func(citeKey string) (*Entry, bool) {
		e, ok := index[citeKey]
		return e, ok
	}
}

// Entry is a typed bag of named string fields.
type Entry struct {
	id     string
	typ    *schema.EntryType
	fields map[string]string
	vetoer IDVetoer
}

// New creates an entry with the given id and type.
func New(id string, typ *schema.EntryType) (*Entry, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	if typ == nil {
		return nil, ErrMissingType
	}
	return &Entry{
		id:     id,
		typ:    typ,
		fields: make(map[string]string),
	}, nil
}

// NewWithGenerator creates an entry whose id is drawn from ids.
func NewWithGenerator(ids IDSource, typ *schema.EntryType) (*Entry, error) {
	return New(ids.Next(), typ)
}

// ID returns the entry identifier.
func (e *Entry) ID() string {
	return e.id
}

// SetVetoer installs the collaborator consulted by SetID. A nil vetoer
// accepts every change.
func (e *Entry) SetVetoer(v IDVetoer) {
	e.vetoer = v
}

// SetID changes the identifier.
func (e *Entry) SetID(id string) error {
	if id == "" {
		return ErrMissingID
	}
	if e.vetoer != nil {
		if err := e.vetoer.VetoID(e, id); err != nil {
			return fmt.Errorf("%w: %w", ErrIDVetoed, err)
		}
	}
	e.id = id
	return nil
}

// Type returns the entry type. It is never nil.
func (e *Entry) Type() *schema.EntryType {
	return e.typ
}

// SetType changes the entry type.
func (e *Entry) SetType(typ *schema.EntryType) error {
	if typ == nil {
		return ErrMissingType
	}
	e.typ = typ
	return nil
}

// UpdateType re-resolves the type by name against types. When the name is
// no longer registered the entry becomes schema.Typeless and false is
// returned.
func (e *Entry) UpdateType(types *schema.TypeRegistry) bool {
	if t, ok := types.Get(e.typ.Name); ok {
		e.typ = t
		return true
	}
	e.typ = schema.Typeless
	return false
}

// Field returns a field value and whether it is set.
func (e *Entry) Field(name string) (string, bool) {
	v, ok := e.fields[name]
	return v, ok
}

// HasField reports whether name is set.
func (e *Entry) HasField(name string) bool {
	_, ok := e.fields[name]
	return ok
}

// SetField stores value under name.
func (e *Entry) SetField(name, value string) error {
	if name == schema.IDField {
		return fmt.Errorf("%w: %q", ErrReservedField, name)
	}
	e.fields[name] = value
	return nil
}

// SetFields copies every pair in fields into the entry. Names are not
// checked and empty values are stored as they are, except that the
// reserved "id" name is skipped.
func (e *Entry) SetFields(fields map[string]string) {
	for k, v := range fields {
		if k == schema.IDField {
			continue
		}
		e.fields[k] = v
	}
}

// ClearField removes name.
func (e *Entry) ClearField(name string) error {
	if name == schema.IDField {
		return fmt.Errorf("%w: %q", ErrReservedField, name)
	}
	delete(e.fields, name)
	return nil
}

// AllFields returns the names of all set fields, sorted.
func (e *Entry) AllFields() []string {
	names := make([]string, 0, len(e.fields))
	for name := range e.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CiteKey returns the citation key, or "" when none is set.
func (e *Entry) CiteKey() string {
	return e.fields[schema.KeyField]
}

// RequiredFields returns the fields the entry type requires.
func (e *Entry) RequiredFields() []string {
	return e.typ.Required
}

// OptionalFields returns the fields the entry type accepts.
func (e *Entry) OptionalFields() []string {
	return e.typ.Optional
}

// DescribeRequiredFields lists the required fields for display.
func (e *Entry) DescribeRequiredFields() string {
	return e.typ.DescribeRequiredFields()
}

// ResolvedField returns name from this entry, or from the entry named by
// its crossref field when this one lacks it. The pseudo field "entrytype"
// resolves to the type name. lookup may be nil.
func (e *Entry) ResolvedField(name string, lookup Lookup) (string, bool) {
	if name == schema.EntryTypeField {
		return e.typ.Name, true
	}
	if v, ok := e.fields[name]; ok {
		return v, true
	}
	ref, ok := e.fields[schema.CrossrefField]
	if !ok || lookup == nil {
		return "", false
	}
	parent, ok := lookup(ref)
	if !ok || parent == nil {
		return "", false
	}
	v, ok := parent.fields[name]
	return v, ok
}

// HasAllRequiredFields reports whether every required field resolves,
// following crossref through lookup.
func (e *Entry) HasAllRequiredFields(lookup Lookup) bool {
	return e.typ.HasAllRequiredFields(func(name string) bool {
		_, ok := e.ResolvedField(name, lookup)
		return ok
	})
}

// MissingRequiredFields lists required fields that do not resolve.
func (e *Entry) MissingRequiredFields(lookup Lookup) []string {
	return e.typ.MissingRequired(func(name string) bool {
		_, ok := e.ResolvedField(name, lookup)
		return ok
	})
}

// Clone returns a copy with the same id and type and its own field map.
// The vetoer is not carried over.
func (e *Entry) Clone() *Entry {
	fields := make(map[string]string, len(e.fields))
	for k, v := range e.fields {
		fields[k] = v
	}
	return &Entry{
		id:     e.id,
		typ:    e.typ,
		fields: fields,
	}
}

// String returns "type:citekey".
func (e *Entry) String() string {
	return e.typ.Name + ":" + e.CiteKey()
}

// AuthorTitleYear renders `author: "title" (year)`, substituting "N/A" for
// missing parts. When maxChars > 0 and the text is longer, it is cut after
// maxChars+1 characters and "..." is appended.
func (e *Entry) AuthorTitleYear(maxChars int) string {
	get := func(name string) string {
		if v, ok := e.fields[name]; ok {
			return v
		}
		return "N/A"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: \"%s\" (%s)", get("author"), get("title"), get("year"))
	text := []rune(sb.String())
	if maxChars <= 0 || len(text) <= maxChars {
		return string(text)
	}
	return string(text[:maxChars+1]) + "..."
}
