package schema

import "sync"

// Field names with special meaning to the codec.
const (
	KeyField       = "bibtexkey"
	IDField        = "id"
	CrossrefField  = "crossref"
	OwnerField     = "owner"
	TimestampField = "timestamp"
	EntryTypeField = "entrytype"
	FileField      = "file"
	SearchField    = "__search"
	GroupSearch    = "__groupsearch"
	MarkedField    = "__markedentry"
)

// NewStandardRegistry builds a fresh registry holding the standard field
// table. Callers that mutate the registry (SetNumericFields) should start
// from this rather than from the shared StandardFields() handle.
func NewStandardRegistry() *Registry {
	r := NewRegistry()

	// Fields BibTeX itself treats.
	for _, name := range []string{
		"address", "annote", "author", "booktitle", "chapter", CrossrefField,
		"edition", "editor", "howpublished", "institution", "key", "month",
		"note", "organization", "pages", "publisher", "school", "series",
		"title", "type", "language",
	} {
		r.Register(NewDescriptor(name, true))
	}
	r.Register(NewDescriptor("journal", true).WithExtras(ExtrasJournalNames))
	r.Register(NewDescriptor("number", true).WithNumeric(true))
	r.Register(NewDescriptor("volume", true).WithNumeric(true))
	r.Register(NewDescriptor("year", true).WithNumeric(true))

	// Semi-standard.
	r.Register(NewDescriptor(KeyField, true).MarkPrivate())
	r.Register(NewDescriptor("doi", true).WithExtras(ExtrasExternal))
	r.Register(NewDescriptor("eid", true))
	r.Register(NewDescriptor("date", true).MarkPrivate())
	r.Register(NewDescriptor("pmid", false).WithNumeric(true))

	// Additional.
	r.Register(NewDescriptor("location", false))
	r.Register(NewDescriptor("abstract", false))
	r.Register(NewDescriptor("url", false).WithExtras(ExtrasExternal))
	r.Register(NewDescriptor("pdf", false).WithExtras(ExtrasBrowseDoc))
	r.Register(NewDescriptor("ps", false).WithExtras(ExtrasBrowseDocZip))
	r.Register(NewDescriptor("comment", false))
	r.Register(NewDescriptor("keywords", false))
	r.Register(NewDescriptor(FileField, false))
	r.Register(NewDescriptor("search", false))

	// Internal.
	r.Register(NewDescriptor(OwnerField, false).WithExtras(ExtrasSetOwner).MarkPrivate())
	r.Register(NewDescriptor(TimestampField, false).WithExtras(ExtrasDatePicker).MarkPrivate())
	r.Register(NewDescriptor(EntryTypeField, false).MarkPrivate())
	for _, name := range []string{SearchField, GroupSearch} {
		r.Register(NewDescriptor(name, false).
			MarkPrivate().
			SetFlag(Writeable, false).
			SetFlag(Displayable, false))
	}
	// The marked flag is hidden but must survive a save.
	r.Register(NewDescriptor(MarkedField, false).
		MarkPrivate().
		SetFlag(Displayable, false))

	return r
}

var (
	standardOnce sync.Once
	standard     *Registry
)

// StandardFields returns a lazily built, shared registry with the standard table.
// Treat it as read-only; use NewStandardRegistry or Clone to customize.
func StandardFields() *Registry {
	standardOnce.Do(func() {
		standard = NewStandardRegistry()
	})
	return standard
}
