package schema

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestStandardRegistry_Flags(t *testing.T) {
	r := NewStandardRegistry()

	tests := []struct {
		name        string
		field       string
		standard    bool
		numeric     bool
		writeable   bool
		displayable bool
		extras      string
	}{
		{name: "author", field: "author", standard: true, writeable: true, displayable: true},
		{name: "case insensitive", field: "AUTHOR", standard: true, writeable: true, displayable: true},
		{name: "year is numeric", field: "year", standard: true, numeric: true, writeable: true, displayable: true},
		{name: "journal extras", field: "journal", standard: true, writeable: true, displayable: true, extras: ExtrasJournalNames},
		{name: "url is not standard", field: "url", writeable: true, displayable: true, extras: ExtrasExternal},
		{name: "search is hidden", field: SearchField},
		{name: "marked is written", field: MarkedField, writeable: true},
		{name: "unknown field", field: "x-custom", writeable: true, displayable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.IsStandard(tt.field); got != tt.standard {
				t.Errorf("IsStandard(%q) = %v, want %v", tt.field, got, tt.standard)
			}
			if got := r.IsNumeric(tt.field); got != tt.numeric {
				t.Errorf("IsNumeric(%q) = %v, want %v", tt.field, got, tt.numeric)
			}
			if got := r.IsWriteable(tt.field); got != tt.writeable {
				t.Errorf("IsWriteable(%q) = %v, want %v", tt.field, got, tt.writeable)
			}
			if got := r.IsDisplayable(tt.field); got != tt.displayable {
				t.Errorf("IsDisplayable(%q) = %v, want %v", tt.field, got, tt.displayable)
			}
			if got := r.Extras(tt.field); got != tt.extras {
				t.Errorf("Extras(%q) = %q, want %q", tt.field, got, tt.extras)
			}
		})
	}
}

func TestPublicFields_ExcludesPrivate(t *testing.T) {
	public := NewStandardRegistry().PublicFields()

	for _, private := range []string{KeyField, OwnerField, TimestampField, SearchField, "date"} {
		if slices.Contains(public, private) {
			t.Errorf("PublicFields contains private field %q", private)
		}
	}
	for _, want := range []string{"author", "title", "url", "pmid"} {
		if !slices.Contains(public, want) {
			t.Errorf("PublicFields missing %q", want)
		}
	}
	if !slices.IsSorted(public) {
		t.Errorf("PublicFields not sorted: %v", public)
	}
}

func TestSetNumericFields(t *testing.T) {
	r := NewStandardRegistry()
	r.SetNumericFields([]string{"mittnum", "Author", " "})

	if !r.IsNumeric("author") {
		t.Errorf("author should become numeric")
	}
	d, ok := r.Get("mittnum")
	if !ok {
		t.Fatalf("mittnum was not registered")
	}
	if !d.Numeric || d.IsStandard() {
		t.Errorf("mittnum = %+v, want numeric non-standard", d)
	}
	if !r.IsNumeric("year") {
		t.Errorf("year should stay numeric")
	}
	if StandardFields().IsNumeric("mittnum") {
		t.Errorf("shared standard registry was mutated")
	}
}

func TestRegistry_CloneIsIndependent(t *testing.T) {
	r := NewStandardRegistry()
	c := r.Clone()
	c.SetNumericFields([]string{"title"})

	if r.IsNumeric("title") {
		t.Errorf("clone mutation leaked into original")
	}
	if !c.IsNumeric("title") {
		t.Errorf("clone did not record numeric title")
	}
}

func TestLoadFromYAML(t *testing.T) {
	r := NewRegistry()
	data := []byte(`
fields:
  - name: Citations
    display_name: Popularity
    numeric: true
  - name: reviewer
    private: true
    writeable: false
`)
	if err := r.LoadFromYAML(data); err != nil {
		t.Fatalf("LoadFromYAML failed: %v", err)
	}

	if got := r.DisplayName("citations"); got != "Popularity" {
		t.Errorf("DisplayName = %q, want %q", got, "Popularity")
	}
	if !r.IsNumeric("citations") {
		t.Errorf("citations should be numeric")
	}
	if r.IsWriteable("reviewer") {
		t.Errorf("reviewer should not be writeable")
	}
	if !r.IsDisplayable("reviewer") {
		t.Errorf("reviewer should default to displayable")
	}
	if got := r.PublicFields(); !slices.Equal(got, []string{"citations"}) {
		t.Errorf("PublicFields = %v, want [citations]", got)
	}
}

func TestLoadFromYAML_MissingName(t *testing.T) {
	if err := NewRegistry().LoadFromYAML([]byte("fields:\n  - numeric: true\n")); err == nil {
		t.Fatal("expected error for nameless field")
	}
}

func TestLoadFromPath_Directory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("fields:\n  - name: alpha\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	if err := r.LoadFromPath(dir); err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if _, ok := r.Get("alpha"); !ok {
		t.Errorf("alpha not loaded")
	}
}

func TestMarshalYAML_RoundTrip(t *testing.T) {
	src := NewStandardRegistry()
	cfg, err := src.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML failed: %v", err)
	}
	fc := cfg.(FieldConfig)

	dst := NewRegistry()
	for _, c := range fc.Fields {
		dst.Register(c.descriptor())
	}
	for _, name := range src.Names() {
		want, _ := src.Get(name)
		got, ok := dst.Get(name)
		if !ok || got != want {
			t.Errorf("%s: got %+v, want %+v", name, got, want)
		}
	}
}
