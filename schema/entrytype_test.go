package schema

import (
	"slices"
	"testing"
)

func present(fields ...string) func(string) bool {
	return func(name string) bool {
		return slices.Contains(fields, name)
	}
}

func TestStandardTypes(t *testing.T) {
	types := StandardTypes()

	for _, name := range []string{"article", "book", "inproceedings", "misc", "other"} {
		if _, ok := types.Get(name); !ok {
			t.Errorf("missing entry type %q", name)
		}
	}

	article, _ := types.Get("ARTICLE")
	if article.Name != "article" {
		t.Errorf("Name = %q, want %q", article.Name, "article")
	}
}

func TestMissingRequired(t *testing.T) {
	book, ok := StandardTypes().Get("book")
	if !ok {
		t.Fatal("book type missing")
	}

	tests := []struct {
		name    string
		fields  []string
		missing []string
	}{
		{
			name:    "editor satisfies author/editor",
			fields:  []string{"title", "publisher", "year", KeyField, "editor"},
			missing: nil,
		},
		{
			name:    "neither author nor editor",
			fields:  []string{"title", "publisher", "year", KeyField},
			missing: []string{"author/editor"},
		},
		{
			name:    "empty entry",
			fields:  nil,
			missing: []string{"title", "publisher", "year", KeyField, "author/editor"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := book.MissingRequired(present(tt.fields...))
			if !slices.Equal(got, tt.missing) {
				t.Errorf("MissingRequired = %v, want %v", got, tt.missing)
			}
			if book.HasAllRequiredFields(present(tt.fields...)) != (len(tt.missing) == 0) {
				t.Errorf("HasAllRequiredFields disagrees with MissingRequired")
			}
		})
	}
}

func TestOtherHasNoRequirements(t *testing.T) {
	if !Other.HasAllRequiredFields(present()) {
		t.Errorf("Other should accept an empty entry")
	}
}

func TestTypeRegistry_LoadFromYAML(t *testing.T) {
	r := NewTypeRegistry()
	err := r.LoadFromYAML([]byte(`
types:
  - name: Online
    required: [url, title]
`))
	if err != nil {
		t.Fatalf("LoadFromYAML failed: %v", err)
	}
	online, ok := r.Get("online")
	if !ok {
		t.Fatal("online not registered")
	}
	if got := online.DescribeRequiredFields(); got != "url, title" {
		t.Errorf("DescribeRequiredFields = %q", got)
	}
	if got := r.Names(); !slices.Equal(got, []string{"online"}) {
		t.Errorf("Names = %v", got)
	}
}
