package format_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/bibfield/entry"
	"github.com/lehigh-university-libraries/bibfield/format"
	_ "github.com/lehigh-university-libraries/bibfield/format/bibtex"
	_ "github.com/lehigh-university-libraries/bibfield/format/csv"
	_ "github.com/lehigh-university-libraries/bibfield/format/json"
)

const library = `@string{acm = "Communications of the ACM"}

@article{dijkstra68,
  author = {Edsger W. Dijkstra},
  title = {Go To Statement Considered Harmful},
  journal = acm,
  year = 1968,
  month = mar,
  pages = {147--148}
}

@book{knuth84,
  author = {Donald E. Knuth},
  title = {The {TeX}book},
  publisher = {Addison-Wesley},
  year = 1984
}
`

func parse(t *testing.T, name, input string, opts *format.ParseOptions) []*entry.Entry {
	t.Helper()
	p, err := format.GetParser(name)
	if err != nil {
		t.Fatalf("GetParser(%q): %v", name, err)
	}
	entries, err := p.Parse(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("%s parse failed: %v", name, err)
	}
	return entries
}

func serialize(t *testing.T, name string, entries []*entry.Entry, opts *format.SerializeOptions) string {
	t.Helper()
	s, err := format.GetSerializer(name)
	if err != nil {
		t.Fatalf("GetSerializer(%q): %v", name, err)
	}
	var buf bytes.Buffer
	if err := s.Serialize(&buf, entries, opts); err != nil {
		t.Fatalf("%s serialize failed: %v", name, err)
	}
	return buf.String()
}

func assertSameEntries(t *testing.T, want, got []*entry.Entry) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("entry count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Type().Name != want[i].Type().Name {
			t.Errorf("%s: type = %q", want[i], got[i].Type().Name)
		}
		for _, name := range want[i].AllFields() {
			w, _ := want[i].Field(name)
			g, _ := got[i].Field(name)
			if g != w {
				t.Errorf("%s.%s = %q, want %q", want[i], name, g, w)
			}
		}
	}
}

// TestBibTeXThroughJSON checks that entries and @string macros survive a
// BibTeX -> JSON -> BibTeX cycle unchanged.
func TestBibTeXThroughJSON(t *testing.T) {
	popts := format.NewParseOptions()
	popts.Strings = map[string]string{}
	original := parse(t, "bibtex", library, popts)

	sopts := format.NewSerializeOptions()
	sopts.Strings = popts.Strings
	sopts.Pretty = true
	jsonText := serialize(t, "json", original, sopts)

	jopts := format.NewParseOptions()
	jopts.Strings = map[string]string{}
	fromJSON := parse(t, "json", jsonText, jopts)
	assertSameEntries(t, original, fromJSON)

	bopts := format.NewSerializeOptions()
	bopts.Strings = jopts.Strings
	bibText := serialize(t, "bibtex", fromJSON, bopts)

	again := parse(t, "bibtex", bibText, nil)
	assertSameEntries(t, original, again)

	if !strings.Contains(bibText, "journal = acm,") {
		t.Errorf("macro reference not written bare:\n%s", bibText)
	}
	if !strings.Contains(bibText, "@string{acm = {Communications of the ACM}}") {
		t.Errorf("@string definition lost:\n%s", bibText)
	}
}

// TestBibTeXToCSV checks the tabular export of parsed entries.
func TestBibTeXToCSV(t *testing.T) {
	original := parse(t, "bibtex", library, nil)

	opts := format.NewSerializeOptions()
	opts.Columns = []string{"entrytype", "bibtexkey", "title", "year", "month", "pages"}
	text := serialize(t, "csv", original, opts)

	want := "entrytype,bibtexkey,title,year,month,pages\n" +
		"article,dijkstra68,Go To Statement Considered Harmful,1968,#mar#,147--148\n" +
		"book,knuth84,The {TeX}book,1984,,\n"
	if text != want {
		t.Errorf("csv =\n%s\nwant\n%s", text, want)
	}

	back := parse(t, "csv", text, nil)
	if len(back) != 2 {
		t.Fatalf("csv entry count = %d, want 2", len(back))
	}
	if got, _ := back[0].Field("month"); got != "#mar#" {
		t.Errorf("month = %q, want %q", got, "#mar#")
	}
	if back[1].HasField("month") {
		t.Errorf("empty cell became a field")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		peek     string
		want     string
	}{
		{filename: "refs.bib", want: "bibtex"},
		{filename: "refs.JSON", want: "json"},
		{filename: "refs.tsv", want: "csv"},
		{filename: "stdin", peek: "@article{x,}", want: "bibtex"},
		{filename: "stdin", peek: `{"entries": []}`, want: "json"},
		{filename: "stdin", peek: "entrytype,title\nbook,T\n", want: "csv"},
	}

	for _, tt := range tests {
		t.Run(tt.filename+"/"+tt.want, func(t *testing.T) {
			f, err := format.DetectFormat(tt.filename, []byte(tt.peek))
			if err != nil {
				t.Fatalf("DetectFormat failed: %v", err)
			}
			if f.Name() != tt.want {
				t.Errorf("DetectFormat = %q, want %q", f.Name(), tt.want)
			}
		})
	}

	if _, err := format.DetectFormat("notes.txt", []byte("plain words")); err == nil {
		t.Errorf("DetectFormat accepted plain text")
	}
}

func TestRegistryList(t *testing.T) {
	got := strings.Join(format.DefaultRegistry.List(), ",")
	if got != "bibtex,csv,json" {
		t.Errorf("List() = %q, want %q", got, "bibtex,csv,json")
	}
}
