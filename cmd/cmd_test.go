package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes the root command with args and stdin, returning stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestFieldCommands(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{name: "parse", args: []string{"field", "parse", `{The } # jan # " issue"`}, want: "The #jan# issue\n"},
		{name: "format", args: []string{"field", "format", "The #jan# issue"}, want: "{The } # jan # { issue}\n"},
		{name: "shave from stdin", stdin: "  {braced}  \n", args: []string{"field", "shave"}, want: "braced\n"},
		{name: "wrap", args: []string{"field", "wrap", "IEEE Trans"}, want: "{IEEE} Trans\n"},
		{name: "unwrap", args: []string{"field", "unwrap", "{IEEE} Trans"}, want: "IEEE Trans\n"},
		{name: "quote", args: []string{"field", "quote", "--specials", ";", "a;b"}, want: "a\\;b\n"},
		{name: "unquote", args: []string{"field", "unquote", `a\;b`}, want: "a;b\n"},
		{name: "html", args: []string{"field", "html", "-m", "to-html", "{A}&B"}, want: "A&amp;B\n"},
		{name: "url", args: []string{"field", "url", "doi:10.1000/182"}, want: "https://doi.org/10.1000/182\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("%v: %v", tt.args, err)
			}
			if got != tt.want {
				t.Errorf("%v = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestKeyCommands(t *testing.T) {
	got, err := run(t, "", "key", "check", "--lenient=false", "O'Brien, J.")
	if err != nil || got != "OBrienJ.\n" {
		t.Errorf("key check = %q, %v", got, err)
	}
	got, err = run(t, "", "key", "check", "--lenient", "O'Brien, J.")
	if err != nil || got != "O'BrienJ.\n" {
		t.Errorf("key check --lenient = %q, %v", got, err)
	}
	got, err = run(t, "", "key", "id", "-n", "2", "--start", "41")
	if err != nil || got != "00000041\n00000042\n" {
		t.Errorf("key id = %q, %v", got, err)
	}
}

func TestArrayCommands(t *testing.T) {
	got, err := run(t, "a\tb\nc\n", "array", "encode", "--2d")
	if err != nil || got != "a:b;c\n" {
		t.Errorf("array encode --2d = %q, %v", got, err)
	}
	got, err = run(t, "", "array", "decode", `a\:b:c`)
	if err != nil || got != "a:b\nc\n" {
		t.Errorf("array decode = %q, %v", got, err)
	}
}

func TestDateCommands(t *testing.T) {
	got, err := run(t, "", "date", "year", "--reference", "1992", "23")
	if err != nil || got != "1923\n" {
		t.Errorf("date year = %q, %v", got, err)
	}
	got, err = run(t, "", "date", "month", "#mar#")
	if err != nil || got != "2\tmar\tMarch\n" {
		t.Errorf("date month = %q, %v", got, err)
	}
}

func TestConvertAndValidate(t *testing.T) {
	dir := t.TempDir()
	bib := filepath.Join(dir, "refs.bib")
	input := `@article{good84,
  author = {Knuth},
  title = {Literate Programming},
  journal = {The Computer Journal},
  year = 1984
}

@article{bad,
  title = {No Author},
  year = 3
}
`
	if err := os.WriteFile(bib, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "refs.json")
	if _, err := run(t, "", "convert", "bibtex", "json", "-i", bib, "-o", out); err != nil {
		t.Fatalf("convert: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "good84") {
		t.Errorf("converted output lacks entry: %s", data)
	}

	report, err := run(t, "", "validate", "--verbose=false", bib)
	if err == nil {
		t.Fatalf("validate accepted an invalid entry:\n%s", report)
	}
	if !strings.Contains(report, "article:bad") || strings.Contains(report, "article:good84") {
		t.Errorf("validate report:\n%s", report)
	}
	if !strings.Contains(report, "2 entries") {
		t.Errorf("validate summary missing:\n%s", report)
	}
}
