package bibtex

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lehigh-university-libraries/bibfield/codec"
	"github.com/lehigh-university-libraries/bibfield/entry"
	"github.com/lehigh-university-libraries/bibfield/format"
	"github.com/lehigh-university-libraries/bibfield/prefs"
	"github.com/lehigh-university-libraries/bibfield/schema"
)

// Serialize writes entries as BibTeX, preceded by any @string definitions
// in opts.Strings.
func (f *Format) Serialize(w io.Writer, entries []*entry.Entry, opts *format.SerializeOptions) error {
	opts = opts.Normalize()
	bw := bufio.NewWriter(w)

	if len(opts.Strings) > 0 {
		names := make([]string, 0, len(opts.Strings))
		for name := range opts.Strings {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(bw, "@string{%s = %s}\n", name, codec.FormatField(opts.Strings[name]))
		}
		bw.WriteString("\n")
	}

	for i, e := range entries {
		text, err := entryToBibtex(e, opts)
		if err != nil {
			return fmt.Errorf("writing entry %s: %w", e, err)
		}
		bw.WriteString(text)
		if i < len(entries)-1 {
			bw.WriteString("\n")
		}
	}

	return bw.Flush()
}

// fieldOrder lists the writeable fields of e: required fields first, then
// optional ones, then the rest alphabetically. The citation key is written
// in the header and is not listed.
func fieldOrder(e *entry.Entry, fields *schema.Registry) []string {
	seen := map[string]bool{schema.KeyField: true}
	var order []string
	add := func(name string) {
		if seen[name] || !e.HasField(name) || !fields.IsWriteable(name) {
			return
		}
		seen[name] = true
		order = append(order, name)
	}

	for _, req := range e.RequiredFields() {
		for _, alt := range strings.Split(req, "/") {
			add(strings.TrimSpace(alt))
		}
	}
	for _, opt := range e.OptionalFields() {
		add(opt)
	}
	for _, name := range e.AllFields() {
		add(name)
	}
	return order
}

// entryToBibtex renders one entry.
func entryToBibtex(e *entry.Entry, opts *format.SerializeOptions) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "@%s{%s", e.Type().Name, e.CiteKey())

	lineLength := opts.Prefs.GetInt(prefs.LineLength)
	for _, name := range fieldOrder(e, opts.Fields) {
		v, _ := e.Field(name)
		text, err := encodeValue(name, v, opts.Prefs, lineLength)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, ",\n  %s = %s", name, text)
	}

	sb.WriteString("\n}\n")
	return sb.String(), nil
}

// encodeValue renders a normalized value in BibTeX notation.
func encodeValue(name, v string, p *prefs.Preferences, lineLength int) (string, error) {
	if p.PutBracesAroundCapitalsIn(name) {
		v = codec.WrapCapitals(v)
	}
	if err := checkBraces(v); err != nil {
		return "", fmt.Errorf("field %s: %w", name, err)
	}

	var text string
	if p.ResolvesStrings(name) {
		text = codec.FormatField(v)
	} else {
		text = "{" + v + "}"
	}

	if lineLength > 0 && !p.IsNonWrappableField(name) {
		// "  name = " precedes the value on its first line.
		text = wrapValue(text, lineLength, len(name)+5)
	}
	return text, nil
}

// checkBraces rejects values whose unescaped braces do not balance, since
// they would corrupt the file framing.
func checkBraces(v string) error {
	depth := 0
	escaped := false
	for _, r := range v {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '{':
			depth++
		case r == '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("unbalanced '}' in %q", v)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("unbalanced '{' in %q", v)
	}
	return nil
}

// wrapValue breaks text at single spaces so no line runs past width, where
// the first line starts at column start. Continuation lines are indented
// with a tab. Words longer than a line are not split.
func wrapValue(text string, width, start int) string {
	const indent = 8

	var sb strings.Builder
	col := start
	for i, word := range strings.Split(text, " ") {
		n := utf8.RuneCountInString(word)
		if i > 0 {
			if col+1+n > width && col > indent {
				sb.WriteString("\n\t")
				col = indent
			} else {
				sb.WriteByte(' ')
				col++
			}
		}
		sb.WriteString(word)
		col += n
	}
	return sb.String()
}
