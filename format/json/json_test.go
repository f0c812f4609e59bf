package json

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/bibfield/entry"
	"github.com/lehigh-university-libraries/bibfield/format"
	"github.com/lehigh-university-libraries/bibfield/key"
	"github.com/lehigh-university-libraries/bibfield/prefs"
	"github.com/lehigh-university-libraries/bibfield/schema"
)

func TestParse(t *testing.T) {
	input := `{
  "strings": {"ieee": "IEEE Transactions"},
  "entries": [
    {"id": "a1", "type": "article", "key": "knuth84", "date": "ignored",
     "fields": {"author": "Knuth", "journal": "#ieee#", "year": 1984,
                "keywords": ["tex", "a;b"], "note": null, "id": "x"}},
    {"type": "webpage", "fields": {"url": "http://example.org"}}
  ]
}`
	opts := format.NewParseOptions()
	opts.Strings = map[string]string{}

	entries, err := (&Format{}).Parse(strings.NewReader(input), opts)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "IEEE Transactions", opts.Strings["ieee"])

	e := entries[0]
	assert.Equal(t, "a1", e.ID())
	assert.Equal(t, "article", e.Type().Name)
	assert.Equal(t, "knuth84", e.CiteKey())
	assert.Equal(t, []string{"author", schema.KeyField, "journal", "keywords", "year"}, e.AllFields())

	got := func(name string) string {
		v, _ := e.Field(name)
		return v
	}
	assert.Equal(t, "#ieee#", got("journal"))
	assert.Equal(t, "1984", got("year"))
	assert.Equal(t, `tex;a\;b`, got("keywords"))
	assert.False(t, e.HasField("date"))

	web := entries[1]
	assert.Equal(t, "webpage", web.Type().Name)
	assert.NotEmpty(t, web.ID())
	assert.Empty(t, web.CiteKey())
}

func TestParse_BareArray(t *testing.T) {
	entries, err := (&Format{}).Parse(strings.NewReader(`[{"type": "misc", "key": "k"}]`), nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "k", entries[0].CiteKey())
}

func TestParse_Malformed(t *testing.T) {
	input := `{"entries": [{"fields": {}}, "text", {"type": "misc", "fields": {"a": {"b": 1}}}, {"type": "book"}]}`

	entries, err := (&Format{}).Parse(strings.NewReader(input), nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "book", entries[0].Type().Name)

	opts := format.NewParseOptions()
	opts.Strict = true
	_, err = (&Format{}).Parse(strings.NewReader(input), opts)
	assert.ErrorContains(t, err, "entry 0")

	_, err = (&Format{}).Parse(strings.NewReader(`{"entries": [`), nil)
	assert.Error(t, err)

	_, err = (&Format{}).Parse(strings.NewReader(`"just a string"`), nil)
	assert.Error(t, err)
}

func TestSerializeRoundTrip(t *testing.T) {
	article, _ := schema.StandardTypes().Get("article")
	e, err := entry.New("00000007", article)
	require.NoError(t, err)
	e.SetFields(map[string]string{
		schema.KeyField:    "knuth84",
		"author":           "Knuth",
		"year":             "84",
		"month":            "#may#",
		schema.SearchField: "hidden",
	})

	for _, pretty := range []bool{false, true} {
		opts := format.NewSerializeOptions()
		opts.Pretty = pretty
		opts.Strings = map[string]string{"ieee": "IEEE Transactions"}
		opts.Prefs.PutInt(prefs.ReferenceYear, 2000)

		var buf bytes.Buffer
		require.NoError(t, (&Format{}).Serialize(&buf, []*entry.Entry{e}, opts))
		assert.Contains(t, buf.String(), `"1984-05"`)
		assert.NotContains(t, buf.String(), "hidden")
		assert.Equal(t, pretty, strings.Count(buf.String(), "\n") > 1)

		popts := format.NewParseOptions()
		popts.IDs = key.NewIDGenerator(0)
		popts.Strings = map[string]string{}
		back, err := (&Format{}).Parse(&buf, popts)
		require.NoError(t, err)
		require.Len(t, back, 1)

		assert.Equal(t, e.ID(), back[0].ID())
		assert.Equal(t, e.CiteKey(), back[0].CiteKey())
		assert.Equal(t, []string{"author", schema.KeyField, "month", "year"}, back[0].AllFields())
		assert.Equal(t, opts.Strings, popts.Strings)
	}
}

func TestCanParse(t *testing.T) {
	f := &Format{}
	assert.True(t, f.CanParse([]byte(` {"entries": []}`)))
	assert.True(t, f.CanParse([]byte(`[]`)))
	assert.False(t, f.CanParse([]byte(`@article{x,}`)))
}

func TestParse_IDsStayUnique(t *testing.T) {
	input := `[{"id": "dup", "type": "misc"}, {"id": "dup", "type": "misc"}, {"type": "misc"}]`
	ids := key.NewIDGenerator(0)
	taken := ids.Next()

	opts := format.NewParseOptions()
	opts.IDs = ids
	first, err := (&Format{}).Parse(strings.NewReader(input), opts)
	require.NoError(t, err)
	second, err := (&Format{}).Parse(strings.NewReader(`[{"id": "`+taken+`", "type": "misc"}]`), opts)
	require.NoError(t, err)

	assert.Equal(t, "dup", first[0].ID())
	seen := map[string]bool{taken: true}
	for _, e := range append(first, second...) {
		assert.False(t, seen[e.ID()], "duplicate id %q", e.ID())
		seen[e.ID()] = true
	}
}
