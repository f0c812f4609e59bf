package json

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lehigh-university-libraries/bibfield/entry"
	"github.com/lehigh-university-libraries/bibfield/format"
	"github.com/lehigh-university-libraries/bibfield/schema"
	"github.com/lehigh-university-libraries/bibfield/value"
)

// Serialize writes entries as a JSON document.
func (f *Format) Serialize(w io.Writer, entries []*entry.Entry, opts *format.SerializeOptions) error {
	opts = opts.Normalize()
	refYear := opts.Prefs.ReferenceYear()

	list := make([]any, 0, len(entries))
	for _, e := range entries {
		list = append(list, entryToMap(e, opts.Fields, refYear))
	}

	doc := map[string]any{keyEntries: list}
	if len(opts.Strings) > 0 {
		strs := make(map[string]any, len(opts.Strings))
		for name, v := range opts.Strings {
			strs[name] = v
		}
		doc[keyStrings] = strs
	}

	s, err := structpb.NewStruct(doc)
	if err != nil {
		return fmt.Errorf("building JSON document: %w", err)
	}

	m := protojson.MarshalOptions{}
	if opts.Pretty {
		m.Indent = "  "
	}
	data, err := m.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func entryToMap(e *entry.Entry, fields *schema.Registry, refYear int) map[string]any {
	m := map[string]any{
		keyID:   e.ID(),
		keyType: e.Type().Name,
	}
	if k := e.CiteKey(); k != "" {
		m[keyKey] = k
	}

	year, _ := e.Field("year")
	month, _ := e.Field("month")
	if d := value.PublicationDate(year, month, refYear); d != "" {
		m[keyDate] = d
	}

	values := make(map[string]any)
	for _, name := range e.AllFields() {
		if name == schema.KeyField || !fields.IsWriteable(name) {
			continue
		}
		v, _ := e.Field(name)
		values[name] = v
	}
	m[keyFields] = values
	return m
}
