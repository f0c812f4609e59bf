package json

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lehigh-university-libraries/bibfield/entry"
	"github.com/lehigh-university-libraries/bibfield/format"
	"github.com/lehigh-university-libraries/bibfield/schema"
	"github.com/lehigh-university-libraries/bibfield/value"
)

// Parse reads a JSON document and returns its entries in order.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*entry.Entry, error) {
	opts = opts.Normalize()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	var doc structpb.Value
	if err := protojson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	var items []*structpb.Value
	switch kind := doc.GetKind().(type) {
	case *structpb.Value_ListValue:
		items = kind.ListValue.GetValues()
	case *structpb.Value_StructValue:
		root := kind.StructValue.GetFields()
		items = root[keyEntries].GetListValue().GetValues()
		if opts.Strings != nil {
			for name, v := range root[keyStrings].GetStructValue().GetFields() {
				opts.Strings[name] = v.GetStringValue()
			}
		}
	default:
		return nil, fmt.Errorf("parsing JSON: expected an object or array")
	}

	entries := make([]*entry.Entry, 0, len(items))
	for i, item := range items {
		e, err := itemToEntry(item, opts)
		if err != nil {
			err = fmt.Errorf("entry %d: %w", i, err)
			if opts.Strict {
				return nil, err
			}
			slog.Warn("skipping malformed JSON entry", "source", opts.SourceName, "err", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func itemToEntry(item *structpb.Value, opts *format.ParseOptions) (*entry.Entry, error) {
	obj := item.GetStructValue()
	if obj == nil {
		return nil, fmt.Errorf("expected an object")
	}
	m := obj.GetFields()

	typeName := m[keyType].GetStringValue()
	if typeName == "" {
		return nil, fmt.Errorf("missing %q", keyType)
	}
	typ, ok := opts.Types.Get(typeName)
	if !ok {
		slog.Debug("unknown entry type", "type", typeName)
		typ = &schema.EntryType{Name: typeName}
	}

	fileID := m[keyID].GetStringValue()
	id := opts.IDs.Claim(fileID)
	if fileID != "" && fileID != id {
		slog.Warn("entry id already in use, assigned a new one", "id", fileID, "new", id)
	}
	e, err := entry.New(id, typ)
	if err != nil {
		return nil, err
	}

	if k := m[keyKey].GetStringValue(); k != "" {
		if err := e.SetField(schema.KeyField, k); err != nil {
			return nil, err
		}
	}

	for name, v := range m[keyFields].GetStructValue().GetFields() {
		if name == schema.IDField {
			slog.Warn("ignoring reserved field name", "id", id, "field", name)
			continue
		}
		if _, null := v.GetKind().(*structpb.Value_NullValue); null {
			continue
		}
		text, ok := fieldText(v)
		if !ok {
			return nil, fmt.Errorf("field %s: unsupported value %v", name, v.AsInterface())
		}
		if err := e.SetField(name, text); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// fieldText flattens a JSON value to a field string. Lists of scalars are
// joined in the ';' list format.
func fieldText(v *structpb.Value) (string, bool) {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue, true
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64), true
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(kind.BoolValue), true
	case *structpb.Value_ListValue:
		parts := make([]string, 0, len(kind.ListValue.GetValues()))
		for _, elem := range kind.ListValue.GetValues() {
			s, ok := fieldText(elem)
			if !ok {
				return "", false
			}
			parts = append(parts, s)
		}
		return value.EncodeList(parts), true
	}
	return "", false
}
