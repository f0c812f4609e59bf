package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/bibfield/codec"
	"github.com/lehigh-university-libraries/bibfield/entry"
	"github.com/lehigh-university-libraries/bibfield/format"
	"github.com/lehigh-university-libraries/bibfield/schema"
)

// Parse reads CSV and returns one entry per data row. Empty cells leave the
// field unset. With opts.StripHTML, markup is removed from cell values.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*entry.Entry, error) {
	opts = opts.Normalize()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter(data)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	// First row is header
	header := buildHeader(rows[0])

	entries := make([]*entry.Entry, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		e, err := rowToEntry(rows[i], header, opts)
		if err != nil {
			// Row numbers are 1-based and count the header.
			err = fmt.Errorf("row %d: %w", i+1, err)
			if opts.Strict {
				return nil, err
			}
			slog.Warn("skipping CSV row", "source", opts.SourceName, "err", err)
			continue
		}
		entries = append(entries, e)
	}

	return entries, nil
}

func buildHeader(row []string) []string {
	header := make([]string, len(row))
	for i, col := range row {
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}
	return header
}

func rowToEntry(row, header []string, opts *format.ParseOptions) (*entry.Entry, error) {
	if len(row) > len(header) {
		return nil, fmt.Errorf("%d cells for %d columns", len(row), len(header))
	}

	typ := schema.Other
	id := ""
	fields := make(map[string]string)
	for i, cell := range row {
		col := header[i]
		cell = cleanValue(cell, opts)
		if col == "" || cell == "" {
			continue
		}
		switch col {
		case schema.EntryTypeField:
			if t, ok := opts.Types.Get(cell); ok {
				typ = t
			} else {
				typ = &schema.EntryType{Name: strings.ToLower(cell)}
			}
		case schema.IDField:
			id = cell
		default:
			fields[col] = cell
		}
	}

	if claimed := opts.IDs.Claim(id); claimed != id {
		if id != "" {
			slog.Warn("entry id already in use, assigned a new one", "id", id, "new", claimed)
		}
		id = claimed
	}
	e, err := entry.New(id, typ)
	if err != nil {
		return nil, err
	}
	e.SetFields(fields)
	return e, nil
}

func cleanValue(value string, opts *format.ParseOptions) string {
	if opts.StripHTML {
		return codec.StripHTML(value)
	}
	return strings.TrimSpace(value)
}
