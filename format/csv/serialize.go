package csv

import (
	"encoding/csv"
	"io"

	"github.com/lehigh-university-libraries/bibfield/entry"
	"github.com/lehigh-university-libraries/bibfield/format"
	"github.com/lehigh-university-libraries/bibfield/prefs"
	"github.com/lehigh-university-libraries/bibfield/schema"
)

// Serialize writes entries as CSV. Columns come from opts.Columns, or else
// from the columnNames preference.
func (f *Format) Serialize(w io.Writer, entries []*entry.Entry, opts *format.SerializeOptions) error {
	opts = opts.Normalize()

	columns := opts.Columns
	if len(columns) == 0 {
		columns = opts.Prefs.GetStringArray(prefs.ColumnNames)
	}

	writer := csv.NewWriter(w)

	// Write header
	if opts.IncludeHeader {
		if err := writer.Write(columns); err != nil {
			return err
		}
	}

	for _, e := range entries {
		if err := writer.Write(entryToRow(e, columns)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func entryToRow(e *entry.Entry, columns []string) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		switch col {
		case schema.IDField:
			row[i] = e.ID()
		default:
			// ResolvedField handles the entrytype pseudo field.
			row[i], _ = e.ResolvedField(col, nil)
		}
	}
	return row
}
