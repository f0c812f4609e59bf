package value

import "strings"

// Separators of the persisted array format.
const (
	ElementSep = ':'
	RowSep     = ';'
	Escape     = '\\'
)

// escapeElement prefixes ':' ';' and '\' with a backslash.
func escapeElement(s string) string {
	if !strings.ContainsAny(s, `:;\`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 4)
	for _, r := range s {
		if r == ElementSep || r == RowSep || r == Escape {
			sb.WriteRune(Escape)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Encode1D escapes each element and joins them with ':'.
func Encode1D(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = escapeElement(v)
	}
	return strings.Join(parts, string(ElementSep))
}

// Encode2D encodes each row with Encode1D and joins rows with ';'.
func Encode2D(values [][]string) string {
	rows := make([]string, len(values))
	for i, row := range values {
		rows[i] = Encode1D(row)
	}
	return strings.Join(rows, string(RowSep))
}

// decodeState is the Decode2D scanner state.
type decodeState uint8

const (
	decodeElement decodeState = iota
	decodeEscaped
)

// Decode2D reverses Encode2D. An unescaped ':' closes the current element,
// an unescaped ';' closes the element and the row. Once any separator has
// been read the trailing element is kept even when empty, so "a:" decodes
// to [[a ""]] and "a;" to [[a] [""]]. The empty string decodes to no rows,
// which means a single row holding one empty element, or a row with no
// elements, does not survive a round trip.
func Decode2D(s string) [][]string {
	var (
		rows  [][]string
		row   []string
		sb    strings.Builder
		state = decodeElement
		open  bool
	)

	for _, r := range s {
		if state == decodeEscaped {
			sb.WriteRune(r)
			state = decodeElement
			continue
		}
		switch r {
		case Escape:
			state = decodeEscaped
		case ElementSep:
			row = append(row, sb.String())
			sb.Reset()
			open = true
		case RowSep:
			row = append(row, sb.String())
			sb.Reset()
			rows = append(rows, row)
			row = nil
			open = true
		default:
			sb.WriteRune(r)
		}
	}

	if sb.Len() > 0 || open {
		row = append(row, sb.String())
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// EncodeList stores a list in the single-separator preference format:
// elements joined with ';', with '\' and ';' escaped by '\'.
func EncodeList(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		var sb strings.Builder
		for _, r := range v {
			if r == Escape || r == RowSep {
				sb.WriteRune(Escape)
			}
			sb.WriteRune(r)
		}
		parts[i] = sb.String()
	}
	return strings.Join(parts, string(RowSep))
}

// DecodeList reverses EncodeList. Empty units are skipped, so an empty
// element never survives a round trip. A backslash before any other
// character is dropped.
func DecodeList(s string) []string {
	var (
		out     []string
		sb      strings.Builder
		escaped bool
	)
	flush := func() {
		if sb.Len() > 0 {
			out = append(out, sb.String())
		}
		sb.Reset()
	}

	for _, r := range s {
		switch {
		case escaped:
			sb.WriteRune(r)
			escaped = false
		case r == Escape:
			escaped = true
		case r == RowSep:
			flush()
		default:
			sb.WriteRune(r)
		}
	}
	flush()
	return out
}
