package value

import (
	"strconv"
	"strings"
)

// DatePrecision indicates the granularity of a publication date.
type DatePrecision int

const (
	PrecisionUnknown DatePrecision = iota
	PrecisionYear
	PrecisionMonth
)

// Date is a publication date assembled from BibTeX year and month fields.
type Date struct {
	Year      string // Four-digit year as written after window expansion
	Month     int    // 1-12, or 0 when unknown
	Precision DatePrecision
}

// String returns "YYYY" or "YYYY-MM", or "" for a zero date.
func (d Date) String() string {
	if d.Year == "" {
		return ""
	}
	if d.Precision < PrecisionMonth || d.Month < 1 || d.Month > 12 {
		return d.Year
	}

	var sb strings.Builder
	sb.WriteString(d.Year)
	sb.WriteString("-")
	if d.Month < 10 {
		sb.WriteString("0")
	}
	sb.WriteString(strconv.Itoa(d.Month))
	return sb.String()
}

// IsZero returns true if the date has no year.
func (d Date) IsZero() bool {
	return d.Year == ""
}

var (
	monthAbbrevs = [12]string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}
	monthNames   = [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
)

// ToFourDigitYear expands a two-character year using a window of 69 years
// back and 30 years forward from referenceYear: with reference 1992, "23"
// becomes "1923"; with reference 1993 it becomes "2023". Anything that is
// not exactly two characters or not a number is returned unchanged.
func ToFourDigitYear(year string, referenceYear int) string {
	if len(year) != 2 {
		return year
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return year
	}

	ref2 := referenceYear % 100
	century := referenceYear - ref2
	if y == ref2 {
		return strconv.Itoa(referenceYear)
	}

	if (y+100-ref2)%100 > 30 {
		if y < ref2 {
			return strconv.Itoa(century + y)
		}
		return strconv.Itoa(century - 100 + y)
	}
	if y < ref2 {
		return strconv.Itoa(century + 100 + y)
	}
	return strconv.Itoa(century + y)
}

// MonthNumber maps a month token to a zero-based month index. '#' markers
// are ignored, names match on a three-letter prefix case-insensitively, and
// integers are taken as one-based ("3" is 2). Unrecognized tokens give -1.
// Integer tokens are not range-checked.
func MonthNumber(token string) int {
	token = strings.ToLower(strings.ReplaceAll(token, "#", ""))
	for i, abbrev := range monthAbbrevs {
		if strings.HasPrefix(token, abbrev) {
			return i
		}
	}
	if n, err := strconv.Atoi(token); err == nil {
		return n - 1
	}
	return -1
}

// MonthAbbrev returns the BibTeX macro name for a zero-based month index,
// or "" when out of range.
func MonthAbbrev(index int) string {
	if index < 0 || index >= len(monthAbbrevs) {
		return ""
	}
	return monthAbbrevs[index]
}

// MonthName returns the English month name for a zero-based index, or ""
// when out of range.
func MonthName(index int) string {
	if index < 0 || index >= len(monthNames) {
		return ""
	}
	return monthNames[index]
}

// ParseDate builds a Date from raw year and month field values. The year
// is expanded with ToFourDigitYear; a month that does not resolve to 1-12
// leaves the date at year precision.
func ParseDate(year, month string, referenceYear int) Date {
	year = strings.TrimSpace(year)
	if year == "" {
		return Date{}
	}

	d := Date{
		Year:      ToFourDigitYear(year, referenceYear),
		Precision: PrecisionYear,
	}
	if month == "" {
		return d
	}
	if m := MonthNumber(strings.TrimSpace(month)); m >= 0 && m < 12 {
		d.Month = m + 1
		d.Precision = PrecisionMonth
	}
	return d
}

// PublicationDate renders year and month as "YYYY" or "YYYY-MM". It returns
// "" when year is empty.
func PublicationDate(year, month string, referenceYear int) string {
	return ParseDate(year, month, referenceYear).String()
}
