package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFourDigitYear(t *testing.T) {
	tests := []struct {
		year string
		ref  int
		want string
	}{
		{year: "23", ref: 1992, want: "1923"},
		{year: "23", ref: 1993, want: "2023"},
		{year: "92", ref: 1992, want: "1992"},
		{year: "99", ref: 2025, want: "1999"},
		{year: "05", ref: 2025, want: "2005"},
		{year: "55", ref: 2025, want: "2055"},
		{year: "56", ref: 2025, want: "1956"},
		{year: "2001", ref: 2025, want: "2001"},
		{year: "7", ref: 2025, want: "7"},
		{year: "ab", ref: 2025, want: "ab"},
		{year: "", ref: 2025, want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ToFourDigitYear(tt.year, tt.ref), "ToFourDigitYear(%q, %d)", tt.year, tt.ref)
	}
}

func TestMonthNumber(t *testing.T) {
	tests := map[string]int{
		"Jan":      0,
		"december": 11,
		"#sep#":    8,
		"March":    2,
		"13":       12,
		"3":        2,
		"foo":      -1,
		"":         -1,
	}

	for in, want := range tests {
		assert.Equal(t, want, MonthNumber(in), "MonthNumber(%q)", in)
	}
}

func TestMonthNames(t *testing.T) {
	assert.Equal(t, "jan", MonthAbbrev(0))
	assert.Equal(t, "December", MonthName(11))
	assert.Equal(t, "", MonthAbbrev(12))
	assert.Equal(t, "", MonthName(-1))
}

func TestPublicationDate(t *testing.T) {
	assert.Equal(t, "2004-03", PublicationDate("2004", "#mar#", 2025))
	assert.Equal(t, "1999-11", PublicationDate("99", "11", 2025))
	assert.Equal(t, "2004", PublicationDate("2004", "", 2025))
	assert.Equal(t, "2004", PublicationDate("2004", "spring", 2025))
	assert.Equal(t, "", PublicationDate("", "jan", 2025))
}

func TestParseDate(t *testing.T) {
	d := ParseDate(" 2010 ", "oct", 2025)
	assert.Equal(t, Date{Year: "2010", Month: 10, Precision: PrecisionMonth}, d)
	assert.False(t, d.IsZero())
	assert.True(t, ParseDate("", "", 2025).IsZero())
}
