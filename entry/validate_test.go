package entry

import (
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/bibfield/schema"
)

func codes(errs []ValidationError) []string {
	var out []string
	for _, e := range errs {
		out = append(out, e.Field+":"+e.Code)
	}
	return out
}

func TestValidate(t *testing.T) {
	article, _ := schema.StandardTypes().Get("article")

	tests := []struct {
		name     string
		fields   map[string]string
		errors   []string
		warnings []string
	}{
		{
			name: "complete article",
			fields: map[string]string{
				schema.KeyField: "knuth84", "author": "Knuth", "title": "Literate Programming",
				"journal": "The Computer Journal", "year": "1984", "month": "#may#", "doi": "10.1093/comjnl/27.2.97",
			},
		},
		{
			name:   "missing everything",
			fields: map[string]string{},
			errors: []string{"bibtexkey:required", "author:required", "title:required", "journal:required", "year:required"},
		},
		{
			name: "bad values",
			fields: map[string]string{
				schema.KeyField: "k", "author": "A", "title": "T", "journal": "J",
				"year": "{19x4}", "month": "spring", "doi": "not-a-doi", "volume": "ten",
			},
			errors:   []string{"year:invalid_format", "month:invalid_format", "doi:invalid_format"},
			warnings: []string{"volume:not_numeric"},
		},
		{
			name: "year out of range",
			fields: map[string]string{
				schema.KeyField: "k", "author": "A", "title": "T", "journal": "J", "year": "2999",
			},
			errors: []string{"year:out_of_range"},
		},
	}

	opts := DefaultValidationOptions()
	opts.ReferenceYear = 2025

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustNew(t, "1", article)
			e.SetFields(tt.fields)

			result := Validate(e, opts)
			if got := strings.Join(codes(result.Errors), ","); got != strings.Join(tt.errors, ",") {
				t.Errorf("errors = %s, want %s", got, strings.Join(tt.errors, ","))
			}
			if got := strings.Join(codes(result.Warnings), ","); got != strings.Join(tt.warnings, ",") {
				t.Errorf("warnings = %s, want %s", got, strings.Join(tt.warnings, ","))
			}
			if result.IsValid() != (len(tt.errors) == 0) {
				t.Errorf("IsValid = %v with errors %v", result.IsValid(), result.Errors)
			}
			if (result.Error() == nil) != result.IsValid() {
				t.Errorf("Error() = %v disagrees with IsValid", result.Error())
			}
		})
	}
}

func TestValidate_KeyChecker(t *testing.T) {
	e := mustNew(t, "1", schema.Other)
	_ = e.SetField(schema.KeyField, "O'Brien 2001")

	opts := ValidationOptions{
		KeyChecker: func(k string) string { return strings.ReplaceAll(k, " ", "") },
	}
	result := Validate(e, opts)
	if !result.IsValid() || !result.HasWarnings() {
		t.Fatalf("result = %+v, want valid with a warning", result)
	}
	if result.Warnings[0].Code != "illegal_key" {
		t.Errorf("warning code = %q, want illegal_key", result.Warnings[0].Code)
	}
}
