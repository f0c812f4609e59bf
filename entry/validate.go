package entry

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/bibfield/codec"
	"github.com/lehigh-university-libraries/bibfield/schema"
	"github.com/lehigh-university-libraries/bibfield/value"
)

// ValidationError is one finding about an entry.
type ValidationError struct {
	Field   string // Field name, or "" for the entry as a whole
	Code    string // Machine code (e.g., "required", "invalid_format")
	Message string // Human-readable message
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult collects errors and warnings for one entry.
type ValidationResult struct {
	Entry    string
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Error returns a combined error message, or nil if valid.
func (r *ValidationResult) Error() error {
	if r.IsValid() {
		return nil
	}
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("%s: validation failed: %s", r.Entry, strings.Join(msgs, "; "))
}

// ValidationOptions configures Validate.
type ValidationOptions struct {
	// RequireKey requires a citation key
	RequireKey bool
	// RequiredFields checks the entry type's required fields
	RequiredFields bool
	// Fields supplies numeric flags; nil skips numeric checks
	Fields *schema.Registry
	// KeyChecker returns the legal form of a key; a differing result is a warning
	KeyChecker func(string) string
	// Lookup resolves crossref targets for required-field checks
	Lookup Lookup
	// ReferenceYear anchors the plausible year range; 0 means the current year
	ReferenceYear int
}

// DefaultValidationOptions returns the options used by the CLI.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{
		RequireKey:     true,
		RequiredFields: true,
		Fields:         schema.StandardFields(),
	}
}

var doiPattern = regexp.MustCompile(`^10\.\d{4,}/\S+$`)

// Validate checks e according to opts.
func Validate(e *Entry, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{Entry: e.String()}

	key := e.CiteKey()
	if opts.RequireKey && key == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   schema.KeyField,
			Code:    "required",
			Message: "citation key is required",
		})
	}
	if key != "" && opts.KeyChecker != nil {
		if legal := opts.KeyChecker(key); legal != key {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   schema.KeyField,
				Code:    "illegal_key",
				Message: fmt.Sprintf("key %q contains illegal characters (legal form %q)", key, legal),
			})
		}
	}

	if opts.RequiredFields {
		for _, missing := range e.MissingRequiredFields(opts.Lookup) {
			if missing == schema.KeyField {
				continue
			}
			result.Errors = append(result.Errors, ValidationError{
				Field:   missing,
				Code:    "required",
				Message: fmt.Sprintf("required by entry type %s", e.Type().Name),
			})
		}
	}

	result.Errors = append(result.Errors, validateYear(e, opts.ReferenceYear)...)
	result.Errors = append(result.Errors, validateMonth(e)...)
	result.Errors = append(result.Errors, validateDOI(e)...)
	if opts.Fields != nil {
		result.Warnings = append(result.Warnings, validateNumeric(e, opts.Fields)...)
	}

	return result
}

func validateYear(e *Entry, reference int) []ValidationError {
	raw, ok := e.Field("year")
	if !ok {
		return nil
	}
	if reference == 0 {
		reference = time.Now().Year()
	}
	year := value.ToFourDigitYear(codec.Shave(raw), reference)
	y, err := strconv.Atoi(year)
	if err != nil {
		return []ValidationError{{
			Field:   "year",
			Code:    "invalid_format",
			Message: fmt.Sprintf("year %q is not a number", raw),
		}}
	}
	if y < 1000 || y > reference+10 {
		return []ValidationError{{
			Field:   "year",
			Code:    "out_of_range",
			Message: fmt.Sprintf("year %d is outside reasonable range (1000-%d)", y, reference+10),
		}}
	}
	return nil
}

func validateMonth(e *Entry) []ValidationError {
	raw, ok := e.Field("month")
	if !ok {
		return nil
	}
	if m := value.MonthNumber(codec.Shave(raw)); m < 0 || m > 11 {
		return []ValidationError{{
			Field:   "month",
			Code:    "invalid_format",
			Message: fmt.Sprintf("month %q is not a month name or number 1-12", raw),
		}}
	}
	return nil
}

func validateDOI(e *Entry) []ValidationError {
	raw, ok := e.Field("doi")
	if !ok {
		return nil
	}
	doi := strings.TrimSpace(codec.Shave(raw))
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "http://dx.doi.org/", "doi:"} {
		doi = strings.TrimPrefix(doi, prefix)
	}
	if !doiPattern.MatchString(doi) {
		return []ValidationError{{
			Field:   "doi",
			Code:    "invalid_format",
			Message: fmt.Sprintf("invalid DOI format: %s (expected 10.XXXX/...)", raw),
		}}
	}
	return nil
}

func validateNumeric(e *Entry, fields *schema.Registry) []ValidationError {
	var warnings []ValidationError
	for _, name := range e.AllFields() {
		if name == "year" || !fields.IsNumeric(name) {
			continue
		}
		v, _ := e.Field(name)
		if _, err := strconv.Atoi(strings.TrimSpace(codec.Shave(v))); err != nil {
			warnings = append(warnings, ValidationError{
				Field:   name,
				Code:    "not_numeric",
				Message: fmt.Sprintf("value %q sorts as a number but is not one", v),
			})
		}
	}
	return warnings
}
