package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibfield/entry"
	"github.com/lehigh-university-libraries/bibfield/format"
)

var (
	validateFormat  string
	validateVerbose bool
	validateNoKey   bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check entries for missing fields and malformed values",
	Long: `Parse a bibliography and check every entry.

Errors: missing citation key, required fields of the entry type that are
absent (a crossref parent in the same file counts), years that are not
plausible, unknown months and malformed DOIs.

Warnings: citation keys with characters BibTeX cannot hold, and values of
numeric fields that are not numbers.

Input defaults to stdin. The command fails when any entry has errors.

Examples:
  bibfield validate refs.bib
  bibfield validate refs.bib --verbose
  cat refs.json | bibfield validate --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "auto", "Input format (bibtex, json, csv, auto)")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "List valid entries and warnings too")
	validateCmd.Flags().BoolVar(&validateNoKey, "no-key", false, "Do not require citation keys")
}

func runValidate(cmd *cobra.Command, args []string) (err error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	input, inputName, closeInput, err := openInput(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeInput(); cerr != nil && err == nil {
			err = fmt.Errorf("closing input file: %w", cerr)
		}
	}()

	parser, input, err := resolveParser(validateFormat, inputName, input)
	if err != nil {
		return err
	}

	parseOpts := format.NewParseOptions()
	parseOpts.Prefs = preferences
	parseOpts.Strict = true
	parseOpts.SourceName = inputName

	entries, err := parser.Parse(input, parseOpts)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	opts := entry.DefaultValidationOptions()
	opts.RequireKey = !validateNoKey
	opts.Fields = fieldRegistry
	opts.KeyChecker = preferences.CheckLegalKey
	opts.Lookup = entry.IndexByKey(entries)
	opts.ReferenceYear = preferences.ReferenceYear()

	w := cmd.OutOrStdout()
	invalid := 0
	warned := 0
	for _, e := range entries {
		result := entry.Validate(e, opts)
		if !result.IsValid() {
			invalid++
		}
		if result.HasWarnings() {
			warned++
		}
		if result.IsValid() && !validateVerbose {
			continue
		}

		mark := "✓"
		if !result.IsValid() {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s  %s\n", mark, result.Entry, e.AuthorTitleYear(60))
		for _, ve := range result.Errors {
			fmt.Fprintf(w, "    error   %s\n", ve)
		}
		if validateVerbose {
			for _, ve := range result.Warnings {
				fmt.Fprintf(w, "    warning %s\n", ve)
			}
		}
	}

	fmt.Fprintf(w, "%d entries from %s: %d with errors, %d with warnings\n", len(entries), inputName, invalid, warned)
	if invalid > 0 {
		return fmt.Errorf("%d of %d entries failed validation", invalid, len(entries))
	}
	return nil
}
