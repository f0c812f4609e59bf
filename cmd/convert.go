package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibfield/format"

	// Register all format plugins
	_ "github.com/lehigh-university-libraries/bibfield/format/bibtex"
	_ "github.com/lehigh-university-libraries/bibfield/format/csv"
	_ "github.com/lehigh-university-libraries/bibfield/format/json"
)

var (
	inputFile  string
	outputFile string
	columns    []string
	stripHTML  bool
	pretty     bool
	strict     bool
	noHeader   bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <from> <to>",
	Short: "Convert entries between formats",
	Long: `Convert bibliography entries from one format to another.

Arguments:
  from    Source format (bibtex, json, csv), or "auto" to detect it
  to      Target format (bibtex, json, csv)

Input defaults to stdin, output defaults to stdout. @string definitions
read from BibTeX or JSON are carried to formats that can hold them.

Examples:
  # BibTeX to JSON (stdin to stdout)
  cat refs.bib | bibfield convert bibtex json --pretty

  # Explicit input and output files
  bibfield convert bibtex csv -i refs.bib -o refs.csv

  # Choose CSV columns
  bibfield convert bibtex csv -i refs.bib -c entrytype,bibtexkey,title,year

  # Detect the input format from the file name or content
  bibfield convert auto bibtex -i refs.json`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file (default: stdin)")
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	convertCmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "CSV columns to output (default: columnNames preference)")
	convertCmd.Flags().BoolVar(&stripHTML, "strip-html", true, "Strip HTML from CSV cells")
	convertCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	convertCmd.Flags().BoolVar(&strict, "strict", false, "Fail on malformed input instead of skipping it")
	convertCmd.Flags().BoolVar(&noHeader, "no-header", false, "Omit the CSV header row")
}

func runConvert(cmd *cobra.Command, args []string) (err error) {
	fromFormat := args[0]
	toFormat := args[1]

	input, inputName, closeInput, err := openInput(inputFile)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeInput(); cerr != nil && err == nil {
			err = fmt.Errorf("closing input file: %w", cerr)
		}
	}()

	// Get serializer first so a bad target fails before reading input
	serializer, err := format.GetSerializer(toFormat)
	if err != nil {
		return fmt.Errorf("unknown target format %q: %w", toFormat, err)
	}

	parser, input, err := resolveParser(fromFormat, inputName, input)
	if err != nil {
		return err
	}

	parseOpts := format.NewParseOptions()
	parseOpts.Prefs = preferences
	parseOpts.Strings = map[string]string{}
	parseOpts.StripHTML = stripHTML
	parseOpts.Strict = strict
	parseOpts.SourceName = inputName

	entries, err := parser.Parse(input, parseOpts)
	if err != nil {
		return fmt.Errorf("parsing input: %w", err)
	}

	slog.Info("parsed entries", "count", len(entries), "strings", len(parseOpts.Strings), "source", inputName)

	output, closeOutput, err := openOutput(outputFile)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOutput(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()

	serializeOpts := &format.SerializeOptions{
		Prefs:         preferences,
		Fields:        fieldRegistry,
		Strings:       parseOpts.Strings,
		Columns:       columns,
		IncludeHeader: !noHeader,
		Pretty:        pretty,
	}

	if err := serializer.Serialize(output, entries, serializeOpts); err != nil {
		return fmt.Errorf("serializing output: %w", err)
	}

	return nil
}
