package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibfield/entry"
	"github.com/lehigh-university-libraries/bibfield/format"
	"github.com/lehigh-university-libraries/bibfield/key"
	"github.com/lehigh-university-libraries/bibfield/prefs"
	"github.com/lehigh-university-libraries/bibfield/schema"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Clean, generate and number citation keys",
}

var keyLenient bool

var keyCheckCmd = &cobra.Command{
	Use:   "check [key]",
	Short: "Print the legal form of a citation key",
	Long: `Print the legal form of a citation key.

Special characters are transliterated (ö becomes oe, ß becomes ss) and
characters BibTeX cannot hold in a key are dropped. Strict mode, the
default unless the enforceLegalBibtexKey preference is false, also drops
apostrophes.

Examples:
  bibfield key check "O'Brien, J."              # OBrienJ.
  bibfield key check --lenient "O'Brien, J."    # O'BrienJ.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := argOrStdin(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		strict := preferences.GetBool(prefs.EnforceLegalBibtexKey) && !keyLenient
		fmt.Fprintln(cmd.OutOrStdout(), preferences.Sanitizer().CheckLegalKey(k, strict))
		return nil
	},
}

var (
	keyInput     string
	keyOutput    string
	keyFormat    string
	keyWrite     bool
	keyOverwrite bool
)

var keyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate [auth][year] keys for the entries of a file",
	Long: `Generate [auth][year] keys for the entries of a file.

Without --write, prints one line per entry: the current key and the
generated one. With --write, the file is re-serialized with generated keys
filled in for entries that have none (or for all entries with --overwrite).

Examples:
  bibfield key generate -i refs.bib
  bibfield key generate -i refs.bib --write -o keyed.bib`,
	Args: cobra.NoArgs,
	RunE: runKeyGenerate,
}

func runKeyGenerate(cmd *cobra.Command, args []string) (err error) {
	input, inputName, closeInput, err := openInput(keyInput)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeInput(); cerr != nil && err == nil {
			err = fmt.Errorf("closing input file: %w", cerr)
		}
	}()

	parser, err := format.GetParser(keyFormat)
	if err != nil {
		return err
	}
	popts := format.NewParseOptions()
	popts.Prefs = preferences
	popts.Strings = map[string]string{}
	popts.SourceName = inputName

	entries, err := parser.Parse(input, popts)
	if err != nil {
		return fmt.Errorf("parsing input: %w", err)
	}

	lookup := entry.IndexByKey(entries)
	strict := preferences.GetBool(prefs.EnforceLegalBibtexKey)
	sanitizer := preferences.Sanitizer()
	refYear := preferences.ReferenceYear()

	if !keyWrite {
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.CiteKey(), key.Generate(e, sanitizer, strict, lookup, refYear))
		}
		return nil
	}

	for _, e := range entries {
		if e.CiteKey() != "" && !keyOverwrite {
			continue
		}
		if err := e.SetField(schema.KeyField, key.Generate(e, sanitizer, strict, lookup, refYear)); err != nil {
			return err
		}
	}

	output, closeOutput, err := openOutput(keyOutput)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOutput(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()

	serializer, err := format.GetSerializer(keyFormat)
	if err != nil {
		return err
	}
	sopts := format.NewSerializeOptions()
	sopts.Prefs = preferences
	sopts.Fields = fieldRegistry
	sopts.Strings = popts.Strings
	return serializer.Serialize(output, entries, sopts)
}

var (
	idCount int
	idStart int
)

var keyIDCmd = &cobra.Command{
	Use:   "id",
	Short: "Print fresh entry identifiers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gen := key.NewIDGenerator(idStart)
		for i := 0; i < idCount; i++ {
			fmt.Fprintln(cmd.OutOrStdout(), gen.Next())
		}
		return nil
	},
}

func init() {
	keyCheckCmd.Flags().BoolVar(&keyLenient, "lenient", false, "Keep apostrophes even when enforceLegalBibtexKey is set")

	keyGenerateCmd.Flags().StringVarP(&keyInput, "input", "i", "", "Input file (default: stdin)")
	keyGenerateCmd.Flags().StringVarP(&keyOutput, "output", "o", "", "Output file for --write (default: stdout)")
	keyGenerateCmd.Flags().StringVarP(&keyFormat, "format", "f", "bibtex", "Input and output format")
	keyGenerateCmd.Flags().BoolVar(&keyWrite, "write", false, "Write the entries back with generated keys")
	keyGenerateCmd.Flags().BoolVar(&keyOverwrite, "overwrite", false, "Replace existing keys when writing")

	keyIDCmd.Flags().IntVarP(&idCount, "count", "n", 1, "Number of identifiers")
	keyIDCmd.Flags().IntVar(&idStart, "start", 0, "Value of the first identifier")

	keyCmd.AddCommand(keyCheckCmd, keyGenerateCmd, keyIDCmd)
}
