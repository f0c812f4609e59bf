package cmd

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibfield/codec"
	"github.com/lehigh-university-libraries/bibfield/prefs"
)

var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Apply the field codec to a single value",
	Long: `Apply one field transducer to a value given as an argument or on stdin.

Examples:
  bibfield field parse '{The } # jan # " issue"'     # The #jan# issue
  bibfield field format 'The #jan# issue'            # {The } # jan # { issue}
  bibfield field shave '  {braced}  '                # braced
  bibfield field wrap 'IEEE Trans'                   # {IEEE} Trans
  bibfield field quote --specials ';' 'a;b'          # a\;b
  bibfield field html -m to-html '{A}&B'            # A&amp;B
  bibfield field url 'doi:10.1000/182'               # https://doi.org/10.1000/182`,
}

// fieldFunc adapts a string transducer to a subcommand that takes one value.
func fieldFunc(use, short string, fn func(string) string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [value]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := argOrStdin(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), fn(s))
			return nil
		},
	}
}

var (
	quoteSpecials  string
	quoteChar      string
	quoteWidth     int
	htmlMode       string
	htmlLineLength int
	unwrapOnce     bool
)

var fieldQuoteCmd = &cobra.Command{
	Use:   "quote [value]",
	Short: "Escape special characters with the quote character",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := argOrStdin(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		q, err := quoteRune()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), codec.Quote(s, quoteSpecials, q, quoteWidth))
		return nil
	},
}

var fieldUnquoteCmd = &cobra.Command{
	Use:   "unquote [value]",
	Short: "Remove quote-character escapes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := argOrStdin(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		q, err := quoteRune()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), codec.Unquote(s, q))
		return nil
	},
}

func quoteRune() (rune, error) {
	if utf8.RuneCountInString(quoteChar) != 1 {
		return 0, fmt.Errorf("--quote-char must be a single character, got %q", quoteChar)
	}
	r, _ := utf8.DecodeRuneInString(quoteChar)
	return r, nil
}

var fieldUnwrapCmd = &cobra.Command{
	Use:   "unwrap [value]",
	Short: "Remove braces around runs of capitals",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := argOrStdin(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if unwrapOnce {
			s = codec.UnwrapCapitalsOnce(s)
		} else {
			s = codec.UnwrapCapitals(s)
		}
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	},
}

var fieldHTMLCmd = &cobra.Command{
	Use:   "html [value]",
	Short: "Convert a value for or from HTML",
	Long: `Convert a value for or from HTML.

Modes:
  quote   (default) render every character as a &#N; reference
  to-html strip capital protection and reference markers, escape, keep line breaks
  strip   remove tags and entities from HTML text
  wrap    break into lines of --line-length joined with <br>`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := argOrStdin(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		switch htmlMode {
		case "quote":
			s = codec.QuoteForHTML(s)
		case "to-html":
			s = codec.ToHTML(s)
		case "strip":
			s = codec.StripHTML(s)
		case "wrap":
			width := htmlLineLength
			if width == 0 {
				width = preferences.GetInt(prefs.LineLength)
			}
			s = codec.WrapHTML(s, width)
		default:
			return fmt.Errorf("unknown html mode %q (quote, to-html, strip, wrap)", htmlMode)
		}
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	},
}

func init() {
	fieldQuoteCmd.Flags().StringVar(&quoteSpecials, "specials", ";", "Characters to escape")
	fieldQuoteCmd.Flags().StringVar(&quoteChar, "quote-char", `\`, "Escape character")
	fieldQuoteCmd.Flags().IntVar(&quoteWidth, "width", 0, "Wrap width (0 disables wrapping)")
	fieldUnquoteCmd.Flags().StringVar(&quoteChar, "quote-char", `\`, "Escape character")
	fieldUnwrapCmd.Flags().BoolVar(&unwrapOnce, "once", false, "Unwrap a single level of braces only")
	fieldHTMLCmd.Flags().StringVarP(&htmlMode, "mode", "m", "quote", "Conversion mode (quote, to-html, strip, wrap)")
	fieldHTMLCmd.Flags().IntVar(&htmlLineLength, "line-length", 0, "Line length for wrap mode (default: lineLength preference)")

	fieldCmd.AddCommand(
		fieldFunc("parse", "Convert BibTeX notation to the normalized form", codec.ParseField),
		fieldFunc("format", "Convert the normalized form to BibTeX notation", codec.FormatField),
		fieldFunc("shave", "Trim whitespace and one enclosing pair of braces or quotes", codec.Shave),
		fieldFunc("wrap", "Protect runs of capitals with braces", codec.WrapCapitals),
		fieldUnwrapCmd,
		fieldQuoteCmd,
		fieldUnquoteCmd,
		fieldHTMLCmd,
		fieldFunc("url", "Clean a URL or DOI", codec.SanitizeURL),
		fieldFunc("words", "Sort words and remove duplicates", codec.SortWordsAndRemoveDuplicates),
		fieldFunc("regex", "Escape a value for use in a regular expression", codec.QuoteMeta),
	)
}
