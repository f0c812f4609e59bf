package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibfield/value"
)

var dateCmd = &cobra.Command{
	Use:   "date",
	Short: "Normalize year and month field values",
}

var dateReference int

// referenceYear prefers --reference, then the referenceYear preference.
func referenceYear() int {
	if dateReference != 0 {
		return dateReference
	}
	return preferences.ReferenceYear()
}

var dateYearCmd = &cobra.Command{
	Use:   "year <yy>",
	Short: "Expand a two-digit year",
	Long: `Expand a two-digit year into four digits using a window of 69 years
back and 30 years forward from the reference year.

Examples:
  bibfield date year --reference 1992 23   # 1923
  bibfield date year --reference 1993 23   # 2023`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), value.ToFourDigitYear(args[0], referenceYear()))
		return nil
	},
}

var dateMonthCmd = &cobra.Command{
	Use:   "month <token>",
	Short: "Resolve a month token",
	Long: `Resolve a month token ("#mar#", "March", "3") and print its zero-based
index, BibTeX macro name and English name. Unrecognized tokens print -1.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m := value.MonthNumber(args[0])
		if m < 0 || m > 11 {
			fmt.Fprintln(cmd.OutOrStdout(), m)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", m, value.MonthAbbrev(m), value.MonthName(m))
		return nil
	},
}

var datePublicationCmd = &cobra.Command{
	Use:   "publication <year> [month]",
	Short: "Print the publication date as YYYY or YYYY-MM",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		month := ""
		if len(args) > 1 {
			month = args[1]
		}
		fmt.Fprintln(cmd.OutOrStdout(), value.PublicationDate(args[0], month, referenceYear()))
		return nil
	},
}

func init() {
	dateCmd.PersistentFlags().IntVar(&dateReference, "reference", 0, "Reference year (default: referenceYear preference, else the current year)")
	dateCmd.AddCommand(dateYearCmd, dateMonthCmd, datePublicationCmd)
}
