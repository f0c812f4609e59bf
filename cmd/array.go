package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibfield/value"
)

var arrayCmd = &cobra.Command{
	Use:   "array",
	Short: "Encode and decode the ':'/';' array storage format",
	Long: `Encode and decode string arrays in the single-string storage format.

Elements are separated by ':' and rows by ';'; a backslash escapes either
separator and itself. With --list, the one-dimensional ';' list format of
preference values is used instead.

Input is read one element per line; with --2d each line is a row whose
elements are separated by tabs. Decoding prints the same layout.

Examples:
  printf 'a:b\nc\n' | bibfield array encode        # a\:b:c
  printf 'a\tb\nc\n' | bibfield array encode --2d  # a:b;c
  bibfield array decode --2d 'a:b;c'`,
}

// arrayLayout reads the --2d and --list flags of cmd.
func arrayLayout(cmd *cobra.Command) (twoD, list bool) {
	twoD, _ = cmd.Flags().GetBool("2d")
	list, _ = cmd.Flags().GetBool("list")
	return twoD, list
}

var arrayEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode lines from stdin as one string",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var lines []string
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}

		array2D, arrayList := arrayLayout(cmd)
		var out string
		switch {
		case array2D:
			rows := make([][]string, len(lines))
			for i, line := range lines {
				rows[i] = strings.Split(line, "\t")
			}
			out = value.Encode2D(rows)
		case arrayList:
			out = value.EncodeList(lines)
		default:
			out = value.Encode1D(lines)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var arrayDecodeCmd = &cobra.Command{
	Use:   "decode [value]",
	Short: "Decode a stored string into lines",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := argOrStdin(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		array2D, arrayList := arrayLayout(cmd)
		w := cmd.OutOrStdout()
		if arrayList {
			for _, elem := range value.DecodeList(s) {
				fmt.Fprintln(w, elem)
			}
			return nil
		}

		rows := value.Decode2D(s)
		for _, row := range rows {
			if array2D {
				fmt.Fprintln(w, strings.Join(row, "\t"))
				continue
			}
			for _, elem := range row {
				fmt.Fprintln(w, elem)
			}
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{arrayEncodeCmd, arrayDecodeCmd} {
		c.Flags().Bool("2d", false, "Rows of tab-separated elements")
		c.Flags().Bool("list", false, "Use the ';' list format")
		c.MarkFlagsMutuallyExclusive("2d", "list")
	}
	arrayCmd.AddCommand(arrayEncodeCmd, arrayDecodeCmd)
}
