package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibfield/prefs"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show the effective preferences",
}

var prefsTOML bool

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every preference as a YAML or TOML file",
	Long: `Print every preference, defaults and the key replacement table
included, in the file shape --prefs reads. The output is a starting point
for a custom preferences file.

Examples:
  bibfield prefs show > prefs.yaml
  bibfield prefs show --toml > prefs.toml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := prefs.FormatYAML
		if prefsTOML {
			f = prefs.FormatTOML
		}

		all := prefs.New()
		for _, k := range preferences.Keys() {
			all.Put(k, preferences.Get(k))
		}
		all.SetReplacements(preferences.Sanitizer().Table())
		return all.Encode(cmd.OutOrStdout(), f)
	},
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one preference value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), preferences.Get(args[0]))
		return nil
	},
}

func init() {
	prefsShowCmd.Flags().BoolVar(&prefsTOML, "toml", false, "Print TOML instead of YAML")
	prefsCmd.AddCommand(prefsShowCmd, prefsGetCmd)
}
