package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/bibfield/schema"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Inspect field descriptors and entry types",
	Long: `List and inspect the field descriptors and entry types used when
reading, writing and validating entries. Descriptors loaded with --fields
and the numericFields preference are included.`,
}

var fieldsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known fields and their flags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tFLAGS\tEXTRAS")
		for _, name := range fieldRegistry.Names() {
			d, _ := fieldRegistry.Get(name)
			fmt.Fprintf(w, "%s\t%s\t%s\n", name, describeFlags(d), d.Extras)
		}
		return w.Flush()
	},
}

func describeFlags(d schema.Descriptor) string {
	var flags []string
	if d.IsStandard() {
		flags = append(flags, "standard")
	}
	if !d.IsPublic() {
		flags = append(flags, "private")
	}
	if !d.IsDisplayable() {
		flags = append(flags, "hidden")
	}
	if !d.IsWriteable() {
		flags = append(flags, "transient")
	}
	if d.Numeric {
		flags = append(flags, "numeric")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

var fieldsShowCmd = &cobra.Command{
	Use:   "show [field...]",
	Short: "Print field descriptors as YAML",
	Long: `Print field descriptors as YAML, in the shape --fields reads. With no
arguments the whole registry is printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := fieldRegistry
		if len(args) > 0 {
			registry = schema.NewRegistry()
			for _, name := range args {
				d, ok := fieldRegistry.Get(name)
				if !ok {
					return fmt.Errorf("unknown field: %s", name)
				}
				registry.Register(&d)
			}
		}

		out, err := yaml.Marshal(registry)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var fieldsTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List entry types with their required and optional fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		types := schema.StandardTypes()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tREQUIRED\tOPTIONAL")
		for _, name := range types.Names() {
			t, _ := types.Get(name)
			fmt.Fprintf(w, "%s\t%s\t%s\n", name, t.DescribeRequiredFields(), strings.Join(t.Optional, ", "))
		}
		return w.Flush()
	},
}

func init() {
	fieldsCmd.AddCommand(fieldsListCmd, fieldsShowCmd, fieldsTypesCmd)
}
