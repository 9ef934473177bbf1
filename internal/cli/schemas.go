package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/atala-prism-sub004/internal/core"
	"github.com/input-output-hk/atala-prism-sub004/internal/schema"
)

// NewSchemasCmd creates the schemas subcommand.
func NewSchemasCmd() *cobra.Command {
	var showYAML bool

	cmd := &cobra.Command{
		Use:   "schemas [key]",
		Short: "List registered schemas, or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				def, ok := core.Get(args[0])
				if !ok {
					return fmt.Errorf("%w: %s", core.ErrUnknownSchema, args[0])
				}
				if !showYAML {
					for _, f := range def.Schema.Fields() {
						fmt.Fprintf(out, "%s\t%s\t%s\t%v\n", f.Key, f.Label, f.Type, f.Rules)
					}
					return nil
				}
				data, err := schema.Marshal(def)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tLABEL\tMODE\tFIELDS")
			for _, def := range core.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", def.Key, def.Label, def.Mode, def.Schema.Len())
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&showYAML, "yaml", false, "print the schema as a YAML schema file")
	return cmd
}

// NewTemplateCmd creates the template subcommand.
func NewTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template <key>",
		Short: "Print the header-only CSV template of a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, ok := core.Get(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", core.ErrUnknownSchema, args[0])
			}
			return core.WriteTemplate(cmd.OutOrStdout(), def.Schema)
		},
	}
}
