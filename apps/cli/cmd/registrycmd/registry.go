// Package registrycmd exposes inspection helpers over the embedded collection
// registry.
package registrycmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/freshfleet/backoffice/platform/go/registry"
)

// Command groups the registry subcommands.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the embedded collection registry",
	}

	cmd.AddCommand(validateCommand())
	cmd.AddCommand(listCommand())
	return cmd
}

func validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the embedded collection registry against its schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.Load()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registry OK: %d collections\n", len(reg.Names()))
			return nil
		},
	}
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered collections and their foreign keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.Load()
			if err != nil {
				return err
			}

			names := reg.Names()
			sort.Strings(names)
			for _, name := range names {
				col, _ := reg.Get(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%s (sequence: %s, active: %s)\n", col.Name, col.SequenceField, col.ActiveField)
				for _, fk := range col.ForeignKeys {
					flags := ""
					if fk.Required {
						flags += " required"
					}
					if fk.RequireActive {
						flags += " require-active"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "  %s -> %s%s\n", fk.Field, fk.Collection, flags)
				}
			}
			return nil
		},
	}
}
