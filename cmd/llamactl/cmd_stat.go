package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statCmd prints a one-line-per-field summary of the opened database:
// its catalog ID, level count, MaxNodes (one past the highest known node
// ID), and the number of registered property columns.
func statCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "stat",
		Short: "Print summary statistics for the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := open()
			if err != nil {
				return err
			}
			cat := g.Catalog()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "catalog_id:  %s\n", cat.ID)
			fmt.Fprintf(out, "levels:      %d\n", g.NumLevels())
			fmt.Fprintf(out, "max_node_id: %d\n", g.MaxNodes())
			fmt.Fprintf(out, "properties:  %d\n", len(cat.Properties))
			return nil
		},
	}
}
