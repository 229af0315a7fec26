package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// propertiesCmd lists the property columns recorded in the database's
// catalog: name, entity (node/edge), word width, and value tag.
func propertiesCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "properties",
		Short: "List registered property columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := open()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tENTITY\tWIDTH\tTAG")
			for _, p := range g.Catalog().Properties {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", p.Name, p.Entity, p.Width, p.Tag)
			}
			return tw.Flush()
		},
	}
}
