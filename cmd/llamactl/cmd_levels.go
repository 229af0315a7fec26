package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// levelsCmd lists every retained out-level with its node and edge counts,
// in the stack-position order llamagraph.Graph.Levels returns them.
func levelsCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List the retained frozen levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := open()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NUMBER\tNODES\tEDGES")
			for _, lvl := range g.Levels() {
				fmt.Fprintf(tw, "%d\t%d\t%d\n", lvl.Number, lvl.NodeCount, lvl.EdgeCount)
			}
			return tw.Flush()
		},
	}
}
