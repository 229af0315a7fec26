package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/llama-csr/core"
)

// degreeCmd prints a single node's out- or in-degree under the database's
// default (all-levels, no timestamp) visibility window.
func degreeCmd(open openFunc) *cobra.Command {
	var direction string

	cmd := &cobra.Command{
		Use:   "degree <node-id>",
		Short: "Print a node's out- or in-degree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("llamactl: invalid node id %q: %w", args[0], err)
			}
			node := core.NodeID(id)

			g, _, err := open()
			if err != nil {
				return err
			}
			w := g.Window()

			switch direction {
			case "out":
				fmt.Fprintln(cmd.OutOrStdout(), g.OutDegree(node, w))
			case "in":
				fmt.Fprintln(cmd.OutOrStdout(), g.InDegree(node, w))
			default:
				return fmt.Errorf("llamactl: --direction must be out or in, got %q", direction)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&direction, "direction", "out", "out or in")
	return cmd
}
