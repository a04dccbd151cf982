package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aryan-Seth/y0/pkg/graph"
	"github.com/Aryan-Seth/y0/pkg/ioscm"
)

func (c *CLI) aptOrderCommand() *cobra.Command {
	var (
		check   []string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "apt-order <graph>",
		Short: "Print or check an assembling pseudo-topological order",
		Long: `Print an apt-order of the graph: every ancestor outside a vertex's
strongly connected component comes before it, and each component is a
contiguous block. For acyclic graphs this is a topological order.

With --check, verify a given order instead; the command fails if it is not
an apt-order.`,
		Example: `  y0 apt-order cyclic.json
  y0 apt-order cyclic.json --check A,C,B,D`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if cmd.Flags().Changed("check") {
				order := graph.Vars(check...)
				if err := ioscm.IsAptOrder(order, g); err != nil {
					printFailure(out, "%s is not an apt-order", joinVars(order))
					return err
				}
				printSuccess(out, "%s is an apt-order", joinVars(order))
				return nil
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			a, err := runner.Analyze(ctx, g)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, StyleValue.Render(joinVars(a.AptOrder)))
			if !a.Acyclic {
				printDetail(out, "%d strongly connected components", len(a.Components))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&check, "check", nil, "order to verify, comma-separated")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
