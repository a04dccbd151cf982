package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aryan-Seth/y0/pkg/graph"
)

type districtsOpts struct {
	consolidated bool
	scc          bool
	asJSON       bool
	noCache      bool
}

func (c *CLI) districtsCommand() *cobra.Command {
	opts := districtsOpts{}

	cmd := &cobra.Command{
		Use:   "districts <graph>",
		Short: "Partition a graph into districts",
		Long: `Print the districts (c-components) of a graph: the classes of vertices
joined by bidirected edges.

--consolidated also prints the consolidated districts, which merge districts
linked through strongly connected components, and --scc prints the strongly
connected components of the directed part.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			a, err := runner.Analyze(ctx, g)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				body := map[string]any{"districts": setLists(a.Districts)}
				if opts.consolidated {
					body["consolidated_districts"] = setLists(a.ConsolidatedDistricts)
				}
				if opts.scc {
					body["components"] = setLists(a.Components)
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(body)
			}

			fmt.Fprintln(out, setTable("District", a.Districts))
			if opts.consolidated {
				fmt.Fprintln(out, setTable("Consolidated district", a.ConsolidatedDistricts))
			}
			if opts.scc {
				fmt.Fprintln(out, setTable("Strongly connected component", a.Components))
			}
			printStats(out, g, a.Cached)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.consolidated, "consolidated", false, "also print consolidated districts")
	cmd.Flags().BoolVar(&opts.scc, "scc", false, "also print strongly connected components")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func setLists(sets []graph.Set) [][]string {
	out := make([][]string, len(sets))
	for i, s := range sets {
		out[i] = make([]string, 0, s.Len())
		for _, v := range s.Sorted() {
			out[i] = append(out[i], string(v))
		}
	}
	return out
}
