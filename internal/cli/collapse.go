package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	y0errors "github.com/Aryan-Seth/y0/pkg/errors"
	"github.com/Aryan-Seth/y0/pkg/graph"
	"github.com/Aryan-Seth/y0/pkg/hcm"
	y0io "github.com/Aryan-Seth/y0/pkg/io"
)

type collapseOpts struct {
	output      string
	format      string
	augment     string
	mechanism   []string
	marginalize []string
}

func (c *CLI) collapseCommand() *cobra.Command {
	opts := collapseOpts{format: string(y0io.FormatJSON)}

	cmd := &cobra.Command{
		Use:   "collapse <model>",
		Short: "Collapse a hierarchical causal model into a unit-level graph",
		Long: `Collapse a hierarchical causal model (HCM) into a causal graph over
units: each observed subunit variable becomes a Q variable summarizing its
mechanism, and unobserved units become bidirected edges.

The result can be augmented with a new variable for a subset of a
mechanism (--augment, --mechanism) and parents of that variable can then
be marginalized out (--marginalize). The graph is written to stdout, or to
--output with the format taken from the file extension.`,
		Example: `  y0 collapse model.yaml
  y0 collapse model.yaml --augment M --mechanism A,B --marginalize A -o collapsed.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			m, err := y0io.ImportModel(args[0])
			if err != nil {
				return err
			}
			g, err := hcm.Collapse(m)
			if err != nil {
				return fmt.Errorf("collapse %s: %w", args[0], err)
			}
			logger.Debug("collapsed model", "variables", m.Variables().Len(), "nodes", g.NodeCount())

			g, err = opts.transform(g)
			if err != nil {
				return err
			}

			if opts.output != "" {
				if err := y0io.ExportGraph(g, opts.output); err != nil {
					return err
				}
				printSuccess(cmd.ErrOrStderr(), "Collapsed %s", args[0])
				printFile(cmd.ErrOrStderr(), opts.output)
				return nil
			}
			f, err := y0io.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			return y0io.WriteGraph(g, cmd.OutOrStdout(), f)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file")
	f.StringVarP(&opts.format, "format", "f", opts.format, "stdout format: json, yaml or toml")
	f.StringVar(&opts.augment, "augment", "", "name of a variable to add for part of a mechanism")
	f.StringSliceVar(&opts.mechanism, "mechanism", nil, "parents feeding the augmentation variable")
	f.StringSliceVar(&opts.marginalize, "marginalize", nil, "augmentation parents to marginalize out")

	return cmd
}

func (o *collapseOpts) transform(g *graph.Graph) (*graph.Graph, error) {
	if o.augment == "" {
		if len(o.mechanism) > 0 || len(o.marginalize) > 0 {
			return nil, fmt.Errorf("--mechanism and --marginalize need --augment")
		}
		return g, nil
	}
	if err := y0errors.ValidateVariableName(o.augment); err != nil {
		return nil, err
	}
	aug := graph.Variable(o.augment)
	mechanism, err := varSet(o.mechanism)
	if err != nil {
		return nil, err
	}
	g, err = hcm.Augment(g, aug, mechanism)
	if err != nil {
		return nil, fmt.Errorf("augment %s: %w", aug, err)
	}
	if len(o.marginalize) == 0 {
		return g, nil
	}
	parents, err := varSet(o.marginalize)
	if err != nil {
		return nil, err
	}
	g, err = hcm.Marginalize(g, aug, parents)
	if err != nil {
		return nil, fmt.Errorf("marginalize %v: %w", parents, err)
	}
	return g, nil
}
