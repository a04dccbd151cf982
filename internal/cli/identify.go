package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aryan-Seth/y0/pkg/dsl"
	y0errors "github.com/Aryan-Seth/y0/pkg/errors"
	"github.com/Aryan-Seth/y0/pkg/graph"
	y0io "github.com/Aryan-Seth/y0/pkg/io"
	"github.com/Aryan-Seth/y0/pkg/pipeline"
)

type identifyOpts struct {
	algorithm  string
	outcomes   []string
	treatments []string
	i, j, z    []string
	domains    []string
	queryPath  string
	asJSON     bool
	noCache    bool
	refresh    bool
}

// identifyResult is the --json output of identify.
type identifyResult struct {
	Algorithm      string          `json:"algorithm"`
	Identifiable   bool            `json:"identifiable"`
	Expression     string          `json:"expression"`
	ExpressionJSON json.RawMessage `json:"expression_json"`
	Cached         bool            `json:"cached"`
	GraphHash      string          `json:"graph_hash"`
}

func (c *CLI) identifyCommand() *cobra.Command {
	opts := identifyOpts{}

	cmd := &cobra.Command{
		Use:   "identify [graph]",
		Short: "Identify a causal effect from a graph",
		Long: `Decide whether P(outcomes | do(treatments)) can be computed from the
observational distribution (id), from surrogate experiments on Z (gz), or
from experiments run in other domains (z2), and print the estimand.

The graph and the query come from flags, from a query file (--query), or
both: flags given on the command line override the query file.`,
		Example: `  # Front-door graph
  y0 identify frontdoor.json --outcome Y --treatment X

  # gz-identification with an experiment on Z1
  y0 identify g.yaml --algorithm gz --outcome Y --treatment X --z Z1 --i Z1

  # z2 with two source domains
  y0 identify g.json --algorithm z2 --outcome Y --treatment X --domain X --domain Z

  # Everything from a TOML query file
  y0 identify --query query.toml --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, g, err := opts.request(cmd, args)
			if err != nil {
				return err
			}
			return c.runIdentify(cmd, req, g, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.algorithm, "algorithm", "a", "", "algorithm: id, gz or z2 (default id)")
	f.StringSliceVarP(&opts.outcomes, "outcome", "y", nil, "outcome variables (comma-separated or repeated)")
	f.StringSliceVarP(&opts.treatments, "treatment", "x", nil, "treatment variables")
	f.StringSliceVar(&opts.z, "z", nil, "gz: variables with surrogate experiments")
	f.StringSliceVar(&opts.i, "i", nil, "gz: experiments on Z that are performed")
	f.StringSliceVar(&opts.j, "j", nil, "gz: treatments that are not intervened on in the experiment")
	f.StringArrayVar(&opts.domains, "domain", nil, "z2: treatments of one source domain, comma-separated (repeat per domain)")
	f.StringVarP(&opts.queryPath, "query", "q", "", "query file (json, yaml or toml)")
	f.BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	f.BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached result exists")

	return cmd
}

// request merges the query file and the flags into a pipeline request.
func (o *identifyOpts) request(cmd *cobra.Command, args []string) (pipeline.Request, *graph.Graph, error) {
	doc := &y0io.QueryDocument{}
	if o.queryPath != "" {
		q, err := y0io.ImportQuery(o.queryPath)
		if err != nil {
			return pipeline.Request{}, nil, err
		}
		doc = q
	}

	flags := cmd.Flags()
	if flags.Changed("algorithm") {
		doc.Algorithm = o.algorithm
	}
	if flags.Changed("outcome") {
		doc.Outcomes = o.outcomes
	}
	if flags.Changed("treatment") {
		doc.Treatments = o.treatments
	}
	if flags.Changed("z") {
		doc.Z = o.z
	}
	if flags.Changed("i") {
		doc.I = o.i
	}
	if flags.Changed("j") {
		doc.J = o.j
	}
	if flags.Changed("domain") {
		doc.Domains = nil
		for _, d := range o.domains {
			doc.Domains = append(doc.Domains, y0io.DomainDocument{Treatments: splitList(d)})
		}
	}
	if len(args) == 1 {
		doc.Graph, doc.GraphFile = nil, ""
	}
	if err := doc.Validate(); err != nil {
		return pipeline.Request{}, nil, err
	}

	var (
		g   *graph.Graph
		err error
	)
	switch {
	case len(args) == 1:
		g, err = loadGraph(args[0])
	case o.queryPath != "":
		g, err = queryGraph(doc, o.queryPath)
	default:
		err = y0errors.New(y0errors.ErrCodeInvalidInput, "no graph: pass a graph file or --query")
	}
	if err != nil {
		return pipeline.Request{}, nil, err
	}

	req := pipeline.RequestFromDocument(doc, g)
	req.Refresh = o.refresh
	return req, g, nil
}

func (c *CLI) runIdentify(cmd *cobra.Command, req pipeline.Request, g *graph.Graph, opts identifyOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spin *Spinner
	if !opts.asJSON && isTerminal(cmd.ErrOrStderr()) {
		spin = newSpinner(ctx, cmd.ErrOrStderr(), "Identifying...")
		spin.Start()
	}
	start := time.Now()
	res, err := runner.Identify(ctx, req)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	logger.Debug("identification finished", "cached", res.Cached, "hash", res.GraphHash)

	out := cmd.OutOrStdout()
	if opts.asJSON {
		return writeIdentifyJSON(out, res)
	}

	query := queryString(req)
	if res.Identifiable {
		printSuccess(out, "%s is identifiable", query)
	} else {
		printFailure(out, "%s is not identifiable", query)
	}
	fmt.Fprintln(out, "  "+StyleExpression.Render(res.Expression.String()))
	printStats(out, g, res.Cached)
	if !res.Cached {
		logElapsed(logger, start, fmt.Sprintf("Ran %s", res.Algorithm))
	}
	if !res.Identifiable && res.Algorithm == pipeline.AlgorithmID {
		printNextStep(out, "Try surrogate experiments", "y0 identify --algorithm gz --z ...")
	}
	return nil
}

func writeIdentifyJSON(w io.Writer, res *pipeline.Result) error {
	exprJSON, err := dsl.Marshal(res.Expression)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(identifyResult{
		Algorithm:      res.Algorithm,
		Identifiable:   res.Identifiable,
		Expression:     res.Expression.String(),
		ExpressionJSON: exprJSON,
		Cached:         res.Cached,
		GraphHash:      res.GraphHash,
	})
}

// queryString renders the target as P(Y | do(X)).
func queryString(req pipeline.Request) string {
	if req.Treatments.IsEmpty() {
		return fmt.Sprintf("P(%s)", joinVars(req.Outcomes.Sorted()))
	}
	return fmt.Sprintf("P(%s | do(%s))", joinVars(req.Outcomes.Sorted()), joinVars(req.Treatments.Sorted()))
}
