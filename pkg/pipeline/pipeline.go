// Package pipeline runs identification queries and structural analyses with
// caching, logging, and observability hooks.
//
// The command line tool and the HTTP API both go through a [Runner] so that
// cache keys, error codes, and log lines are the same on every entry point.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	req := pipeline.RequestFromDocument(queryDoc, g)
//	res, err := runner.Identify(ctx, req)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Expression)
//
// Errors returned by a Runner carry a code from pkg/errors; see [Classify].
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Aryan-Seth/y0/pkg/cache"
	"github.com/Aryan-Seth/y0/pkg/dsl"
	y0errors "github.com/Aryan-Seth/y0/pkg/errors"
	"github.com/Aryan-Seth/y0/pkg/graph"
	"github.com/Aryan-Seth/y0/pkg/identify"
	y0io "github.com/Aryan-Seth/y0/pkg/io"
	"github.com/Aryan-Seth/y0/pkg/ioscm"
)

// Algorithm names.
const (
	AlgorithmID = "id"
	AlgorithmGZ = "gz"
	AlgorithmZ2 = "z2"
)

// Request is an identification query with its algorithm.
type Request struct {
	Graph      *graph.Graph
	Algorithm  string
	Outcomes   graph.Set
	Treatments graph.Set
	I          graph.Set   // gz only
	J          graph.Set   // gz only
	Z          graph.Set   // gz only
	Domains    []graph.Set // z2 only

	// Refresh skips the cache lookup but still stores the result.
	Refresh bool
}

// RequestFromDocument converts a decoded query document into a Request over
// g. The document must already be validated.
func RequestFromDocument(doc *y0io.QueryDocument, g *graph.Graph) Request {
	req := Request{
		Graph:      g,
		Algorithm:  doc.Algorithm,
		Outcomes:   graph.SetOf(doc.Outcomes...),
		Treatments: graph.SetOf(doc.Treatments...),
		I:          graph.SetOf(doc.I...),
		J:          graph.SetOf(doc.J...),
		Z:          graph.SetOf(doc.Z...),
	}
	for _, d := range doc.Domains {
		req.Domains = append(req.Domains, graph.SetOf(d.Treatments...))
	}
	return req
}

func (r Request) keyOpts() cache.IdentifyKeyOpts {
	names := func(s graph.Set) []string {
		out := make([]string, 0, len(s))
		for _, v := range s.Sorted() {
			out = append(out, string(v))
		}
		return out
	}
	opts := cache.IdentifyKeyOpts{
		Algorithm:  r.Algorithm,
		Outcomes:   names(r.Outcomes),
		Treatments: names(r.Treatments),
	}
	switch r.Algorithm {
	case AlgorithmGZ:
		opts.I, opts.J, opts.Z = names(r.I), names(r.J), names(r.Z)
	case AlgorithmZ2:
		for _, d := range r.Domains {
			opts.Domains = append(opts.Domains, names(d))
		}
	}
	return opts
}

// Result is the outcome of an identification run. An unidentifiable query
// is a successful run with Identifiable false.
type Result struct {
	Algorithm    string
	Expression   dsl.Expression
	Identifiable bool
	GraphHash    string
	Cached       bool
	Duration     time.Duration
}

// Analysis summarizes the structure of a graph, cyclic or not.
type Analysis struct {
	Districts             []graph.Set
	ConsolidatedDistricts []graph.Set
	Components            []graph.Set
	AptOrder              []graph.Variable
	Acyclic               bool
	GraphHash             string
	Cached                bool
}

// analysisRecord is the cached form of an Analysis; sets are stored as
// sorted name lists.
type analysisRecord struct {
	Districts             [][]graph.Variable `json:"districts"`
	ConsolidatedDistricts [][]graph.Variable `json:"consolidated_districts"`
	Components            [][]graph.Variable `json:"components"`
	AptOrder              []graph.Variable   `json:"apt_order"`
	Acyclic               bool               `json:"acyclic"`
}

func (a *Analysis) marshal() ([]byte, error) {
	lists := func(sets []graph.Set) [][]graph.Variable {
		out := make([][]graph.Variable, len(sets))
		for i, s := range sets {
			out[i] = s.Sorted()
		}
		return out
	}
	return json.Marshal(analysisRecord{
		Districts:             lists(a.Districts),
		ConsolidatedDistricts: lists(a.ConsolidatedDistricts),
		Components:            lists(a.Components),
		AptOrder:              a.AptOrder,
		Acyclic:               a.Acyclic,
	})
}

func unmarshalAnalysis(data []byte) (*Analysis, error) {
	var rec analysisRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	sets := func(lists [][]graph.Variable) []graph.Set {
		out := make([]graph.Set, len(lists))
		for i, l := range lists {
			out[i] = graph.NewSet(l...)
		}
		return out
	}
	return &Analysis{
		Districts:             sets(rec.Districts),
		ConsolidatedDistricts: sets(rec.ConsolidatedDistricts),
		Components:            sets(rec.Components),
		AptOrder:              rec.AptOrder,
		Acyclic:               rec.Acyclic,
	}, nil
}

// Analyze computes districts, consolidated districts, strongly connected
// components, and an apt-order of g without caching.
func Analyze(g *graph.Graph) (*Analysis, error) {
	order, err := ioscm.AptOrder(g)
	if err != nil {
		return nil, err
	}
	return &Analysis{
		Districts:             g.Districts(),
		ConsolidatedDistricts: ioscm.GraphConsolidatedDistricts(g),
		Components:            ioscm.StronglyConnectedComponents(g),
		AptOrder:              order,
		Acyclic:               g.IsAcyclic(),
	}, nil
}

// GraphHash hashes the canonical JSON form of g.
func GraphHash(g *graph.Graph) (string, error) {
	data, err := json.Marshal(y0io.NewGraphDocument(g))
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// Classify attaches a pkg/errors code to an engine error. Errors that
// already carry a code are returned unchanged.
func Classify(err error) error {
	if err == nil || y0errors.GetCode(err) != "" {
		return err
	}
	switch {
	case errors.Is(err, graph.ErrCycle):
		return y0errors.Wrap(y0errors.ErrCodeInvalidGraph, err, "graph must be acyclic")
	case errors.Is(err, identify.ErrInvalidQuery):
		return y0errors.Wrap(y0errors.ErrCodeInvalidQuery, err, "invalid query")
	case errors.Is(err, identify.ErrPrecondition):
		return y0errors.Wrap(y0errors.ErrCodePrecondition, err, "engine precondition")
	case errors.Is(err, identify.ErrRecursionLimit):
		return y0errors.Wrap(y0errors.ErrCodeRecursionLimit, err, "recursion limit")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return y0errors.Wrap(y0errors.ErrCodeCanceled, err, "canceled")
	default:
		return y0errors.Wrap(y0errors.ErrCodeInternal, err, "internal error")
	}
}
