// Package pkg provides the core libraries for y0, a toolkit for causal
// identification over acyclic directed mixed graphs (ADMGs) and cyclic
// input/output structural causal models.
//
// # Overview
//
// y0 decides whether an interventional distribution such as P(Y | do(X)) can
// be written in terms of available data, and if so returns the formula. The
// pkg directory is organized into four areas:
//
//  1. [graph] and [dsl] - Mixed graphs and probability expressions
//  2. [identify], [ioscm], [hcm] - Identification algorithms and structural
//     analyses
//  3. [io], [cache], [config], [observability], [errors] - Infrastructure
//  4. [pipeline] - Orchestration shared by the CLI and the HTTP API
//
// # Architecture
//
// The typical data flow:
//
//	JSON/YAML/TOML graph or query file
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [graph] package (directed + bidirected edges)
//	         ↓
//	    [identify] package (ID, gz_identify, z2id)
//	         ↓
//	    [dsl] expression (text or JSON)
//
// # Quick Start
//
// Identify the effect of X on Y through a front-door mediator:
//
//	import (
//	    "context"
//	    "github.com/Aryan-Seth/y0/pkg/dsl"
//	    "github.com/Aryan-Seth/y0/pkg/graph"
//	    "github.com/Aryan-Seth/y0/pkg/identify"
//	)
//
//	g := graph.MustFromEdges(
//	    []graph.Edge{graph.E("X", "M"), graph.E("M", "Y")},
//	    []graph.Edge{graph.E("X", "Y")},
//	)
//	q, _ := identify.NewIdentification(g, graph.SetOf("Y"), graph.SetOf("X"), nil)
//	expr, err := identify.Identify(context.Background(), q)
//	if err != nil {
//	    return err
//	}
//	if dsl.IsUnidentifiable(expr) {
//	    // no formula exists for this graph
//	}
//	fmt.Println(expr)
//
// # Main Packages
//
// ## Graphs and Expressions
//
// [graph] - Mixed graph with directed and bidirected edges, districts,
// ancestral sets, subgraphs, and topological orders.
//
// [dsl] - Probability expressions (probabilities, sums, products, fractions,
// zero) with canonical text rendering and a tagged JSON encoding.
//
// ## Algorithms
//
// [identify] - Shpitser's ID algorithm, gz_identify for surrogate
// experiments, and z2id/subz2 for transportability across domains.
//
// [ioscm] - Strongly connected components, consolidated districts, and
// apt-orders for cyclic graphs.
//
// [hcm] - Hierarchical causal models: collapse to a flat graph, then augment
// and marginalize a subunit mechanism.
//
// ## Infrastructure
//
// [io] - Graph, model, and query documents in JSON, YAML, and TOML.
//
// [cache] - Result cache with file, Redis, and MongoDB backends.
//
// [config] - User configuration loaded from config.toml.
//
// [observability] - Hooks for identification runs, cache lookups, and HTTP
// requests, with a Prometheus implementation.
//
// [errors] - Coded errors and input validation shared by every entry point.
//
// [pipeline] - Cached identification and analysis runs used by the CLI and
// the HTTP API.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...               # All tests
//	go test ./pkg/identify/...      # Specific package
//	go test -run Example ./pkg/...  # Examples only
//
// [graph]: https://pkg.go.dev/github.com/Aryan-Seth/y0/pkg/graph
// [dsl]: https://pkg.go.dev/github.com/Aryan-Seth/y0/pkg/dsl
// [identify]: https://pkg.go.dev/github.com/Aryan-Seth/y0/pkg/identify
// [ioscm]: https://pkg.go.dev/github.com/Aryan-Seth/y0/pkg/ioscm
// [hcm]: https://pkg.go.dev/github.com/Aryan-Seth/y0/pkg/hcm
// [io]: https://pkg.go.dev/github.com/Aryan-Seth/y0/pkg/io
// [cache]: https://pkg.go.dev/github.com/Aryan-Seth/y0/pkg/cache
// [config]: https://pkg.go.dev/github.com/Aryan-Seth/y0/pkg/config
// [observability]: https://pkg.go.dev/github.com/Aryan-Seth/y0/pkg/observability
// [errors]: https://pkg.go.dev/github.com/Aryan-Seth/y0/pkg/errors
// [pipeline]: https://pkg.go.dev/github.com/Aryan-Seth/y0/pkg/pipeline
package pkg
