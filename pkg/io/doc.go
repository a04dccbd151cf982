// Package io reads and writes causal graphs, hierarchical causal models, and
// identification queries as JSON, YAML, or TOML documents.
//
// # Graph Format
//
// A mixed graph has a vertex list and two edge lists. Directed edges are
// causal arrows; undirected edges are the bidirected arcs of latent
// confounding:
//
//	{
//	  "nodes": ["X", "M", "Y"],
//	  "directed": [
//	    {"from": "X", "to": "M"},
//	    {"from": "M", "to": "Y"}
//	  ],
//	  "undirected": [
//	    {"from": "X", "to": "Y"}
//	  ]
//	}
//
// The vertex set is the union of "nodes" and every edge endpoint, so "nodes"
// may be omitted unless the graph has isolated vertices. The same document
// shape is accepted as YAML and TOML (with "[[directed]]" tables).
//
// # Model Format
//
// A hierarchical causal model lists its variables by kind and its directed
// edges:
//
//	observed_subunits: [A, Y]
//	unobserved_units: [U]
//	edges:
//	  - {from: U, to: A}
//	  - {from: U, to: Y}
//	  - {from: A, to: Y}
//
// # Query Format
//
// A query names the algorithm and its variable sets. Transportability
// domains carry a name and their intervention set:
//
//	algorithm = "z2"
//	outcomes = ["Y"]
//	treatments = ["X"]
//
//	[[domains]]
//	name = "pi1"
//	treatments = ["Z"]
//
// # Validation
//
// Every variable name is checked with [errors.ValidateVariableName]. Decode
// failures are reported with code INVALID_FORMAT, structural problems
// (self-loops, unknown endpoints) with INVALID_GRAPH or INVALID_QUERY, and
// missing files with FILE_NOT_FOUND.
//
// [errors.ValidateVariableName]: github.com/Aryan-Seth/y0/pkg/errors.ValidateVariableName
package io
