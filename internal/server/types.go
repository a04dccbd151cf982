package server

import (
	"encoding/json"

	"github.com/Aryan-Seth/y0/pkg/graph"
	y0io "github.com/Aryan-Seth/y0/pkg/io"
)

// IdentifyRequest is the body of POST /v1/identify. Fields follow the query
// file format; graph must be inline.
type IdentifyRequest struct {
	y0io.QueryDocument
	Refresh bool `json:"refresh,omitempty"`
}

// IdentifyResponse is the result of an identification.
type IdentifyResponse struct {
	ID             string          `json:"id"`
	Algorithm      string          `json:"algorithm"`
	Identifiable   bool            `json:"identifiable"`
	Expression     string          `json:"expression"`
	ExpressionJSON json.RawMessage `json:"expression_json"`
	Cached         bool            `json:"cached"`
	GraphHash      string          `json:"graph_hash"`
	DurationMs     float64         `json:"duration_ms"`
}

// GraphRequest is the body of POST /v1/districts.
type GraphRequest struct {
	Graph *y0io.GraphDocument `json:"graph"`
}

// DistrictsResponse lists the partitions of a graph's vertices.
type DistrictsResponse struct {
	ID                    string     `json:"id"`
	Districts             [][]string `json:"districts"`
	ConsolidatedDistricts [][]string `json:"consolidated_districts"`
	Components            [][]string `json:"components"`
	Acyclic               bool       `json:"acyclic"`
	GraphHash             string     `json:"graph_hash"`
	Cached                bool       `json:"cached"`
}

// AptOrderRequest is the body of POST /v1/apt-order. When Order is set the
// response reports whether it is an apt-order of the graph.
type AptOrderRequest struct {
	Graph *y0io.GraphDocument `json:"graph"`
	Order []string            `json:"order,omitempty"`
}

// AptOrderResponse carries a computed apt-order and, when one was supplied,
// the verdict on the caller's order.
type AptOrderResponse struct {
	ID     string   `json:"id"`
	Order  []string `json:"order"`
	Valid  *bool    `json:"valid,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func names(vs []graph.Variable) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}

func setNames(sets []graph.Set) [][]string {
	out := make([][]string, len(sets))
	for i, s := range sets {
		out[i] = names(s.Sorted())
	}
	return out
}
