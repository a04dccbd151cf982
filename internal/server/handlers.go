package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Aryan-Seth/y0/pkg/buildinfo"
	"github.com/Aryan-Seth/y0/pkg/dsl"
	y0errors "github.com/Aryan-Seth/y0/pkg/errors"
	"github.com/Aryan-Seth/y0/pkg/graph"
	y0io "github.com/Aryan-Seth/y0/pkg/io"
	"github.com/Aryan-Seth/y0/pkg/ioscm"
	"github.com/Aryan-Seth/y0/pkg/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := buildinfo.Map()
	body["status"] = "ok"
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleIdentify(w http.ResponseWriter, r *http.Request) {
	var req IdentifyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if req.GraphFile != "" {
		writeError(w, r, y0errors.New(y0errors.ErrCodeUnsupported, "graph_file is not accepted over HTTP; send the graph inline"))
		return
	}
	g, err := inlineGraph(req.Graph)
	if err != nil {
		writeError(w, r, err)
		return
	}

	preq := pipeline.RequestFromDocument(&req.QueryDocument, g)
	preq.Refresh = req.Refresh
	res, err := s.runner.Identify(r.Context(), preq)
	if err != nil {
		writeError(w, r, err)
		return
	}
	exprJSON, err := dsl.Marshal(res.Expression)
	if err != nil {
		writeError(w, r, pipeline.Classify(fmt.Errorf("encode expression: %w", err)))
		return
	}

	requestLogger(r.Context()).Info("identify",
		"algorithm", res.Algorithm,
		"identifiable", res.Identifiable,
		"cached", res.Cached)
	writeJSON(w, http.StatusOK, IdentifyResponse{
		ID:             requestIDFrom(r.Context()),
		Algorithm:      res.Algorithm,
		Identifiable:   res.Identifiable,
		Expression:     res.Expression.String(),
		ExpressionJSON: exprJSON,
		Cached:         res.Cached,
		GraphHash:      res.GraphHash,
		DurationMs:     float64(res.Duration.Microseconds()) / 1000,
	})
}

func (s *Server) handleDistricts(w http.ResponseWriter, r *http.Request) {
	var req GraphRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := inlineGraph(req.Graph)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.runner.Analyze(r.Context(), g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DistrictsResponse{
		ID:                    requestIDFrom(r.Context()),
		Districts:             setNames(a.Districts),
		ConsolidatedDistricts: setNames(a.ConsolidatedDistricts),
		Components:            setNames(a.Components),
		Acyclic:               a.Acyclic,
		GraphHash:             a.GraphHash,
		Cached:                a.Cached,
	})
}

func (s *Server) handleAptOrder(w http.ResponseWriter, r *http.Request) {
	var req AptOrderRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := inlineGraph(req.Graph)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.runner.Analyze(r.Context(), g)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := AptOrderResponse{
		ID:    requestIDFrom(r.Context()),
		Order: names(a.AptOrder),
	}
	if req.Order != nil {
		order := make([]graph.Variable, len(req.Order))
		for i, n := range req.Order {
			order[i] = graph.Variable(n)
		}
		valid := true
		if err := ioscm.IsAptOrder(order, g); err != nil {
			valid = false
			resp.Reason = err.Error()
		}
		resp.Valid = &valid
	}
	writeJSON(w, http.StatusOK, resp)
}

func inlineGraph(doc *y0io.GraphDocument) (*graph.Graph, error) {
	if doc == nil {
		return nil, y0errors.New(y0errors.ErrCodeInvalidQuery, "request has no graph")
	}
	return doc.Graph()
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return y0errors.Wrap(y0errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return y0errors.Wrap(y0errors.ErrCodeInvalidFormat, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := y0errors.GetCode(err)
	if code == "" {
		code = y0errors.ErrCodeInternal
	}
	status := y0errors.HTTPStatus(code)

	logger := requestLogger(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "code", code, "err", err)
	} else {
		logger.Warn("request rejected", "code", code, "err", err)
	}
	writeJSON(w, status, ErrorResponse{
		Error:     y0errors.UserMessage(err),
		Code:      string(code),
		Details:   err.Error(),
		RequestID: requestIDFrom(r.Context()),
	})
}
