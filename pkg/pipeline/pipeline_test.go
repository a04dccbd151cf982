package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Aryan-Seth/y0/pkg/cache"
	"github.com/Aryan-Seth/y0/pkg/dsl"
	y0errors "github.com/Aryan-Seth/y0/pkg/errors"
	"github.com/Aryan-Seth/y0/pkg/graph"
	"github.com/Aryan-Seth/y0/pkg/identify"
	y0io "github.com/Aryan-Seth/y0/pkg/io"
	"github.com/Aryan-Seth/y0/pkg/ioscm"
)

// memCache is an in-memory cache.Cache that counts operations.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

var chain = graph.MustFromEdges([]graph.Edge{graph.E("A", "M"), graph.E("M", "Y")}, nil)

func TestRunnerIdentify_Caches(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	r := quietRunner(mc)

	req := Request{Graph: chain, Algorithm: AlgorithmID, Outcomes: graph.SetOf("Y"), Treatments: graph.SetOf("A")}
	first, err := r.Identify(ctx, req)
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if first.Cached || !first.Identifiable {
		t.Errorf("first run: cached %v identifiable %v", first.Cached, first.Identifiable)
	}
	want := dsl.SumSafe(dsl.ProductSafe(dsl.P("Y").Given("M", "A"), dsl.P("M").Given("A")), graph.SetOf("M"))
	if !dsl.Equal(want, first.Expression) {
		t.Errorf("Expression = %v, want %v", first.Expression, want)
	}

	second, err := r.Identify(ctx, req)
	if err != nil {
		t.Fatalf("Identify (cached): %v", err)
	}
	if !second.Cached {
		t.Error("second run should be served from cache")
	}
	if !dsl.Equal(first.Expression, second.Expression) {
		t.Errorf("cached expression %v differs from %v", second.Expression, first.Expression)
	}
	if second.GraphHash != first.GraphHash {
		t.Error("graph hash changed between runs")
	}

	req.Refresh = true
	third, err := r.Identify(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached {
		t.Error("refresh should bypass the cache")
	}
	if mc.sets != 2 {
		t.Errorf("cache writes = %d, want 2", mc.sets)
	}
}

func TestRunnerIdentify_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	r := quietRunner(mc)
	req := Request{Graph: chain, Outcomes: graph.SetOf("Y"), Treatments: graph.SetOf("A")}

	if _, err := r.Identify(ctx, req); err != nil {
		t.Fatal(err)
	}
	for k := range mc.data {
		mc.data[k] = []byte("not json")
	}
	res, err := r.Identify(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached {
		t.Error("corrupt entry should be recomputed")
	}
}

func TestRunnerIdentify_Algorithms(t *testing.T) {
	ctx := context.Background()
	r := quietRunner(nil)
	bowArc := graph.MustFromEdges([]graph.Edge{graph.E("A", "Y")}, []graph.Edge{graph.E("A", "Y")})

	tests := []struct {
		name string
		req  Request
		want bool
	}{
		{"id default", Request{Graph: chain, Outcomes: graph.SetOf("Y"), Treatments: graph.SetOf("A")}, true},
		{"gz bow arc", Request{Graph: bowArc, Algorithm: AlgorithmGZ, Outcomes: graph.SetOf("Y"), Treatments: graph.SetOf("A")}, false},
		{
			"z2 experiment on treatment",
			Request{Graph: chain, Algorithm: AlgorithmZ2, Outcomes: graph.SetOf("Y"), Treatments: graph.SetOf("A"), Domains: []graph.Set{graph.SetOf("A")}},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Identify(ctx, tt.req)
			if err != nil {
				t.Fatalf("Identify: %v", err)
			}
			if res.Identifiable != tt.want {
				t.Errorf("Identifiable = %v (%v), want %v", res.Identifiable, res.Expression, tt.want)
			}
		})
	}
}

func TestRunnerIdentify_Errors(t *testing.T) {
	ctx := context.Background()
	r := quietRunner(nil)
	cyclic := graph.MustFromEdges([]graph.Edge{graph.E("X", "Y"), graph.E("Y", "X")}, nil)

	tests := []struct {
		name string
		req  Request
		code y0errors.Code
	}{
		{"no graph", Request{Outcomes: graph.SetOf("Y")}, y0errors.ErrCodeInvalidQuery},
		{"unknown algorithm", Request{Graph: chain, Algorithm: "do", Outcomes: graph.SetOf("Y")}, y0errors.ErrCodeInvalidAlgorithm},
		{"unknown outcome", Request{Graph: chain, Outcomes: graph.SetOf("Q")}, y0errors.ErrCodeInvalidQuery},
		{"cyclic", Request{Graph: cyclic, Outcomes: graph.SetOf("Y"), Treatments: graph.SetOf("X")}, y0errors.ErrCodeInvalidGraph},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Identify(ctx, tt.req)
			if !y0errors.Is(err, tt.code) {
				t.Errorf("Identify() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRunnerAnalyze(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	r := quietRunner(mc)
	g := graph.MustFromEdges(
		[]graph.Edge{graph.E("X", "Y"), graph.E("Y", "X"), graph.E("W", "X")},
		[]graph.Edge{graph.E("Y", "V")},
	)

	a, err := r.Analyze(ctx, g)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if a.Acyclic {
		t.Error("Acyclic = true for a 2-cycle")
	}
	if got := fmt.Sprint(a.Components); got != "[{V} {W} {X, Y}]" {
		t.Errorf("Components = %s", got)
	}
	if got := fmt.Sprint(a.ConsolidatedDistricts); got != "[{V, X, Y} {W}]" {
		t.Errorf("ConsolidatedDistricts = %s", got)
	}
	if err := ioscm.IsAptOrder(a.AptOrder, g); err != nil {
		t.Errorf("AptOrder %v: %v", a.AptOrder, err)
	}

	again, err := r.Analyze(ctx, g)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Cached {
		t.Error("second Analyze should be cached")
	}
	if !slices.Equal(again.AptOrder, a.AptOrder) || fmt.Sprint(again.Districts) != fmt.Sprint(a.Districts) {
		t.Errorf("cached analysis differs: %+v vs %+v", again, a)
	}
}

func TestRequestFromDocument(t *testing.T) {
	doc := &y0io.QueryDocument{
		Algorithm:  "z2",
		Outcomes:   []string{"Y"},
		Treatments: []string{"X"},
		Domains:    []y0io.DomainDocument{{Name: "a", Treatments: []string{"X"}}, {Treatments: []string{"Z", "X"}}},
	}
	req := RequestFromDocument(doc, chain)
	if req.Algorithm != "z2" || !req.Outcomes.Equal(graph.SetOf("Y")) {
		t.Errorf("RequestFromDocument() = %+v", req)
	}
	if len(req.Domains) != 2 || !req.Domains[1].Equal(graph.SetOf("X", "Z")) {
		t.Errorf("Domains = %v", req.Domains)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code y0errors.Code
	}{
		{"cycle", fmt.Errorf("%w: %w", identify.ErrInvalidQuery, graph.ErrCycle), y0errors.ErrCodeInvalidGraph},
		{"query", fmt.Errorf("%w: no outcomes", identify.ErrInvalidQuery), y0errors.ErrCodeInvalidQuery},
		{"precondition", identify.ErrPrecondition, y0errors.ErrCodePrecondition},
		{"limit", identify.ErrRecursionLimit, y0errors.ErrCodeRecursionLimit},
		{"canceled", context.Canceled, y0errors.ErrCodeCanceled},
		{"other", errors.New("boom"), y0errors.ErrCodeInternal},
		{"already coded", y0errors.New(y0errors.ErrCodeNotFound, "x"), y0errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if y0errors.GetCode(got) != tt.code {
				t.Errorf("Classify() code = %s, want %s", y0errors.GetCode(got), tt.code)
			}
			if !errors.Is(got, tt.err) {
				t.Error("Classify() should keep the original error in the chain")
			}
		})
	}
	if Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
}
