package observability

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	i := NoopIdentifyHooks{}
	i.OnIdentifyStart(ctx, "id", 3)
	i.OnIdentifyComplete(ctx, "id", true, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "identify")
	c.OnCacheMiss(ctx, "identify")
	c.OnCacheSet(ctx, "identify", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "POST", "/v1/identify", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Identify().(NoopIdentifyHooks); !ok {
		t.Error("Identify() should return NoopIdentifyHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	customIdentify := &testIdentifyHooks{}
	SetIdentifyHooks(customIdentify)
	if Identify() != customIdentify {
		t.Error("SetIdentifyHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customServer := &testServerHooks{}
	SetServerHooks(customServer)
	if Server() != customServer {
		t.Error("SetServerHooks should set custom hooks")
	}

	Reset()
	if _, ok := Identify().(NoopIdentifyHooks); !ok {
		t.Error("Reset() should restore NoopIdentifyHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testIdentifyHooks{}
	SetIdentifyHooks(custom)
	SetIdentifyHooks(nil)

	if Identify() != custom {
		t.Error("SetIdentifyHooks(nil) should be ignored")
	}
}

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)

	h.OnIdentifyStart(ctx, "gz", 4)
	h.OnIdentifyComplete(ctx, "gz", true, 2*time.Millisecond, nil)
	h.OnIdentifyStart(ctx, "gz", 4)
	h.OnIdentifyComplete(ctx, "gz", false, time.Millisecond, nil)
	h.OnIdentifyStart(ctx, "id", 2)
	h.OnIdentifyComplete(ctx, "id", false, time.Millisecond, errors.New("boom"))

	h.OnCacheMiss(ctx, "identify")
	h.OnCacheSet(ctx, "identify", 100)
	h.OnCacheHit(ctx, "identify")
	h.OnRequest(ctx, "POST", "/v1/identify", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	for _, want := range []string{
		`y0_identify_total{algorithm="gz",outcome="identifiable"} 1`,
		`y0_identify_total{algorithm="gz",outcome="unidentifiable"} 1`,
		`y0_identify_total{algorithm="id",outcome="error"} 1`,
		`y0_identify_in_flight 0`,
		`y0_cache_operations_total{key_type="identify",result="hit"} 1`,
		`y0_cache_written_bytes_total 100`,
		`y0_http_requests_total{method="POST",route="/v1/identify",status="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

type testIdentifyHooks struct{ NoopIdentifyHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testServerHooks struct{ NoopServerHooks }
