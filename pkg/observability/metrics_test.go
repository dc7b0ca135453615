package observability

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsPipeline(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics("weavr")

	m.OnFixComplete(ctx, 4, 10*time.Millisecond, nil)
	m.OnFixComplete(ctx, 3, time.Millisecond, errors.New("boom"))
	m.OnAuditComplete(ctx, 2, time.Millisecond, nil)

	if got := testutil.ToFloat64(m.runs.WithLabelValues("fix", "ok")); got != 1 {
		t.Errorf("fix ok runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.runs.WithLabelValues("fix", "error")); got != 1 {
		t.Errorf("fix error runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.edgesAdded); got != 4 {
		t.Errorf("edges added = %v, want 4 (failed runs do not count)", got)
	}
	if got := testutil.ToFloat64(m.violations); got != 2 {
		t.Errorf("violations = %v, want 2", got)
	}
}

func TestMetricsCacheAndHTTP(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics("weavr")

	m.OnCacheHit(ctx, "fix")
	m.OnCacheMiss(ctx, "fix")
	m.OnCacheSet(ctx, "fix", 512)
	m.OnResponse(ctx, "POST", "/v1/fix", 200, time.Millisecond)
	m.OnError(ctx, "POST", "/v1/fix", errors.New("boom"))

	if got := testutil.ToFloat64(m.cacheOps.WithLabelValues("fix", "hit")); got != 1 {
		t.Errorf("cache hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.cacheBytes); got != 512 {
		t.Errorf("cache bytes = %v, want 512", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("POST", "/v1/fix", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.requestErrors.WithLabelValues("POST", "/v1/fix")); got != 1 {
		t.Errorf("request errors = %v, want 1", got)
	}
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics("weavr")
	m.OnFixComplete(context.Background(), 1, time.Millisecond, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `weavr_pipeline_runs_total{stage="fix",status="ok"} 1`) {
		t.Errorf("metrics output missing fix counter:\n%s", body)
	}
}

func TestMetricsRegister(t *testing.T) {
	defer Reset()
	m := NewMetrics("weavr")
	m.Register()

	if Pipeline() != PipelineHooks(m) || Cache() != CacheHooks(m) || HTTP() != HTTPHooks(m) {
		t.Error("Register() should install m for every hook category")
	}
}
