package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

func TestPipelineMetricsRecordRun(t *testing.T) {
	httpMetrics := NewHTTPServerMetrics("api")
	pipeline := NewPipelineMetrics("api", httpMetrics.Registerer())

	summary := domain.NewRunSummary(5)
	summary.Produced = 3
	summary.Skip(domain.SkipDuplicate)
	pipeline.RecordRun(domain.ModeSeedExpansion, domain.RunCompleted, summary, 1.5)
	pipeline.RecordCandidate("below_threshold")
	pipeline.RecordClusters(2, 1)

	if got := testutil.ToFloat64(pipeline.runsTotal.WithLabelValues("api", "seed_expansion", "completed")); got != 1 {
		t.Fatalf("runs_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(pipeline.prospectsProduced.WithLabelValues("api", "seed_expansion")); got != 3 {
		t.Fatalf("prospects_produced_total = %v, want 3", got)
	}
	if got := testutil.ToFloat64(pipeline.adsTotal.WithLabelValues("api")); got != 1 {
		t.Fatalf("ads_total = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	httpMetrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "prospect_pipeline_candidate_outcomes_total") {
		t.Fatalf("pipeline metrics missing from /metrics output")
	}
}

func TestMiddlewareFoldsUnknownPaths(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	handler := m.Middleware("api", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-admin/login.php", nil))

	if got := testutil.ToFloat64(m.requestTotal.WithLabelValues("api", http.MethodGet, "other", "404")); got != 1 {
		t.Fatalf("requests_total{path=other} = %v, want 1", got)
	}
}

func TestWorkerMetricsFinishRunStatus(t *testing.T) {
	m := NewWorkerMetrics("worker")

	for _, err := range []error{nil, context.DeadlineExceeded, errors.New("boom")} {
		m.StartRun()
		m.FinishRun("worker", time.Second, err)
	}
	m.ObserveQueueLag("worker", -time.Second)

	for _, status := range []string{"success", "timeout", "error"} {
		if got := testutil.ToFloat64(m.processTotal.WithLabelValues("worker", status)); got != 1 {
			t.Fatalf("run_process_total{status=%s} = %v, want 1", status, got)
		}
	}
	if got := testutil.ToFloat64(m.processInFlight); got != 0 {
		t.Fatalf("in flight = %v, want 0", got)
	}
	if got := testutil.CollectAndCount(m.queueLag); got != 0 {
		t.Fatalf("negative lag must be ignored, got %d series", got)
	}
}
