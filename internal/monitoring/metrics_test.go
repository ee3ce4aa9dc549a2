package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.IncPipelineRun("success")
	m.IncPipelineRun("success")
	m.IncProductsScraped()
	m.IncReviewFetch("error")
	m.IncSentiment("Positive")
	m.ObserveRender("search", 150*time.Millisecond)
	m.ObserveHTTP("POST", "/api/search", "200", time.Second)

	if got := testutil.ToFloat64(m.PipelineRunsTotal.WithLabelValues("success")); got != 2 {
		t.Errorf("pipeline runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ProductsScrapedTotal); got != 1 {
		t.Errorf("products = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ReviewFetchTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("review fetch errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/search", "200")); got != 1 {
		t.Errorf("http requests = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.RenderDuration); n != 1 {
		t.Errorf("render duration series = %d, want 1", n)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.IncPipelineRun("success")
	m.IncProductsScraped()
	m.IncReviewFetch("found")
	m.IncSentiment("Neutral")
	m.ObserveRender("product", time.Millisecond)
	m.ObserveHTTP("GET", "/", "200", time.Millisecond)
}
