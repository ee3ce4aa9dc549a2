package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	PipelineRunsTotal    *prometheus.CounterVec
	ProductsScrapedTotal prometheus.Counter
	ReviewFetchTotal     *prometheus.CounterVec
	SentimentTotal       *prometheus.CounterVec
	RenderDuration       *prometheus.HistogramVec
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		PipelineRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_pipeline_runs_total",
			Help: "The total number of pipeline runs by outcome",
		}, []string{"status"}), // e.g., 'success', 'search_timeout', 'empty_results'
		ProductsScrapedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scraper_products_scraped_total",
			Help: "The total number of product rows produced",
		}),
		ReviewFetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_review_fetch_total",
			Help: "Review page fetches by outcome",
		}, []string{"outcome"}), // 'found', 'empty', 'error'
		SentimentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_sentiment_labels_total",
			Help: "Scored review texts by label",
		}, []string{"label"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scraper_render_duration_seconds",
			Help:    "Page render latency by page kind",
			Buckets: prometheus.DefBuckets,
		}, []string{"page"}), // 'search', 'product'
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(
		m.PipelineRunsTotal,
		m.ProductsScrapedTotal,
		m.ReviewFetchTotal,
		m.SentimentTotal,
		m.RenderDuration,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

func (m *Metrics) IncPipelineRun(status string) {
	if m == nil {
		return
	}
	m.PipelineRunsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) IncProductsScraped() {
	if m == nil {
		return
	}
	m.ProductsScrapedTotal.Inc()
}

func (m *Metrics) IncReviewFetch(outcome string) {
	if m == nil {
		return
	}
	m.ReviewFetchTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncSentiment(label string) {
	if m == nil {
		return
	}
	m.SentimentTotal.WithLabelValues(label).Inc()
}

func (m *Metrics) ObserveRender(page string, d time.Duration) {
	if m == nil {
		return
	}
	m.RenderDuration.WithLabelValues(page).Observe(d.Seconds())
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}
