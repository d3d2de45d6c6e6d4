package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scraping pipeline.
type Metrics struct {
	Registry       *prometheus.Registry
	ScrapesTotal   *prometheus.CounterVec
	ScrapeDuration *prometheus.HistogramVec
	RetriesTotal   *prometheus.CounterVec
	BatchesTotal   prometheus.Counter
	BatchDuration  prometheus.Histogram
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	scrapes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_scrapes_total",
			Help: "Total per-source scrape attempts by site and status.",
		},
		[]string{"site", "status"},
	)
	scrapeDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricewatch_scrape_duration_seconds",
			Help:    "Wall-clock duration of one source scrape, navigation included.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"site"},
	)
	retries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_retries_total",
			Help: "Total retry attempts scheduled after transient failures.",
		},
		[]string{"site"},
	)
	batches := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricewatch_batches_total",
			Help: "Total batch runs executed.",
		},
	)
	batchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricewatch_batch_duration_seconds",
			Help:    "Wall-clock duration of a full batch run.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	registry.MustRegister(scrapes, scrapeDuration, retries, batches, batchDuration)

	return &Metrics{
		Registry:       registry,
		ScrapesTotal:   scrapes,
		ScrapeDuration: scrapeDuration,
		RetriesTotal:   retries,
		BatchesTotal:   batches,
		BatchDuration:  batchDuration,
	}
}

// IncScrape increments the per-source scrape counter.
func (m *Metrics) IncScrape(site, status string) {
	if m == nil {
		return
	}
	m.ScrapesTotal.WithLabelValues(site, status).Inc()
}

// ObserveScrape records the duration of one source scrape.
func (m *Metrics) ObserveScrape(site string, d time.Duration) {
	if m == nil {
		return
	}
	m.ScrapeDuration.WithLabelValues(site).Observe(d.Seconds())
}

// IncRetry increments the retry counter for a site.
func (m *Metrics) IncRetry(site string) {
	if m == nil {
		return
	}
	m.RetriesTotal.WithLabelValues(site).Inc()
}

// ObserveBatch records one completed batch run.
func (m *Metrics) ObserveBatch(d time.Duration) {
	if m == nil {
		return
	}
	m.BatchesTotal.Inc()
	m.BatchDuration.Observe(d.Seconds())
}
