package service

import (
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/smartclean-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	searchTotal     *prometheus.CounterVec
	searchResults   prometheus.Histogram
	catalogSize     prometheus.Gauge
	catalogVersion  prometheus.Gauge
	catalogReloads  *prometheus.CounterVec
	magicLinks      *prometheus.CounterVec
	jobsProcessed   *prometheus.CounterVec

	requestCount         uint64
	requestDurationTotal uint64
	searchCount          uint64
	emptySearchCount     uint64
	reloadFailures       uint64
	catalogProviders     int64
	catalogVersionValue  int64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	searchTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provider_searches_total",
		Help: "Provider searches by whether any filter was active",
	}, []string{"filters_active"})

	searchResults := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "provider_search_results",
		Help:    "Number of providers returned per search",
		Buckets: []float64{0, 1, 2, 3, 5, 10, 25, 50, 100},
	})

	catalogSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_providers",
		Help: "Providers in the active catalog snapshot",
	})

	catalogVersion := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_version",
		Help: "Version of the active catalog snapshot",
	})

	catalogReloads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_reloads_total",
		Help: "Catalog reload attempts by source and result",
	}, []string{"source", "result"})

	magicLinks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_magic_links_total",
		Help: "Magic links issued and redeemed",
	}, []string{"event"})

	jobsProcessed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobs_processed_total",
		Help: "Background jobs by type and outcome",
	}, []string{"type", "status"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, searchTotal, searchResults, catalogSize, catalogVersion,
		catalogReloads, magicLinks, jobsProcessed, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		searchTotal:     searchTotal,
		searchResults:   searchResults,
		catalogSize:     catalogSize,
		catalogVersion:  catalogVersion,
		catalogReloads:  catalogReloads,
		magicLinks:      magicLinks,
		jobsProcessed:   jobsProcessed,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveSearch records one provider search.
func (m *MetricsService) ObserveSearch(filtersActive bool, results int) {
	if m == nil {
		return
	}
	m.searchTotal.WithLabelValues(strconv.FormatBool(filtersActive)).Inc()
	m.searchResults.Observe(float64(results))
	atomic.AddUint64(&m.searchCount, 1)
	if results == 0 {
		atomic.AddUint64(&m.emptySearchCount, 1)
	}
}

// ObserveCatalogReload records a reload attempt and, on success, the new snapshot shape.
func (m *MetricsService) ObserveCatalogReload(source string, catalog *models.Catalog, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.catalogReloads.WithLabelValues(source, "error").Inc()
		atomic.AddUint64(&m.reloadFailures, 1)
		return
	}
	m.catalogReloads.WithLabelValues(source, "ok").Inc()
	if catalog != nil {
		m.catalogSize.Set(float64(catalog.Len()))
		m.catalogVersion.Set(float64(catalog.Version))
		atomic.StoreInt64(&m.catalogProviders, int64(catalog.Len()))
		atomic.StoreInt64(&m.catalogVersionValue, catalog.Version)
	}
}

// ObserveMagicLink counts magic-link lifecycle events (issued, redeemed, rejected).
func (m *MetricsService) ObserveMagicLink(event string) {
	if m == nil {
		return
	}
	m.magicLinks.WithLabelValues(event).Inc()
}

// ObserveJob counts processed background jobs.
func (m *MetricsService) ObserveJob(jobType, status string) {
	if m == nil {
		return
	}
	m.jobsProcessed.WithLabelValues(jobType, status).Inc()
}

// Snapshot returns aggregated metrics suitable for the status endpoint.
func (m *MetricsService) Snapshot() models.MetricsSnapshot {
	if m == nil {
		return models.MetricsSnapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		SearchesTotal:            atomic.LoadUint64(&m.searchCount),
		EmptySearchesTotal:       atomic.LoadUint64(&m.emptySearchCount),
		CatalogProviders:         int(atomic.LoadInt64(&m.catalogProviders)),
		CatalogVersion:           atomic.LoadInt64(&m.catalogVersionValue),
		CatalogReloadFailures:    atomic.LoadUint64(&m.reloadFailures),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
