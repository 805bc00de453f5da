package metrics

import (
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds the search engine's Prometheus collectors.
// All observe methods are safe on a nil receiver.
type MetricsManager struct {
	Registry              *prometheus.Registry
	SearchesTotal         *prometheus.CounterVec
	SearchErrorsTotal     *prometheus.CounterVec
	SearchLatency         *prometheus.HistogramVec
	CategoryExpansionSize prometheus.Histogram
	CategoryCacheTotal    *prometheus.CounterVec
}

func NewMetricsManager(namespace string) *MetricsManager {
	registry := prometheus.NewRegistry()

	searchesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Total number of executed advertisement searches by plan.",
	}, []string{"plan"})
	searchErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_errors_total",
		Help:      "Total number of failed advertisement searches by error type.",
	}, []string{"error_type"})
	searchLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_latency_seconds",
		Help:      "Latency of advertisement searches by plan.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"plan"})
	expansionSize := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "category_expansion_size",
		Help:      "Number of category ids produced by one hierarchy expansion.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})
	cacheTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "category_cache_total",
		Help:      "Category descendant cache lookups by result.",
	}, []string{"result"})

	registry.MustRegister(
		searchesTotal,
		searchErrorsTotal,
		searchLatency,
		expansionSize,
		cacheTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:              registry,
		SearchesTotal:         searchesTotal,
		SearchErrorsTotal:     searchErrorsTotal,
		SearchLatency:         searchLatency,
		CategoryExpansionSize: expansionSize,
		CategoryCacheTotal:    cacheTotal,
	}
}

func (m *MetricsManager) ObserveSearch(plan string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(plan).Inc()
	m.SearchLatency.WithLabelValues(plan).Observe(elapsed.Seconds())
}

func (m *MetricsManager) IncSearchError(errorType string) {
	if m == nil {
		return
	}
	m.SearchErrorsTotal.WithLabelValues(errorType).Inc()
}

func (m *MetricsManager) ObserveCategoryExpansion(size int) {
	if m == nil {
		return
	}
	m.CategoryExpansionSize.Observe(float64(size))
}

func (m *MetricsManager) IncCategoryCache(result string) {
	if m == nil {
		return
	}
	m.CategoryCacheTotal.WithLabelValues(result).Inc()
}

// NewMetricsServer returns the /metrics server; nil when port is empty.
func NewMetricsServer(port string, log *logger.Logger, registry *prometheus.Registry) *http.Server {
	if port == "" {
		log.Info("Prometheus metrics port not configured, metrics server disabled")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	log.Info("Prometheus metrics server configured", zap.String("port", port), zap.String("path", "/metrics"))
	return &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
