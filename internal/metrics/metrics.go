// Package metrics provides Prometheus metrics collection for the library service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// CoverLookupsTotal counts cover lookups by outcome and winning source.
	CoverLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cover_lookups_total",
			Help: "Total number of cover lookups",
		},
		[]string{"result", "source"},
	)

	// CoverLookupDuration tracks the wall time of a full cascade run.
	CoverLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cover_lookup_duration_seconds",
			Help:    "Cover cascade duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
	)

	// CoverStrategyAttempts counts strategy runs by strategy name and result.
	CoverStrategyAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cover_strategy_attempts_total",
			Help: "Total number of cover strategy attempts",
		},
		[]string{"strategy", "result"},
	)

	// ImageProbesTotal counts candidate URL validations by host and result.
	ImageProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_probes_total",
			Help: "Total number of candidate image probes",
		},
		[]string{"host", "result"},
	)

	// ImageProxyRequestsTotal counts proxied image fetches by result.
	ImageProxyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_proxy_requests_total",
			Help: "Total number of image proxy requests",
		},
		[]string{"result"},
	)

	// ImageProxyBytes counts bytes streamed to clients through the image proxy.
	ImageProxyBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_proxy_bytes_total",
			Help: "Total bytes streamed by the image proxy",
		},
	)

	// DownloadResolutionsTotal counts download link resolutions by result.
	DownloadResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "download_resolutions_total",
			Help: "Total number of download link resolutions",
		},
		[]string{"result"},
	)

	// CatalogSearchesTotal counts catalog searches by result.
	CatalogSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_searches_total",
			Help: "Total number of catalog searches",
		},
		[]string{"result"},
	)

	// CatalogSearchDuration tracks the duration of upstream catalog searches.
	CatalogSearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_search_duration_seconds",
			Help:    "Catalog search duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
	)

	// UpstreamRequestsTotal counts outbound HTTP requests by host and status class.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of outbound HTTP requests",
		},
		[]string{"host", "status"},
	)

	// CircuitBreakerState reports 0 closed, 1 half-open, 2 open per breaker.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"cache", "operation", "result"},
	)

	// CacheSize tracks current cache size.
	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size",
		},
		[]string{"cache"},
	)

	// CacheCapacity tracks cache capacity.
	CacheCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_capacity",
			Help: "Cache capacity",
		},
		[]string{"cache"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordCoverLookup records the outcome of one cover lookup.
func RecordCoverLookup(duration time.Duration, result, source string) {
	CoverLookupDuration.Observe(duration.Seconds())
	CoverLookupsTotal.WithLabelValues(result, source).Inc()
}

// RecordStrategyAttempt records one cascade strategy run.
func RecordStrategyAttempt(strategy, result string) {
	CoverStrategyAttempts.WithLabelValues(strategy, result).Inc()
}

// RecordImageProbe records one candidate validation.
func RecordImageProbe(host string, valid bool) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	ImageProbesTotal.WithLabelValues(host, result).Inc()
}

// RecordImageProxy records a proxied image request and the bytes it streamed.
func RecordImageProxy(result string, bytes int64) {
	ImageProxyRequestsTotal.WithLabelValues(result).Inc()
	if bytes > 0 {
		ImageProxyBytes.Add(float64(bytes))
	}
}

// RecordDownloadResolution records a download link resolution.
func RecordDownloadResolution(result string) {
	DownloadResolutionsTotal.WithLabelValues(result).Inc()
}

// RecordCatalogSearch records an upstream catalog search.
func RecordCatalogSearch(duration time.Duration, result string) {
	CatalogSearchDuration.Observe(duration.Seconds())
	CatalogSearchesTotal.WithLabelValues(result).Inc()
}

// RecordUpstreamRequest records an outbound HTTP request. status is 0 on transport error.
func RecordUpstreamRequest(host string, status int) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status/100) + "xx"
	}
	UpstreamRequestsTotal.WithLabelValues(host, label).Inc()
}

// SetCircuitBreakerState publishes a breaker state (0 closed, 1 half-open, 2 open).
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(cache, operation, result string) {
	CacheOperationsTotal.WithLabelValues(cache, operation, result).Inc()
}

// UpdateCacheMetrics updates cache size and capacity metrics.
func UpdateCacheMetrics(cache string, size, capacity int) {
	CacheSize.WithLabelValues(cache).Set(float64(size))
	CacheCapacity.WithLabelValues(cache).Set(float64(capacity))
}
