package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "siara",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed by the map bridge",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "siara",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Bridge metrics
	PicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "siara",
		Subsystem: "bridge",
		Name:      "picks_total",
		Help:      "Pick requests by result (accepted, rejected)",
	}, []string{"result"})

	FeedErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "siara",
		Subsystem: "bridge",
		Name:      "feed_errors_total",
		Help:      "Report feed requests that failed reading the report store",
	})

	// Geocoding metrics
	GeocodeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "siara",
		Subsystem: "geocode",
		Name:      "requests_total",
		Help:      "Geocoding provider calls by operation and result",
	}, []string{"op", "result"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "siara",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "siara",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		// Unmatched paths collapse into one label to keep cardinality bounded.
		path := c.Route().Path
		if path == "" || path == "/" {
			path = "other"
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}
