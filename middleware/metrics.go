package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/issuetracker/core/handler"
	"github.com/dmitrymomot/issuetracker/core/response"
)

// MetricsConfig configures the Prometheus middleware.
type MetricsConfig struct {
	Skip func(ctx handler.Context) bool
	// Registerer receives the collectors. Default: prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	Namespace  string
	// Subsystem defaults to "http".
	Subsystem string
	Buckets   []float64
	// PathLabel maps a request to a low cardinality label. Default: the URL
	// path with numeric segments replaced by ":id".
	PathLabel func(r *http.Request) string
}

type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// Metrics records request count, latency and in-flight requests.
func Metrics[C handler.Context](namespace string) handler.Middleware[C] {
	return MetricsWithConfig[C](MetricsConfig{Namespace: namespace})
}

func MetricsWithConfig[C handler.Context](cfg MetricsConfig) handler.Middleware[C] {
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "http"
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	}
	if cfg.PathLabel == nil {
		cfg.PathLabel = func(r *http.Request) string { return NormalizePath(r.URL.Path) }
	}

	factory := promauto.With(cfg.Registerer)
	m := httpMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   cfg.Buckets,
		}, []string{"method", "path"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests being served.",
		}),
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			m.inFlight.Inc()
			req := ctx.Request()

			resp := next(ctx)
			if resp == nil {
				m.inFlight.Dec()
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				defer m.inFlight.Dec()

				rec := &statusRecorder{ResponseWriter: w}
				err := resp(rec, r)

				status := rec.Status()
				if err != nil && !rec.wroteHeader {
					status = response.ToHTTPError(err).Status
				}
				path := cfg.PathLabel(req)
				m.requests.WithLabelValues(req.Method, path, strconv.Itoa(status)).Inc()
				m.duration.WithLabelValues(req.Method, path).Observe(time.Since(start).Seconds())
				return err
			}
		}
	}
}

// NormalizePath replaces purely numeric path segments with ":id".
func NormalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if s == "" {
			continue
		}
		if _, err := strconv.ParseUint(s, 10, 64); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
