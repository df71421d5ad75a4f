package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "barberweb"

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Backend API calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	apiLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Backend API call latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	pageRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_renders_total",
			Help:      "Rendered pages by template and status code class.",
		},
		[]string{"page", "code"},
	)

	publicBookings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "public_bookings_total",
			Help:      "Landing page booking submissions by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers the collectors with the default registry (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, apiLatency, pageRenders, publicBookings)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

func ObserveAPICall(operation, outcome string, took time.Duration) {
	apiRequests.WithLabelValues(operation, outcome).Inc()
	apiLatency.WithLabelValues(operation).Observe(took.Seconds())
}

func IncPageRender(page string, code int) {
	pageRenders.WithLabelValues(page, codeClass(code)).Inc()
}

func IncPublicBooking(outcome string) {
	publicBookings.WithLabelValues(outcome).Inc()
}

func codeClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
