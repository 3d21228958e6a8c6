package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gatherbase_http_requests_total",
		Help: "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gatherbase_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	SignupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gatherbase_signups_total",
		Help: "Accounts created.",
	})

	EventJoinsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gatherbase_event_joins_total",
		Help: "Successful event join operations.",
	})
)

// Handler exposes the default registry for GET /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
