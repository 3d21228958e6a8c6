package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gatherbase/server/internal/metrics"
)

// Metrics records request counts and latency per route pattern. The pattern,
// not the raw path, is the label so ids do not explode cardinality.
func Metrics(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(rw, r)

		status := rw.status
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		metrics.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
