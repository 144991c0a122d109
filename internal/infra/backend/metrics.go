package backend

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "panel_backend_requests_total",
			Help: "Total number of requests sent to the REST backend",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "panel_backend_request_duration_seconds",
			Help:    "Histogram of REST backend response times",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func observeRequest(method, path string, resp *http.Response, err error, elapsed time.Duration) {
	status := "error"
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	requestsTotal.WithLabelValues(method, path, status).Inc()
	requestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
