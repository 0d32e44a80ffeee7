package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rosepay_client"

// requestsTotal counts every request issued through the gateway.
// Labels:
//   - method: HTTP method
//   - status: numeric response status, or "error" when the request never
//     produced a response (network failure, timeout)
var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of API requests issued, by method and status.",
	},
	[]string{"method", "status"},
)

// authFailuresTotal counts responses that invalidated the session.
var authFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected for a missing or invalid credential.",
	},
)

// requestDuration measures wall time per request, including failures.
var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of API requests from send to first response byte.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)
