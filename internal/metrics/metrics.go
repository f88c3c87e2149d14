// Package metrics defines the Prometheus metrics the booking client exposes
// to applications that embed it. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register against the default Prometheus registry at package load;
// an embedding application only has to mount promhttp if it wants them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "triporia_client"

// RequestsTotal counts dispatched requests.
// Labels:
//   - method: HTTP verb (GET, POST, …)
//   - outcome: "ok", "server_error", "unauthorized", "timeout", "network_error"
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of backend requests dispatched, by verb and outcome.",
	},
	[]string{"method", "outcome"},
)

// RequestDuration measures the wall time of one HTTP exchange.
// Label:
//   - method: HTTP verb
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of backend HTTP exchanges from dispatch to decoded response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// SessionInvalidationsTotal counts 401-triggered session teardowns that
// actually cleared the credential store (compare-and-clear hits).
var SessionInvalidationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_invalidations_total",
		Help:      "Total number of sessions torn down after an authorization failure.",
	},
)

// CacheRefreshesTotal counts successful writes to the local offline cache.
// Label:
//   - kind: "bookings" or "hotel_search"
var CacheRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_refreshes_total",
		Help:      "Total number of offline cache refreshes, by cached entity kind.",
	},
	[]string{"kind"},
)
