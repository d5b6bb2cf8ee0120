package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http_api",
		Name:      "requests_total",
		Help:      "Count of client API requests by route and status code.",
	}, []string{"node", "route", "code"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http_api",
		Name:      "request_duration_seconds",
		Help:      "Duration of client API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"node", "route"})
)

// HTTPAPI tracks the client API.
type HTTPAPI struct {
	node string
}

// NewHTTPAPI constructs an HTTPAPI labelled with the node id.
func NewHTTPAPI(node string) *HTTPAPI {
	if node == "" {
		node = unknown
	}
	return &HTTPAPI{node: node}
}

// ObserveRequest records a served request.
func (m HTTPAPI) ObserveRequest(route string, code int, started time.Time) {
	if route == "" {
		route = unknown
	}
	httpRequestsTotal.WithLabelValues(m.node, route, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(m.node, route).Observe(time.Since(started).Seconds())
}
