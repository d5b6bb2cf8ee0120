// Package metrics exposes Prometheus collectors for every node component.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "kadchain"
	unknown   = "unknown"
)

var (
	rpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "requests_total",
		Help:      "Count of outbound requests by method and status.",
	}, []string{"node", "method", "status"})

	rpcRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "request_duration_seconds",
		Help:      "Round trip of outbound requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"node", "method", "status"})

	rpcInboundTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "inbound_total",
		Help:      "Count of handled inbound requests and notifications.",
	}, []string{"node", "method", "status"})

	rpcInboundDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "inbound_duration_seconds",
		Help:      "Handler time of inbound requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"node", "method", "status"})

	rpcDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "dropped_datagrams_total",
		Help:      "Count of datagrams dropped before dispatch.",
	}, []string{"node", "reason"})

	rpcDuplicateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "duplicate_requests_total",
		Help:      "Count of retransmitted requests answered from the dedup cache.",
	}, []string{"node", "method"})
)

// RPCTransport tracks metrics for the UDP transport.
type RPCTransport struct {
	node string
}

// NewRPCTransport constructs an RPCTransport labelled with the node id.
func NewRPCTransport(node string) *RPCTransport {
	if node == "" {
		node = unknown
	}
	return &RPCTransport{node: node}
}

// ObserveRequest records an outbound request outcome and round trip.
func (m RPCTransport) ObserveRequest(method string, err error, started time.Time) {
	s := status(err)
	rpcRequestsTotal.WithLabelValues(m.node, method, s).Inc()
	rpcRequestDuration.WithLabelValues(m.node, method, s).Observe(time.Since(started).Seconds())
}

// ObserveInbound records a handled inbound message.
func (m RPCTransport) ObserveInbound(method string, err error, started time.Time) {
	s := status(err)
	rpcInboundTotal.WithLabelValues(m.node, method, s).Inc()
	rpcInboundDuration.WithLabelValues(m.node, method, s).Observe(time.Since(started).Seconds())
}

// ObserveDropped records a datagram discarded before dispatch.
func (m RPCTransport) ObserveDropped(reason string) {
	rpcDroppedTotal.WithLabelValues(m.node, reason).Inc()
}

// ObserveDuplicate records a retransmitted request served from cache.
func (m RPCTransport) ObserveDuplicate(method string) {
	rpcDuplicateTotal.WithLabelValues(m.node, method).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
