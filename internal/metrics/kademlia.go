package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	kademliaLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "kademlia",
		Name:      "lookups_total",
		Help:      "Count of iterative FIND_NODE lookups.",
	}, []string{"node"})

	kademliaLookupDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "kademlia",
		Name:      "lookup_duration_seconds",
		Help:      "Duration of iterative lookups.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"node"})

	kademliaLookupRounds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "kademlia",
		Name:      "lookup_rounds",
		Help:      "Number of query rounds per lookup.",
		Buckets:   prometheus.LinearBuckets(1, 1, 10),
	}, []string{"node"})

	kademliaLookupFound = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "kademlia",
		Name:      "lookup_found_contacts",
		Help:      "Contacts returned per lookup.",
		Buckets:   prometheus.LinearBuckets(0, 2, 10),
	}, []string{"node"})

	kademliaPingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "kademlia",
		Name:      "pings_total",
		Help:      "Count of PING probes by status.",
	}, []string{"node", "status"})

	kademliaRoutingTableSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "kademlia",
		Name:      "routing_table_contacts",
		Help:      "Contacts stored in the routing table.",
	}, []string{"node"})
)

// Kademlia tracks metrics for the DHT service.
type Kademlia struct {
	node string
}

// NewKademlia constructs a Kademlia labelled with the node id.
func NewKademlia(node string) *Kademlia {
	if node == "" {
		node = unknown
	}
	return &Kademlia{node: node}
}

// ObserveLookup records one iterative lookup.
func (m Kademlia) ObserveLookup(rounds, found int, started time.Time) {
	kademliaLookupsTotal.WithLabelValues(m.node).Inc()
	kademliaLookupDuration.WithLabelValues(m.node).Observe(time.Since(started).Seconds())
	kademliaLookupRounds.WithLabelValues(m.node).Observe(float64(rounds))
	kademliaLookupFound.WithLabelValues(m.node).Observe(float64(found))
}

// ObservePing records a liveness probe.
func (m Kademlia) ObservePing(err error, _ time.Time) {
	kademliaPingsTotal.WithLabelValues(m.node, status(err)).Inc()
}

// SetRoutingTableSize publishes the current table size.
func (m Kademlia) SetRoutingTableSize(n int) {
	kademliaRoutingTableSize.WithLabelValues(m.node).Set(float64(n))
}
