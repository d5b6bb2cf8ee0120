package metrics

import (
	"time"

	"github.com/goodnatureofminers/kadchain/internal/ledger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	p2pReplaceTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "p2p",
		Name:      "chain_replace_total",
		Help:      "Count of incoming chains by replace outcome.",
	}, []string{"node", "result"})

	p2pBroadcastTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "p2p",
		Name:      "broadcasts_total",
		Help:      "Count of broadcasts by method.",
	}, []string{"node", "method"})

	p2pBroadcastPeers = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "p2p",
		Name:      "broadcast_peers_total",
		Help:      "Count of peers addressed by broadcasts, by delivery status.",
	}, []string{"node", "method", "status"})

	p2pBroadcastDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "p2p",
		Name:      "broadcast_duration_seconds",
		Help:      "Duration of broadcasts until every peer answered or timed out.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"node", "method"})

	p2pPullsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "p2p",
		Name:      "chain_pulls_total",
		Help:      "Count of ranged chain pulls by status.",
	}, []string{"node", "status"})

	p2pPulledBlocks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "p2p",
		Name:      "pulled_blocks_total",
		Help:      "Count of blocks fetched by completed chain pulls.",
	}, []string{"node"})

	p2pPullDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "p2p",
		Name:      "chain_pull_duration_seconds",
		Help:      "Duration of chain pulls across all their ranges.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"node", "status"})
)

// P2P tracks chain sync and broadcast outcomes.
type P2P struct {
	node string
}

// NewP2P constructs a P2P labelled with the node id.
func NewP2P(node string) *P2P {
	if node == "" {
		node = unknown
	}
	return &P2P{node: node}
}

// ObserveReplace records the outcome of applying a peer chain.
func (m P2P) ObserveReplace(result ledger.ReplaceResult) {
	p2pReplaceTotal.WithLabelValues(m.node, string(result)).Inc()
}

// ObserveBroadcast records one broadcast over peers contacts of which failed did not answer.
func (m P2P) ObserveBroadcast(method string, peers, failed int, started time.Time) {
	p2pBroadcastTotal.WithLabelValues(m.node, method).Inc()
	p2pBroadcastPeers.WithLabelValues(m.node, method, "success").Add(float64(peers - failed))
	p2pBroadcastPeers.WithLabelValues(m.node, method, "error").Add(float64(failed))
	p2pBroadcastDuration.WithLabelValues(m.node, method).Observe(time.Since(started).Seconds())
}

// ObservePull records one chain pull that fetched blocks blocks.
func (m P2P) ObservePull(err error, blocks int, started time.Time) {
	s := status(err)
	p2pPullsTotal.WithLabelValues(m.node, s).Inc()
	p2pPulledBlocks.WithLabelValues(m.node).Add(float64(blocks))
	p2pPullDuration.WithLabelValues(m.node, s).Observe(time.Since(started).Seconds())
}
