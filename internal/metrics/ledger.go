package metrics

import (
	"time"

	"github.com/goodnatureofminers/kadchain/internal/ledger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chainLength = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "chain_length",
		Help:      "Blocks in the local chain including genesis.",
	}, []string{"node"})

	chainDifficulty = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "tip_difficulty",
		Help:      "Difficulty of the chain tail.",
	}, []string{"node"})

	chainTipTimestamp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "tip_timestamp_seconds",
		Help:      "Unix timestamp of the chain tail.",
	}, []string{"node"})

	minerBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "miner",
		Name:      "blocks_total",
		Help:      "Count of mining attempts by status.",
	}, []string{"node", "status"})

	minerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "miner",
		Name:      "mine_duration_seconds",
		Help:      "Duration of mining including propagation.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"node", "status"})

	minerTransactions = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "miner",
		Name:      "block_transactions",
		Help:      "Pool transactions included per mined block, reward excluded.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"node"})
)

// Ledger tracks the local chain tip.
type Ledger struct {
	node string
}

// NewLedger constructs a Ledger labelled with the node id.
func NewLedger(node string) *Ledger {
	if node == "" {
		node = unknown
	}
	return &Ledger{node: node}
}

// ObserveTip publishes the new tail and chain length.
func (m Ledger) ObserveTip(tip ledger.Block, length int) {
	chainLength.WithLabelValues(m.node).Set(float64(length))
	chainDifficulty.WithLabelValues(m.node).Set(float64(tip.Difficulty))
	chainTipTimestamp.WithLabelValues(m.node).Set(float64(tip.Timestamp.Unix()))
}

// Miner tracks mining attempts.
type Miner struct {
	node string
}

// NewMiner constructs a Miner labelled with the node id.
func NewMiner(node string) *Miner {
	if node == "" {
		node = unknown
	}
	return &Miner{node: node}
}

// ObserveMine records one mining attempt.
func (m Miner) ObserveMine(err error, transactions int, started time.Time) {
	s := status(err)
	minerBlocksTotal.WithLabelValues(m.node, s).Inc()
	minerDuration.WithLabelValues(m.node, s).Observe(time.Since(started).Seconds())
	if err == nil {
		minerTransactions.WithLabelValues(m.node).Observe(float64(transactions))
	}
}
