// Package node wires one peer: UDP transport, DHT, ledger, mempool, wallet, miner, chain sync
// and the client API.
package node

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goodnatureofminers/kadchain/internal/identity"
	"github.com/goodnatureofminers/kadchain/internal/kademlia"
	"github.com/goodnatureofminers/kadchain/internal/ledger"
	"github.com/goodnatureofminers/kadchain/internal/metrics"
	"github.com/goodnatureofminers/kadchain/internal/miner"
	"github.com/goodnatureofminers/kadchain/internal/p2p"
	"github.com/goodnatureofminers/kadchain/internal/rpc"
	"github.com/goodnatureofminers/kadchain/internal/transport"
	"github.com/goodnatureofminers/kadchain/internal/wallet"
	"github.com/goodnatureofminers/kadchain/pkg/workerpool"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Node is one running peer.
type Node struct {
	logger    *zap.Logger
	cfg       Config
	transport *rpc.Transport
	dht       *kademlia.Service
	chain     *ledger.Chain
	pool      *wallet.Pool
	wallet    *wallet.Wallet
	miner     *miner.Miner
	p2p       *p2p.Service
	api       *transport.APIHandler
}

// New builds every component and registers the RPC methods. Nothing touches the network
// until Start.
func New(cfg Config, logger *zap.Logger) (*Node, error) {
	id, err := nodeID(cfg.ID)
	if err != nil {
		return nil, err
	}
	if cfg.Address == "" {
		cfg.Address = defaultAddress
	}
	self := identity.Contact{NodeID: id, Address: cfg.Address, Port: cfg.Port}
	if err := self.Validate(); err != nil {
		return nil, fmt.Errorf("node contact: %w", err)
	}

	label := id.String()
	nodeLogger := logger.Named("node").With(zap.String("node", label))

	t, err := rpc.NewTransport(self, cfg.RPC, logger, metrics.NewRPCTransport(label))
	if err != nil {
		return nil, fmt.Errorf("rpc transport: %w", err)
	}
	t.OnListening(func(c identity.Contact) {
		nodeLogger.Info("node listening", zap.Stringer("contact", c))
	})

	table := kademlia.NewRoutingTable(id, cfg.Kademlia.BucketSize, logger)
	dht, err := kademlia.NewService(table, t, cfg.Kademlia, logger, metrics.NewKademlia(label))
	if err != nil {
		return nil, fmt.Errorf("kademlia service: %w", err)
	}

	chain := ledger.NewChain(cfg.Ledger, logger)
	tipMetrics := metrics.NewLedger(label)
	chain.OnTip(func(tip ledger.Block) {
		tipMetrics.ObserveTip(tip, chain.Len())
	})
	tipMetrics.ObserveTip(chain.Tail(), chain.Len())

	pool := wallet.NewPool()
	w, err := wallet.NewWallet(cfg.Wallet)
	if err != nil {
		return nil, fmt.Errorf("wallet: %w", err)
	}

	peers, err := p2p.NewService(t, table, chain, pool, p2pConfig(cfg.P2P, t.MaxDatagramSize()), logger, metrics.NewP2P(label))
	if err != nil {
		return nil, fmt.Errorf("p2p service: %w", err)
	}

	m, err := miner.New(cfg.Miner, chain, pool, w, peers, logger, metrics.NewMiner(label))
	if err != nil {
		return nil, fmt.Errorf("miner: %w", err)
	}

	api, err := transport.NewAPIHandler(
		chain,
		pool,
		account{wallet: w, chain: chain, pool: pool},
		m,
		peers,
		logger,
		metrics.NewHTTPAPI(label),
	)
	if err != nil {
		return nil, fmt.Errorf("api handler: %w", err)
	}

	return &Node{
		logger:    nodeLogger,
		cfg:       cfg,
		transport: t,
		dht:       dht,
		chain:     chain,
		pool:      pool,
		wallet:    w,
		miner:     m,
		p2p:       peers,
		api:       api,
	}, nil
}

// p2pConfig caps block ranges so a GET_BLOCKS reply still fits one datagram once wrapped in
// its envelope.
func p2pConfig(cfg p2p.Config, maxDatagramSize int) p2p.Config {
	limit := maxDatagramSize - envelopeHeadroom
	if cfg.MaxChunkBytes <= 0 || cfg.MaxChunkBytes > limit {
		cfg.MaxChunkBytes = limit
	}
	return cfg
}

func nodeID(hexID string) (identity.NodeID, error) {
	if hexID == "" {
		return identity.NewRandomNodeID()
	}
	return identity.ParseNodeID(hexID)
}

// Start binds the socket, joins the overlay through every configured seed and pulls the
// longest chain from the peers found. Seeds are joined Alpha at a time; unreachable seeds are
// logged and skipped.
func (n *Node) Start(ctx context.Context) error {
	if err := n.transport.Listen(ctx); err != nil {
		return err
	}
	workerpool.Each(ctx, n.cfg.Kademlia.Alpha, n.cfg.Bootstrap, func(ctx context.Context, seed string) {
		if err := n.Join(ctx, seed); err != nil && ctx.Err() == nil {
			n.logger.Warn("bootstrap seed skipped", zap.String("seed", seed), zap.Error(err))
		}
	})
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.dht.Table().Len() > 0 {
		n.p2p.SyncChains(ctx)
	}
	return nil
}

// Join bootstraps through one seed given as "<hexid>@host:port" or "host:port".
// A seed without id is pinged first to learn it.
func (n *Node) Join(ctx context.Context, seed string) error {
	contact, hasID, err := identity.ParseContact(seed)
	if err != nil {
		return err
	}
	if !hasID {
		contact, err = n.dht.Probe(ctx, contact.Address, contact.Port)
		if err != nil {
			return fmt.Errorf("probe %s: %w", seed, err)
		}
	}
	return n.dht.Bootstrap(ctx, contact)
}

// Run refreshes the routing table until ctx is done.
func (n *Node) Run(ctx context.Context) error {
	return n.dht.Run(ctx)
}

// Close releases the socket and waits for chain pulls still running.
func (n *Node) Close() error {
	err := n.transport.Close()
	n.p2p.Wait()
	return err
}

// Contact is the advertised contact; the port is final after Start.
func (n *Node) Contact() identity.Contact {
	return n.transport.Self()
}

// OnTip subscribes fn to every new chain tail.
func (n *Node) OnTip(fn func(ledger.Block)) {
	n.chain.OnTip(fn)
}

// DHT is the node's Kademlia service.
func (n *Node) DHT() *kademlia.Service {
	return n.dht
}

// Chain is the node's blockchain.
func (n *Node) Chain() *ledger.Chain {
	return n.chain
}

// Pool is the node's mempool.
func (n *Node) Pool() *wallet.Pool {
	return n.pool
}

// Wallet is the node's own wallet.
func (n *Node) Wallet() *wallet.Wallet {
	return n.wallet
}

// Miner mines the node's mempool.
func (n *Node) Miner() *miner.Miner {
	return n.miner
}

// P2P is the chain and mempool propagation service.
func (n *Node) P2P() *p2p.Service {
	return n.p2p
}

// Send creates or extends this wallet's pending transaction and broadcasts it.
func (n *Node) Send(ctx context.Context, recipient string, amount uint64) (*wallet.Transaction, error) {
	tx, err := account{wallet: n.wallet, chain: n.chain, pool: n.pool}.Send(recipient, amount)
	if err != nil {
		return nil, err
	}
	n.p2p.BroadcastTransaction(ctx, tx)
	return tx, nil
}

// Balance recalculates the wallet balance from the chain.
func (n *Node) Balance() uint64 {
	return n.wallet.CalculateBalance(n.chain.Blocks())
}

// HTTPHandler is the client API wrapped in permissive CORS.
func (n *Node) HTTPHandler() http.Handler {
	return cors.Default().Handler(n.api.Router())
}
