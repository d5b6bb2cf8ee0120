package node

import (
	"github.com/goodnatureofminers/kadchain/internal/kademlia"
	"github.com/goodnatureofminers/kadchain/internal/ledger"
	"github.com/goodnatureofminers/kadchain/internal/miner"
	"github.com/goodnatureofminers/kadchain/internal/p2p"
	"github.com/goodnatureofminers/kadchain/internal/rpc"
	"github.com/goodnatureofminers/kadchain/internal/wallet"
)

const (
	defaultAddress = "127.0.0.1"

	// envelopeHeadroom is reserved in every datagram for the envelope around a GET_BLOCKS reply.
	envelopeHeadroom = 2048
)

// Config aggregates the per-component configs of one node.
type Config struct {
	// ID is the hex node id; empty draws a random one.
	ID string
	// Address is the advertised host.
	Address string
	// Port is the advertised UDP port; 0 takes an ephemeral port on Start.
	Port int
	// Bootstrap lists seeds as "<hexid>@host:port" or "host:port".
	Bootstrap []string

	RPC      rpc.Config
	Kademlia kademlia.Config
	Ledger   ledger.Config
	Wallet   wallet.Config
	Miner    miner.Config
	// P2P.MaxChunkBytes is capped to what fits one RPC datagram.
	P2P p2p.Config
}

// DefaultConfig returns a loopback node on an ephemeral port with every component's defaults.
func DefaultConfig() Config {
	return Config{
		Address:  defaultAddress,
		RPC:      rpc.DefaultConfig(),
		Kademlia: kademlia.DefaultConfig(),
		Ledger:   ledger.DefaultConfig(),
		Wallet:   wallet.DefaultConfig(),
		Miner:    miner.DefaultConfig(),
		P2P:      p2p.DefaultConfig(),
	}
}
