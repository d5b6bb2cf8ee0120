package p2p

// Method names served on the transport.
const (
	MethodSyncChain                  = "SYNC_CHAIN"
	MethodGetBlocks                  = "GET_BLOCKS"
	MethodBroadcastTransaction       = "BROADCAST_TRANSACTION"
	MethodBroadcastClearTransactions = "BROADCAST_CLEAR_TRANSACTIONS"
)

const (
	defaultMaxChunkBytes = 60 * 1024

	// blocksReplyOverhead covers {"length":N,"blocks":[]} around the encoded blocks.
	blocksReplyOverhead = 64
)

// Config holds the chain sync parameters.
type Config struct {
	// MaxChunkBytes caps the encoded blocks served per GET_BLOCKS reply. It must leave room for
	// the envelope inside one datagram.
	MaxChunkBytes int
}

// DefaultConfig fits a chunk into a maximum size UDP datagram.
func DefaultConfig() Config {
	return Config{MaxChunkBytes: defaultMaxChunkBytes}
}

func (c Config) withDefaults() Config {
	if c.MaxChunkBytes <= blocksReplyOverhead {
		c.MaxChunkBytes = defaultMaxChunkBytes
	}
	return c
}
