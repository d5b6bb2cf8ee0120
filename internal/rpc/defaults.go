package rpc

import "time"

const (
	defaultTimeout           = 2 * time.Second
	defaultMaxDatagramSize   = 65_507
	defaultCompressThreshold = 1024
	defaultDedupTTL          = 30 * time.Second
	defaultBroadcastWorkers  = 8
	defaultMaxInflight       = 256

	maxDecodedSize = 8 << 20
)

// Config tunes a Transport.
type Config struct {
	// BindAddress is the local host:port to bind. Empty binds the advertised contact's host:port.
	BindAddress string
	// Timeout bounds every Request.
	Timeout time.Duration
	// MaxDatagramSize caps encoded envelopes in both directions.
	MaxDatagramSize int
	// CompressThreshold is the encoded size above which envelopes are zstd framed; 0 disables compression.
	CompressThreshold int
	// DedupTTL is how long a handled request id is remembered; 0 disables dedup.
	DedupTTL time.Duration
	// BroadcastWorkers bounds parallel requests in BroadcastRequest.
	BroadcastWorkers int
	// BroadcastRPS caps outbound broadcast requests per second; 0 is unlimited.
	BroadcastRPS int
	// MaxInflightHandlers bounds datagrams handled concurrently. Datagrams arriving while every
	// slot is busy are dropped.
	MaxInflightHandlers int
}

// DefaultConfig returns the transport defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:           defaultTimeout,
		MaxDatagramSize:   defaultMaxDatagramSize,
		CompressThreshold: defaultCompressThreshold,
		DedupTTL:          defaultDedupTTL,
		BroadcastWorkers:  defaultBroadcastWorkers,

		MaxInflightHandlers: defaultMaxInflight,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.MaxDatagramSize <= 0 || c.MaxDatagramSize > d.MaxDatagramSize {
		c.MaxDatagramSize = d.MaxDatagramSize
	}
	if c.BroadcastWorkers <= 0 {
		c.BroadcastWorkers = d.BroadcastWorkers
	}
	if c.MaxInflightHandlers <= 0 {
		c.MaxInflightHandlers = d.MaxInflightHandlers
	}
	return c
}
