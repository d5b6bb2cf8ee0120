package kademlia

import "time"

// Method names served on the transport.
const (
	MethodPing     = "PING"
	MethodFindNode = "FIND_NODE"
)

const (
	defaultBucketSize      = 8
	defaultAlpha           = 3
	defaultRefreshInterval = time.Minute
)

// Config holds the DHT parameters.
type Config struct {
	// BucketSize is K, the capacity of each bucket and the size of a lookup result.
	BucketSize int
	// Alpha is the number of peers queried in parallel during a lookup round.
	Alpha int
	// RefreshInterval is the pause between self-lookups in Run.
	RefreshInterval time.Duration
}

// DefaultConfig returns K=8, ALPHA=3 and a one minute refresh.
func DefaultConfig() Config {
	return Config{
		BucketSize:      defaultBucketSize,
		Alpha:           defaultAlpha,
		RefreshInterval: defaultRefreshInterval,
	}
}

func (c Config) withDefaults() Config {
	if c.BucketSize <= 0 {
		c.BucketSize = defaultBucketSize
	}
	if c.Alpha <= 0 {
		c.Alpha = defaultAlpha
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = defaultRefreshInterval
	}
	return c
}
