package ledger

import "time"

const (
	defaultInitialDifficulty = 3
	defaultMineRate          = 3 * time.Second
	defaultMinDifficulty     = 1

	// ctxCheckInterval is how many nonces are tried between context checks while mining.
	ctxCheckInterval = 1024

	genesisLastHashSeed = "genesis-last-hash"
	genesisHashSeed     = "genesis-hash"
)

// Config holds the proof-of-work parameters.
type Config struct {
	// InitialDifficulty is the genesis block difficulty.
	InitialDifficulty int
	// MineRate is the target interval between blocks.
	MineRate time.Duration
	// MinDifficulty floors the adjusted difficulty; 0 disables the floor.
	MinDifficulty int
}

// DefaultConfig returns difficulty 3, a three second mine rate and a floor of 1.
func DefaultConfig() Config {
	return Config{
		InitialDifficulty: defaultInitialDifficulty,
		MineRate:          defaultMineRate,
		MinDifficulty:     defaultMinDifficulty,
	}
}
