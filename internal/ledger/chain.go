package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrTipChanged means the tail moved while a block was being mined on top of it.
var ErrTipChanged = errors.New("chain tip changed while mining")

// ReplaceResult is the outcome of ReplaceChain.
type ReplaceResult string

const (
	NewChainReplace  ReplaceResult = "NEW_CHAIN_REPLACE"
	NewChainNoLonger ReplaceResult = "NEW_CHAIN_NO_LONGER"
	NewChainInvalid  ReplaceResult = "NEW_CHAIN_INVALID"
)

// Chain is the node's block sequence, always starting with the genesis block.
type Chain struct {
	cfg     Config
	logger  *zap.Logger
	now     func() time.Time
	genesis Block

	mu     sync.RWMutex
	blocks []Block

	observersMu sync.RWMutex
	onTip       []func(Block)
}

// NewChain returns a chain holding only the genesis block.
func NewChain(cfg Config, logger *zap.Logger) *Chain {
	genesis := Genesis(cfg)
	return &Chain{
		cfg:     cfg,
		logger:  logger.Named("chain"),
		now:     time.Now,
		genesis: genesis,
		blocks:  []Block{genesis},
	}
}

// OnTip subscribes fn to every new tail, from AddBlock or ReplaceChain.
func (c *Chain) OnTip(fn func(Block)) {
	c.observersMu.Lock()
	defer c.observersMu.Unlock()
	c.onTip = append(c.onTip, fn)
}

// Blocks returns a copy of the chain.
func (c *Chain) Blocks() []Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// Len is the number of blocks including genesis.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

// Tail is the last block.
func (c *Chain) Tail() Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[len(c.blocks)-1]
}

// AddBlock mines data on top of the current tail and appends the result. Mining runs without
// holding the chain lock; if the tail is replaced meanwhile the block is mined again.
func (c *Chain) AddBlock(ctx context.Context, data json.RawMessage) (Block, error) {
	for {
		tail := c.Tail()
		block, err := Mine(ctx, tail, data, c.cfg, c.now)
		if err != nil {
			return Block{}, err
		}
		err = c.append(tail, block)
		if errors.Is(err, ErrTipChanged) {
			c.logger.Debug("tip changed while mining, retrying", zap.String("staleTip", tail.Hash))
			continue
		}
		if err != nil {
			return Block{}, err
		}

		c.logger.Info("block mined",
			zap.String("hash", block.Hash),
			zap.Int("difficulty", block.Difficulty),
			zap.Uint64("nonce", block.Nonce))
		c.notify(block)
		return block, nil
	}
}

func (c *Chain) append(tail, block Block) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.blocks[len(c.blocks)-1].Hash != tail.Hash {
		return ErrTipChanged
	}
	c.blocks = append(c.blocks, block)
	return nil
}

// IsValidChain checks that candidate starts with this chain's genesis, that every block links
// to its predecessor, that every hash is recomputable and meets its difficulty, and that the
// difficulty moves by at most one between neighbours without dropping below MinDifficulty.
func (c *Chain) IsValidChain(candidate []Block) bool {
	if len(candidate) == 0 || !candidate[0].Equal(c.genesis) {
		return false
	}
	for i := 1; i < len(candidate); i++ {
		block, prev := candidate[i], candidate[i-1]
		if block.LastHash != prev.Hash {
			return false
		}
		if block.Hash != block.ComputeHash() {
			return false
		}
		if !MeetsDifficulty(block.Hash, block.Difficulty) {
			return false
		}
		if diff := block.Difficulty - prev.Difficulty; diff > 1 || diff < -1 {
			return false
		}
		if c.cfg.MinDifficulty > 0 && block.Difficulty < c.cfg.MinDifficulty {
			return false
		}
	}
	return true
}

// ReplaceChain swaps in candidate if it is longer than the local chain and valid.
// Shorter or equal candidates are rejected without validation.
func (c *Chain) ReplaceChain(candidate []Block) ReplaceResult {
	if len(candidate) <= c.Len() {
		return NewChainNoLonger
	}
	if !c.IsValidChain(candidate) {
		c.logger.Warn("rejecting invalid chain", zap.Int("length", len(candidate)))
		return NewChainInvalid
	}

	blocks := make([]Block, len(candidate))
	copy(blocks, candidate)

	c.mu.Lock()
	if len(blocks) <= len(c.blocks) {
		c.mu.Unlock()
		return NewChainNoLonger
	}
	c.blocks = blocks
	c.mu.Unlock()

	tip := blocks[len(blocks)-1]
	c.logger.Info("chain replaced", zap.Int("length", len(blocks)), zap.String("tip", tip.Hash))
	c.notify(tip)
	return NewChainReplace
}

func (c *Chain) notify(tip Block) {
	c.observersMu.RLock()
	observers := c.onTip
	c.observersMu.RUnlock()
	for _, fn := range observers {
		fn(tip)
	}
}
