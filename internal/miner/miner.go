// Package miner turns the valid pending transactions into a block.
package miner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/kadchain/internal/ledger"
	"github.com/goodnatureofminers/kadchain/internal/wallet"
	"go.uber.org/zap"
)

const defaultReward = 50

// Config holds miner parameters.
type Config struct {
	// Reward is paid to the miner's wallet in every mined block.
	Reward uint64
}

// DefaultConfig returns a reward of 50.
func DefaultConfig() Config {
	return Config{Reward: defaultReward}
}

// Miner mines the mempool into the chain and propagates the result.
type Miner struct {
	logger      *zap.Logger
	cfg         Config
	chain       Chain
	pool        Pool
	wallet      Wallet
	broadcaster Broadcaster
	metrics     Metrics
	now         func() time.Time
}

// New builds a Miner.
func New(
	cfg Config,
	chain Chain,
	pool Pool,
	w Wallet,
	broadcaster Broadcaster,
	logger *zap.Logger,
	metrics Metrics,
) (*Miner, error) {
	switch {
	case chain == nil:
		return nil, errors.New("miner chain is required")
	case pool == nil:
		return nil, errors.New("miner pool is required")
	case w == nil:
		return nil, errors.New("miner wallet is required")
	case broadcaster == nil:
		return nil, errors.New("miner broadcaster is required")
	case metrics == nil:
		return nil, errors.New("miner metrics is required")
	}
	return &Miner{
		logger:      logger.Named("miner"),
		cfg:         cfg,
		chain:       chain,
		pool:        pool,
		wallet:      w,
		broadcaster: broadcaster,
		metrics:     metrics,
		now:         time.Now,
	}, nil
}

// Mine puts the valid pending transactions plus a reward into a new block, syncs chains with
// peers, clears the local pool and tells peers to clear theirs.
func (m *Miner) Mine(ctx context.Context) (block ledger.Block, err error) {
	started := time.Now()
	txs := m.pool.ValidTransactions()
	defer func() {
		m.metrics.ObserveMine(err, len(txs), started)
	}()

	reward, err := wallet.NewRewardTransaction(m.wallet.PublicKey(), m.cfg.Reward, m.now())
	if err != nil {
		return ledger.Block{}, fmt.Errorf("reward transaction: %w", err)
	}

	data, err := json.Marshal(wallet.BlockData{Transactions: append(txs, reward)})
	if err != nil {
		return ledger.Block{}, fmt.Errorf("marshal block data: %w", err)
	}

	block, err = m.chain.AddBlock(ctx, data)
	if err != nil {
		return ledger.Block{}, fmt.Errorf("add block: %w", err)
	}
	m.logger.Info("transactions mined", zap.String("hash", block.Hash), zap.Int("transactions", len(txs)))

	m.broadcaster.SyncChains(ctx)
	m.pool.Clear()
	m.broadcaster.BroadcastClearTransactions(ctx)
	return block, nil
}
