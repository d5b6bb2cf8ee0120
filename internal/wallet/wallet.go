// Package wallet implements signed transfers, the mempool and balance reconstruction.
package wallet

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/goodnatureofminers/kadchain/internal/ledger"
)

const defaultInitialBalance = 500

// Config holds wallet parameters.
type Config struct {
	// InitialBalance is credited to every wallet before any chain history.
	InitialBalance uint64
	// PrivateKey is an optional hex key; empty generates one.
	PrivateKey string
}

// DefaultConfig returns an initial balance of 500 and a generated key.
func DefaultConfig() Config {
	return Config{InitialBalance: defaultInitialBalance}
}

// BlockData is the payload of blocks produced by the miner.
type BlockData struct {
	Transactions []*Transaction `json:"transactions"`
}

// Wallet owns a key pair and caches its balance.
type Wallet struct {
	keyPair        *KeyPair
	publicKey      string
	initialBalance uint64
	now            func() time.Time

	mu      sync.RWMutex
	balance uint64
}

// NewWallet creates a wallet from cfg.
func NewWallet(cfg Config) (*Wallet, error) {
	var (
		kp  *KeyPair
		err error
	)
	if cfg.PrivateKey != "" {
		kp, err = KeyPairFromHex(cfg.PrivateKey)
	} else {
		kp, err = GenerateKeyPair()
	}
	if err != nil {
		return nil, err
	}
	return &Wallet{
		keyPair:        kp,
		publicKey:      kp.PublicKey(),
		initialBalance: cfg.InitialBalance,
		now:            time.Now,
		balance:        cfg.InitialBalance,
	}, nil
}

// PublicKey is the wallet address.
func (w *Wallet) PublicKey() string {
	return w.publicKey
}

// Balance is the cached balance from the last CalculateBalance.
func (w *Wallet) Balance() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.balance
}

// Sign signs hash with the wallet key.
func (w *Wallet) Sign(hash []byte) string {
	return w.keyPair.Sign(hash)
}

// CalculateBalance replays chain history and refreshes the cached balance.
//
// The baseline is the change output of the wallet's most recent on-chain transaction and only
// credits from later transactions count. Without such a transaction the baseline is the
// initial balance and every credit counts.
func (w *Wallet) CalculateBalance(blocks []ledger.Block) uint64 {
	balance := w.initialBalance
	var cutoff time.Time
	hasInput := false

	txs := Transactions(blocks)
	for _, tx := range txs {
		if tx.Input == nil || tx.Input.Address != w.publicKey {
			continue
		}
		if !hasInput || tx.Input.Timestamp.After(cutoff) {
			hasInput = true
			cutoff = tx.Input.Timestamp
			balance = tx.OutputFor(w.publicKey)
		}
	}

	for _, tx := range txs {
		if tx.Input == nil {
			continue
		}
		if hasInput && !tx.Input.Timestamp.After(cutoff) {
			continue
		}
		if tx.Input.Address == w.publicKey {
			continue
		}
		balance += tx.OutputFor(w.publicKey)
	}

	w.mu.Lock()
	w.balance = balance
	w.mu.Unlock()
	return balance
}

// CreateTransaction sends amount to recipient. The balance is first recalculated from blocks.
// A transaction already pending in pool from this wallet is extended instead of creating a
// second one. The result is stored in pool.
func (w *Wallet) CreateTransaction(recipient string, amount uint64, blocks []ledger.Block, pool *Pool) (*Transaction, error) {
	if blocks != nil {
		w.CalculateBalance(blocks)
	}

	if pending, ok := pool.FindBySender(w.publicKey); ok {
		if err := pending.Update(w, recipient, amount, w.now()); err != nil {
			return nil, err
		}
		pool.UpdateOrAdd(pending)
		return pending, nil
	}

	tx, err := NewTransaction(w, recipient, amount, w.now())
	if err != nil {
		return nil, err
	}
	pool.UpdateOrAdd(tx)
	return tx, nil
}

// Transactions extracts the miner-produced transactions of every block. Blocks whose data is
// not a BlockData are skipped.
func Transactions(blocks []ledger.Block) []*Transaction {
	var out []*Transaction
	for _, b := range blocks {
		var data BlockData
		if err := json.Unmarshal(b.Data, &data); err != nil {
			continue
		}
		for _, tx := range data.Transactions {
			if tx != nil {
				out = append(out, tx)
			}
		}
	}
	return out
}
