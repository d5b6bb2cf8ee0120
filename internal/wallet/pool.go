package wallet

import "sync"

// Pool is the mempool: pending transactions keyed by id, kept in arrival order.
type Pool struct {
	mu  sync.RWMutex
	txs []*Transaction
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// UpdateOrAdd replaces the transaction with the same id, or appends tx.
func (p *Pool) UpdateOrAdd(tx *Transaction) {
	stored := tx.Clone()

	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.txs {
		if p.txs[i].ID == tx.ID {
			p.txs[i] = stored
			return
		}
	}
	p.txs = append(p.txs, stored)
}

// Transactions returns copies of every pending transaction.
func (p *Pool) Transactions() []*Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Transaction, len(p.txs))
	for i, tx := range p.txs {
		out[i] = tx.Clone()
	}
	return out
}

// ValidTransactions returns the pending transactions that conserve value and verify.
// Invalid ones stay in the pool.
func (p *Pool) ValidTransactions() []*Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []*Transaction
	for _, tx := range p.txs {
		if tx.Valid() {
			out = append(out, tx.Clone())
		}
	}
	return out
}

// FindBySender returns a copy of the first pending transaction sent from address.
func (p *Pool) FindBySender(address string) (*Transaction, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, tx := range p.txs {
		if tx.Input != nil && tx.Input.Address == address {
			return tx.Clone(), true
		}
	}
	return nil, false
}

// Len is the number of pending transactions.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.txs)
}

// Clear drops every pending transaction.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.txs = nil
}
