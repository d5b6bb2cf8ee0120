package node

import (
	"github.com/goodnatureofminers/kadchain/internal/ledger"
	"github.com/goodnatureofminers/kadchain/internal/wallet"
)

// account binds the wallet to the chain and pool it spends against.
type account struct {
	wallet *wallet.Wallet
	chain  *ledger.Chain
	pool   *wallet.Pool
}

func (a account) PublicKey() string {
	return a.wallet.PublicKey()
}

func (a account) Balance() uint64 {
	return a.wallet.CalculateBalance(a.chain.Blocks())
}

func (a account) Send(recipient string, amount uint64) (*wallet.Transaction, error) {
	return a.wallet.CreateTransaction(recipient, amount, a.chain.Blocks(), a.pool)
}
