package transport

import (
	"context"
	"encoding/json"
	"time"

	"github.com/goodnatureofminers/kadchain/internal/ledger"
	"github.com/goodnatureofminers/kadchain/internal/wallet"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Chain interface {
		Blocks() []ledger.Block
		AddBlock(ctx context.Context, data json.RawMessage) (ledger.Block, error)
	}
	Pool interface {
		Transactions() []*wallet.Transaction
	}
	Account interface {
		PublicKey() string
		Balance() uint64
		Send(recipient string, amount uint64) (*wallet.Transaction, error)
	}
	Miner interface {
		Mine(ctx context.Context) (ledger.Block, error)
	}
	Broadcaster interface {
		SyncChains(ctx context.Context)
		BroadcastTransaction(ctx context.Context, tx *wallet.Transaction)
	}
	Metrics interface {
		ObserveRequest(route string, code int, started time.Time)
	}
)
