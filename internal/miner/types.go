package miner

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
		AddBlock(ctx context.Context, data json.RawMessage) (ledger.Block, error)
	}
	Pool interface {
		ValidTransactions() []*wallet.Transaction
		Clear()
	}
	Wallet interface {
		PublicKey() string
	}
	Broadcaster interface {
		SyncChains(ctx context.Context)
		BroadcastClearTransactions(ctx context.Context)
	}
	Metrics interface {
		ObserveMine(err error, transactions int, started time.Time)
	}
)
