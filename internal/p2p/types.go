package p2p

import (
	"context"
	"encoding/json"
	"time"

	"github.com/goodnatureofminers/kadchain/internal/identity"
	"github.com/goodnatureofminers/kadchain/internal/ledger"
	"github.com/goodnatureofminers/kadchain/internal/rpc"
	"github.com/goodnatureofminers/kadchain/internal/wallet"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	RPC interface {
		AddMethod(method string, h rpc.Handler)
		Request(ctx context.Context, method string, contact identity.Contact, data any) (rpc.Response, error)
		BroadcastRequest(ctx context.Context, method string, contacts []identity.Contact, data any) []rpc.Result
	}
	Peers interface {
		AllContacts() []identity.Contact
	}
	Chain interface {
		Blocks() []ledger.Block
		ReplaceChain(candidate []ledger.Block) ledger.ReplaceResult
	}
	Pool interface {
		UpdateOrAdd(tx *wallet.Transaction)
		Clear()
	}
	Metrics interface {
		ObserveReplace(result ledger.ReplaceResult)
		ObserveBroadcast(method string, peers, failed int, started time.Time)
		ObservePull(err error, blocks int, started time.Time)
	}
)

// chainHead announces a chain without carrying it.
type chainHead struct {
	Length  int    `json:"length"`
	TipHash string `json:"tipHash"`
}

// blockRange asks for blocks [From, To) of the responder's chain.
type blockRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// blocksMessage is a prefix of the requested range that fits one datagram.
type blocksMessage struct {
	Length int            `json:"length"`
	Blocks []ledger.Block `json:"blocks"`
}

// blocksReply is blocksMessage with the blocks already encoded for sizing.
type blocksReply struct {
	Length int               `json:"length"`
	Blocks []json.RawMessage `json:"blocks"`
}

type transactionMessage struct {
	Transaction *wallet.Transaction `json:"transaction"`
}
