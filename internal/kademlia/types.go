package kademlia

import (
	"context"
	"time"

	"github.com/goodnatureofminers/kadchain/internal/identity"
	"github.com/goodnatureofminers/kadchain/internal/rpc"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	RPC interface {
		Self() identity.Contact
		AddMethod(method string, h rpc.Handler)
		OnSeen(fn func(identity.Contact))
		Request(ctx context.Context, method string, contact identity.Contact, data any) (rpc.Response, error)
	}
	Metrics interface {
		ObserveLookup(rounds, found int, started time.Time)
		ObservePing(err error, started time.Time)
		SetRoutingTableSize(n int)
	}
)

type pong struct {
	Pong bool `json:"pong"`
}

type findNodeRequest struct {
	TargetID identity.NodeID `json:"targetId"`
}

type findNodeResponse struct {
	Contacts []identity.Contact `json:"contacts"`
}
