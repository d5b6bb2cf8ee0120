package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goodnatureofminers/kadchain/internal/identity"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		ObserveRequest(method string, err error, started time.Time)
		ObserveInbound(method string, err error, started time.Time)
		ObserveDropped(reason string)
		ObserveDuplicate(method string)
	}
)

// Handler serves one method. A returned error is sent back to the caller as a RemoteError.
type Handler func(ctx context.Context, req Request) (any, error)

// Request is an inbound call as seen by a Handler.
type Request struct {
	Method string
	Sender identity.Contact
	Data   json.RawMessage
}

// Decode unmarshals the request data into v.
func (r Request) Decode(v any) error {
	return decodeData(r.Data, v)
}

// Response is a successful reply to Transport.Request.
type Response struct {
	Sender identity.Contact
	Data   json.RawMessage
}

// Decode unmarshals the response data into v.
func (r Response) Decode(v any) error {
	return decodeData(r.Data, v)
}

// Result is one contact's outcome in BroadcastRequest.
type Result struct {
	Contact  identity.Contact
	Response Response
	Err      error
}

func decodeData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
