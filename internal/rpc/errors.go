package rpc

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when no response arrives within Config.Timeout.
	ErrTimeout = errors.New("rpc timeout")
	// ErrInvalidMessageType is returned when the remote side has no handler for a method.
	ErrInvalidMessageType = errors.New("invalid message type")
	// ErrPayloadTooLarge is returned when an encoded envelope exceeds Config.MaxDatagramSize.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrClosed is returned by calls on a closed transport.
	ErrClosed = errors.New("transport closed")
	// ErrNotListening is returned by calls made before Listen.
	ErrNotListening = errors.New("transport is not listening")
)

// Error codes carried in response envelopes.
const (
	CodeMethodNotFound  = "METHOD_NOT_FOUND"
	CodeHandlerFailed   = "HANDLER_FAILED"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

// RemoteError is a rejection reported by the remote handler.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error %s: %s", e.Code, e.Message)
}

// Unwrap maps well-known codes to local sentinels.
func (e *RemoteError) Unwrap() error {
	switch e.Code {
	case CodeMethodNotFound:
		return ErrInvalidMessageType
	case CodePayloadTooLarge:
		return ErrPayloadTooLarge
	default:
		return nil
	}
}
