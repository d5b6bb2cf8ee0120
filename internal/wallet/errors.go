package wallet

import "errors"

var (
	// ErrAmountExceedsBalance is returned when a transfer is larger than what the sender holds.
	ErrAmountExceedsBalance = errors.New("amount exceeds balance")
	// ErrInvalidTransaction is returned when a transaction cannot be updated by the given sender.
	ErrInvalidTransaction = errors.New("invalid transaction")
	// ErrInvalidKey is returned for malformed private keys.
	ErrInvalidKey = errors.New("invalid key")
)
