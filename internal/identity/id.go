// Package identity defines node identifiers, the XOR metric and peer contacts.
package identity

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/bits"
)

const (
	// IDBytes is the width of a NodeID in bytes.
	IDBytes = 4
	// IDBits is the width of a NodeID in bits and the number of routing table buckets.
	IDBits = IDBytes * 8
)

// ErrInvalidIdentifier is returned when an identifier has the wrong length or encoding.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// NodeID is a fixed-width opaque node identifier.
type NodeID [IDBytes]byte

// Distance is the XOR of two NodeIDs read as a big-endian unsigned integer.
type Distance [IDBytes]byte

// NewRandomNodeID draws an identifier from the crypto random source.
func NewRandomNodeID() (NodeID, error) {
	var id NodeID
	if _, err := rand.Read(id[:]); err != nil {
		return NodeID{}, fmt.Errorf("read random id: %w", err)
	}
	return id, nil
}

// ParseNodeID decodes a lowercase or uppercase hex identifier.
func ParseNodeID(s string) (NodeID, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return NodeID{}, fmt.Errorf("%w: %q: %v", ErrInvalidIdentifier, s, err)
	}
	return NodeIDFromBytes(raw)
}

// NodeIDFromBytes copies raw into a NodeID, rejecting any other length.
func NodeIDFromBytes(raw []byte) (NodeID, error) {
	if len(raw) != IDBytes {
		return NodeID{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidIdentifier, len(raw), IDBytes)
	}
	var id NodeID
	copy(id[:], raw)
	return id, nil
}

// String renders the id as lowercase hex.
func (id NodeID) String() string {
	return hex.EncodeToString(id[:])
}

// MarshalText implements encoding.TextMarshaler.
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *NodeID) UnmarshalText(text []byte) error {
	parsed, err := ParseNodeID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Xor returns the distance between a and b.
func Xor(a, b NodeID) Distance {
	var d Distance
	for i := range a {
		d[i] = a[i] ^ b[i]
	}
	return d
}

// CommonPrefixLength is the number of leading zero bits of Xor(a, b); IDBits iff a == b.
func CommonPrefixLength(a, b NodeID) int {
	d := Xor(a, b)
	n := 0
	for _, x := range d {
		if x == 0 {
			n += 8
			continue
		}
		return n + bits.LeadingZeros8(x)
	}
	return n
}

// CompareDistance orders distances as unsigned integers.
func CompareDistance(d1, d2 Distance) int {
	return bytes.Compare(d1[:], d2[:])
}

// IsZero reports whether the distance is zero.
func (d Distance) IsZero() bool {
	return d == Distance{}
}

func (d Distance) String() string {
	return hex.EncodeToString(d[:])
}
