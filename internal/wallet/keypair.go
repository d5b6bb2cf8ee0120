package wallet

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// KeyPair is a secp256k1 signing key. Its address is the hex compressed public key.
type KeyPair struct {
	priv *btcec.PrivateKey
}

// GenerateKeyPair draws a fresh key.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &KeyPair{priv: priv}, nil
}

// KeyPairFromHex loads a 32 byte hex private key.
func KeyPairFromHex(s string) (*KeyPair, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(raw) != btcec.PrivKeyBytesLen {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(raw), btcec.PrivKeyBytesLen)
	}
	priv, _ := btcec.PrivKeyFromBytes(raw)
	return &KeyPair{priv: priv}, nil
}

// PublicKey is the hex compressed public key.
func (k *KeyPair) PublicKey() string {
	return hex.EncodeToString(k.priv.PubKey().SerializeCompressed())
}

// PrivateKeyHex is the hex private scalar, the inverse of KeyPairFromHex.
func (k *KeyPair) PrivateKeyHex() string {
	return hex.EncodeToString(k.priv.Serialize())
}

// Sign returns the hex DER signature of hash.
func (k *KeyPair) Sign(hash []byte) string {
	return hex.EncodeToString(ecdsa.Sign(k.priv, hash).Serialize())
}

// VerifySignature checks a hex DER signature of hash against a hex public key.
// Malformed keys or signatures verify as false.
func VerifySignature(publicKey string, hash []byte, signature string) bool {
	pubRaw, err := hex.DecodeString(publicKey)
	if err != nil {
		return false
	}
	pub, err := btcec.ParsePubKey(pubRaw)
	if err != nil {
		return false
	}
	sigRaw, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(sigRaw)
	if err != nil {
		return false
	}
	return sig.Verify(hash, pub)
}
