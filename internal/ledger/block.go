// Package ledger implements proof-of-work blocks and the longest-valid-chain rule.
package ledger

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Block is one link of the chain. It is immutable once mined.
type Block struct {
	Timestamp  time.Time       `json:"timestamp"`
	LastHash   string          `json:"lastHash"`
	Hash       string          `json:"hash"`
	Data       json.RawMessage `json:"data"`
	Nonce      uint64          `json:"nonce"`
	Difficulty int             `json:"difficulty"`
}

// Genesis returns the fixed first block.
func Genesis(cfg Config) Block {
	return Block{
		Timestamp:  time.Unix(0, 0).UTC(),
		LastHash:   sha256Hex([]byte(genesisLastHashSeed)),
		Hash:       sha256Hex([]byte(genesisHashSeed)),
		Data:       json.RawMessage(`{}`),
		Nonce:      0,
		Difficulty: cfg.InitialDifficulty,
	}
}

// Hash is the hex SHA-256 of the canonical encoding of the hashed block fields.
// Timestamps are hashed in UTC with millisecond precision.
func Hash(timestamp time.Time, lastHash string, data json.RawMessage, nonce uint64, difficulty int) string {
	ts := timestamp.UTC().Format(timestampLayout)
	payload, err := json.Marshal([]any{ts, lastHash, data, nonce, difficulty})
	if err != nil {
		// data is not valid JSON; hash its bytes as a string instead
		payload, _ = json.Marshal([]any{ts, lastHash, string(data), nonce, difficulty})
	}
	return sha256Hex(payload)
}

// ComputeHash recomputes the hash from the block's own fields.
func (b Block) ComputeHash() string {
	return Hash(b.Timestamp, b.LastHash, b.Data, b.Nonce, b.Difficulty)
}

// Equal compares every field; data is compared after JSON compaction.
func (b Block) Equal(o Block) bool {
	return b.Timestamp.Equal(o.Timestamp) &&
		b.LastHash == o.LastHash &&
		b.Hash == o.Hash &&
		b.Nonce == o.Nonce &&
		b.Difficulty == o.Difficulty &&
		bytes.Equal(compact(b.Data), compact(o.Data))
}

// MeetsDifficulty reports whether hash starts with difficulty zero hex characters.
func MeetsDifficulty(hash string, difficulty int) bool {
	if difficulty <= 0 {
		return true
	}
	return strings.HasPrefix(hash, strings.Repeat("0", difficulty))
}

// AdjustDifficulty raises the difficulty when now is strictly before last.Timestamp+MineRate
// and lowers it otherwise, never below cfg.MinDifficulty when that is positive.
func AdjustDifficulty(last Block, now time.Time, cfg Config) int {
	if last.Timestamp.Add(cfg.MineRate).After(now) {
		return last.Difficulty + 1
	}
	d := last.Difficulty - 1
	if cfg.MinDifficulty > 0 && d < cfg.MinDifficulty {
		d = cfg.MinDifficulty
	}
	return d
}

// Mine searches for a nonce that satisfies the adjusted difficulty. Each attempt takes a fresh
// timestamp from now. ctx is checked every ctxCheckInterval attempts.
func Mine(ctx context.Context, last Block, data json.RawMessage, cfg Config, now func() time.Time) (Block, error) {
	data = compact(data)
	for nonce := uint64(0); ; nonce++ {
		if nonce%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Block{}, err
			}
		}

		timestamp := now().UTC().Truncate(time.Millisecond)
		difficulty := AdjustDifficulty(last, timestamp, cfg)
		hash := Hash(timestamp, last.Hash, data, nonce, difficulty)
		if MeetsDifficulty(hash, difficulty) {
			return Block{
				Timestamp:  timestamp,
				LastHash:   last.Hash,
				Hash:       hash,
				Data:       data,
				Nonce:      nonce,
				Difficulty: difficulty,
			}, nil
		}
	}
}

func compact(data json.RawMessage) json.RawMessage {
	if len(data) == 0 {
		return json.RawMessage("null")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return data
	}
	return buf.Bytes()
}

func sha256Hex(b []byte) string {
	return hex.EncodeToString(chainhash.HashB(b))
}
