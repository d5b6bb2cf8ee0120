//go:build zmq

package main

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/goodnatureofminers/kadchain/internal/ledger"
	"github.com/goodnatureofminers/kadchain/internal/node"
	"github.com/pebbe/zmq4"
	"go.uber.org/zap"
)

const hashBlockTopic = "hashblock"

// startBlockSignal publishes [topic, hash, sequence] on every new tip, the bitcoind frame layout.
func startBlockSignal(ctx context.Context, addr string, n *node.Node, logger *zap.Logger) error {
	if addr == "" {
		return nil
	}

	pub, err := newPublisher(addr)
	if err != nil {
		return fmt.Errorf("bind zmq: %w", err)
	}

	tips := make(chan ledger.Block, 16)
	n.OnTip(func(tip ledger.Block) {
		select {
		case tips <- tip:
		default:
			logger.Warn("zmq block signal lagging, tip skipped", zap.String("hash", tip.Hash))
		}
	})

	go func() {
		defer pub.Close()
		var seq uint32
		for {
			select {
			case <-ctx.Done():
				return
			case tip := <-tips:
				hash, err := hex.DecodeString(tip.Hash)
				if err != nil {
					logger.Warn("skip non-hex block hash", zap.String("hash", tip.Hash))
					continue
				}
				sequence := make([]byte, 4)
				binary.LittleEndian.PutUint32(sequence, seq)
				seq++
				if _, err := pub.SendMessage(hashBlockTopic, hash, sequence); err != nil {
					logger.Warn("zmq send failed", zap.Error(err))
				}
			}
		}
	}()

	logger.Info("publishing block signal", zap.String("addr", addr), zap.String("topic", hashBlockTopic))
	return nil
}

func newPublisher(addr string) (*zmq4.Socket, error) {
	pub, err := zmq4.NewSocket(zmq4.PUB)
	if err != nil {
		return nil, err
	}
	if err := pub.Bind(addr); err != nil {
		pub.Close()
		return nil, err
	}
	return pub, nil
}
