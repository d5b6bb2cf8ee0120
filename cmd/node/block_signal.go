//go:build !zmq

package main

import (
	"context"

	"github.com/goodnatureofminers/kadchain/internal/node"
	"go.uber.org/zap"
)

func startBlockSignal(_ context.Context, addr string, _ *node.Node, logger *zap.Logger) error {
	if addr != "" {
		logger.Warn("zmq block signal requested but binary built without the zmq tag", zap.String("addr", addr))
	}
	return nil
}
