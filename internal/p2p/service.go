// Package p2p propagates chains and pending transactions to the peers in the routing table.
//
// Chains never travel in one datagram. SYNC_CHAIN exchanges chain heads; whichever side is
// shorter pulls the longer chain with GET_BLOCKS in datagram-sized ranges and then applies
// the longest-chain rule to it.
package p2p

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/kadchain/internal/identity"
	"github.com/goodnatureofminers/kadchain/internal/ledger"
	"github.com/goodnatureofminers/kadchain/internal/rpc"
	"github.com/goodnatureofminers/kadchain/internal/wallet"
	"go.uber.org/zap"
)

// Service serves and sends the chain and mempool messages.
type Service struct {
	logger  *zap.Logger
	cfg     Config
	rpc     RPC
	peers   Peers
	chain   Chain
	pool    Pool
	metrics Metrics

	pullsMu sync.Mutex
	pulls   map[identity.NodeID]struct{}
	wg      sync.WaitGroup
}

// NewService registers the P2P methods on transport.
func NewService(
	transport RPC,
	peers Peers,
	chain Chain,
	pool Pool,
	cfg Config,
	logger *zap.Logger,
	metrics Metrics,
) (*Service, error) {
	switch {
	case transport == nil:
		return nil, errors.New("p2p rpc is required")
	case peers == nil:
		return nil, errors.New("p2p peers is required")
	case chain == nil:
		return nil, errors.New("p2p chain is required")
	case pool == nil:
		return nil, errors.New("p2p pool is required")
	case metrics == nil:
		return nil, errors.New("p2p metrics is required")
	}

	s := &Service{
		logger:  logger.Named("p2p"),
		cfg:     cfg.withDefaults(),
		rpc:     transport,
		peers:   peers,
		chain:   chain,
		pool:    pool,
		metrics: metrics,
		pulls:   make(map[identity.NodeID]struct{}),
	}
	transport.AddMethod(MethodSyncChain, s.handleSyncChain)
	transport.AddMethod(MethodGetBlocks, s.handleGetBlocks)
	transport.AddMethod(MethodBroadcastTransaction, s.handleBroadcastTransaction)
	transport.AddMethod(MethodBroadcastClearTransactions, s.handleClearTransactions)
	return s, nil
}

func headOf(blocks []ledger.Block) chainHead {
	if len(blocks) == 0 {
		return chainHead{}
	}
	return chainHead{Length: len(blocks), TipHash: blocks[len(blocks)-1].Hash}
}

// handleSyncChain answers with the local head. A longer announced chain is pulled from the
// sender in the background so the reply is not held up.
func (s *Service) handleSyncChain(ctx context.Context, req rpc.Request) (any, error) {
	var in chainHead
	if err := req.Decode(&in); err != nil {
		return nil, fmt.Errorf("sync chain: %w", err)
	}
	local := headOf(s.chain.Blocks())
	if in.Length > local.Length && req.Sender.Validate() == nil {
		s.pullInBackground(ctx, req.Sender, in.Length)
	}
	return local, nil
}

// handleGetBlocks serves the longest prefix of the requested range that fits MaxChunkBytes,
// and always at least one block.
func (s *Service) handleGetBlocks(_ context.Context, req rpc.Request) (any, error) {
	var in blockRange
	if err := req.Decode(&in); err != nil {
		return nil, fmt.Errorf("get blocks: %w", err)
	}
	blocks := s.chain.Blocks()
	if in.From < 0 || in.From >= len(blocks) {
		return nil, fmt.Errorf("get blocks: from %d outside chain of %d", in.From, len(blocks))
	}
	to := in.To
	if to <= in.From || to > len(blocks) {
		to = len(blocks)
	}

	out := blocksReply{Length: len(blocks)}
	size := blocksReplyOverhead
	for i := in.From; i < to; i++ {
		raw, err := json.Marshal(blocks[i])
		if err != nil {
			return nil, fmt.Errorf("get blocks: %w", err)
		}
		if len(out.Blocks) > 0 && size+len(raw)+1 > s.cfg.MaxChunkBytes {
			break
		}
		size += len(raw) + 1
		out.Blocks = append(out.Blocks, raw)
	}
	return out, nil
}

func (s *Service) handleBroadcastTransaction(_ context.Context, req rpc.Request) (any, error) {
	var in transactionMessage
	if err := req.Decode(&in); err != nil {
		return nil, fmt.Errorf("broadcast transaction: %w", err)
	}
	if in.Transaction == nil || in.Transaction.ID == "" {
		return nil, errors.New("broadcast transaction: missing transaction")
	}
	s.pool.UpdateOrAdd(in.Transaction)
	return nil, nil
}

func (s *Service) handleClearTransactions(context.Context, rpc.Request) (any, error) {
	s.pool.Clear()
	return nil, nil
}

// SyncChains announces the local head to every known peer. Peers with a shorter chain pull
// ours; every peer answering with a longer head is pulled from here. Unreachable peers are
// logged and skipped.
func (s *Service) SyncChains(ctx context.Context) {
	started := time.Now()
	peers := s.peers.AllContacts()
	local := headOf(s.chain.Blocks())
	results := s.rpc.BroadcastRequest(ctx, MethodSyncChain, peers, local)

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			s.logger.Warn("sync chain failed", zap.Stringer("peer", res.Contact), zap.Error(res.Err))
			continue
		}
		var remote chainHead
		if err := res.Response.Decode(&remote); err != nil {
			failed++
			s.logger.Warn("malformed sync chain response", zap.Stringer("peer", res.Contact), zap.Error(err))
			continue
		}
		if remote.Length <= local.Length {
			continue
		}
		if err := s.pullAndReplace(ctx, res.Contact, remote.Length); err != nil {
			failed++
			s.logger.Warn("pull chain failed", zap.Stringer("peer", res.Contact), zap.Error(err))
		}
	}
	s.metrics.ObserveBroadcast(MethodSyncChain, len(peers), failed, started)
}

// Wait blocks until every background pull has returned.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) pullInBackground(ctx context.Context, peer identity.Contact, length int) {
	s.pullsMu.Lock()
	if _, busy := s.pulls[peer.NodeID]; busy {
		s.pullsMu.Unlock()
		return
	}
	s.pulls[peer.NodeID] = struct{}{}
	s.pullsMu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.pullsMu.Lock()
			delete(s.pulls, peer.NodeID)
			s.pullsMu.Unlock()
		}()
		if err := s.pullAndReplace(ctx, peer, length); err != nil {
			s.logger.Warn("pull chain failed", zap.Stringer("peer", peer), zap.Error(err))
		}
	}()
}

func (s *Service) pullAndReplace(ctx context.Context, peer identity.Contact, length int) error {
	candidate, err := s.pull(ctx, peer, length)
	if err != nil {
		return err
	}
	s.replace(candidate, peer.String())
	return nil
}

// pull fetches blocks [0, length) of peer's chain range by range.
func (s *Service) pull(ctx context.Context, peer identity.Contact, length int) (blocks []ledger.Block, err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObservePull(err, len(blocks), started)
	}()

	blocks = make([]ledger.Block, 0, length)
	for len(blocks) < length {
		resp, err := s.rpc.Request(ctx, MethodGetBlocks, peer, blockRange{From: len(blocks), To: length})
		if err != nil {
			return nil, fmt.Errorf("get blocks from %d: %w", len(blocks), err)
		}
		var out blocksMessage
		if err := resp.Decode(&out); err != nil {
			return nil, fmt.Errorf("get blocks from %d: %w", len(blocks), err)
		}
		if len(out.Blocks) == 0 {
			return nil, fmt.Errorf("get blocks from %d: peer returned no blocks", len(blocks))
		}
		blocks = append(blocks, out.Blocks...)
	}
	if len(blocks) > length {
		blocks = blocks[:length]
	}
	return blocks, nil
}

// BroadcastTransaction pushes tx into every known peer's pool.
func (s *Service) BroadcastTransaction(ctx context.Context, tx *wallet.Transaction) {
	s.broadcast(ctx, MethodBroadcastTransaction, transactionMessage{Transaction: tx})
}

// BroadcastClearTransactions tells every known peer to empty its pool.
func (s *Service) BroadcastClearTransactions(ctx context.Context) {
	s.broadcast(ctx, MethodBroadcastClearTransactions, nil)
}

func (s *Service) broadcast(ctx context.Context, method string, data any) {
	started := time.Now()
	peers := s.peers.AllContacts()
	failed := 0
	for _, res := range s.rpc.BroadcastRequest(ctx, method, peers, data) {
		if res.Err != nil {
			failed++
			s.logger.Warn("broadcast failed",
				zap.String("method", method),
				zap.Stringer("peer", res.Contact),
				zap.Error(res.Err))
		}
	}
	s.metrics.ObserveBroadcast(method, len(peers), failed, started)
}

func (s *Service) replace(candidate []ledger.Block, from string) {
	result := s.chain.ReplaceChain(candidate)
	s.metrics.ObserveReplace(result)
	s.logger.Debug("chain received",
		zap.String("from", from),
		zap.Int("length", len(candidate)),
		zap.String("result", string(result)))
}
