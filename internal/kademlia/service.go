// Package kademlia implements the routing table and the PING/FIND_NODE node service.
package kademlia

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/kadchain/internal/clock"
	"github.com/goodnatureofminers/kadchain/internal/identity"
	"github.com/goodnatureofminers/kadchain/internal/rpc"
	"github.com/goodnatureofminers/kadchain/pkg/workerpool"
	"go.uber.org/zap"
)

// Service answers PING and FIND_NODE and runs iterative lookups over RPC.
type Service struct {
	logger  *zap.Logger
	cfg     Config
	table   *RoutingTable
	rpc     RPC
	metrics Metrics
	sleep   clock.SleepFunc
}

// NewService registers the DHT methods on transport and feeds every seen contact into table.
func NewService(
	table *RoutingTable,
	transport RPC,
	cfg Config,
	logger *zap.Logger,
	metrics Metrics,
) (*Service, error) {
	if table == nil {
		return nil, errors.New("routing table is required")
	}
	if transport == nil {
		return nil, errors.New("kademlia rpc is required")
	}
	if metrics == nil {
		return nil, errors.New("kademlia metrics is required")
	}

	s := &Service{
		logger:  logger.Named("kademlia").With(zap.String("node", table.Self().String())),
		cfg:     cfg.withDefaults(),
		table:   table,
		rpc:     transport,
		metrics: metrics,
		sleep:   clock.SleepWithContext,
	}

	transport.AddMethod(MethodPing, s.handlePing)
	transport.AddMethod(MethodFindNode, s.handleFindNode)
	transport.OnSeen(s.observe)

	return s, nil
}

// Table exposes the routing table the service maintains.
func (s *Service) Table() *RoutingTable {
	return s.table
}

func (s *Service) observe(c identity.Contact) {
	if s.table.AddContact(c) {
		s.metrics.SetRoutingTableSize(s.table.Len())
	}
}

func (s *Service) handlePing(context.Context, rpc.Request) (any, error) {
	return pong{Pong: true}, nil
}

func (s *Service) handleFindNode(_ context.Context, req rpc.Request) (any, error) {
	var in findNodeRequest
	if err := req.Decode(&in); err != nil {
		return nil, fmt.Errorf("find node: %w", err)
	}
	return findNodeResponse{Contacts: s.table.FindClosest(in.TargetID, s.cfg.BucketSize)}, nil
}

// Ping reports whether contact answered with a well-formed pong. It never fails.
func (s *Service) Ping(ctx context.Context, contact identity.Contact) bool {
	_, err := s.ping(ctx, contact)
	return err == nil
}

// Probe pings an address whose node id is unknown and returns the contact the peer reports.
func (s *Service) Probe(ctx context.Context, address string, port int) (identity.Contact, error) {
	target := identity.Contact{Address: address, Port: port}
	if err := target.Validate(); err != nil {
		return identity.Contact{}, err
	}
	return s.ping(ctx, target)
}

func (s *Service) ping(ctx context.Context, contact identity.Contact) (peer identity.Contact, err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObservePing(err, started)
	}()

	resp, err := s.rpc.Request(ctx, MethodPing, contact, nil)
	if err != nil {
		s.logger.Debug("ping failed", zap.Stringer("contact", contact), zap.Error(err))
		return identity.Contact{}, err
	}
	var out pong
	if err = resp.Decode(&out); err != nil {
		return identity.Contact{}, err
	}
	if !out.Pong {
		return identity.Contact{}, fmt.Errorf("ping %s: malformed pong", contact)
	}
	return resp.Sender, nil
}

// FindNode runs the iterative lookup for target and returns the K closest contacts the
// routing table holds once no round discovers a new contact.
func (s *Service) FindNode(ctx context.Context, target identity.NodeID) []identity.Contact {
	started := time.Now()
	state := newLookupState(s.table.Self(), target, s.table.FindClosest(target, s.cfg.Alpha))

	for ctx.Err() == nil {
		pending := state.next()
		if len(pending) == 0 {
			break
		}
		state.rounds++

		replies := workerpool.Map(ctx, s.cfg.Alpha, pending, func(ctx context.Context, c identity.Contact) []identity.Contact {
			return s.queryFindNode(ctx, c, target)
		})

		progress := false
		for _, contacts := range replies {
			for _, c := range contacts {
				s.observe(c)
			}
			if state.merge(contacts) {
				progress = true
			}
		}
		if !progress {
			break
		}
	}

	closest := s.table.FindClosest(target, s.cfg.BucketSize)
	s.metrics.ObserveLookup(state.rounds, len(closest), started)
	s.logger.Debug("lookup settled",
		zap.Stringer("target", target),
		zap.Int("rounds", state.rounds),
		zap.Int("found", len(closest)))
	return closest
}

// queryFindNode asks contact for target's neighbours. Failures count as an empty answer.
func (s *Service) queryFindNode(ctx context.Context, contact identity.Contact, target identity.NodeID) []identity.Contact {
	resp, err := s.rpc.Request(ctx, MethodFindNode, contact, findNodeRequest{TargetID: target})
	if err != nil {
		s.logger.Debug("find node failed", zap.Stringer("contact", contact), zap.Error(err))
		return nil
	}
	var out findNodeResponse
	if err := resp.Decode(&out); err != nil {
		s.logger.Debug("malformed find node response", zap.Stringer("contact", contact), zap.Error(err))
		return nil
	}

	valid := out.Contacts[:0]
	for _, c := range out.Contacts {
		if c.Validate() == nil {
			valid = append(valid, c)
		}
	}
	return valid
}

// Bootstrap adds seed to the routing table and looks up the node's own id through it.
// An unresponsive seed leaves the table without other peers; only ctx errors are returned.
func (s *Service) Bootstrap(ctx context.Context, seed identity.Contact) error {
	s.observe(seed)
	found := s.FindNode(ctx, s.table.Self())
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Info("bootstrap complete",
		zap.Stringer("seed", seed),
		zap.Int("closest", len(found)),
		zap.Int("contacts", s.table.Len()))
	return nil
}

// Run refreshes the routing table with a self lookup every RefreshInterval until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	return clock.Every(ctx, s.cfg.RefreshInterval, s.sleep, func(ctx context.Context) {
		found := s.FindNode(ctx, s.table.Self())
		s.logger.Debug("routing table refreshed", zap.Int("closest", len(found)), zap.Int("contacts", s.table.Len()))
	})
}
