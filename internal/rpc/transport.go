// Package rpc implements request/response calls over UDP datagrams.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/goodnatureofminers/kadchain/internal/identity"
	"github.com/goodnatureofminers/kadchain/pkg/workerpool"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// inflight marks a deduplicated request whose handler has not answered yet.
type inflight struct{}

// Transport sends and serves JSON envelopes on one UDP socket.
type Transport struct {
	cfg     Config
	logger  *zap.Logger
	metrics Metrics
	codec   *codec
	limiter ratelimit.Limiter
	dedup   *cache.Cache
	slots   chan struct{}

	selfMu sync.RWMutex
	self   identity.Contact
	conn   *net.UDPConn

	handlersMu sync.RWMutex
	handlers   map[string]Handler

	pendingMu sync.Mutex
	pending   map[string]chan envelope

	observersMu sync.RWMutex
	onSeen      []func(identity.Contact)
	onListening []func(identity.Contact)

	wg        sync.WaitGroup
	closeOnce sync.Once
	codecOnce sync.Once
	closed    chan struct{}
}

// NewTransport builds a transport advertising self as its contact.
func NewTransport(self identity.Contact, cfg Config, logger *zap.Logger, metrics Metrics) (*Transport, error) {
	if metrics == nil {
		return nil, errors.New("rpc metrics is required")
	}
	cfg = cfg.withDefaults()

	c, err := newCodec(cfg)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.BroadcastRPS > 0 {
		limiter = ratelimit.New(cfg.BroadcastRPS)
	}

	var dedup *cache.Cache
	if cfg.DedupTTL > 0 {
		dedup = cache.New(cfg.DedupTTL, 2*cfg.DedupTTL)
	}

	return &Transport{
		cfg:      cfg,
		logger:   logger.Named("rpc").With(zap.String("node", self.NodeID.String())),
		metrics:  metrics,
		codec:    c,
		limiter:  limiter,
		dedup:    dedup,
		slots:    make(chan struct{}, cfg.MaxInflightHandlers),
		self:     self,
		handlers: make(map[string]Handler),
		pending:  make(map[string]chan envelope),
		closed:   make(chan struct{}),
	}, nil
}

// Self returns the advertised contact. After Listen the port reflects the bound socket.
func (t *Transport) Self() identity.Contact {
	t.selfMu.RLock()
	defer t.selfMu.RUnlock()
	return t.self
}

// MaxDatagramSize is the largest encoded envelope the transport sends or accepts.
func (t *Transport) MaxDatagramSize() int {
	return t.cfg.MaxDatagramSize
}

// OnSeen subscribes fn to every contact that sent a well-formed envelope.
func (t *Transport) OnSeen(fn func(identity.Contact)) {
	t.observersMu.Lock()
	defer t.observersMu.Unlock()
	t.onSeen = append(t.onSeen, fn)
}

// OnListening subscribes fn to the bind event.
func (t *Transport) OnListening(fn func(identity.Contact)) {
	t.observersMu.Lock()
	defer t.observersMu.Unlock()
	t.onListening = append(t.onListening, fn)
}

// AddMethod registers h for method, replacing any previous handler.
func (t *Transport) AddMethod(method string, h Handler) {
	t.handlersMu.Lock()
	defer t.handlersMu.Unlock()
	t.handlers[method] = h
}

// Listen binds the socket and serves inbound envelopes until ctx is done or Close is called.
func (t *Transport) Listen(ctx context.Context) error {
	select {
	case <-t.closed:
		return ErrClosed
	default:
	}

	t.selfMu.Lock()
	if t.conn != nil {
		t.selfMu.Unlock()
		return errors.New("transport already listening")
	}
	bind := t.cfg.BindAddress
	if bind == "" {
		bind = t.self.HostPort()
	}
	addr, err := net.ResolveUDPAddr("udp", bind)
	if err != nil {
		t.selfMu.Unlock()
		return fmt.Errorf("resolve bind address %s: %w", bind, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		t.selfMu.Unlock()
		return fmt.Errorf("listen udp %s: %w", bind, err)
	}
	t.conn = conn
	if t.self.Port == 0 {
		if local, ok := conn.LocalAddr().(*net.UDPAddr); ok {
			t.self.Port = local.Port
		}
	}
	self := t.self
	t.selfMu.Unlock()

	t.logger.Info("listening", zap.Stringer("contact", self), zap.Stringer("bind", conn.LocalAddr()))

	t.observersMu.RLock()
	observers := t.onListening
	t.observersMu.RUnlock()
	for _, fn := range observers {
		fn(self)
	}

	t.wg.Add(2)
	go func() {
		defer t.wg.Done()
		t.readLoop(ctx, conn)
	}()
	go func() {
		defer t.wg.Done()
		select {
		case <-ctx.Done():
			t.shutdown()
		case <-t.closed:
		}
	}()
	return nil
}

// Close stops the receive loop and fails pending requests with ErrClosed.
func (t *Transport) Close() error {
	t.shutdown()
	t.wg.Wait()
	t.codecOnce.Do(t.codec.close)
	return nil
}

func (t *Transport) shutdown() {
	t.closeOnce.Do(func() {
		close(t.closed)
		t.selfMu.RLock()
		conn := t.conn
		t.selfMu.RUnlock()
		if conn != nil {
			_ = conn.Close()
		}
	})
}

// Request sends method to contact and waits for the correlated response.
// It fails with ErrTimeout after Config.Timeout and with *RemoteError when the remote handler rejects.
func (t *Transport) Request(ctx context.Context, method string, contact identity.Contact, data any) (resp Response, err error) {
	started := time.Now()
	defer func() {
		t.metrics.ObserveRequest(method, err, started)
	}()

	raw, err := marshalData(data)
	if err != nil {
		return Response{}, err
	}

	id := uuid.NewString()
	replies := make(chan envelope, 1)
	t.pendingMu.Lock()
	t.pending[id] = replies
	t.pendingMu.Unlock()
	defer func() {
		t.pendingMu.Lock()
		delete(t.pending, id)
		t.pendingMu.Unlock()
	}()

	if err = t.send(contact, envelope{
		RPCID:  id,
		Method: method,
		Params: &params{Data: raw, Contact: t.Self()},
	}); err != nil {
		return Response{}, err
	}

	timer := time.NewTimer(t.cfg.Timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return Response{}, ctx.Err()
	case <-t.closed:
		return Response{}, ErrClosed
	case <-timer.C:
		return Response{}, fmt.Errorf("%s to %s: %w", method, contact, ErrTimeout)
	case env := <-replies:
		if env.Error != nil {
			return Response{}, &RemoteError{Code: env.Error.Code, Message: env.Error.Message}
		}
		return Response{Sender: env.Result.Contact, Data: env.Result.Data}, nil
	}
}

// Notify sends method to contact without waiting for, or expecting, a response.
func (t *Transport) Notify(_ context.Context, method string, contact identity.Contact, data any) error {
	raw, err := marshalData(data)
	if err != nil {
		return err
	}
	return t.send(contact, envelope{
		Method: method,
		Params: &params{Data: raw, Contact: t.Self()},
	})
}

// BroadcastRequest calls Request on every contact in parallel. It returns one Result per contact,
// in input order; a failing contact only sets its own Result.Err.
func (t *Transport) BroadcastRequest(ctx context.Context, method string, contacts []identity.Contact, data any) []Result {
	raw, err := marshalData(data)
	if err != nil {
		results := make([]Result, len(contacts))
		for i, c := range contacts {
			results[i] = Result{Contact: c, Err: err}
		}
		return results
	}

	return workerpool.Map(ctx, t.cfg.BroadcastWorkers, contacts, func(ctx context.Context, c identity.Contact) Result {
		t.limiter.Take()
		resp, err := t.Request(ctx, method, c, raw)
		return Result{Contact: c, Response: resp, Err: err}
	})
}

func (t *Transport) send(contact identity.Contact, env envelope) error {
	t.selfMu.RLock()
	conn := t.conn
	t.selfMu.RUnlock()
	if conn == nil {
		return ErrNotListening
	}
	select {
	case <-t.closed:
		return ErrClosed
	default:
	}

	addr, err := net.ResolveUDPAddr("udp", contact.HostPort())
	if err != nil {
		return fmt.Errorf("resolve %s: %w", contact, err)
	}
	payload, err := t.codec.encode(env)
	if err != nil {
		return err
	}
	return t.write(conn, addr, payload)
}

func (t *Transport) write(conn *net.UDPConn, addr *net.UDPAddr, payload []byte) error {
	if _, err := conn.WriteToUDP(payload, addr); err != nil {
		if errors.Is(err, net.ErrClosed) {
			return ErrClosed
		}
		return fmt.Errorf("write to %s: %w", addr, err)
	}
	return nil
}

func (t *Transport) readLoop(ctx context.Context, conn *net.UDPConn) {
	buf := make([]byte, t.cfg.MaxDatagramSize)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			select {
			case <-t.closed:
				return
			default:
			}
			t.logger.Warn("read datagram failed", zap.Error(err))
			continue
		}

		select {
		case t.slots <- struct{}{}:
		default:
			t.metrics.ObserveDropped("overloaded")
			t.logger.Debug("dropping datagram, every handler slot is busy", zap.Stringer("from", addr))
			continue
		}

		payload := make([]byte, n)
		copy(payload, buf[:n])
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			defer func() { <-t.slots }()
			t.handleDatagram(ctx, conn, addr, payload)
		}()
	}
}

func (t *Transport) handleDatagram(ctx context.Context, conn *net.UDPConn, addr *net.UDPAddr, payload []byte) {
	env, err := t.codec.decode(payload)
	if err != nil {
		t.metrics.ObserveDropped("malformed")
		t.logger.Debug("dropping malformed datagram", zap.Stringer("from", addr), zap.Error(err))
		return
	}

	if sender, ok := env.sender(); ok && sender.Validate() == nil {
		t.notifySeen(sender)
	}

	switch env.kind() {
	case kindResponse:
		t.deliver(env)
	case kindNotification:
		_, _ = t.dispatch(ctx, env)
	case kindRequest:
		t.serve(ctx, conn, addr, env)
	}
}

func (t *Transport) deliver(env envelope) {
	t.pendingMu.Lock()
	replies, ok := t.pending[env.RPCID]
	t.pendingMu.Unlock()
	if !ok {
		t.metrics.ObserveDropped("unsolicited")
		t.logger.Debug("dropping unsolicited response", zap.String("rpcId", env.RPCID))
		return
	}
	select {
	case replies <- env:
	default:
	}
}

func (t *Transport) serve(ctx context.Context, conn *net.UDPConn, addr *net.UDPAddr, env envelope) {
	key := env.Params.Contact.NodeID.String() + "/" + env.RPCID
	if t.dedup != nil {
		if err := t.dedup.Add(key, inflight{}, cache.DefaultExpiration); err != nil {
			t.metrics.ObserveDuplicate(env.Method)
			cached, found := t.dedup.Get(key)
			if reply, ok := cached.([]byte); found && ok {
				_ = t.write(conn, addr, reply)
			}
			return
		}
	}

	data, err := t.dispatch(ctx, env)
	reply := envelope{RPCID: env.RPCID, Result: &result{Contact: t.Self()}}
	if err != nil {
		reply.Error = toWireError(err)
	} else {
		reply.Result.Data = data
	}

	payload, err := t.codec.encode(reply)
	if errors.Is(err, ErrPayloadTooLarge) {
		reply.Result.Data = nil
		reply.Error = &wireError{Code: CodePayloadTooLarge, Message: err.Error()}
		payload, err = t.codec.encode(reply)
	}
	if err != nil {
		t.logger.Error("encode response failed", zap.String("method", env.Method), zap.Error(err))
		return
	}
	if t.dedup != nil {
		t.dedup.SetDefault(key, payload)
	}
	if err := t.write(conn, addr, payload); err != nil {
		t.logger.Debug("send response failed", zap.Stringer("to", addr), zap.Error(err))
	}
}

// dispatch runs the handler registered for env.Method.
func (t *Transport) dispatch(ctx context.Context, env envelope) (data json.RawMessage, err error) {
	started := time.Now()
	defer func() {
		t.metrics.ObserveInbound(env.Method, err, started)
	}()

	t.handlersMu.RLock()
	h, ok := t.handlers[env.Method]
	t.handlersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMessageType, env.Method)
	}

	out, err := t.invoke(ctx, h, Request{Method: env.Method, Sender: env.Params.Contact, Data: env.Params.Data})
	if err != nil {
		t.logger.Debug("handler failed", zap.String("method", env.Method), zap.Error(err))
		return nil, err
	}
	return marshalData(out)
}

// invoke runs h, turning a panic into an error so one handler cannot stop the transport.
func (t *Transport) invoke(ctx context.Context, h Handler, req Request) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("handler panicked", zap.String("method", req.Method), zap.Any("panic", r))
			err = fmt.Errorf("handler %s panicked: %v", req.Method, r)
		}
	}()
	return h(ctx, req)
}

func (t *Transport) notifySeen(c identity.Contact) {
	t.observersMu.RLock()
	observers := t.onSeen
	t.observersMu.RUnlock()
	for _, fn := range observers {
		fn(c)
	}
}

func toWireError(err error) *wireError {
	if errors.Is(err, ErrInvalidMessageType) {
		return &wireError{Code: CodeMethodNotFound, Message: err.Error()}
	}
	return &wireError{Code: CodeHandlerFailed, Message: err.Error()}
}

func marshalData(data any) (json.RawMessage, error) {
	if data == nil {
		return nil, nil
	}
	if raw, ok := data.(json.RawMessage); ok {
		return raw, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal data: %w", err)
	}
	return raw, nil
}
