// Package transport exposes the node's client HTTP API.
package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/goodnatureofminers/kadchain/internal/wallet"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// APIHandler serves the client API over one node's chain, pool and wallet.
type APIHandler struct {
	logger      *zap.Logger
	chain       Chain
	pool        Pool
	account     Account
	miner       Miner
	broadcaster Broadcaster
	metrics     Metrics
}

type mineRequest struct {
	Data json.RawMessage `json:"data"`
}

type transactRequest struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

type publicKeyResponse struct {
	PublicKey string `json:"publicKey"`
}

type walletInfoResponse struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewAPIHandler returns an APIHandler instance.
func NewAPIHandler(
	chain Chain,
	pool Pool,
	account Account,
	miner Miner,
	broadcaster Broadcaster,
	logger *zap.Logger,
	metrics Metrics,
) (*APIHandler, error) {
	switch {
	case chain == nil:
		return nil, errors.New("api chain is required")
	case pool == nil:
		return nil, errors.New("api pool is required")
	case account == nil:
		return nil, errors.New("api account is required")
	case miner == nil:
		return nil, errors.New("api miner is required")
	case broadcaster == nil:
		return nil, errors.New("api broadcaster is required")
	case metrics == nil:
		return nil, errors.New("api metrics is required")
	}
	return &APIHandler{
		logger:      logger.Named("api"),
		chain:       chain,
		pool:        pool,
		account:     account,
		miner:       miner,
		broadcaster: broadcaster,
		metrics:     metrics,
	}, nil
}

// Router builds the route table.
func (h *APIHandler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.observe)
	r.HandleFunc("/blocks", h.blocks).Methods(http.MethodGet)
	r.HandleFunc("/mine", h.mine).Methods(http.MethodPost)
	r.HandleFunc("/transactions", h.transactions).Methods(http.MethodGet)
	r.HandleFunc("/transaction", h.transact).Methods(http.MethodPost)
	r.HandleFunc("/mine-transactions", h.mineTransactions).Methods(http.MethodPost)
	r.HandleFunc("/public-key", h.publicKey).Methods(http.MethodGet)
	r.HandleFunc("/wallet-info", h.walletInfo).Methods(http.MethodGet)
	return r
}

func (h *APIHandler) blocks(w http.ResponseWriter, _ *http.Request) {
	h.write(w, http.StatusOK, h.chain.Blocks())
}

func (h *APIHandler) mine(w http.ResponseWriter, r *http.Request) {
	var in mineRequest
	if err := decode(r, &in); err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}
	if len(in.Data) == 0 {
		in.Data = json.RawMessage("null")
	}

	block, err := h.chain.AddBlock(r.Context(), in.Data)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	h.broadcaster.SyncChains(r.Context())
	h.write(w, http.StatusCreated, block)
}

func (h *APIHandler) transactions(w http.ResponseWriter, _ *http.Request) {
	txs := h.pool.Transactions()
	if txs == nil {
		txs = []*wallet.Transaction{}
	}
	h.write(w, http.StatusOK, txs)
}

func (h *APIHandler) transact(w http.ResponseWriter, r *http.Request) {
	var in transactRequest
	if err := decode(r, &in); err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}
	if in.Recipient == "" {
		h.fail(w, http.StatusBadRequest, errors.New("recipient is required"))
		return
	}

	tx, err := h.account.Send(in.Recipient, in.Amount)
	switch {
	case errors.Is(err, wallet.ErrAmountExceedsBalance), errors.Is(err, wallet.ErrInvalidTransaction):
		h.fail(w, http.StatusBadRequest, err)
		return
	case err != nil:
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	h.broadcaster.BroadcastTransaction(r.Context(), tx)
	h.write(w, http.StatusCreated, tx)
}

func (h *APIHandler) mineTransactions(w http.ResponseWriter, r *http.Request) {
	block, err := h.miner.Mine(r.Context())
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	h.write(w, http.StatusCreated, block)
}

func (h *APIHandler) publicKey(w http.ResponseWriter, _ *http.Request) {
	h.write(w, http.StatusOK, publicKeyResponse{PublicKey: h.account.PublicKey()})
}

func (h *APIHandler) walletInfo(w http.ResponseWriter, _ *http.Request) {
	h.write(w, http.StatusOK, walletInfoResponse{
		Address: h.account.PublicKey(),
		Balance: h.account.Balance(),
	})
}

func (h *APIHandler) write(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("write response", zap.Error(err))
	}
}

func (h *APIHandler) fail(w http.ResponseWriter, code int, err error) {
	if code >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	h.write(w, code, errorResponse{Error: err.Error()})
}

func decode(r *http.Request, out any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(out); err != nil {
		return errors.New("malformed request body: " + err.Error())
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *APIHandler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := ""
		if current := mux.CurrentRoute(r); current != nil {
			route, _ = current.GetPathTemplate()
		}
		h.metrics.ObserveRequest(route, rec.code, started)
	})
}
