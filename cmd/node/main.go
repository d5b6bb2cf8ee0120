package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/kadchain/internal/kademlia"
	"github.com/goodnatureofminers/kadchain/internal/ledger"
	"github.com/goodnatureofminers/kadchain/internal/miner"
	"github.com/goodnatureofminers/kadchain/internal/node"
	"github.com/goodnatureofminers/kadchain/internal/p2p"
	"github.com/goodnatureofminers/kadchain/internal/rpc"
	"github.com/goodnatureofminers/kadchain/internal/wallet"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type config struct {
	NodeID    string   `long:"node-id" env:"KADCHAIN_NODE_ID" description:"hex node id, random when empty"`
	Address   string   `long:"address" env:"KADCHAIN_ADDRESS" description:"advertised host" default:"127.0.0.1"`
	Port      int      `long:"port" env:"KADCHAIN_PORT" description:"UDP port, 0 picks a free one" default:"0"`
	Bind      string   `long:"bind" env:"KADCHAIN_BIND" description:"local UDP bind address, defaults to address:port"`
	Bootstrap []string `long:"bootstrap" env:"KADCHAIN_BOOTSTRAP" env-delim:"," description:"seed as <hexid>@host:port or host:port"`

	RPCTimeout        time.Duration `long:"rpc-timeout" env:"KADCHAIN_RPC_TIMEOUT" description:"request timeout" default:"2s"`
	CompressThreshold int           `long:"compress-threshold" env:"KADCHAIN_COMPRESS_THRESHOLD" description:"zstd-frame envelopes above this size, 0 disables" default:"1024"`
	BroadcastWorkers  int           `long:"broadcast-workers" env:"KADCHAIN_BROADCAST_WORKERS" description:"parallel broadcast requests" default:"8"`
	BroadcastRPS      int           `long:"broadcast-rps" env:"KADCHAIN_BROADCAST_RPS" description:"broadcast requests per second, 0 is unlimited" default:"0"`
	MaxInflight       int           `long:"max-inflight" env:"KADCHAIN_MAX_INFLIGHT" description:"datagrams handled concurrently, the rest are dropped" default:"256"`

	BucketSize      int           `long:"bucket-size" env:"KADCHAIN_BUCKET_SIZE" description:"K" default:"8"`
	Alpha           int           `long:"alpha" env:"KADCHAIN_ALPHA" description:"lookup concurrency" default:"3"`
	RefreshInterval time.Duration `long:"refresh-interval" env:"KADCHAIN_REFRESH_INTERVAL" description:"routing table refresh period" default:"1m"`

	InitialDifficulty int           `long:"initial-difficulty" env:"KADCHAIN_INITIAL_DIFFICULTY" description:"genesis difficulty" default:"3"`
	MineRate          time.Duration `long:"mine-rate" env:"KADCHAIN_MINE_RATE" description:"target block interval" default:"3s"`
	MinDifficulty     int           `long:"min-difficulty" env:"KADCHAIN_MIN_DIFFICULTY" description:"difficulty floor, 0 disables" default:"1"`

	InitialBalance uint64 `long:"initial-balance" env:"KADCHAIN_INITIAL_BALANCE" description:"wallet balance before any history" default:"500"`
	PrivateKey     string `long:"private-key" env:"KADCHAIN_PRIVATE_KEY" description:"hex wallet key, generated when empty"`
	MiningReward   uint64 `long:"mining-reward" env:"KADCHAIN_MINING_REWARD" description:"reward per mined block" default:"50"`

	HTTPAddr    string `long:"http-addr" env:"KADCHAIN_HTTP_ADDR" description:"client API address, empty disables" default:":3000"`
	MetricsAddr string `long:"metrics-addr" env:"KADCHAIN_METRICS_ADDR" description:"address for metrics server" default:":2112"`
	ZMQAddr     string `long:"zmq-addr" env:"KADCHAIN_ZMQ_ADDR" description:"ZMQ PUB endpoint for hashblock, needs the zmq build tag"`

	LogFormat string `long:"log-format" env:"KADCHAIN_LOG_FORMAT" description:"console or json" choice:"console" choice:"json" default:"console"`
	LogLevel  string `long:"log-level" env:"KADCHAIN_LOG_LEVEL" description:"debug, info, warn or error" default:"info"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("node failed", zap.Error(err))
	}
}

func newLogger(format, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewDevelopmentConfig()
	if format == "json" {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func (c config) node() node.Config {
	return node.Config{
		ID:        c.NodeID,
		Address:   c.Address,
		Port:      c.Port,
		Bootstrap: c.Bootstrap,
		RPC: rpc.Config{
			BindAddress:       c.Bind,
			Timeout:           c.RPCTimeout,
			MaxDatagramSize:   rpc.DefaultConfig().MaxDatagramSize,
			CompressThreshold: c.CompressThreshold,
			DedupTTL:          rpc.DefaultConfig().DedupTTL,
			BroadcastWorkers:  c.BroadcastWorkers,
			BroadcastRPS:      c.BroadcastRPS,

			MaxInflightHandlers: c.MaxInflight,
		},
		Kademlia: kademlia.Config{
			BucketSize:      c.BucketSize,
			Alpha:           c.Alpha,
			RefreshInterval: c.RefreshInterval,
		},
		Ledger: ledger.Config{
			InitialDifficulty: c.InitialDifficulty,
			MineRate:          c.MineRate,
			MinDifficulty:     c.MinDifficulty,
		},
		Wallet: wallet.Config{
			InitialBalance: c.InitialBalance,
			PrivateKey:     c.PrivateKey,
		},
		Miner: miner.Config{Reward: c.MiningReward},
		P2P:   p2p.DefaultConfig(),
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	n, err := node.New(cfg.node(), logger)
	if err != nil {
		return fmt.Errorf("init node: %w", err)
	}
	defer func() {
		_ = n.Close()
	}()

	if err := startBlockSignal(ctx, cfg.ZMQAddr, n, logger); err != nil {
		return fmt.Errorf("init block signal: %w", err)
	}
	if err := n.Start(ctx); err != nil {
		return fmt.Errorf("start node: %w", err)
	}
	logger.Info("node started", zap.String("publicKey", n.Wallet().PublicKey()))

	if cfg.HTTPAddr != "" {
		startHTTPServer(ctx, cfg.HTTPAddr, n.HTTPHandler(), logger)
	}

	if err := n.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func startHTTPServer(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	serve(ctx, "http", srv, logger)
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	serve(ctx, "metrics", srv, logger)
}

func serve(ctx context.Context, name string, srv *http.Server, logger *zap.Logger) {
	go func() {
		logger.Info("starting "+name+" server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(name+" server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown "+name+" server", zap.Error(err))
		}
	}()
}
