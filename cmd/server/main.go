// Package main runs the staking vault service: the operation API, the
// websocket event feed and Prometheus metrics in one process.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"solana-staking-vault/internal/clock"
	"solana-staking-vault/internal/feed"
	"solana-staking-vault/internal/observability"
	"solana-staking-vault/internal/staking"
	"solana-staking-vault/internal/storage"
	chstore "solana-staking-vault/internal/storage/clickhouse"
	"solana-staking-vault/internal/storage/memory"
	"solana-staking-vault/internal/storage/migrations"
	pgstore "solana-staking-vault/internal/storage/postgres"
)

// Server holds all components of the service.
type Server struct {
	engine    *staking.Engine
	reads     storage.Store
	events    storage.OperationEventStore
	hub       *feed.Hub
	logger    *log.Logger
	devFaucet bool
	credit    func(ctx context.Context, account string, amount uint64) error
	started   time.Time
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	listenAddr := flag.String("listen-addr", envOr("LISTEN_ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	devFaucet := flag.Bool("dev-faucet", false, "Enable the /v1/balances/credit dev endpoint")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, cleanup, err := buildServer(ctx, *postgresDSN, *clickhouseDSN, *useMemory, *devFaucet, logger)
	if err != nil {
		logger.Fatalf("Failed to build server: %v", err)
	}
	defer cleanup()

	httpServer := &http.Server{
		Addr:    *listenAddr,
		Handler: server.routes(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		server.hub.Close()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("HTTP shutdown error: %v", err)
		}
		cancel()
	}()

	logger.Printf("Listening on %s", *listenAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("HTTP server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// buildServer wires storage, engine, archive and feed together.
func buildServer(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory, devFaucet bool, logger *log.Logger) (*Server, func(), error) {
	hub := feed.NewHub(nil, logger)

	if useMemory {
		db := memory.NewDB()
		events := memory.NewOperationEventStore()
		sink := staking.MultiSink{staking.NewArchiveSink(events, logger), hub}
		engine := staking.NewEngine(db, clock.System{}, sink)

		server := &Server{
			engine:    engine,
			reads:     db.Stores(),
			events:    events,
			hub:       hub,
			logger:    logger,
			devFaucet: devFaucet,
			credit: func(_ context.Context, account string, amount uint64) error {
				db.Credit(account, amount)
				return nil
			},
			started: time.Now(),
		}
		return server, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}
	db := pgstore.NewDB(pool)

	// ClickHouse archive is optional; without it events only reach the feed.
	var events storage.OperationEventStore
	cleanup := func() { pool.Close() }
	sinks := staking.MultiSink{hub}
	if clickhouseDSN != "" {
		chConn, err := chstore.NewConn(ctx, clickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		if err := migrations.RunClickhouseMigrations(ctx, chConn); err != nil {
			chConn.Close()
			pool.Close()
			return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
		}
		events = chstore.NewOperationEventStore(chConn)
		sinks = append(staking.MultiSink{staking.NewArchiveSink(events, logger)}, sinks...)
		cleanup = func() {
			chConn.Close()
			pool.Close()
		}
	}

	engine := staking.NewEngine(db, clock.System{}, sinks)

	balances := pgstore.NewBalanceStore(pool)
	server := &Server{
		engine:    engine,
		reads:     db.Stores(),
		events:    events,
		hub:       hub,
		logger:    logger,
		devFaucet: devFaucet,
		credit: func(ctx context.Context, account string, amount uint64) error {
			return balances.Add(ctx, account, amount)
		},
		started: time.Now(),
	}
	return server, cleanup, nil
}

// routes builds the HTTP mux: operation endpoints, read endpoints,
// event feed, health and metrics.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Operations
	mux.HandleFunc("POST /v1/pools", s.handleOperation(opCreatePool))
	mux.HandleFunc("POST /v1/pools/fund", s.handleOperation(opFundPool))
	mux.HandleFunc("POST /v1/pools/cooldown", s.handleOperation(opChangeCooldown))
	mux.HandleFunc("POST /v1/pools/emergency", s.handleOperation(opEnableEmergencyMode))
	mux.HandleFunc("POST /v1/pools/emergency-withdraw", s.handleOperation(opWithdrawRewardsEmergency))
	mux.HandleFunc("POST /v1/deposits", s.handleOperation(opStake))
	mux.HandleFunc("POST /v1/deposits/cooldown", s.handleOperation(opActivateCooldown))
	mux.HandleFunc("POST /v1/deposits/unstake", s.handleOperation(opUnstake))
	mux.HandleFunc("POST /v1/deposits/emergency-unstake", s.handleOperation(opEmergencyUnstake))

	// Reads
	mux.HandleFunc("GET /v1/pools/{address}", s.handleGetPool)
	mux.HandleFunc("GET /v1/deposits/{address}", s.handleGetDeposit)
	mux.HandleFunc("GET /v1/stakers/{address}", s.handleGetStakerStats)
	mux.HandleFunc("GET /v1/pools/{address}/events", s.handleGetPoolEvents)

	// Dev faucet, only wired when enabled
	if s.devFaucet {
		mux.HandleFunc("POST /v1/balances/credit", s.handleCredit)
	}

	// Event feed
	mux.Handle("GET /v1/events", s.hub)

	// Health check
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("GET /metrics", observability.Handler())

	return mux
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
