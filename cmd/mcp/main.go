package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	"scalp-radar/internal/alert"
	"scalp-radar/internal/cache"
	"scalp-radar/internal/config"
	"scalp-radar/internal/db"
	"scalp-radar/internal/director"
	"scalp-radar/internal/job"
	"scalp-radar/internal/lifecycle"
	mcpserver "scalp-radar/internal/mcp"
	"scalp-radar/internal/provider"
	"scalp-radar/internal/repository"
	"scalp-radar/internal/service"
	"scalp-radar/pkg/tracing"

	"github.com/joho/godotenv"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"
)

const defaultMCPHTTPMaxBodyBytes int64 = 1 << 20 // 1MiB

var (
	loadEnvFunc           = godotenv.Load
	loadConfigFunc        = config.Load
	initPostgresFunc      = db.InitPostgres
	initRedisFunc         = cache.InitRedis
	initTracerFunc        = tracing.InitTracer
	newCandleRepoFunc     = repository.NewCandleRepository
	newAlertRepoFunc      = repository.NewAlertRepository
	newMCPServerFunc      = mcpserver.NewServer
	newMCPHandlerFunc     = mcpserver.NewHTTPTransportHandler
	newMarketServiceFunc  = service.NewMarketService
	newScalpServiceFunc   = service.NewScalpService
	newTickPollerFunc     = job.NewTickPoller
	startTickPollerFunc   = func(p *job.TickPoller, ctx context.Context) { go p.Start(ctx) }
	newMarketProviderFunc = func(baseURL, apiKey string, tracer trace.Tracer) service.MarketProvider {
		return provider.NewTwelveDataProvider(baseURL, apiKey, tracer)
	}
	runStdioFunc = func(ctx context.Context, server *sdkmcp.Server) error {
		return server.Run(ctx, &sdkmcp.StdioTransport{})
	}
	startHTTPServerFunc  = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFn = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	setupSignalNotify    = ossignal.Notify
	waitForSignalFunc    = func(quit <-chan os.Signal) { <-quit }
)

// pooledStores hands out the Postgres-backed stores only while a pool is up.
// A repository wrapped around a nil pool is a non-nil interface value and
// would slip past the services' nil guards.
func pooledStores(candles *repository.CandleRepository, alerts *repository.AlertRepository) (service.CandleArchive, service.AlertJournal) {
	if db.Pool == nil {
		return nil, nil
	}
	return candles, alerts
}

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	candleRepo := newCandleRepoFunc(db.Pool, tracer)
	alertRepo := newAlertRepoFunc(db.Pool, tracer)
	archive, journal := pooledStores(candleRepo, alertRepo)

	mdProvider := newMarketProviderFunc(cfg.MarketDataBaseURL, cfg.MarketDataAPIKey, tracer)
	marketCache := cache.NewMarketCache(cache.Client)
	marketService := newMarketServiceFunc(tracer, mdProvider, archive, marketCache, cfg.Symbol)

	history := alert.NewHistory()
	emitter := alert.NewEmitter(history)
	engine := director.NewEngine(nil, nil)
	tracker := lifecycle.NewTracker(nil, func() bool { return cfg.AlertsEnabled }, nil)
	scalpService := newScalpServiceFunc(tracer, marketService, tracker, engine, emitter, journal, cfg.Symbol, cfg.TradeBudget)

	poller := newTickPollerFunc(tracer, scalpService, cfg.PollSecs)
	startTickPollerFunc(poller, ctx)

	mcpSrv := newMCPServerFunc(tracer, scalpService, marketService, mcpserver.ServerConfig{
		RequestTimeout: time.Duration(cfg.MCPRequestTimeoutSecs) * time.Second,
	})

	transport := strings.ToLower(strings.TrimSpace(cfg.MCPTransport))
	switch transport {
	case "", "stdio":
		if err := runStdioFunc(ctx, mcpSrv); err != nil {
			log.Fatalf("mcp stdio server failed: %v", err)
		}
	case "http":
		if err := runHTTPMode(ctx, cancel, cfg, mcpSrv); err != nil {
			log.Fatalf("mcp http server failed: %v", err)
		}
	default:
		log.Fatalf("unsupported MCP_TRANSPORT: %s", cfg.MCPTransport)
	}
}

func runHTTPMode(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, mcpSrv *sdkmcp.Server) error {
	if !cfg.MCPHTTPEnabled {
		return fmt.Errorf("MCP_HTTP_ENABLED must be true when MCP_TRANSPORT=http")
	}
	if strings.TrimSpace(cfg.MCPAuthToken) == "" {
		return fmt.Errorf("MCP_AUTH_TOKEN is required when MCP_TRANSPORT=http")
	}

	handler := newMCPHandlerFunc(mcpSrv, mcpserver.HTTPHandlerConfig{
		AuthToken:       cfg.MCPAuthToken,
		RateLimitPerMin: cfg.MCPRateLimitPerMin,
		MaxBodyBytes:    defaultMCPHTTPMaxBodyBytes,
	})

	addr := net.JoinHostPort(cfg.MCPHTTPBind, fmt.Sprintf("%d", cfg.MCPHTTPPort))
	srv := &http.Server{Addr: addr, Handler: handler}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Printf("mcp http server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFn(srv, shutdownCtx); err != nil {
		return fmt.Errorf("mcp server forced to shutdown: %w", err)
	}
	return nil
}
