package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"scalp-radar/internal/alert"
	"scalp-radar/internal/bot"
	"scalp-radar/internal/cache"
	"scalp-radar/internal/config"
	"scalp-radar/internal/db"
	"scalp-radar/internal/director"
	"scalp-radar/internal/domain"
	"scalp-radar/internal/handler"
	"scalp-radar/internal/job"
	"scalp-radar/internal/lifecycle"
	"scalp-radar/internal/provider"
	"scalp-radar/internal/repository"
	"scalp-radar/internal/service"
	"scalp-radar/pkg/tracing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "scalp-radar/docs"
)

var (
	loadEnvFunc           = godotenv.Load
	loadConfigFunc        = config.Load
	initPostgresFunc      = db.InitPostgres
	initRedisFunc         = cache.InitRedis
	initTracerFunc        = tracing.InitTracer
	newCandleRepoFunc     = repository.NewCandleRepository
	newAlertRepoFunc      = repository.NewAlertRepository
	newMarketProviderFunc = func(baseURL, apiKey string, tracer trace.Tracer) service.MarketProvider {
		return provider.NewTwelveDataProvider(baseURL, apiKey, tracer)
	}
	newMarketCacheFunc     = cache.NewMarketCache
	newMarketServiceFunc   = service.NewMarketService
	newDirectorEngineFunc  = director.NewEngine
	newTrackerFunc         = lifecycle.NewTracker
	newScalpServiceFunc    = service.NewScalpService
	newAdvisorServiceFunc  = service.NewAdvisorService
	newTickPollerFunc      = job.NewTickPoller
	startTickPollerFunc    = func(p *job.TickPoller, ctx context.Context) { go p.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = ossignal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

type signalNotifierFunc func(domain.TradeSignal)

func (f signalNotifierFunc) NotifySignal(sig domain.TradeSignal) { f(sig) }

// pooledStores hands out the Postgres-backed stores only while a pool is up.
// A repository wrapped around a nil pool is a non-nil interface value and
// would slip past the services' nil guards.
func pooledStores(candles *repository.CandleRepository, alerts *repository.AlertRepository) (service.CandleArchive, service.AlertJournal) {
	if db.Pool == nil {
		return nil, nil
	}
	return candles, alerts
}

// @title           Scalp Radar API
// @version         1.0
// @description     SPX options scalping radar with OpenTelemetry tracing.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Create repositories and run migrations
	candleRepo := newCandleRepoFunc(db.Pool, tracer)
	alertRepo := newAlertRepoFunc(db.Pool, tracer)
	if db.Pool != nil {
		if err := candleRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run candle migrations: %v", err)
		}
		if err := alertRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run alert migrations: %v", err)
		}
	}
	archive, journal := pooledStores(candleRepo, alertRepo)

	// Market data pipeline
	mdProvider := newMarketProviderFunc(cfg.MarketDataBaseURL, cfg.MarketDataAPIKey, tracer)
	marketCache := newMarketCacheFunc(cache.Client)
	marketService := newMarketServiceFunc(tracer, mdProvider, archive, marketCache, cfg.Symbol)

	// Scalp engine
	history := alert.NewHistory()
	emitter := alert.NewEmitter(history)
	engine := newDirectorEngineFunc(nil, nil)

	var dispatcher *bot.AlertDispatcher
	tracker := newTrackerFunc(nil,
		func() bool { return cfg.AlertsEnabled },
		signalNotifierFunc(func(sig domain.TradeSignal) { dispatcher.NotifySignal(sig) }),
	)
	scalpService := newScalpServiceFunc(tracer, marketService, tracker, engine, emitter, journal, cfg.Symbol, cfg.TradeBudget)
	advisorService := newAdvisorServiceFunc(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.AdvisorMaxHistory)

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	dispatcher = startTelegramBotFunc(scalpService, marketService, advisorService)
	if dispatcher != nil {
		emitter.OnPush(dispatcher.NotifyAlert)
	}

	// Start background poller (stopped by ctx cancel)
	poller := newTickPollerFunc(tracer, scalpService, cfg.PollSecs)
	startTickPollerFunc(poller, ctx)

	// Create handlers and routes
	h := newHandlerFunc(tracer, scalpService, marketService, advisorService)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("scalp-radar"))
	r.Use(cors.Default())

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
