package main

import (
	"context"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"

	"scalp-radar/internal/alert"
	"scalp-radar/internal/cache"
	"scalp-radar/internal/config"
	"scalp-radar/internal/db"
	"scalp-radar/internal/director"
	"scalp-radar/internal/job"
	"scalp-radar/internal/lifecycle"
	"scalp-radar/internal/provider"
	"scalp-radar/internal/repository"
	"scalp-radar/internal/service"
	"scalp-radar/internal/tui"
	"scalp-radar/pkg/tracing"
)

var (
	loadEnvFunc           = godotenv.Load
	loadConfigFunc        = config.Load
	initPostgresFunc      = db.InitPostgres
	initRedisFunc         = cache.InitRedis
	initTracerFunc        = tracing.InitTracer
	newMarketProviderFunc = func(baseURL, apiKey string, tracer trace.Tracer) service.MarketProvider {
		return provider.NewTwelveDataProvider(baseURL, apiKey, tracer)
	}
	startTickPollerFunc = func(p *job.TickPoller, ctx context.Context) { go p.Start(ctx) }
	runProgramFunc      = func(m tea.Model) error {
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	}
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

	candleRepo := repository.NewCandleRepository(db.Pool, tracer)
	alertRepo := repository.NewAlertRepository(db.Pool, tracer)
	archive, journal := pooledStores(candleRepo, alertRepo)

	mdProvider := newMarketProviderFunc(cfg.MarketDataBaseURL, cfg.MarketDataAPIKey, tracer)
	marketCache := cache.NewMarketCache(cache.Client)
	marketService := service.NewMarketService(tracer, mdProvider, archive, marketCache, cfg.Symbol)

	history := alert.NewHistory()
	emitter := alert.NewEmitter(history)
	engine := director.NewEngine(nil, nil)
	tracker := lifecycle.NewTracker(nil, func() bool { return cfg.AlertsEnabled }, nil)
	scalpService := service.NewScalpService(tracer, marketService, tracker, engine, emitter, journal, cfg.Symbol, cfg.TradeBudget)
	advisorService := service.NewAdvisorService(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.AdvisorMaxHistory)

	poller := job.NewTickPoller(tracer, scalpService, cfg.PollSecs)
	startTickPollerFunc(poller, ctx)

	services := tui.Services{
		Scalp:   scalpService,
		Market:  marketService,
		Advisor: advisorService,
		Symbol:  cfg.Symbol,
	}
	if err := runProgramFunc(tui.NewAppModel(services)); err != nil {
		log.Fatalf("tui exited with error: %v", err)
	}
}
