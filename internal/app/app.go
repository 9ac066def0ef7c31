package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/tournament-ledger/internal/config"
	"github.com/riskibarqy/tournament-ledger/internal/domain/rawdata"
	"github.com/riskibarqy/tournament-ledger/internal/infrastructure/export"
	"github.com/riskibarqy/tournament-ledger/internal/infrastructure/matchsource"
	"github.com/riskibarqy/tournament-ledger/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/tournament-ledger/internal/interfaces/httpapi"
	"github.com/riskibarqy/tournament-ledger/internal/observability"
	basecache "github.com/riskibarqy/tournament-ledger/internal/platform/cache"
	"github.com/riskibarqy/tournament-ledger/internal/platform/logging"
	"github.com/riskibarqy/tournament-ledger/internal/usecase"
)

// App holds the wired services shared by the HTTP server and the CLI.
type App struct {
	Ingestion   *usecase.IngestionService
	Leaderboard *usecase.LeaderboardService
	Processed   rawdata.Repository
	Metrics     *observability.IngestMetrics

	cfg       config.Config
	logger    *logging.Logger
	closeFunc func() error
}

// New opens the configured store and builds the services over it.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	source, err := matchsource.NewDirectory(cfg.MatchDataDir, cfg.MatchFilePattern)
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("build match source: %w", err)
	}

	var metrics *observability.IngestMetrics
	var ingestMetrics usecase.IngestionMetrics
	if cfg.MetricsEnabled {
		metrics, err = observability.NewIngestMetrics(nil)
		if err != nil {
			_ = closeStore()
			return nil, fmt.Errorf("register ingest metrics: %w", err)
		}
		ingestMetrics = metrics
	}

	a := &App{
		Processed: store,
		Metrics:   metrics,
		cfg:       cfg,
		logger:    logger,
		closeFunc: closeStore,
	}

	if cfg.CacheEnabled {
		projections := basecache.NewStore(cfg.CacheTTL)
		a.Ingestion = usecase.NewIngestionService(
			source,
			cache.NewLedgerRepository(store, projections),
			nil,
			nil,
			ingestMetrics,
			usecase.IngestionConfig{ParseWorkers: cfg.IngestParseWorkers},
			logger,
		)
		a.Leaderboard = usecase.NewLeaderboardService(
			cache.NewStandingRepository(store, projections),
			cache.NewPlayerStatsRepository(store, projections),
			cfg.LeaderboardDefaultLimit,
			export.WriteWorkbook,
		)
		return a, nil
	}

	a.Ingestion = usecase.NewIngestionService(
		source,
		store,
		nil,
		nil,
		ingestMetrics,
		usecase.IngestionConfig{ParseWorkers: cfg.IngestParseWorkers},
		logger,
	)
	a.Leaderboard = usecase.NewLeaderboardService(store, store, cfg.LeaderboardDefaultLimit, export.WriteWorkbook)
	return a, nil
}

// NewHTTPServer builds the API server over the app services.
func (a *App) NewHTTPServer() (*http.Server, error) {
	if a.cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var metricsHandler http.Handler
	if a.Metrics != nil {
		metricsHandler = a.Metrics.Handler()
	}

	handler := httpapi.NewHandler(a.Ingestion, a.Leaderboard, a.cfg.MaxUploadBytes, a.logger)
	router := httpapi.NewRouter(handler, metricsHandler, a.logger, a.cfg.CORSAllowedOrigins)

	return &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.closeFunc == nil {
		return nil
	}
	closeFunc := a.closeFunc
	a.closeFunc = nil
	if err := closeFunc(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
