package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/attom"
	"github.com/ternarybob/proppulse/internal/common"
	"github.com/ternarybob/proppulse/internal/handlers"
	"github.com/ternarybob/proppulse/internal/interfaces"
	"github.com/ternarybob/proppulse/internal/metrics"
	"github.com/ternarybob/proppulse/internal/services/confidence"
	"github.com/ternarybob/proppulse/internal/services/history"
	"github.com/ternarybob/proppulse/internal/services/llm"
	"github.com/ternarybob/proppulse/internal/services/propertydata"
	"github.com/ternarybob/proppulse/internal/storage"
	redisstore "github.com/ternarybob/proppulse/internal/storage/redis"
)

// App holds all application components and dependencies
type App struct {
	Config  *common.Config
	Logger  arbor.ILogger
	Metrics *metrics.Metrics

	// Storage
	StorageManager interfaces.StorageManager
	HostedHistory  *redisstore.HistoryStorage

	// Services
	PropertyDataService *propertydata.Service
	LLMService          interfaces.LLMService
	ConfidenceService   *confidence.Service
	HistoryService      *history.Service
	RetentionScheduler  *history.RetentionScheduler

	// HTTP handlers
	APIHandler        *handlers.APIHandler
	PropertyHandler   *handlers.PropertyHandler
	AnalysisHandler   *handlers.AnalysisHandler
	EvaluationHandler *handlers.EvaluationHandler
	HistoryHandler    *handlers.HistoryHandler
	UploadHandler     *handlers.UploadHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Bool("upstream_configured", cfg.PropertyData.APIKey != "").
		Bool("fallback_enabled", cfg.PropertyData.FallbackEnabled).
		Bool("llm_available", app.LLMService != nil).
		Bool("hosted_history", app.HostedHistory != nil).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase opens the local Badger store and, when configured, the hosted Redis history store
func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}
	a.StorageManager = storageManager

	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	redisConfig := a.Config.Storage.Redis
	if redisConfig.Addr == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := redisstore.NewClient(ctx, &redisConfig)
	if err != nil {
		// Hosted history is optional; signed-in users fall back to the local store
		a.Logger.Warn().Err(err).Str("addr", redisConfig.Addr).Msg("Hosted history store unavailable")
		return nil
	}

	a.HostedHistory = redisstore.NewHistoryStorage(client, redisConfig.KeyPrefix, a.Logger)
	a.Logger.Debug().Str("addr", redisConfig.Addr).Msg("Hosted history store connected")
	return nil
}

func (a *App) initServices() error {
	var hosted interfaces.HistoryStorage
	if a.HostedHistory != nil {
		hosted = a.HostedHistory
	}
	a.HistoryService = history.NewService(a.StorageManager.HistoryStorage(), hosted, a.Logger, a.Metrics)

	a.RetentionScheduler = history.NewRetentionScheduler(
		a.HistoryService,
		a.Config.History.RetentionSchedule,
		common.ParseDurationOr(a.Config.History.MaxAge, 90*24*time.Hour),
		a.Logger,
	)

	a.PropertyDataService = propertydata.NewService(a.newPropertyDataClient(), a.Config.PropertyData, a.Logger, a.Metrics)

	llmService, err := llm.NewLLMService(a.Config, a.Logger)
	if err != nil {
		// The server still answers property lookups and evaluations without a model
		a.Logger.Warn().Err(err).
			Str("provider", string(a.Config.LLM.DefaultProvider)).
			Msg("LLM service unavailable, confidence analysis disabled")
	} else {
		a.LLMService = llmService
	}

	a.ConfidenceService = confidence.NewService(
		a.LLMService,
		a.HistoryService,
		a.Config.Evaluation.PassThreshold,
		a.Logger,
		a.Metrics,
	)

	return nil
}

// newPropertyDataClient returns nil when no API key is configured so lookups go straight to the fallback
func (a *App) newPropertyDataClient() interfaces.PropertyDataClient {
	cfg := a.Config.PropertyData
	if cfg.APIKey == "" {
		a.Logger.Info().Msg("No property data API key configured, using derived metrics only")
		return nil
	}

	opts := []attom.ClientOption{
		attom.WithTimeout(common.ParseDurationOr(cfg.Timeout, 15*time.Second)),
		attom.WithLogger(a.Logger),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, attom.WithBaseURL(cfg.BaseURL))
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, attom.WithRateLimit(cfg.RateLimit))
	}

	return attom.NewClient(cfg.APIKey, opts...)
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Config, a.Logger)
	a.PropertyHandler = handlers.NewPropertyHandler(a.PropertyDataService, a.Logger)
	a.AnalysisHandler = handlers.NewAnalysisHandler(a.ConfidenceService, a.Logger)
	a.EvaluationHandler = handlers.NewEvaluationHandler(a.PropertyDataService, a.Metrics, a.Config.Evaluation.PassThreshold, a.Logger)
	a.HistoryHandler = handlers.NewHistoryHandler(a.HistoryService, a.Logger)
	a.UploadHandler = handlers.NewUploadHandler(a.Logger)
}

// Close closes all application resources
func (a *App) Close() error {
	if a.RetentionScheduler != nil {
		a.RetentionScheduler.Stop()
	}

	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}

	if a.HostedHistory != nil {
		if err := a.HostedHistory.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close hosted history store")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
