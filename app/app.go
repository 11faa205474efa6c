package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satwikfarms/backend/internal/cache"
	"github.com/satwikfarms/backend/internal/config"
	"github.com/satwikfarms/backend/internal/db"
	"github.com/satwikfarms/backend/internal/erp"
	"github.com/satwikfarms/backend/internal/handlers"
	"github.com/satwikfarms/backend/internal/notify"
	"github.com/satwikfarms/backend/internal/services"
)

// App owns every long-lived dependency. Configuration is read exactly once
// here and passed by reference into constructors; request-handling code never
// touches ambient process state.
type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	DB            *pgxpool.Pool
	CacheProvider cache.Provider
	Handlers      *handlers.Handlers
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	database, err := db.Connect(startupCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	orderStore := db.NewOrderStore(database)
	if err := orderStore.EnsureSchema(startupCtx); err != nil {
		database.Close()
		return nil, err
	}

	cacheProvider, err := cache.NewProvider(cache.Config{
		Provider:              cfg.CacheProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize cache provider: %w", err)
	}

	notifier, err := notify.NewProvider(notify.Config{
		Provider:   cfg.NotifierProvider,
		APIKey:     cfg.NotifierAPIKey,
		FromEmail:  cfg.NotifierFromEmail,
		ToEmail:    cfg.NotifierToEmail,
		WebhookURL: cfg.NotifierWebhookURL,
	})
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize notifier: %w", err)
	}

	erpClient := erp.NewClient(erp.Config{
		BaseURL:         cfg.ERPBaseURL,
		APIKey:          cfg.ERPAPIKey,
		APISecret:       cfg.ERPAPISecret,
		DefaultCity:     cfg.ERPDefaultCity,
		DefaultProvince: cfg.ERPDefaultProvince,
		Timeout:         cfg.ERPRequestTimeout,
	})

	fulfillment := services.NewFulfillmentService(orderStore, erpClient, notifier, logger.With("component", "fulfillment_service"))
	reconciler := services.NewReconcilerService(orderStore, logger.With("component", "reconciler_service"))

	h, err := handlers.New(handlers.Dependencies{
		Config:        cfg,
		DB:            database,
		OrderStore:    orderStore,
		CacheProvider: cacheProvider,
		Fulfillment:   fulfillment,
		Reconciler:    reconciler,
		Logger:        logger,
	})
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		Config:        cfg,
		Logger:        logger,
		DB:            database,
		CacheProvider: cacheProvider,
		Handlers:      h,
	}, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.CacheProvider != nil {
		closeCacheProvider(a.Logger, a.CacheProvider)
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	format := strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	default:
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level: cfg.LogLevel,
		}))
	}
}

func closeCacheProvider(logger *slog.Logger, provider cache.Provider) {
	if provider == nil {
		return
	}
	if err := provider.Close(); err != nil && logger != nil {
		logger.Warn("failed to close cache provider", "error", err)
	}
}
