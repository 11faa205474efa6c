package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satwikfarms/backend/internal/cache"
	"github.com/satwikfarms/backend/internal/config"
	"github.com/satwikfarms/backend/internal/db"
	"github.com/satwikfarms/backend/internal/logging"
	"github.com/satwikfarms/backend/internal/services"
)

const maxBodyBytes = 1 << 20 // 1 MB

// Handlers provides the HTTP endpoints of the order backend.
type Handlers struct {
	config        *config.Config
	db            *pgxpool.Pool
	orderStore    *db.OrderStore
	cacheProvider cache.Provider
	fulfillment   *services.FulfillmentService
	reconciler    *services.ReconcilerService
	logger        *slog.Logger
}

type Dependencies struct {
	Config        *config.Config
	DB            *pgxpool.Pool
	OrderStore    *db.OrderStore
	CacheProvider cache.Provider
	Fulfillment   *services.FulfillmentService
	Reconciler    *services.ReconcilerService
	Logger        *slog.Logger
}

func New(deps Dependencies) (*Handlers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if deps.Config == nil {
		return nil, fmt.Errorf("handlers dependencies: config is required")
	}
	if deps.DB == nil {
		return nil, fmt.Errorf("handlers dependencies: db is required")
	}
	if deps.OrderStore == nil {
		return nil, fmt.Errorf("handlers dependencies: orderStore is required")
	}
	if deps.CacheProvider == nil {
		return nil, fmt.Errorf("handlers dependencies: cacheProvider is required")
	}
	if deps.Fulfillment == nil {
		return nil, fmt.Errorf("handlers dependencies: fulfillment is required")
	}
	if deps.Reconciler == nil {
		return nil, fmt.Errorf("handlers dependencies: reconciler is required")
	}

	return &Handlers{
		config:        deps.Config,
		db:            deps.DB,
		orderStore:    deps.OrderStore,
		cacheProvider: deps.CacheProvider,
		fulfillment:   deps.Fulfillment,
		reconciler:    deps.Reconciler,
		logger:        logger.With("component", "handlers"),
	}, nil
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.loggerFromContext(ctx)

	if err := h.db.Ping(ctx); err != nil {
		logger.Error("database health check failed", "error", err)
		http.Error(w, "Database unhealthy", http.StatusServiceUnavailable)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"erp_configured":    h.config.ERPConfigured(),
		"notifier_provider": h.config.NotifierProvider,
	})
}

func (h *Handlers) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx, nil).Error("failed to encode response", "error", err)
	}
}
