package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"

	"github.com/satwikfarms/backend/internal/db"
	"github.com/satwikfarms/backend/internal/logging"
	"github.com/satwikfarms/backend/internal/models"
)

type orderLookup interface {
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	GetByERPID(ctx context.Context, erpOrderID string) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
}

// ReconcilerService applies status updates pushed by the ERP to stored
// orders. The pushed status is ERP-owned and written as-is; it is not
// validated against the local state machine.
type ReconcilerService struct {
	store  orderLookup
	logger *slog.Logger
}

func NewReconcilerService(store orderLookup, logger *slog.Logger) *ReconcilerService {
	return &ReconcilerService{
		store:  store,
		logger: logger,
	}
}

// ApplyStatusUpdate resolves the referenced order (the ERP may send either
// its own sales order ID or our local one) and overwrites its status. An
// unknown reference is a silent no-op: the ERP retries and duplicates
// deliveries, and a webhook must not look like a caller error just because
// the order is not ours. Store failures are likewise swallowed and logged.
func (s *ReconcilerService) ApplyStatusUpdate(ctx context.Context, payload *models.WebhookPayload) {
	logger := logging.FromContext(ctx, s.logger).With("ref", payload.OrderID, "event", payload.Event)
	meter := sentry.NewMeter(ctx).WithCtx(ctx)

	order, err := s.store.GetByERPID(ctx, payload.OrderID)
	if errors.Is(err, db.ErrOrderNotFound) {
		order, err = s.store.GetByID(ctx, payload.OrderID)
	}
	if errors.Is(err, db.ErrOrderNotFound) {
		meter.Count("webhook.unknown_order", 1)
		logger.Info("webhook references unknown order, ignoring")
		return
	}
	if err != nil {
		meter.Count("webhook.store_failed", 1, sentry.WithAttributes(attribute.String("op", "lookup")))
		logger.Error("failed to look up order for webhook", "error", err)
		return
	}

	if err := s.store.UpdateStatus(ctx, order.OrderID, payload.Status); err != nil {
		meter.Count("webhook.store_failed", 1, sentry.WithAttributes(attribute.String("op", "update")))
		logger.Error("failed to apply webhook status", "error", err, "order_id", order.OrderID)
		return
	}

	meter.Count("webhook.applied", 1)
	logger.Info("applied ERP status update", "order_id", order.OrderID, "status", payload.Status)
}
