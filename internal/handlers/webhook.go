package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/satwikfarms/backend/internal/cache"
	"github.com/satwikfarms/backend/internal/erp"
	"github.com/satwikfarms/backend/internal/models"
)

// webhookIdempotencyTTL is how long delivery keys are kept for deduplication.
const webhookIdempotencyTTL = 24 * time.Hour

// Accu360Webhook applies a status update pushed by the ERP. The payload is
// authenticated against the shared webhook secret before any state mutation.
// An accepted delivery always gets {"status":"ok"}, including when the
// referenced order is unknown: the ERP retries deliveries and must not be
// told a delivery failed merely because the order is not ours.
func (h *Handlers) Accu360Webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.loggerFromContext(ctx)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	body, err := erp.ReadWebhookPayload(r, h.config.WebhookSecret)
	if err != nil {
		logger.Error("failed to read webhook payload", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "invalid webhook")
		return
	}

	var payload models.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		logger.Error("malformed webhook payload", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "invalid webhook payload")
		return
	}

	cacheKey := cache.DeliveryKey("accu360", payload.Event, payload.OrderID, payload.Timestamp)
	if _, err := h.cacheProvider.Get(ctx, cacheKey); err == nil {
		logger.Info("webhook already processed", "ref", payload.OrderID, "event", payload.Event)
		writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	h.reconciler.ApplyStatusUpdate(ctx, &payload)

	if err := h.cacheProvider.Set(ctx, cacheKey, "processed", webhookIdempotencyTTL); err != nil {
		logger.Error("failed to mark webhook as processed in cache", "error", err)
	}

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
