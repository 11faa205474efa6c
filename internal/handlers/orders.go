package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/satwikfarms/backend/internal/db"
	"github.com/satwikfarms/backend/internal/models"
)

var requestValidator = validator.New()

// CreateOrder accepts a storefront order and drives it through fulfillment.
// The request is assumed to have passed the API-key gatekeeper already.
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.loggerFromContext(ctx)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("malformed order payload", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := requestValidator.Struct(&req); err != nil {
		logger.Warn("invalid order payload", "error", err)
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	confirmation, err := h.fulfillment.PlaceOrder(ctx, &req)
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, confirmation)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := mux.Vars(r)["order_id"]

	order, err := h.orderStore.GetByID(ctx, orderID)
	if errors.Is(err, db.ErrOrderNotFound) {
		writeError(ctx, w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		h.loggerFromContext(ctx).Error("failed to load order", "error", err, "order_id", orderID)
		writeError(ctx, w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(ctx, w, http.StatusOK, order)
}
