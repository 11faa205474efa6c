package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/satwikfarms/backend/internal/erp"
	"github.com/satwikfarms/backend/internal/services"
)

// writeOrderError maps the error taxonomy onto HTTP statuses: validation
// faults are the caller's (400), configuration faults are ours (500), and
// ERP failures surface as a bad gateway (502) carrying the best available
// upstream message.
func writeOrderError(ctx context.Context, w http.ResponseWriter, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		writeError(ctx, w, http.StatusBadRequest, validationErr.Message)
		return
	}

	if errors.Is(err, erp.ErrCredentialsNotConfigured) || errors.Is(err, erp.ErrAddressDefaultsNotConfigured) {
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}

	var upstreamErr *erp.UpstreamError
	if errors.As(err, &upstreamErr) {
		writeError(ctx, w, http.StatusBadGateway, upstreamErr.Error())
		return
	}

	writeError(ctx, w, http.StatusInternalServerError, "internal error")
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	writeJSON(ctx, w, status, map[string]string{"error": message})
}
