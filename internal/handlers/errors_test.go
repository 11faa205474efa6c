package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/satwikfarms/backend/internal/erp"
	"github.com/satwikfarms/backend/internal/services"
)

func TestWriteOrderErrorStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "validation fault is the caller's",
			err:         &services.ValidationError{Message: "missing erp_sku for products: A1"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "missing erp_sku for products: A1",
		},
		{
			name:        "missing credentials are a server fault",
			err:         erp.ErrCredentialsNotConfigured,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "credentials not configured",
		},
		{
			name:        "missing address defaults are a server fault",
			err:         erp.ErrAddressDefaultsNotConfigured,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "address defaults not configured",
		},
		{
			name:        "upstream failure is a bad gateway",
			err:         &erp.UpstreamError{StatusCode: 417, Message: "Insufficient stock for SKU-A1"},
			wantStatus:  http.StatusBadGateway,
			wantMessage: "accu360 error: Insufficient stock for SKU-A1",
		},
		{
			name:        "anything else is opaque",
			err:         errors.New("pool exhausted"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "internal error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			writeOrderError(context.Background(), rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantMessage) {
				t.Fatalf("body = %q, want it to contain %q", rec.Body.String(), tt.wantMessage)
			}
		})
	}
}
