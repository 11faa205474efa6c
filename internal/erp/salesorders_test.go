package erp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/satwikfarms/backend/internal/models"
)

func sampleInput() SalesOrderInput {
	return SalesOrderInput{
		CustomerRef: "CUST-00042",
		AddressRef:  "ADDR-00017",
		OrderID:     "SF-20260314-12345",
		Items: []models.OrderItem{
			{ProductID: "A1", ERPSKU: "SKU-A1", Name: "Maize flour 5kg", Quantity: 2, UnitPrice: 1000, TotalPrice: 2000},
		},
		Phone: "+255712345678",
		Notes: "call on arrival",
	}
}

func TestSubmitSalesOrderPayload(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotPayload map[string]any
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"name": "SAL-ORD-00099"}})
	}))

	ref, err := client.SubmitSalesOrder(context.Background(), sampleInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ref != "SAL-ORD-00099" {
		t.Fatalf("SubmitSalesOrder() = %q, want SAL-ORD-00099", ref)
	}
	if want := "/api/resource/Sales%20Order"; gotPath != want {
		t.Fatalf("path = %q, want %q", gotPath, want)
	}
	if got := gotPayload["po_no"]; got != "SF-20260314-12345" {
		t.Fatalf("po_no = %v, want the local order ID", got)
	}
	if got := gotPayload["customer"]; got != "CUST-00042" {
		t.Fatalf("customer = %v, want CUST-00042", got)
	}
	if _, ok := gotPayload["discount_amount"]; ok {
		t.Fatalf("discount_amount present without a discount: %v", gotPayload)
	}
	if _, ok := gotPayload["coupon_code"]; ok {
		t.Fatalf("coupon_code present without a promo code: %v", gotPayload)
	}

	wantDate := time.Now().UTC().Add(24 * time.Hour).Format("2006-01-02")
	if got := gotPayload["delivery_date"]; got != wantDate {
		t.Fatalf("delivery_date = %v, want %q", got, wantDate)
	}
	items, ok := gotPayload["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("items = %v, want one entry", gotPayload["items"])
	}
	item := items[0].(map[string]any)
	if got := item["item_code"]; got != "SKU-A1" {
		t.Fatalf("item_code = %v, want SKU-A1", got)
	}
	if got := item["delivery_date"]; got != wantDate {
		t.Fatalf("item delivery_date = %v, want %q", got, wantDate)
	}
}

func TestSubmitSalesOrderIncludesDiscountAndPromo(t *testing.T) {
	t.Parallel()

	var gotPayload map[string]any
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"name": "SAL-ORD-00100"}})
	}))

	in := sampleInput()
	in.Discount = 500
	in.PromoCode = "KARIBU10"

	if _, err := client.SubmitSalesOrder(context.Background(), in); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := gotPayload["discount_amount"]; got != float64(500) {
		t.Fatalf("discount_amount = %v, want 500", got)
	}
	if got := gotPayload["coupon_code"]; got != "KARIBU10" {
		t.Fatalf("coupon_code = %v, want KARIBU10", got)
	}
}

func TestSubmitSalesOrderPropagatesUpstreamMessage(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusExpectationFailed)
		json.NewEncoder(w).Encode(map[string]any{"message": "Insufficient stock for SKU-A1"})
	}))

	_, err := client.SubmitSalesOrder(context.Background(), sampleInput())

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.StatusCode != http.StatusExpectationFailed {
		t.Fatalf("StatusCode = %d, want 417", upstream.StatusCode)
	}
	if upstream.Message != "Insufficient stock for SKU-A1" {
		t.Fatalf("Message = %q, want the ERP message", upstream.Message)
	}
}

func TestSubmitSalesOrderEmptySuccessBodyIsAnError(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	_, err := client.SubmitSalesOrder(context.Background(), sampleInput())

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Message != "empty response from Accu360" {
		t.Fatalf("Message = %q, want empty-response message", upstream.Message)
	}
}

func TestCreateShippingAddressRequiresDefaults(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{BaseURL: "https://erp.example.com", APIKey: "key", APISecret: "secret"})

	_, err := client.CreateShippingAddress(context.Background(), "CUST-00042", "Asha Mushi", "+255712345678", "Plot 14, Mbezi Beach")
	if err != ErrAddressDefaultsNotConfigured {
		t.Fatalf("expected ErrAddressDefaultsNotConfigured, got %v", err)
	}
}

func TestCreateShippingAddressLinksCustomer(t *testing.T) {
	t.Parallel()

	var gotPayload map[string]any
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"name": "ADDR-00017"}})
	}))

	ref, err := client.CreateShippingAddress(context.Background(), "CUST-00042", "Asha Mushi", "+255712345678", "Plot 14, Mbezi Beach")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ref != "ADDR-00017" {
		t.Fatalf("CreateShippingAddress() = %q, want ADDR-00017", ref)
	}

	links, ok := gotPayload["links"].([]any)
	if !ok || len(links) != 1 {
		t.Fatalf("links = %v, want one customer link", gotPayload["links"])
	}
	link := links[0].(map[string]any)
	if got := link["link_name"]; got != "CUST-00042" {
		t.Fatalf("link_name = %v, want CUST-00042", got)
	}
	if got := gotPayload["address_type"]; got != "Shipping" {
		t.Fatalf("address_type = %v, want Shipping", got)
	}
	if got := gotPayload["city"]; got != "Dar es Salaam" {
		t.Fatalf("city = %v, want deployment default", got)
	}
}
