package models

import "time"

type OrderStatus string

const (
	// StatusQueued is written synchronously before any ERP call so a durable
	// trace exists even if the process dies mid-submission.
	StatusQueued OrderStatus = "queued"
	// StatusPending means the ERP accepted the sales order.
	StatusPending OrderStatus = "pending"
	// StatusFailed means a step after the initial persist failed.
	StatusFailed OrderStatus = "failed"
)

// Order is the system of record for one storefront purchase. The customer
// fields are a free-text snapshot taken at order time, deliberately decoupled
// from the ERP customer entity so historical orders stay readable even if the
// ERP record changes later.
type Order struct {
	OrderID       string      `json:"order_id"`
	ERPOrderID    string      `json:"erp_order_id,omitempty"`
	Status        OrderStatus `json:"status"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone"`
	CustomerAddr  string      `json:"customer_address"`
	Items         []OrderItem `json:"items"`
	Subtotal      float64     `json:"subtotal"`
	DeliveryFee   float64     `json:"delivery_fee"`
	Total         float64     `json:"total"`
	Discount      float64     `json:"discount,omitempty"`
	PromoCode     string      `json:"promo_code,omitempty"`
	DeliveryNotes string      `json:"delivery_notes,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ProductID  string  `json:"product_id"`
	ERPSKU     string  `json:"erp_sku"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity" validate:"gt=0"`
	UnitPrice  float64 `json:"unit_price" validate:"gte=0"`
	TotalPrice float64 `json:"total_price" validate:"gte=0"`
}

// CreateOrderRequest is the inbound order payload. Totals are caller-supplied
// and persisted verbatim; the server performs no recomputation. That is a
// documented trust boundary, not an oversight.
type CreateOrderRequest struct {
	CustomerName  string      `json:"customer_name" validate:"required"`
	CustomerPhone string      `json:"customer_phone" validate:"required"`
	CustomerAddr  string      `json:"customer_address" validate:"required"`
	Items         []OrderItem `json:"items" validate:"required,min=1,dive"`
	Subtotal      float64     `json:"subtotal" validate:"gte=0"`
	DeliveryFee   float64     `json:"delivery_fee" validate:"gte=0"`
	Total         float64     `json:"total" validate:"gte=0"`
	Discount      float64     `json:"discount,omitempty" validate:"gte=0"`
	PromoCode     string      `json:"promo_code,omitempty"`
	DeliveryNotes string      `json:"delivery_notes,omitempty"`
}

// OrderConfirmation is returned to the storefront once handling completes.
type OrderConfirmation struct {
	OrderID    string    `json:"order_id"`
	ERPOrderID string    `json:"erp_order_id"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// WebhookPayload is the status update pushed by the ERP. OrderID may be
// either the ERP's own sales order ID or the local order ID.
type WebhookPayload struct {
	Event     string `json:"event"`
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
