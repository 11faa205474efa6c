package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satwikfarms/backend/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderStore struct {
	pool *pgxpool.Pool
}

func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

const ordersSchema = `
CREATE TABLE IF NOT EXISTS orders (
	order_id         TEXT PRIMARY KEY,
	erp_order_id     TEXT,
	status           TEXT NOT NULL,
	customer_name    TEXT NOT NULL,
	customer_phone   TEXT NOT NULL,
	customer_address TEXT NOT NULL,
	items            JSONB NOT NULL,
	subtotal         DOUBLE PRECISION NOT NULL,
	delivery_fee     DOUBLE PRECISION NOT NULL,
	total            DOUBLE PRECISION NOT NULL,
	discount         DOUBLE PRECISION NOT NULL DEFAULT 0,
	promo_code       TEXT,
	delivery_notes   TEXT,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_orders_erp_order_id ON orders (erp_order_id)`

// EnsureSchema bootstraps the orders table. The table is small enough that a
// migration tool would be overkill for a single-table service.
func (s *OrderStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, ordersSchema); err != nil {
		return fmt.Errorf("failed to ensure orders schema: %w", err)
	}
	return nil
}

// Upsert inserts the order or, when a row with the same order_id exists,
// mutates only status, erp_order_id (when newly provided) and updated_at.
// Everything else on an existing row is immutable.
func (s *OrderStore) Upsert(ctx context.Context, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("order is required")
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	query := `
		INSERT INTO orders (
			order_id, erp_order_id, status, customer_name, customer_phone,
			customer_address, items, subtotal, delivery_fee, total,
			discount, promo_code, delivery_notes
		) VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), NULLIF($13, ''))
		ON CONFLICT (order_id) DO UPDATE SET
			status       = EXCLUDED.status,
			erp_order_id = COALESCE(EXCLUDED.erp_order_id, orders.erp_order_id),
			updated_at   = NOW()
		RETURNING created_at, updated_at
	`

	var createdAt, updatedAt pgtype.Timestamptz
	err = s.pool.QueryRow(ctx, query,
		order.OrderID,
		order.ERPOrderID,
		string(order.Status),
		order.CustomerName,
		order.CustomerPhone,
		order.CustomerAddr,
		itemsJSON,
		order.Subtotal,
		order.DeliveryFee,
		order.Total,
		order.Discount,
		order.PromoCode,
		order.DeliveryNotes,
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return err
	}

	order.CreatedAt = createdAt.Time
	order.UpdatedAt = updatedAt.Time
	return nil
}

func (s *OrderStore) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	return s.getByColumn(ctx, "order_id", orderID)
}

func (s *OrderStore) GetByERPID(ctx context.Context, erpOrderID string) (*models.Order, error) {
	return s.getByColumn(ctx, "erp_order_id", erpOrderID)
}

// UpdateStatus overwrites status and updated_at unconditionally. Used by the
// webhook reconciler, which applies ERP-supplied statuses without validating
// them against the local state machine.
func (s *OrderStore) UpdateStatus(ctx context.Context, orderID, status string) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE order_id = $2`
	cmdTag, err := s.pool.Exec(ctx, query, status, orderID)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (s *OrderStore) getByColumn(ctx context.Context, column, value string) (*models.Order, error) {
	query := fmt.Sprintf(`
		SELECT order_id, erp_order_id, status, customer_name, customer_phone,
		       customer_address, items, subtotal, delivery_fee, total,
		       discount, promo_code, delivery_notes, created_at, updated_at
		FROM orders
		WHERE %s = $1
	`, column)

	var (
		order         models.Order
		erpOrderID    pgtype.Text
		itemsJSON     []byte
		promoCode     pgtype.Text
		deliveryNotes pgtype.Text
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx, query, value).Scan(
		&order.OrderID,
		&erpOrderID,
		&order.Status,
		&order.CustomerName,
		&order.CustomerPhone,
		&order.CustomerAddr,
		&itemsJSON,
		&order.Subtotal,
		&order.DeliveryFee,
		&order.Total,
		&order.Discount,
		&promoCode,
		&deliveryNotes,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if erpOrderID.Valid {
		order.ERPOrderID = erpOrderID.String
	}
	if promoCode.Valid {
		order.PromoCode = promoCode.String
	}
	if deliveryNotes.Valid {
		order.DeliveryNotes = deliveryNotes.String
	}
	order.CreatedAt = createdAt.Time
	order.UpdatedAt = updatedAt.Time

	if itemsJSON != nil {
		if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
			return nil, fmt.Errorf("failed to decode order items: %w", err)
		}
	}

	return &order, nil
}
