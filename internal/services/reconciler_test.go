package services

import (
	"context"
	"testing"

	"github.com/satwikfarms/backend/internal/db"
	"github.com/satwikfarms/backend/internal/models"
)

type fakeLookupStore struct {
	byID    map[string]*models.Order
	byERPID map[string]*models.Order

	updates map[string]string
}

func newFakeLookupStore(orders ...*models.Order) *fakeLookupStore {
	s := &fakeLookupStore{
		byID:    map[string]*models.Order{},
		byERPID: map[string]*models.Order{},
		updates: map[string]string{},
	}
	for _, order := range orders {
		s.byID[order.OrderID] = order
		if order.ERPOrderID != "" {
			s.byERPID[order.ERPOrderID] = order
		}
	}
	return s
}

func (s *fakeLookupStore) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	_ = ctx
	if order, ok := s.byID[orderID]; ok {
		return order, nil
	}
	return nil, db.ErrOrderNotFound
}

func (s *fakeLookupStore) GetByERPID(ctx context.Context, erpOrderID string) (*models.Order, error) {
	_ = ctx
	if order, ok := s.byERPID[erpOrderID]; ok {
		return order, nil
	}
	return nil, db.ErrOrderNotFound
}

func (s *fakeLookupStore) UpdateStatus(ctx context.Context, orderID, status string) error {
	_ = ctx
	if _, ok := s.byID[orderID]; !ok {
		return db.ErrOrderNotFound
	}
	s.updates[orderID] = status
	return nil
}

func TestApplyStatusUpdateUnknownOrderIsSilentNoOp(t *testing.T) {
	t.Parallel()

	store := newFakeLookupStore()
	svc := NewReconcilerService(store, testLogger())

	svc.ApplyStatusUpdate(context.Background(), &models.WebhookPayload{
		Event:   "order.updated",
		OrderID: "SAL-ORD-UNKNOWN",
		Status:  "Delivered",
	})

	if len(store.updates) != 0 {
		t.Fatalf("expected no mutation for unknown order, got %v", store.updates)
	}
}

func TestApplyStatusUpdateResolvesByERPOrderID(t *testing.T) {
	t.Parallel()

	store := newFakeLookupStore(&models.Order{OrderID: "SF-20260314-12345", ERPOrderID: "SAL-ORD-00099"})
	svc := NewReconcilerService(store, testLogger())

	svc.ApplyStatusUpdate(context.Background(), &models.WebhookPayload{
		Event:   "order.updated",
		OrderID: "SAL-ORD-00099",
		Status:  "Shipped",
	})

	if got := store.updates["SF-20260314-12345"]; got != "Shipped" {
		t.Fatalf("status update = %q, want Shipped", got)
	}
}

func TestApplyStatusUpdateFallsBackToLocalOrderID(t *testing.T) {
	t.Parallel()

	store := newFakeLookupStore(&models.Order{OrderID: "SF-20260314-12345", ERPOrderID: "SAL-ORD-00099"})
	svc := NewReconcilerService(store, testLogger())

	svc.ApplyStatusUpdate(context.Background(), &models.WebhookPayload{
		Event:   "order.updated",
		OrderID: "SF-20260314-12345",
		Status:  "Cancelled",
	})

	if got := store.updates["SF-20260314-12345"]; got != "Cancelled" {
		t.Fatalf("status update = %q, want Cancelled", got)
	}
}
