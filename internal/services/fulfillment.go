package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"

	"github.com/satwikfarms/backend/internal/erp"
	"github.com/satwikfarms/backend/internal/logging"
	"github.com/satwikfarms/backend/internal/models"
	"github.com/satwikfarms/backend/internal/notify"
)

type orderWriter interface {
	Upsert(ctx context.Context, order *models.Order) error
}

type erpGateway interface {
	FindCustomer(ctx context.Context, phone string) (ref string, found bool, err error)
	CreateCustomer(ctx context.Context, name, phone string) (string, error)
	ReconcileCustomerFields(ctx context.Context, ref, name, phone string) (bool, error)
	CreateShippingAddress(ctx context.Context, customerRef, name, phone, addressText string) (string, error)
	SubmitSalesOrder(ctx context.Context, in erp.SalesOrderInput) (string, error)
}

// FulfillmentService drives one order through the ERP: resolve or create the
// customer, repair its fields, create a shipping address, submit the sales
// order, and keep the local record's status in step at every durable
// checkpoint.
type FulfillmentService struct {
	store    orderWriter
	erp      erpGateway
	notifier notify.Provider
	logger   *slog.Logger
	now      func() time.Time
}

func NewFulfillmentService(store orderWriter, gateway erpGateway, notifier notify.Provider, logger *slog.Logger) *FulfillmentService {
	if notifier == nil {
		notifier = notify.NoopProvider{}
	}

	return &FulfillmentService{
		store:    store,
		erp:      gateway,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *FulfillmentService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// PlaceOrder handles one storefront order end to end. The queued record is
// written before any ERP call, so even a crash mid-submission leaves a
// durable trace that support staff can recover from. Store failures are
// non-fatal throughout: the caller-visible outcome depends only on the ERP
// submission result.
func (s *FulfillmentService) PlaceOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.OrderConfirmation, error) {
	span := sentry.StartSpan(
		ctx,
		"service.fulfillment.place_order",
		sentry.WithOpName("service.fulfillment"),
		sentry.WithDescription("PlaceOrder"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	logger := s.loggerFromContext(ctx)
	meter := sentry.NewMeter(ctx).WithCtx(ctx)
	meter.Count("order.intake.received", 1)
	recordFailure := func(reason string) {
		meter.Count("order.intake.failed", 1, sentry.WithAttributes(
			attribute.String("reason", reason),
		))
	}

	if missing := missingSKUs(req.Items); len(missing) > 0 {
		recordFailure("missing_sku")
		return nil, missingSKUError(missing)
	}

	order := newOrder(req, GenerateOrderID(s.now()))
	logger = logger.With("order_id", order.OrderID)

	// Durable trace before any network call: an ERP outage now means
	// "recorded as queued/failed", never "order lost".
	s.persist(ctx, logger, order)

	customerRef, err := s.resolveCustomer(ctx, logger, req)
	if err != nil {
		recordFailure("customer_resolution")
		return nil, s.markFailed(ctx, logger, order, err)
	}
	logger = logger.With("customer_ref", customerRef)

	s.reconcileCustomer(ctx, logger, customerRef, req)

	addressRef, err := s.erp.CreateShippingAddress(ctx, customerRef, req.CustomerName, req.CustomerPhone, req.CustomerAddr)
	if err != nil {
		recordFailure("address_creation")
		return nil, s.markFailed(ctx, logger, order, err)
	}

	erpOrderID, err := s.erp.SubmitSalesOrder(ctx, erp.SalesOrderInput{
		CustomerRef: customerRef,
		AddressRef:  addressRef,
		OrderID:     order.OrderID,
		Items:       req.Items,
		Phone:       req.CustomerPhone,
		Notes:       req.DeliveryNotes,
		Discount:    req.Discount,
		PromoCode:   req.PromoCode,
	})
	if err != nil {
		recordFailure("sales_order_submission")
		return nil, s.markFailed(ctx, logger, order, err)
	}

	order.Status = models.StatusPending
	order.ERPOrderID = erpOrderID
	s.persist(ctx, logger, order)
	meter.Count("order.submitted", 1)
	logger.Info("order submitted to ERP", "erp_order_id", erpOrderID)

	s.notifyOperator(ctx, logger, order, "")

	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now().UTC()
	}

	return &models.OrderConfirmation{
		OrderID:    order.OrderID,
		ERPOrderID: erpOrderID,
		Status:     string(models.StatusPending),
		Message:    "Order submitted successfully",
		CreatedAt:  createdAt,
	}, nil
}

// resolveCustomer reuses an existing ERP customer matched by phone suffix, or
// creates one. When creation fails the raw customer name is used as the
// reference: some ERP deployments accept a free-text customer field when no
// linked record exists.
func (s *FulfillmentService) resolveCustomer(ctx context.Context, logger *slog.Logger, req *models.CreateOrderRequest) (string, error) {
	ref, found, err := s.erp.FindCustomer(ctx, req.CustomerPhone)
	if err != nil {
		return "", err
	}
	if found {
		logger.Debug("matched existing ERP customer", "customer_ref", ref)
		return ref, nil
	}

	ref, err = s.erp.CreateCustomer(ctx, req.CustomerName, req.CustomerPhone)
	if err != nil {
		logger.Warn("customer creation failed, falling back to raw customer name", "error", err)
		return req.CustomerName, nil
	}
	return ref, nil
}

// reconcileCustomer is a best-effort repair pass and must never abort the
// order; its failures are swallowed.
func (s *FulfillmentService) reconcileCustomer(ctx context.Context, logger *slog.Logger, customerRef string, req *models.CreateOrderRequest) {
	updated, err := s.erp.ReconcileCustomerFields(ctx, customerRef, req.CustomerName, req.CustomerPhone)
	if err != nil {
		logger.Warn("customer field reconciliation failed", "error", err)
		return
	}
	if updated {
		logger.Info("repaired ERP customer fields")
	}
}

// persist upserts the order, swallowing failures. Losing a local audit row is
// recoverable; losing track of money moving through the ERP is not, so store
// problems never change the caller-visible outcome.
func (s *FulfillmentService) persist(ctx context.Context, logger *slog.Logger, order *models.Order) {
	if err := s.store.Upsert(ctx, order); err != nil {
		logger.Error("failed to persist order", "error", err, "status", order.Status)
		sentry.NewMeter(ctx).WithCtx(ctx).Count("order.store.failed", 1, sentry.WithAttributes(
			attribute.String("status", string(order.Status)),
		))
	}
}

func (s *FulfillmentService) markFailed(ctx context.Context, logger *slog.Logger, order *models.Order, cause error) error {
	order.Status = models.StatusFailed
	s.persist(ctx, logger, order)
	logger.Error("order failed", "error", cause)

	s.notifyOperator(ctx, logger, order, cause.Error())

	return cause
}

// notifyOperator sends a fire-and-forget message with full order context so a
// human can intervene; there is no automatic retry path. Delivery errors are
// logged, never propagated.
func (s *FulfillmentService) notifyOperator(ctx context.Context, logger *slog.Logger, order *models.Order, failureReason string) {
	if err := s.notifier.Notify(ctx, operatorMessage(order, failureReason)); err != nil {
		logger.Warn("failed to notify operator", "error", err)
	}
}

func operatorMessage(order *models.Order, failureReason string) *notify.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Order: %s\n", order.OrderID)
	if order.ERPOrderID != "" {
		fmt.Fprintf(&b, "ERP order: %s\n", order.ERPOrderID)
	}
	fmt.Fprintf(&b, "Status: %s\n", order.Status)
	fmt.Fprintf(&b, "Customer: %s (%s)\n", order.CustomerName, order.CustomerPhone)
	fmt.Fprintf(&b, "Address: %s\n", order.CustomerAddr)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %d x %s (%s) @ %.2f\n", item.Quantity, item.Name, item.ERPSKU, item.UnitPrice)
	}
	fmt.Fprintf(&b, "Total: %.2f\n", order.Total)
	if failureReason != "" {
		fmt.Fprintf(&b, "Failure: %s\n", failureReason)
	}

	subject := fmt.Sprintf("Order %s submitted", order.OrderID)
	if order.Status == models.StatusFailed {
		subject = fmt.Sprintf("Order %s FAILED, manual intervention needed", order.OrderID)
	}

	return &notify.Message{Subject: subject, Body: b.String()}
}

func missingSKUs(items []models.OrderItem) []string {
	var missing []string
	for _, item := range items {
		if strings.TrimSpace(item.ERPSKU) == "" {
			missing = append(missing, item.ProductID)
		}
	}
	return missing
}

func newOrder(req *models.CreateOrderRequest, orderID string) *models.Order {
	return &models.Order{
		OrderID:       orderID,
		Status:        models.StatusQueued,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerAddr:  req.CustomerAddr,
		Items:         req.Items,
		Subtotal:      req.Subtotal,
		DeliveryFee:   req.DeliveryFee,
		Total:         req.Total,
		Discount:      req.Discount,
		PromoCode:     req.PromoCode,
		DeliveryNotes: req.DeliveryNotes,
	}
}
