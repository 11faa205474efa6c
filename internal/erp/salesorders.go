package erp

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/satwikfarms/backend/internal/models"
)

type SalesOrderInput struct {
	CustomerRef string
	AddressRef  string
	OrderID     string
	Items       []models.OrderItem
	Phone       string
	Notes       string
	Discount    float64
	PromoCode   string
}

// SubmitSalesOrder builds and submits the Sales Order document. The local
// order ID travels in po_no so a human operator can correlate ERP and local
// records without the webhook path. Delivery date is a fixed one-day lead
// time relative to submission.
func (c *Client) SubmitSalesOrder(ctx context.Context, in SalesOrderInput) (string, error) {
	deliveryDate := time.Now().UTC().Add(24 * time.Hour).Format("2006-01-02")

	items := make([]map[string]any, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, map[string]any{
			"item_code":     item.ERPSKU,
			"qty":           item.Quantity,
			"rate":          item.UnitPrice,
			"delivery_date": deliveryDate,
		})
	}

	payload := map[string]any{
		"doctype":               "Sales Order",
		"customer":              in.CustomerRef,
		"delivery_date":         deliveryDate,
		"po_no":                 in.OrderID,
		"customer_address":      in.AddressRef,
		"shipping_address_name": in.AddressRef,
		"items":                 items,
		"contact_phone":         in.Phone,
		"instructions":          in.Notes,
	}
	if in.Discount > 0 {
		payload["discount_amount"] = in.Discount
	}
	if in.PromoCode != "" {
		payload["coupon_code"] = in.PromoCode
	}

	resourceURL := c.baseURL + "/api/resource/" + url.PathEscape("Sales Order")
	status, body, err := c.doJSON(ctx, http.MethodPost, resourceURL, payload)
	if err != nil {
		return "", err
	}
	if !isSuccess(status) {
		return "", upstreamError(status, body)
	}

	decoded := safeJSON(body)
	if len(decoded) == 0 {
		return "", &UpstreamError{StatusCode: status, Message: emptyResponseMessage}
	}
	if ref := stringField(dataObject(decoded), "name"); ref != "" {
		return ref, nil
	}
	return in.OrderID, nil
}
