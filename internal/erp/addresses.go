package erp

import (
	"context"
	"net/http"
)

// CreateShippingAddress creates a fresh Shipping address linked to the
// customer. One address record per order, never deduplicated: the free-text
// address is not parsed or geocoded, and city/province come from
// deployment-wide defaults.
func (c *Client) CreateShippingAddress(ctx context.Context, customerRef, name, phone, addressText string) (string, error) {
	if c.defaultCity == "" || c.defaultProvince == "" {
		return "", ErrAddressDefaultsNotConfigured
	}

	payload := map[string]any{
		"doctype":       "Address",
		"address_title": name,
		"address_type":  "Shipping",
		"address_line1": addressText,
		"city":          c.defaultCity,
		"province":      c.defaultProvince,
		"phone":         phone,
		"links": []map[string]any{
			{
				"link_doctype": "Customer",
				"link_name":    customerRef,
			},
		},
	}

	status, body, err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/resource/Address", payload)
	if err != nil {
		return "", err
	}
	if !isSuccess(status) {
		return "", upstreamError(status, body)
	}

	decoded := safeJSON(body)
	if ref := stringField(dataObject(decoded), "name"); ref != "" {
		return ref, nil
	}
	// Some deployments return the document at the top level.
	if ref := stringField(decoded, "name"); ref != "" {
		return ref, nil
	}
	return "", upstreamError(status, body)
}
