package erp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	customerType      = "Individual"
	customerGroup     = "Individual"
	customerTerritory = "All Territories"
)

// phoneSuffix returns the last 9 digits of a phone number. Matching on the
// full number is unreliable because storefront and ERP disagree on
// country-code prefixes; the truncated match can collide across customers and
// is a documented trust boundary.
func phoneSuffix(phone string) string {
	digits := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			digits = append(digits, phone[i])
		}
	}
	if len(digits) > 9 {
		digits = digits[len(digits)-9:]
	}
	return string(digits)
}

// FindCustomer looks up an existing ERP customer by a "like" match on the
// phone suffix. It returns the first match's opaque ID, or found=false when
// the ERP has no matching customer.
func (c *Client) FindCustomer(ctx context.Context, phone string) (ref string, found bool, err error) {
	filters := fmt.Sprintf(`[["mobile_no","like","%%%s%%"]]`, phoneSuffix(phone))

	query := url.Values{}
	query.Set("filters", filters)
	query.Set("fields", `["name","customer_name","mobile_no"]`)
	searchURL := c.baseURL + "/api/resource/Customer?" + query.Encode()

	status, body, err := c.doJSON(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", false, err
	}
	if !isSuccess(status) {
		return "", false, upstreamError(status, body)
	}

	decoded := safeJSON(body)
	matches, _ := decoded["data"].([]any)
	for _, match := range matches {
		doc, ok := match.(map[string]any)
		if !ok {
			continue
		}
		if name := stringField(doc, "name"); name != "" {
			return name, true, nil
		}
	}
	return "", false, nil
}

// CreateCustomer creates an ERP customer under the fixed type/group/territory
// policy. The caller decides what to do when creation fails; some ERP
// deployments accept a free-text customer field instead of a linked record.
func (c *Client) CreateCustomer(ctx context.Context, name, phone string) (string, error) {
	payload := map[string]any{
		"doctype":        "Customer",
		"customer_name":  name,
		"customer_type":  customerType,
		"customer_group": customerGroup,
		"territory":      customerTerritory,
		"mobile_no":      phone,
	}

	status, body, err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/resource/Customer", payload)
	if err != nil {
		return "", err
	}
	if !isSuccess(status) {
		return "", upstreamError(status, body)
	}

	if ref := stringField(dataObject(safeJSON(body)), "name"); ref != "" {
		return ref, nil
	}
	return name, nil
}

type customerDoc struct {
	CustomerName string
	MobileNo     string
}

func (c *Client) getCustomer(ctx context.Context, ref string) (customerDoc, error) {
	resourceURL := c.baseURL + "/api/resource/Customer/" + url.PathEscape(ref)

	status, body, err := c.doJSON(ctx, http.MethodGet, resourceURL, nil)
	if err != nil {
		return customerDoc{}, err
	}
	if !isSuccess(status) {
		return customerDoc{}, upstreamError(status, body)
	}

	data := dataObject(safeJSON(body))
	return customerDoc{
		CustomerName: stringField(data, "customer_name"),
		MobileNo:     stringField(data, "mobile_no"),
	}, nil
}

// ReconcileCustomerFields repairs fields that Accu360 sometimes drops on
// customer creation. A field is repaired only when it is blank or still holds
// the raw fallback reference, so fields that already carry good data are
// never overwritten and repeated calls are no-ops. It reports whether an
// update was issued.
func (c *Client) ReconcileCustomerFields(ctx context.Context, ref, name, phone string) (bool, error) {
	current, err := c.getCustomer(ctx, ref)
	if err != nil {
		return false, err
	}

	fields := map[string]any{}
	if needsRepair(current.CustomerName, ref, name) {
		fields["customer_name"] = name
	}
	if needsRepair(current.MobileNo, ref, phone) {
		fields["mobile_no"] = phone
	}
	if len(fields) == 0 {
		return false, nil
	}

	resourceURL := c.baseURL + "/api/resource/Customer/" + url.PathEscape(ref)
	status, body, err := c.doJSON(ctx, http.MethodPut, resourceURL, fields)
	if err != nil {
		return false, err
	}
	if !isSuccess(status) {
		return false, upstreamError(status, body)
	}
	return true, nil
}

func needsRepair(current, ref, want string) bool {
	if strings.TrimSpace(current) == "" {
		return true
	}
	return current == ref && current != want
}
