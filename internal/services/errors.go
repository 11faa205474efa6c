package services

import (
	"fmt"
	"strings"
)

// ValidationError rejects an order before any side effect. No row is
// persisted and no ERP call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func missingSKUError(productIDs []string) *ValidationError {
	return &ValidationError{
		Message: fmt.Sprintf("missing erp_sku for products: %s", strings.Join(productIDs, ", ")),
	}
}
