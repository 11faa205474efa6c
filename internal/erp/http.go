package erp

import (
	"net/http"
	"time"

	sentryhttpclient "github.com/getsentry/sentry-go/httpclient"
)

// newHTTPClient wraps the default transport so outbound ERP calls show up as
// spans on the request trace. The timeout bounds every call; there is no
// overall request deadline and no retry.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: sentryhttpclient.NewSentryRoundTripper(http.DefaultTransport),
		Timeout:   timeout,
	}
}
