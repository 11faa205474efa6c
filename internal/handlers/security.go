package handlers

import (
	"crypto/hmac"
	"net/http"
)

// SecurityHeaders sets baseline security headers for all responses.
func (h *Handlers) SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", "DENY")
		headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// RequireAPIKey gatekeeps storefront routes on the X-API-Key header. When no
// key is configured the gate is open. Webhook routes are never behind it;
// they carry their own signature check.
func (h *Handlers) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.config.StorefrontAPIKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		provided := r.Header.Get("X-API-Key")
		if provided == "" || !hmac.Equal([]byte(provided), []byte(h.config.StorefrontAPIKey)) {
			h.loggerFromContext(r.Context()).Warn("rejected request with bad API key", "path", r.URL.Path)
			writeError(r.Context(), w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}
