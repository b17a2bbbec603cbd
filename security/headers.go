package security

import "net/http"

// SetTokenResponseHeaders sets the headers every token endpoint response
// carries, success or error. Responses contain credentials and must never
// be cached (RFC 6749 section 5.1).
// HSTS is only sent when the request arrived over TLS.
func SetTokenResponseHeaders(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Cache-Control", "no-store")
	h.Set("Pragma", "no-cache")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
	h.Set("Referrer-Policy", "no-referrer")

	if r != nil && r.TLS != nil {
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}
}
