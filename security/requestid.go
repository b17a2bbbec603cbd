package security

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"regexp"
)

// RequestIDHeader is the HTTP header for request IDs
const RequestIDHeader = "X-Request-ID"

// requestIDContextKey is the context key for storing request IDs
type requestIDContextKey struct{}

// requestIDPattern validates upstream request IDs.
// Allows: alphanumeric, hyphens, underscores (1-128 chars).
// Rejects CR/LF and other characters that could inject into response
// headers or log lines, while accepting the ID formats common proxies send.
var requestIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,128}$`)

// GenerateRequestID generates a random request ID.
// It reads 16 bytes (128 bits) from crypto/rand and encodes them as a
// 22-character base64url string without padding.
//
// Request IDs correlate token endpoint logs and audit events for one request.
// The function panics if the system's random number generator fails.
func GenerateRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// System RNG failure, no safe fallback exists
		panic("security: crypto/rand failed: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// RequestIDFromContext returns the request ID stored in ctx, or ""
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}

// RequestIDMiddleware assigns a request ID to every request.
//
// A valid upstream X-Request-ID header is kept; a missing or invalid one is
// replaced with a freshly generated ID. The ID is echoed in the response
// header and stored in the request context, where RequestIDFromContext
// finds it.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !requestIDPattern.MatchString(id) {
			id = GenerateRequestID()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}
