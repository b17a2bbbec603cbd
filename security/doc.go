// Package security provides the protective layer around a token endpoint:
// client IP resolution, per-client rate limiting, audit logging of grant
// outcomes, request ID propagation and response headers for token responses.
//
// # Rate Limiting
//
// RateLimiter is a token bucket per identifier (usually the client IP) backed
// by golang.org/x/time/rate. The number of tracked identifiers is bounded:
// when MaxEntries is reached the least recently used bucket is evicted, and a
// background loop drops buckets that have been idle for IdleTimeout.
//
//	limiter := security.NewRateLimiter(security.RateLimitConfig{
//		RequestsPerSecond: 10,
//		Burst:             20,
//	}, logger)
//	defer limiter.Stop()
//
//	if !limiter.Allow(clientIP) {
//		// respond with 429
//	}
//
// # Audit Logging
//
// Auditor writes one structured slog record per security event. Subjects are
// hashed before they reach the log; grant values are never logged.
package security
