package oauth

import (
	"errors"
	"log/slog"

	"github.com/giantswarm/oauth-grants/instrumentation"
)

// DefaultMaxRequestBodySize bounds the token request body (64 KiB)
const DefaultMaxRequestBodySize int64 = 64 << 10

// Config holds the token endpoint handler configuration
type Config struct {
	// Registry dispatches token requests to grant parsers.
	// Default: DefaultRegistry(). Pass your own to add extension grants.
	Registry *Registry

	// Issuer turns a parsed grant into a token response (required)
	Issuer TokenIssuer

	// Logger for structured logging (optional, uses default if not provided)
	Logger *slog.Logger

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// Security settings
	Security SecurityConfig

	// Instrumentation records metrics and traces (optional)
	Instrumentation *instrumentation.Instrumentation

	// MaxRequestBodySize bounds the form body in bytes.
	// Default: 64 KiB
	MaxRequestBodySize int64
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Rate is requests per second allowed per client IP. Zero disables limiting.
	Rate float64

	// Burst is the maximum burst size allowed per client IP.
	// Default: twice Rate, at least 1
	Burst int

	// MaxEntries bounds the number of tracked client IPs.
	// Default: 10000
	MaxEntries int
}

// SecurityConfig holds token endpoint security settings
type SecurityConfig struct {
	// TrustProxy enables trusting X-Forwarded-For and X-Real-IP headers.
	// Only enable behind a trusted reverse proxy.
	TrustProxy bool

	// TrustedProxyCount is the number of trusted proxies in front of the server.
	// Zero is treated as one when TrustProxy is set.
	TrustedProxyCount int

	// EnableAuditLogging enables security audit logging of grant outcomes.
	// Subjects are hashed and grant values are never logged.
	EnableAuditLogging bool
}

var (
	// ErrMissingIssuer is returned when Config.Issuer is nil
	ErrMissingIssuer = errors.New("token issuer is required")

	// ErrInvalidRateLimit is returned for a negative rate or burst
	ErrInvalidRateLimit = errors.New("rate limit must not be negative")

	// ErrInvalidProxyCount is returned for a negative trusted proxy count
	ErrInvalidProxyCount = errors.New("trusted proxy count must not be negative")
)

// Validate reports configuration errors
func (c *Config) Validate() error {
	if c.Issuer == nil {
		return ErrMissingIssuer
	}
	if c.RateLimit.Rate < 0 || c.RateLimit.Burst < 0 || c.RateLimit.MaxEntries < 0 {
		return ErrInvalidRateLimit
	}
	if c.Security.TrustedProxyCount < 0 {
		return ErrInvalidProxyCount
	}
	return nil
}

// applyDefaults fills zero values with defaults
func (c *Config) applyDefaults() {
	if c.Registry == nil {
		c.Registry = DefaultRegistry()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.MaxRequestBodySize <= 0 {
		c.MaxRequestBodySize = DefaultMaxRequestBodySize
	}
	if c.RateLimit.Rate > 0 && c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = max(int(c.RateLimit.Rate*2), 1)
	}
}
