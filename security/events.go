package security

// Event type constants for security audit logging.
const (
	// EventGrantParsed is logged when a token request carried a well-formed grant
	EventGrantParsed = "grant_parsed"

	// EventGrantRejected is logged when a token request was rejected while parsing the grant
	EventGrantRejected = "grant_rejected"

	// EventUnsupportedGrantType is logged when a token request names a grant type
	// with no registered parser
	EventUnsupportedGrantType = "unsupported_grant_type"

	// EventTokenIssued is logged when a token was issued for a grant
	EventTokenIssued = "token_issued"

	// EventTokenDenied is logged when the issuer refused a well-formed grant
	EventTokenDenied = "token_denied"

	// EventRateLimitExceeded is logged when a rate limit is exceeded
	EventRateLimitExceeded = "rate_limit_exceeded"
)
