package oauth

// ErrorResponse represents an OAuth error response (RFC 6749 section 5.2)
type ErrorResponse struct {
	// Error is the error code
	Error string `json:"error"`

	// ErrorDescription provides additional information
	ErrorDescription string `json:"error_description,omitempty"`

	// ErrorURI points to error documentation
	ErrorURI string `json:"error_uri,omitempty"`
}

// TokenResponse represents an OAuth 2.0 token response (RFC 6749 section 5.1)
type TokenResponse struct {
	// AccessToken is the access token
	AccessToken string `json:"access_token"`

	// TokenType is the type of token. Defaults to "Bearer" when empty.
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int64 `json:"expires_in,omitempty"`

	// RefreshToken is the refresh token (optional)
	RefreshToken string `json:"refresh_token,omitempty"`

	// Scope is the scope of the access token
	Scope string `json:"scope,omitempty"`

	// IssuedTokenType is the type of the issued token for token exchange (RFC 8693)
	IssuedTokenType TokenTypeURI `json:"issued_token_type,omitempty"`

	// IDToken is the OpenID Connect ID token (optional)
	IDToken string `json:"id_token,omitempty"`

	// Subject identifies who the token was issued to. Audit only, never serialized.
	Subject string `json:"-"`
}

// tokenTypeBearer is the default token type
const tokenTypeBearer = "Bearer"
