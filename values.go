package oauth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"golang.org/x/crypto/bcrypt"
)

// AuthorizationCode is an opaque authorization code or pre-authorized code.
type AuthorizationCode string

// RefreshToken is an opaque refresh token.
type RefreshToken string

// DeviceCode is an opaque device verification code (RFC 8628).
type DeviceCode string

// AuthRequestID is a CIBA authentication request identifier.
type AuthRequestID string

// NewAuthRequestID validates value as a CIBA auth_req_id.
// The identifier must consist of visible ASCII characters only.
func NewAuthRequestID(value string) (AuthRequestID, error) {
	if value == "" {
		return "", errors.New("the value must not be empty")
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 0x21 || value[i] > 0x7e {
			return "", fmt.Errorf("illegal character at position %d", i)
		}
	}
	return AuthRequestID(value), nil
}

// TokenTypeURI identifies a security token type (RFC 8693 Section 3).
type TokenTypeURI string

// Token type identifiers registered by RFC 8693
const (
	TokenTypeAccessToken  TokenTypeURI = "urn:ietf:params:oauth:token-type:access_token"
	TokenTypeRefreshToken TokenTypeURI = "urn:ietf:params:oauth:token-type:refresh_token"
	TokenTypeIDToken      TokenTypeURI = "urn:ietf:params:oauth:token-type:id_token"
	TokenTypeSAML1        TokenTypeURI = "urn:ietf:params:oauth:token-type:saml1"
	TokenTypeSAML2        TokenTypeURI = "urn:ietf:params:oauth:token-type:saml2"
	TokenTypeJWT          TokenTypeURI = "urn:ietf:params:oauth:token-type:jwt"
)

// ParseTokenTypeURI validates s as an absolute URI.
func ParseTokenTypeURI(s string) (TokenTypeURI, error) {
	u, err := url.Parse(s)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("token type %q is not an absolute URI", s)
	}
	return TokenTypeURI(s), nil
}

// redacted is the placeholder printed instead of secret values
const redacted = "[REDACTED]"

// Secret holds a password or other credential. Its String and slog
// representations never reveal the value.
type Secret struct {
	value string
}

// NewSecret wraps value. It panics if value is empty.
func NewSecret(value string) Secret {
	if value == "" {
		panic("oauth: the secret value must not be empty")
	}
	return Secret{value: value}
}

// Value returns the secret in clear text.
func (s Secret) Value() string {
	return s.value
}

// Equal compares two secrets in constant time.
func (s Secret) Equal(other Secret) bool {
	return subtle.ConstantTimeCompare([]byte(s.value), []byte(other.value)) == 1
}

// MatchesHash reports whether the secret matches a bcrypt hash, e.g. a stored
// password hash checked by a token issuer handling the password grant.
func (s Secret) MatchesHash(hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(s.value)) == nil
}

// Hash returns a bcrypt hash of the secret at the given cost.
// A cost of zero uses bcrypt.DefaultCost.
func (s Secret) Hash(cost int) ([]byte, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.value), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash secret: %w", err)
	}
	return hash, nil
}

// String implements fmt.Stringer without revealing the value
func (s Secret) String() string {
	return redacted
}

// LogValue implements slog.LogValuer without revealing the value
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(redacted)
}
