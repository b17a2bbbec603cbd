package oauth

import (
	"errors"
	"net/url"

	"github.com/giantswarm/oauth-grants/internal/params"
)

// Token request parameter names
const (
	ParamGrantType          = "grant_type"
	ParamCode               = "code"
	ParamRedirectURI        = "redirect_uri"
	ParamCodeVerifier       = "code_verifier"
	ParamRefreshToken       = "refresh_token"
	ParamUsername           = "username"
	ParamPassword           = "password"
	ParamAssertion          = "assertion"
	ParamDeviceCode         = "device_code"
	ParamAuthRequestID      = "auth_req_id"
	ParamSubjectToken       = "subject_token"
	ParamSubjectTokenType   = "subject_token_type"
	ParamActorToken         = "actor_token"
	ParamActorTokenType     = "actor_token_type"
	ParamRequestedTokenType = "requested_token_type"
	ParamAudience           = "audience"
	ParamPreAuthorizedCode  = "pre-authorized_code"
	ParamUserPIN            = "user_pin"
	ParamClientID           = "client_id"
)

// GrantType identifies an OAuth 2.0 authorization grant flow.
// Values are comparable with == and usable as map keys.
type GrantType struct {
	value string
}

// Well-known grant types
var (
	GrantTypeAuthorizationCode = GrantType{value: "authorization_code"}
	GrantTypeRefreshToken      = GrantType{value: "refresh_token"}
	GrantTypePassword          = GrantType{value: "password"}
	GrantTypeClientCredentials = GrantType{value: "client_credentials"}
	GrantTypeJWTBearer         = GrantType{value: "urn:ietf:params:oauth:grant-type:jwt-bearer"}
	GrantTypeSAML2Bearer       = GrantType{value: "urn:ietf:params:oauth:grant-type:saml2-bearer"}
	GrantTypeDeviceCode        = GrantType{value: "urn:ietf:params:oauth:grant-type:device_code"}
	GrantTypeCIBA              = GrantType{value: "urn:openid:params:grant-type:ciba"}
	GrantTypeTokenExchange     = GrantType{value: "urn:ietf:params:oauth:grant-type:token-exchange"}

	// GrantTypePreAuthorizedCode is the OpenID for Verifiable Credential
	// Issuance pre-authorized code flow.
	GrantTypePreAuthorizedCode = GrantType{value: "urn:ietf:params:oauth:grant-type:pre-authorized_code"}
)

var wellKnownGrantTypes = map[string]GrantType{
	GrantTypeAuthorizationCode.value: GrantTypeAuthorizationCode,
	GrantTypeRefreshToken.value:      GrantTypeRefreshToken,
	GrantTypePassword.value:          GrantTypePassword,
	GrantTypeClientCredentials.value: GrantTypeClientCredentials,
	GrantTypeJWTBearer.value:         GrantTypeJWTBearer,
	GrantTypeSAML2Bearer.value:       GrantTypeSAML2Bearer,
	GrantTypeDeviceCode.value:        GrantTypeDeviceCode,
	GrantTypeCIBA.value:              GrantTypeCIBA,
	GrantTypeTokenExchange.value:     GrantTypeTokenExchange,
	GrantTypePreAuthorizedCode.value: GrantTypePreAuthorizedCode,
}

// ErrEmptyGrantType is returned by ParseGrantType for a blank value
var ErrEmptyGrantType = errors.New("null or empty grant type string")

// NewGrantType creates a grant type from its identifier.
// It panics if value is blank.
func NewGrantType(value string) GrantType {
	if params.IsBlank(value) {
		panic("oauth: the grant type value must not be empty")
	}
	return GrantType{value: value}
}

// ParseGrantType returns the well-known grant type matching s exactly, or an
// extension grant type for any other non-blank value.
func ParseGrantType(s string) (GrantType, error) {
	if params.IsBlank(s) {
		return GrantType{}, ErrEmptyGrantType
	}
	if gt, ok := wellKnownGrantTypes[s]; ok {
		return gt, nil
	}
	return GrantType{value: s}, nil
}

// Value returns the grant type identifier.
func (g GrantType) Value() string {
	return g.value
}

// String implements fmt.Stringer
func (g GrantType) String() string {
	return g.value
}

// IsZero reports whether g is the zero GrantType.
func (g GrantType) IsZero() bool {
	return g.value == ""
}

// IsExtension reports whether g is not one of the well-known grant types
// (RFC 6749 Section 4.5).
func (g GrantType) IsExtension() bool {
	_, ok := wellKnownGrantTypes[g.value]
	return !ok
}

// EnsureGrantType checks that the grant_type parameter of p equals expected.
// A missing grant_type is an invalid_request failure; a different grant type
// is an unsupported_grant_type failure.
func EnsureGrantType(expected GrantType, p url.Values) error {
	value, ok := params.First(p, ParamGrantType)
	if !ok {
		return newInvalidRequest("Missing grant_type parameter", nil)
	}

	gt, err := ParseGrantType(value)
	if err != nil || gt != expected {
		return newUnsupportedGrantType("The grant_type must be "+expected.value, err)
	}
	return nil
}
