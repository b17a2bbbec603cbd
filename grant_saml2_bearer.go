package oauth

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/giantswarm/oauth-grants/internal/params"
)

// SAML2BearerGrant is the SAML 2.0 bearer assertion grant (RFC 7522 Section 2.1).
// The assertion is carried base64url encoded; its XML content is not inspected.
type SAML2BearerGrant struct {
	assertion string
}

// NewSAML2BearerGrant creates a SAML 2.0 bearer grant from a base64url
// encoded assertion. It panics if assertion is empty or blank.
func NewSAML2BearerGrant(assertion string) *SAML2BearerGrant {
	if params.IsBlank(assertion) {
		panic("oauth: the SAML 2.0 assertion must not be empty")
	}
	return &SAML2BearerGrant{assertion: assertion}
}

// Type implements AuthorizationGrant
func (g *SAML2BearerGrant) Type() GrantType {
	return GrantTypeSAML2Bearer
}

// Assertion returns the base64url encoded assertion.
func (g *SAML2BearerGrant) Assertion() string {
	return g.assertion
}

// DecodedAssertion returns the assertion XML.
func (g *SAML2BearerGrant) DecodedAssertion() ([]byte, error) {
	return decodeBase64URL(g.assertion)
}

// Parameters implements AuthorizationGrant
func (g *SAML2BearerGrant) Parameters() url.Values {
	return url.Values{
		ParamGrantType: {GrantTypeSAML2Bearer.value},
		ParamAssertion: {g.assertion},
	}
}

// ParseSAML2BearerGrant parses a SAML 2.0 bearer grant from token request parameters.
func ParseSAML2BearerGrant(p url.Values) (*SAML2BearerGrant, error) {
	if err := EnsureGrantType(GrantTypeSAML2Bearer, p); err != nil {
		return nil, err
	}

	assertion, ok := params.FirstNonBlank(p, ParamAssertion)
	if !ok {
		return nil, newInvalidRequest("Missing or empty assertion parameter", nil)
	}

	if _, err := decodeBase64URL(assertion); err != nil {
		return nil, newInvalidGrant("Invalid assertion parameter: "+err.Error(), err)
	}
	return NewSAML2BearerGrant(assertion), nil
}

// decodeBase64URL decodes base64url with or without padding
func decodeBase64URL(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}
