package oauth

import (
	"net/url"

	"github.com/giantswarm/oauth-grants/internal/params"
)

// CIBAGrant is the OpenID Connect Client-Initiated Backchannel
// Authentication grant.
type CIBAGrant struct {
	authRequestID AuthRequestID
}

// NewCIBAGrant creates a CIBA grant.
// It panics if authRequestID is not a valid identifier (see NewAuthRequestID).
func NewCIBAGrant(authRequestID AuthRequestID) *CIBAGrant {
	if _, err := NewAuthRequestID(string(authRequestID)); err != nil {
		panic("oauth: invalid auth_req_id: " + err.Error())
	}
	return &CIBAGrant{authRequestID: authRequestID}
}

// Type implements AuthorizationGrant
func (g *CIBAGrant) Type() GrantType {
	return GrantTypeCIBA
}

// AuthRequestID returns the authentication request identifier.
func (g *CIBAGrant) AuthRequestID() AuthRequestID {
	return g.authRequestID
}

// Parameters implements AuthorizationGrant
func (g *CIBAGrant) Parameters() url.Values {
	return url.Values{
		ParamGrantType:     {GrantTypeCIBA.value},
		ParamAuthRequestID: {string(g.authRequestID)},
	}
}

// ParseCIBAGrant parses a CIBA grant from token request parameters.
func ParseCIBAGrant(p url.Values) (*CIBAGrant, error) {
	if err := EnsureGrantType(GrantTypeCIBA, p); err != nil {
		return nil, err
	}

	raw, ok := params.FirstNonBlank(p, ParamAuthRequestID)
	if !ok {
		return nil, newInvalidRequest("Missing or empty auth_req_id parameter", nil)
	}

	id, err := NewAuthRequestID(raw)
	if err != nil {
		return nil, newInvalidRequest("Invalid auth_req_id parameter: "+err.Error(), err)
	}
	return NewCIBAGrant(id), nil
}
