package oauth

import "net/url"

// ClientCredentialsGrant is the client credentials grant (RFC 6749 Section 4.4).
// It has no parameters besides grant_type; the client authenticates separately.
type ClientCredentialsGrant struct{}

// NewClientCredentialsGrant creates a client credentials grant.
func NewClientCredentialsGrant() *ClientCredentialsGrant {
	return &ClientCredentialsGrant{}
}

// Type implements AuthorizationGrant
func (g *ClientCredentialsGrant) Type() GrantType {
	return GrantTypeClientCredentials
}

// Parameters implements AuthorizationGrant
func (g *ClientCredentialsGrant) Parameters() url.Values {
	return url.Values{ParamGrantType: {GrantTypeClientCredentials.value}}
}

// ParseClientCredentialsGrant parses a client credentials grant from token
// request parameters.
func ParseClientCredentialsGrant(p url.Values) (*ClientCredentialsGrant, error) {
	if err := EnsureGrantType(GrantTypeClientCredentials, p); err != nil {
		return nil, err
	}
	return NewClientCredentialsGrant(), nil
}
