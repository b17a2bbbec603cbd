package oauth

import (
	"net/url"

	"github.com/giantswarm/oauth-grants/internal/params"
)

// RefreshTokenGrant is the refresh token grant (RFC 6749 Section 6).
type RefreshTokenGrant struct {
	refreshToken RefreshToken
}

// NewRefreshTokenGrant creates a refresh token grant.
// It panics if refreshToken is empty or blank.
func NewRefreshTokenGrant(refreshToken RefreshToken) *RefreshTokenGrant {
	if params.IsBlank(string(refreshToken)) {
		panic("oauth: the refresh token must not be empty")
	}
	return &RefreshTokenGrant{refreshToken: refreshToken}
}

// Type implements AuthorizationGrant
func (g *RefreshTokenGrant) Type() GrantType {
	return GrantTypeRefreshToken
}

// RefreshToken returns the refresh token.
func (g *RefreshTokenGrant) RefreshToken() RefreshToken {
	return g.refreshToken
}

// Parameters implements AuthorizationGrant
func (g *RefreshTokenGrant) Parameters() url.Values {
	return url.Values{
		ParamGrantType:    {GrantTypeRefreshToken.value},
		ParamRefreshToken: {string(g.refreshToken)},
	}
}

// ParseRefreshTokenGrant parses a refresh token grant from token request parameters.
func ParseRefreshTokenGrant(p url.Values) (*RefreshTokenGrant, error) {
	if err := EnsureGrantType(GrantTypeRefreshToken, p); err != nil {
		return nil, err
	}

	token, ok := params.FirstNonBlank(p, ParamRefreshToken)
	if !ok {
		return nil, newInvalidRequest("Missing or empty refresh_token parameter", nil)
	}
	return NewRefreshTokenGrant(RefreshToken(token)), nil
}
