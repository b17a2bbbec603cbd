package oauth

import (
	"net/url"

	"github.com/giantswarm/oauth-grants/internal/params"
	"github.com/giantswarm/oauth-grants/pkce"
)

// AuthorizationCodeGrant is the authorization code grant (RFC 6749 Section 4.1.3),
// optionally carrying a PKCE code verifier (RFC 7636).
type AuthorizationCodeGrant struct {
	code         AuthorizationCode
	redirectURI  *url.URL
	codeVerifier *pkce.CodeVerifier
}

// NewAuthorizationCodeGrant creates an authorization code grant.
// It panics if code is empty or blank.
func NewAuthorizationCodeGrant(code AuthorizationCode, redirectURI *url.URL, codeVerifier *pkce.CodeVerifier) *AuthorizationCodeGrant {
	if params.IsBlank(string(code)) {
		panic("oauth: the authorization code must not be empty")
	}
	return &AuthorizationCodeGrant{
		code:         code,
		redirectURI:  cloneURL(redirectURI),
		codeVerifier: cloneVerifier(codeVerifier),
	}
}

// Type implements AuthorizationGrant
func (g *AuthorizationCodeGrant) Type() GrantType {
	return GrantTypeAuthorizationCode
}

// Code returns the authorization code.
func (g *AuthorizationCodeGrant) Code() AuthorizationCode {
	return g.code
}

// RedirectURI returns a copy of the redirect URI, or nil.
func (g *AuthorizationCodeGrant) RedirectURI() *url.URL {
	return cloneURL(g.redirectURI)
}

// CodeVerifier returns a copy of the PKCE code verifier, or nil.
func (g *AuthorizationCodeGrant) CodeVerifier() *pkce.CodeVerifier {
	return cloneVerifier(g.codeVerifier)
}

// Parameters implements AuthorizationGrant
func (g *AuthorizationCodeGrant) Parameters() url.Values {
	p := url.Values{}
	p.Set(ParamGrantType, GrantTypeAuthorizationCode.value)
	p.Set(ParamCode, string(g.code))
	if g.redirectURI != nil {
		p.Set(ParamRedirectURI, g.redirectURI.String())
	}
	if g.codeVerifier != nil {
		p.Set(ParamCodeVerifier, g.codeVerifier.Value())
	}
	return p
}

// ParseAuthorizationCodeGrant parses an authorization code grant from token
// request parameters.
func ParseAuthorizationCodeGrant(p url.Values) (*AuthorizationCodeGrant, error) {
	if err := EnsureGrantType(GrantTypeAuthorizationCode, p); err != nil {
		return nil, err
	}

	code, ok := params.FirstNonBlank(p, ParamCode)
	if !ok {
		return nil, newInvalidRequest("Missing or empty code parameter", nil)
	}

	redirectURI, err := parseRedirectURI(p)
	if err != nil {
		return nil, err
	}

	codeVerifier, err := parseCodeVerifier(p)
	if err != nil {
		return nil, err
	}

	return NewAuthorizationCodeGrant(AuthorizationCode(code), redirectURI, codeVerifier), nil
}
