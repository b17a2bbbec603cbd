package oauth

import (
	"net/url"

	"github.com/giantswarm/oauth-grants/internal/params"
	"github.com/giantswarm/oauth-grants/pkce"
)

// PreAuthorizedCodeGrant is the pre-authorized code grant used by
// credential issuance flows, where the issuer hands the wallet a code out of
// band, optionally protected by a user PIN.
type PreAuthorizedCodeGrant struct {
	code         AuthorizationCode
	redirectURI  *url.URL
	userPIN      string
	codeVerifier *pkce.CodeVerifier
}

// NewPreAuthorizedCodeGrant creates a pre-authorized code grant.
// redirectURI, userPIN and codeVerifier are optional (nil or empty).
// An empty URL or a zero verifier is the same as nil.
// It panics if code is empty or blank.
func NewPreAuthorizedCodeGrant(code AuthorizationCode, redirectURI *url.URL, userPIN string, codeVerifier *pkce.CodeVerifier) *PreAuthorizedCodeGrant {
	if params.IsBlank(string(code)) {
		panic("oauth: the pre-authorized code must not be empty")
	}
	return &PreAuthorizedCodeGrant{
		code:         code,
		redirectURI:  cloneURL(redirectURI),
		userPIN:      userPIN,
		codeVerifier: cloneVerifier(codeVerifier),
	}
}

// Type implements AuthorizationGrant
func (g *PreAuthorizedCodeGrant) Type() GrantType {
	return GrantTypePreAuthorizedCode
}

// Code returns the pre-authorized code.
func (g *PreAuthorizedCodeGrant) Code() AuthorizationCode {
	return g.code
}

// RedirectURI returns a copy of the redirect URI, or nil.
func (g *PreAuthorizedCodeGrant) RedirectURI() *url.URL {
	return cloneURL(g.redirectURI)
}

// UserPIN returns the user PIN, or an empty string.
// An empty PIN and an absent PIN are the same value.
func (g *PreAuthorizedCodeGrant) UserPIN() string {
	return g.userPIN
}

// CodeVerifier returns a copy of the PKCE code verifier, or nil.
func (g *PreAuthorizedCodeGrant) CodeVerifier() *pkce.CodeVerifier {
	return cloneVerifier(g.codeVerifier)
}

// Parameters implements AuthorizationGrant
func (g *PreAuthorizedCodeGrant) Parameters() url.Values {
	p := url.Values{}
	p.Set(ParamGrantType, GrantTypePreAuthorizedCode.value)
	p.Set(ParamPreAuthorizedCode, string(g.code))

	if g.redirectURI != nil {
		p.Set(ParamRedirectURI, g.redirectURI.String())
	}
	params.SetIfNotEmpty(p, ParamUserPIN, g.userPIN)
	if g.codeVerifier != nil {
		p.Set(ParamCodeVerifier, g.codeVerifier.Value())
	}
	return p
}

// ParsePreAuthorizedCodeGrant parses a pre-authorized code grant from token
// request parameters.
func ParsePreAuthorizedCodeGrant(p url.Values) (*PreAuthorizedCodeGrant, error) {
	if err := EnsureGrantType(GrantTypePreAuthorizedCode, p); err != nil {
		return nil, err
	}

	code, ok := params.FirstNonBlank(p, ParamPreAuthorizedCode)
	if !ok {
		return nil, newInvalidRequest("Missing or empty code parameter", nil)
	}

	redirectURI, err := parseRedirectURI(p)
	if err != nil {
		return nil, err
	}

	userPIN, _ := params.First(p, ParamUserPIN)

	codeVerifier, err := parseCodeVerifier(p)
	if err != nil {
		return nil, err
	}

	return NewPreAuthorizedCodeGrant(AuthorizationCode(code), redirectURI, userPIN, codeVerifier), nil
}

// parseRedirectURI reads the optional redirect_uri parameter
func parseRedirectURI(p url.Values) (*url.URL, error) {
	raw, ok := params.First(p, ParamRedirectURI)
	if !ok || raw == "" {
		return nil, nil
	}

	if err := params.CheckURIReference(raw); err != nil {
		return nil, newInvalidRequest("Invalid redirect_uri parameter: "+err.Error(), err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, newInvalidRequest("Invalid redirect_uri parameter: "+err.Error(), err)
	}
	return u, nil
}

// parseCodeVerifier reads the optional code_verifier parameter
func parseCodeVerifier(p url.Values) (*pkce.CodeVerifier, error) {
	raw, ok := params.FirstNonBlank(p, ParamCodeVerifier)
	if !ok {
		return nil, nil
	}

	v, err := pkce.NewCodeVerifier(raw)
	if err != nil {
		return nil, newInvalidRequest("Illegal code verifier: "+err.Error(), err)
	}
	return &v, nil
}

// cloneURL copies u. An empty URL becomes nil.
func cloneURL(u *url.URL) *url.URL {
	if u == nil || u.String() == "" {
		return nil
	}
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}

// cloneVerifier copies v. A zero verifier becomes nil.
func cloneVerifier(v *pkce.CodeVerifier) *pkce.CodeVerifier {
	if v == nil || v.IsZero() {
		return nil
	}
	c := *v
	return &c
}
