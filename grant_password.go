package oauth

import (
	"net/url"

	"github.com/giantswarm/oauth-grants/internal/params"
)

// PasswordGrant is the resource owner password credentials grant
// (RFC 6749 Section 4.3).
type PasswordGrant struct {
	username string
	password Secret
}

// NewPasswordGrant creates a password grant.
// It panics if username or password is empty or blank.
func NewPasswordGrant(username string, password Secret) *PasswordGrant {
	if params.IsBlank(username) {
		panic("oauth: the username must not be empty")
	}
	if params.IsBlank(password.value) {
		panic("oauth: the password must not be empty")
	}
	return &PasswordGrant{username: username, password: password}
}

// Type implements AuthorizationGrant
func (g *PasswordGrant) Type() GrantType {
	return GrantTypePassword
}

// Username returns the resource owner username.
func (g *PasswordGrant) Username() string {
	return g.username
}

// Password returns the resource owner password.
func (g *PasswordGrant) Password() Secret {
	return g.password
}

// Parameters implements AuthorizationGrant
func (g *PasswordGrant) Parameters() url.Values {
	return url.Values{
		ParamGrantType: {GrantTypePassword.value},
		ParamUsername:  {g.username},
		ParamPassword:  {g.password.value},
	}
}

// ParsePasswordGrant parses a password grant from token request parameters.
func ParsePasswordGrant(p url.Values) (*PasswordGrant, error) {
	if err := EnsureGrantType(GrantTypePassword, p); err != nil {
		return nil, err
	}

	username, ok := params.FirstNonBlank(p, ParamUsername)
	if !ok {
		return nil, newInvalidRequest("Missing or empty username parameter", nil)
	}

	password, ok := params.FirstNonBlank(p, ParamPassword)
	if !ok {
		return nil, newInvalidRequest("Missing or empty password parameter", nil)
	}

	return NewPasswordGrant(username, NewSecret(password)), nil
}
