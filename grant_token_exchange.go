package oauth

import (
	"net/url"
	"slices"

	"github.com/giantswarm/oauth-grants/internal/params"
)

// SecurityToken is a token presented in a token exchange request together
// with its type.
type SecurityToken struct {
	Value string
	Type  TokenTypeURI
}

// TokenExchangeGrant is the token exchange grant (RFC 8693 Section 2.1).
type TokenExchangeGrant struct {
	subject            SecurityToken
	actor              *SecurityToken
	requestedTokenType TokenTypeURI
	audience           []string
}

// NewTokenExchangeGrant creates a token exchange grant. actor,
// requestedTokenType and audience are optional.
// It panics if the subject token, or a given actor token, lacks a value or type.
func NewTokenExchangeGrant(subject SecurityToken, actor *SecurityToken, requestedTokenType TokenTypeURI, audience []string) *TokenExchangeGrant {
	if params.IsBlank(subject.Value) || subject.Type == "" {
		panic("oauth: the subject token and its type must not be empty")
	}
	g := &TokenExchangeGrant{
		subject:            subject,
		requestedTokenType: requestedTokenType,
		audience:           slices.Clone(audience),
	}
	if actor != nil {
		if params.IsBlank(actor.Value) || actor.Type == "" {
			panic("oauth: the actor token and its type must not be empty")
		}
		a := *actor
		g.actor = &a
	}
	return g
}

// Type implements AuthorizationGrant
func (g *TokenExchangeGrant) Type() GrantType {
	return GrantTypeTokenExchange
}

// SubjectToken returns the token representing the party on whose behalf
// the request is made.
func (g *TokenExchangeGrant) SubjectToken() SecurityToken {
	return g.subject
}

// ActorToken returns the token representing the acting party, or nil.
func (g *TokenExchangeGrant) ActorToken() *SecurityToken {
	if g.actor == nil {
		return nil
	}
	a := *g.actor
	return &a
}

// RequestedTokenType returns the requested token type, or an empty value.
func (g *TokenExchangeGrant) RequestedTokenType() TokenTypeURI {
	return g.requestedTokenType
}

// Audience returns a copy of the requested audience values.
func (g *TokenExchangeGrant) Audience() []string {
	return slices.Clone(g.audience)
}

// Parameters implements AuthorizationGrant
func (g *TokenExchangeGrant) Parameters() url.Values {
	p := url.Values{}
	p.Set(ParamGrantType, GrantTypeTokenExchange.value)
	p.Set(ParamSubjectToken, g.subject.Value)
	p.Set(ParamSubjectTokenType, string(g.subject.Type))
	if g.actor != nil {
		p.Set(ParamActorToken, g.actor.Value)
		p.Set(ParamActorTokenType, string(g.actor.Type))
	}
	params.SetIfNotEmpty(p, ParamRequestedTokenType, string(g.requestedTokenType))
	if len(g.audience) > 0 {
		p[ParamAudience] = slices.Clone(g.audience)
	}
	return p
}

// ParseTokenExchangeGrant parses a token exchange grant from token request parameters.
func ParseTokenExchangeGrant(p url.Values) (*TokenExchangeGrant, error) {
	if err := EnsureGrantType(GrantTypeTokenExchange, p); err != nil {
		return nil, err
	}

	subjectToken, ok := params.FirstNonBlank(p, ParamSubjectToken)
	if !ok {
		return nil, newInvalidRequest("Missing or empty subject_token parameter", nil)
	}

	rawSubjectType, ok := params.FirstNonBlank(p, ParamSubjectTokenType)
	if !ok {
		return nil, newInvalidRequest("Missing or empty subject_token_type parameter", nil)
	}
	subjectType, err := ParseTokenTypeURI(rawSubjectType)
	if err != nil {
		return nil, newInvalidRequest("Invalid subject_token_type parameter: "+err.Error(), err)
	}

	var actor *SecurityToken
	actorToken, hasActor := params.FirstNonBlank(p, ParamActorToken)
	rawActorType, hasActorType := params.FirstNonBlank(p, ParamActorTokenType)
	switch {
	case hasActor && !hasActorType:
		return nil, newInvalidRequest("Missing actor_token_type parameter", nil)
	case !hasActor && hasActorType:
		return nil, newInvalidRequest("Unexpected actor_token_type parameter", nil)
	case hasActor:
		actorType, err := ParseTokenTypeURI(rawActorType)
		if err != nil {
			return nil, newInvalidRequest("Invalid actor_token_type parameter: "+err.Error(), err)
		}
		actor = &SecurityToken{Value: actorToken, Type: actorType}
	}

	var requestedType TokenTypeURI
	if raw, ok := params.FirstNonBlank(p, ParamRequestedTokenType); ok {
		requestedType, err = ParseTokenTypeURI(raw)
		if err != nil {
			return nil, newInvalidRequest("Invalid requested_token_type parameter: "+err.Error(), err)
		}
	}

	var audience []string
	for _, a := range params.All(p, ParamAudience) {
		if !params.IsBlank(a) {
			audience = append(audience, a)
		}
	}

	return NewTokenExchangeGrant(SecurityToken{Value: subjectToken, Type: subjectType}, actor, requestedType, audience), nil
}
