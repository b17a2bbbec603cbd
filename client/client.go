// Package client sends authorization grants to a remote OAuth 2.0 token
// endpoint using golang.org/x/oauth2.
//
// Any grant, including extension grants, is sent as its Parameters() form:
//
//	grant := oauth.NewPreAuthorizedCodeGrant("SplxlOBeZQQYbYS6WxSbIA", nil, "493536", nil)
//	tok, err := client.Exchange(ctx, client.Config{
//		ClientID: "wallet",
//		TokenURL: "https://issuer.example.com/token",
//	}, grant)
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	oauth "github.com/giantswarm/oauth-grants"
)

// ErrNilGrant is returned when no grant is given
var ErrNilGrant = errors.New("grant must not be nil")

// ErrMissingTokenURL is returned when Config.TokenURL is empty
var ErrMissingTokenURL = errors.New("token URL is required")

// Config describes the remote token endpoint and client credentials
type Config struct {
	// ClientID is the OAuth client identifier. Public clients leave ClientSecret empty.
	ClientID string

	// ClientSecret authenticates confidential clients
	ClientSecret string

	// TokenURL is the token endpoint
	TokenURL string

	// Scopes requested with the grant (optional)
	Scopes []string

	// AuthStyle selects how client credentials are sent.
	// Default: auto-detect (HTTP Basic first, then form parameters).
	AuthStyle oauth2.AuthStyle

	// HTTPClient is used for the token request (optional)
	HTTPClient *http.Client
}

// Exchange sends grant to the token endpoint and returns the issued token.
//
// An error response from the endpoint is returned as an error wrapping both
// an *oauth.OAuthError and the underlying *oauth2.RetrieveError.
func Exchange(ctx context.Context, cfg Config, grant oauth.AuthorizationGrant) (*oauth2.Token, error) {
	conf, err := cfg.credentialsConfig(grant)
	if err != nil {
		return nil, err
	}

	tok, err := conf.Token(cfg.context(ctx))
	if err != nil {
		return nil, wrapRetrieveError(grant.Type(), err)
	}
	return tok, nil
}

// TokenSource returns a token source that sends grant whenever the cached
// token has expired. Only reusable grants (client credentials, JWT bearer
// assertions with a long lifetime) make sense here; single-use grants such
// as authorization codes fail on the second exchange.
func TokenSource(ctx context.Context, cfg Config, grant oauth.AuthorizationGrant) (oauth2.TokenSource, error) {
	conf, err := cfg.credentialsConfig(grant)
	if err != nil {
		return nil, err
	}
	return conf.TokenSource(cfg.context(ctx)), nil
}

// credentialsConfig maps cfg and grant onto a clientcredentials config.
// grant_type is taken from the grant's parameters, overriding client_credentials.
func (cfg Config) credentialsConfig(grant oauth.AuthorizationGrant) (*clientcredentials.Config, error) {
	if grant == nil {
		return nil, ErrNilGrant
	}
	if cfg.TokenURL == "" {
		return nil, ErrMissingTokenURL
	}

	return &clientcredentials.Config{
		ClientID:       cfg.ClientID,
		ClientSecret:   cfg.ClientSecret,
		TokenURL:       cfg.TokenURL,
		Scopes:         cfg.Scopes,
		EndpointParams: grant.Parameters(),
		AuthStyle:      cfg.AuthStyle,
	}, nil
}

func (cfg Config) context(ctx context.Context) context.Context {
	if cfg.HTTPClient != nil {
		return context.WithValue(ctx, oauth2.HTTPClient, cfg.HTTPClient)
	}
	return ctx
}

func wrapRetrieveError(gt oauth.GrantType, err error) error {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) || re.ErrorCode == "" {
		return fmt.Errorf("%s token request failed: %w", gt, err)
	}

	status := http.StatusBadRequest
	if re.Response != nil {
		status = re.Response.StatusCode
	}
	oauthErr := oauth.NewOAuthError(re.ErrorCode, re.ErrorDescription, status)
	return fmt.Errorf("%s token request rejected: %w (%w)", gt, oauthErr, err)
}
