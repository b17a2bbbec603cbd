// Package oauth models OAuth 2.0 authorization grants as they appear in token
// requests.
//
// Every grant variant converts losslessly between a typed value and the
// decoded application/x-www-form-urlencoded parameter map:
//
//	grant, err := oauth.ParseAuthorizationGrant(r.PostForm)
//	if err != nil {
//		// errors.As(err, &oauthErr) yields the *OAuthError to send back
//	}
//	switch g := grant.(type) {
//	case *oauth.PreAuthorizedCodeGrant:
//		// g.Code(), g.UserPIN(), ...
//	}
//
// Supported grant types: authorization code (with PKCE), refresh token,
// resource owner password, client credentials, JWT bearer assertion, SAML 2.0
// bearer assertion, device code, CIBA, token exchange and the OpenID4VCI
// pre-authorized code. Extension grants are added to a caller-owned Registry.
//
// Handler serves a token endpoint on top of the registry and delegates token
// issuance to a TokenIssuer.
package oauth
