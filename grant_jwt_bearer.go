package oauth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	jose "github.com/go-jose/go-jose/v4"

	"github.com/giantswarm/oauth-grants/internal/params"
)

// Algorithms accepted when structurally parsing JWT assertions.
// Unsecured ("none") assertions are always rejected.
var (
	assertionSignatureAlgorithms = []jose.SignatureAlgorithm{
		jose.HS256, jose.HS384, jose.HS512,
		jose.RS256, jose.RS384, jose.RS512,
		jose.ES256, jose.ES384, jose.ES512,
		jose.PS256, jose.PS384, jose.PS512,
		jose.EdDSA,
	}

	assertionKeyAlgorithms = []jose.KeyAlgorithm{
		jose.RSA1_5, jose.RSA_OAEP, jose.RSA_OAEP_256,
		jose.A128KW, jose.A192KW, jose.A256KW,
		jose.DIRECT,
		jose.ECDH_ES, jose.ECDH_ES_A128KW, jose.ECDH_ES_A192KW, jose.ECDH_ES_A256KW,
		jose.A128GCMKW, jose.A192GCMKW, jose.A256GCMKW,
		jose.PBES2_HS256_A128KW, jose.PBES2_HS384_A192KW, jose.PBES2_HS512_A256KW,
	}

	assertionContentEncryption = []jose.ContentEncryption{
		jose.A128CBC_HS256, jose.A192CBC_HS384, jose.A256CBC_HS512,
		jose.A128GCM, jose.A192GCM, jose.A256GCM,
	}
)

// JWTBearerGrant is the JWT bearer assertion grant (RFC 7523 Section 2.1).
// The assertion is a compact signed (JWS) or encrypted (JWE) JWT. Parsing
// checks its structure only; signature verification and decryption are left
// to the token issuer.
type JWTBearerGrant struct {
	assertion string
	signed    *jose.JSONWebSignature
	encrypted *jose.JSONWebEncryption
}

// NewJWTBearerGrant creates a JWT bearer grant from a compact JWS or JWE.
// It fails with a *ParseError for empty, unsecured or malformed assertions.
func NewJWTBearerGrant(assertion string) (*JWTBearerGrant, error) {
	if params.IsBlank(assertion) {
		return nil, newInvalidRequest("Missing or empty assertion parameter", nil)
	}

	g := &JWTBearerGrant{assertion: assertion}

	switch strings.Count(assertion, ".") {
	case 2:
		alg, err := compactHeaderAlgorithm(assertion)
		if err != nil {
			return nil, newInvalidGrant("Malformed JWT assertion: "+err.Error(), err)
		}
		if alg == "" || strings.EqualFold(alg, "none") {
			return nil, newInvalidGrant("The JWT assertion must not be unsecured (plain)", nil)
		}
		jws, err := jose.ParseSigned(assertion, assertionSignatureAlgorithms)
		if err != nil {
			return nil, newInvalidGrant("Malformed JWT assertion: "+err.Error(), err)
		}
		g.signed = jws
	case 4:
		jwe, err := jose.ParseEncrypted(assertion, assertionKeyAlgorithms, assertionContentEncryption)
		if err != nil {
			return nil, newInvalidGrant("Malformed JWT assertion: "+err.Error(), err)
		}
		g.encrypted = jwe
	default:
		err := fmt.Errorf("expected 3 or 5 dot-separated parts")
		return nil, newInvalidGrant("Malformed JWT assertion: "+err.Error(), err)
	}

	return g, nil
}

// compactHeaderAlgorithm decodes the "alg" member of a compact JOSE header
func compactHeaderAlgorithm(compact string) (string, error) {
	encoded, _, _ := strings.Cut(compact, ".")
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid header encoding: %w", err)
	}

	var header struct {
		Alg string `json:"alg"`
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return "", fmt.Errorf("invalid header: %w", err)
	}
	return header.Alg, nil
}

// Type implements AuthorizationGrant
func (g *JWTBearerGrant) Type() GrantType {
	return GrantTypeJWTBearer
}

// Assertion returns the compact serialized assertion.
func (g *JWTBearerGrant) Assertion() string {
	return g.assertion
}

// IsEncrypted reports whether the assertion is a JWE.
func (g *JWTBearerGrant) IsEncrypted() bool {
	return g.encrypted != nil
}

// Algorithm returns the JWS signature or JWE key management algorithm.
func (g *JWTBearerGrant) Algorithm() string {
	if g.encrypted != nil {
		return g.encrypted.Header.Algorithm
	}
	if len(g.signed.Signatures) == 0 {
		return ""
	}
	return g.signed.Signatures[0].Header.Algorithm
}

// KeyID returns the "kid" header of the assertion, if any.
func (g *JWTBearerGrant) KeyID() string {
	if g.encrypted != nil {
		return g.encrypted.Header.KeyID
	}
	if len(g.signed.Signatures) == 0 {
		return ""
	}
	return g.signed.Signatures[0].Header.KeyID
}

// Verify checks the signature of a signed assertion with key and returns
// the claims payload.
func (g *JWTBearerGrant) Verify(key any) ([]byte, error) {
	if g.signed == nil {
		return nil, fmt.Errorf("assertion is not signed")
	}
	payload, err := g.signed.Verify(key)
	if err != nil {
		return nil, fmt.Errorf("failed to verify assertion: %w", err)
	}
	return payload, nil
}

// Decrypt decrypts an encrypted assertion with key and returns the plaintext,
// which is a nested JWS when the JWE content type is "JWT".
func (g *JWTBearerGrant) Decrypt(key any) ([]byte, error) {
	if g.encrypted == nil {
		return nil, fmt.Errorf("assertion is not encrypted")
	}
	plaintext, err := g.encrypted.Decrypt(key)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt assertion: %w", err)
	}
	return plaintext, nil
}

// Parameters implements AuthorizationGrant
func (g *JWTBearerGrant) Parameters() url.Values {
	return url.Values{
		ParamGrantType: {GrantTypeJWTBearer.value},
		ParamAssertion: {g.assertion},
	}
}

// ParseJWTBearerGrant parses a JWT bearer grant from token request parameters.
func ParseJWTBearerGrant(p url.Values) (*JWTBearerGrant, error) {
	if err := EnsureGrantType(GrantTypeJWTBearer, p); err != nil {
		return nil, err
	}

	assertion, _ := params.First(p, ParamAssertion)
	return NewJWTBearerGrant(assertion)
}
