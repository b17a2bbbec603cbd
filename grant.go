package oauth

import (
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/giantswarm/oauth-grants/internal/params"
)

// AuthorizationGrant is an OAuth 2.0 authorization grant (RFC 6749 Section 1.3).
// Implementations must be immutable after construction.
type AuthorizationGrant interface {
	// Type returns the grant type. It never changes for a given grant.
	Type() GrantType

	// Parameters returns a new token request parameter map for the grant,
	// containing at least grant_type. Parsing the result with the grant's
	// parser yields an equal grant.
	Parameters() url.Values
}

// GrantParser parses a grant of one specific type from token request parameters.
type GrantParser func(p url.Values) (AuthorizationGrant, error)

var (
	// ErrNilParser is returned when registering a nil GrantParser
	ErrNilParser = errors.New("grant parser must not be nil")

	// ErrDuplicateGrantType is returned when a grant type is registered twice
	ErrDuplicateGrantType = errors.New("grant type already registered")
)

type registryEntry struct {
	grantType GrantType
	parser    GrantParser
}

// Registry dispatches token request parameters to the parser registered for
// their grant_type. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries []registryEntry
	index   map[GrantType]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[GrantType]int),
	}
}

// DefaultRegistry creates a registry holding every built-in grant type.
// Callers may Register extension grant types on the returned registry.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, e := range builtinParsers() {
		// Built-in types are unique and parsers non-nil
		_ = r.Register(e.grantType, e.parser)
	}
	return r
}

func builtinParsers() []registryEntry {
	return []registryEntry{
		{GrantTypeAuthorizationCode, NewGrantParser(ParseAuthorizationCodeGrant)},
		{GrantTypeRefreshToken, NewGrantParser(ParseRefreshTokenGrant)},
		{GrantTypePassword, NewGrantParser(ParsePasswordGrant)},
		{GrantTypeClientCredentials, NewGrantParser(ParseClientCredentialsGrant)},
		{GrantTypeJWTBearer, NewGrantParser(ParseJWTBearerGrant)},
		{GrantTypeSAML2Bearer, NewGrantParser(ParseSAML2BearerGrant)},
		{GrantTypeDeviceCode, NewGrantParser(ParseDeviceCodeGrant)},
		{GrantTypeCIBA, NewGrantParser(ParseCIBAGrant)},
		{GrantTypeTokenExchange, NewGrantParser(ParseTokenExchangeGrant)},
		{GrantTypePreAuthorizedCode, NewGrantParser(ParsePreAuthorizedCodeGrant)},
	}
}

// NewGrantParser adapts a parser returning a concrete grant type to a
// GrantParser. On failure the adapted parser returns a nil interface rather
// than a typed nil pointer.
func NewGrantParser[G AuthorizationGrant](parse func(url.Values) (G, error)) GrantParser {
	return func(p url.Values) (AuthorizationGrant, error) {
		g, err := parse(p)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
}

// Register adds a parser for gt. Registering the same grant type twice fails.
func (r *Registry) Register(gt GrantType, parser GrantParser) error {
	if gt.IsZero() {
		return fmt.Errorf("cannot register the zero grant type")
	}
	if parser == nil {
		return fmt.Errorf("%w: %s", ErrNilParser, gt)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[gt]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateGrantType, gt)
	}
	r.index[gt] = len(r.entries)
	r.entries = append(r.entries, registryEntry{grantType: gt, parser: parser})
	return nil
}

// Lookup returns the parser registered for gt.
func (r *Registry) Lookup(gt GrantType) (GrantParser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[gt]
	if !ok {
		return nil, false
	}
	return r.entries[i].parser, true
}

// GrantTypes returns the registered grant types in registration order.
func (r *Registry) GrantTypes() []GrantType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]GrantType, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.grantType
	}
	return out
}

// Parse reads grant_type from p and delegates to the matching parser.
// Parser results, including errors, are returned unchanged.
func (r *Registry) Parse(p url.Values) (AuthorizationGrant, error) {
	value, ok := params.First(p, ParamGrantType)
	if !ok {
		return nil, newInvalidRequest("Missing grant_type parameter", nil)
	}

	gt, err := ParseGrantType(value)
	if err != nil {
		return nil, newUnsupportedGrantType("Invalid grant type: "+err.Error(), err)
	}

	parser, ok := r.Lookup(gt)
	if !ok {
		return nil, newUnsupportedGrantType("Invalid or unsupported grant type: "+gt.value, nil)
	}
	return parser(p)
}

// builtin is never mutated after initialization
var builtin = sync.OnceValue(DefaultRegistry)

// ParseAuthorizationGrant parses any built-in grant from token request parameters.
// Use a Registry to accept extension grant types.
func ParseAuthorizationGrant(p url.Values) (AuthorizationGrant, error) {
	return builtin().Parse(p)
}
