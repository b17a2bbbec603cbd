package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/giantswarm/oauth-grants/instrumentation"
	"github.com/giantswarm/oauth-grants/internal/params"
	"github.com/giantswarm/oauth-grants/security"
)

// metricsEndpoint labels token endpoint HTTP metrics
const metricsEndpoint = "token"

// TokenIssuer issues tokens for parsed grants.
//
// Implementations validate the grant against their own state (codes, refresh
// tokens, client credentials, assertions) and return either a token response
// or an error. Returning an *OAuthError (or an error wrapping one) sends that
// error to the client; any other error becomes server_error and is only logged.
type TokenIssuer interface {
	IssueToken(ctx context.Context, r *http.Request, grant AuthorizationGrant) (*TokenResponse, error)
}

// TokenIssuerFunc adapts a function to the TokenIssuer interface
type TokenIssuerFunc func(ctx context.Context, r *http.Request, grant AuthorizationGrant) (*TokenResponse, error)

// IssueToken calls f
func (f TokenIssuerFunc) IssueToken(ctx context.Context, r *http.Request, grant AuthorizationGrant) (*TokenResponse, error) {
	return f(ctx, r, grant)
}

// Handler serves the OAuth 2.0 token endpoint.
// It decodes the form, dispatches on grant_type through the registry and
// delegates issuance to the configured TokenIssuer.
type Handler struct {
	registry *Registry
	issuer   TokenIssuer
	logger   *slog.Logger
	maxBody  int64

	ipResolver  security.ClientIPResolver
	rateLimiter *security.RateLimiter
	auditor     *security.Auditor

	tracer  trace.Tracer
	metrics *instrumentation.Metrics

	next http.Handler
}

// NewHandler creates a token endpoint handler.
// Call Close to release the rate limiter when the handler is discarded.
func NewHandler(config Config) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid handler config: %w", err)
	}
	config.applyDefaults()

	h := &Handler{
		registry: config.Registry,
		issuer:   config.Issuer,
		logger:   config.Logger,
		maxBody:  config.MaxRequestBodySize,
		ipResolver: security.ClientIPResolver{
			TrustProxy:        config.Security.TrustProxy,
			TrustedProxyCount: config.Security.TrustedProxyCount,
		},
		auditor: security.NewAuditor(config.Logger, config.Security.EnableAuditLogging),
	}

	if config.RateLimit.Rate > 0 {
		h.rateLimiter = security.NewRateLimiter(security.RateLimitConfig{
			RequestsPerSecond: config.RateLimit.Rate,
			Burst:             config.RateLimit.Burst,
			MaxEntries:        config.RateLimit.MaxEntries,
		}, config.Logger)
	}

	if config.Instrumentation != nil {
		h.tracer = config.Instrumentation.Tracer("http")
		h.metrics = config.Instrumentation.Metrics()
		h.auditor.OnEvent(func(eventType string) {
			h.metrics.RecordAuditEvent(context.Background(), eventType)
		})
	}

	h.next = security.RequestIDMiddleware(http.HandlerFunc(h.ServeToken))

	return h, nil
}

// ServeHTTP serves the token endpoint with request ID propagation
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.next.ServeHTTP(w, r)
}

// Close stops background work owned by the handler
func (h *Handler) Close() {
	if h.rateLimiter != nil {
		h.rateLimiter.Stop()
	}
}

// SupportedGrantTypes lists the grant_type values the handler accepts,
// in registration order. Suitable for grant_types_supported metadata.
func (h *Handler) SupportedGrantTypes() []string {
	types := h.registry.GrantTypes()
	out := make([]string, len(types))
	for i, gt := range types {
		out[i] = gt.Value()
	}
	return out
}

// ServeToken handles a token request (RFC 6749 section 3.2)
func (h *Handler) ServeToken(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	ctx := r.Context()

	var span trace.Span
	if h.tracer != nil {
		ctx, span = h.tracer.Start(ctx, "oauth.http.token")
		defer span.End()
	}

	status := http.StatusOK
	defer func() {
		h.recordHTTPMetrics(ctx, r.Method, status, startTime)
		instrumentation.AddHTTPAttributes(span, r.Method, r.URL.Path, status)
	}()

	if r.Method != http.MethodPost {
		status = http.StatusMethodNotAllowed
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", status)
		return
	}

	clientIP := h.ipResolver.ClientIP(r)
	requestID := security.RequestIDFromContext(ctx)

	if h.checkRateLimit(ctx, clientIP) {
		status = http.StatusTooManyRequests
		instrumentation.SetSpanError(span, "rate limit exceeded")
		w.Header().Set("Retry-After", "60")
		h.writeError(w, r, ErrRateLimitExceeded("Rate limit exceeded. Please try again later."))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := r.ParseForm(); err != nil {
		h.logger.Debug("Failed to parse token request", "ip", clientIP, "request_id", requestID, "error", err)
		oauthErr := ErrInvalidRequest("Failed to parse request")
		status = oauthErr.Status
		instrumentation.RecordError(span, err)
		h.writeError(w, r, oauthErr)
		return
	}

	form := r.PostForm
	grantLabel := h.grantTypeLabel(form)
	instrumentation.AddGrantAttributes(span, grantLabel, hasValue(form, ParamCodeVerifier), hasValue(form, ParamRedirectURI))

	grant, err := h.registry.Parse(form)
	if err != nil {
		oauthErr := toOAuthError(err)
		status = oauthErr.Status

		h.logger.Info("Token request rejected",
			"grant_type", grantLabel,
			"error", oauthErr.Code,
			"ip", clientIP,
			"request_id", requestID)
		h.recordGrantRejected(ctx, grantLabel, oauthErr.Code)
		h.auditor.LogGrantRejected(grantLabel, oauthErr.Code, oauthErr.Description, clientIP, requestID)
		instrumentation.AddOAuthErrorAttributes(span, oauthErr.Code, oauthErr.Description)
		instrumentation.SetSpanError(span, oauthErr.Code)

		h.writeError(w, r, oauthErr)
		return
	}

	grantType := grant.Type().Value()
	clientID := clientIDFromRequest(r)
	if h.metrics != nil {
		h.metrics.RecordGrantParsed(ctx, grantType)
	}
	h.auditor.LogGrantParsed(grantType, clientID, clientIP, requestID)
	instrumentation.SetSpanAttributes(span, attribute.String(instrumentation.AttrClientID, clientID))

	resp, err := h.issuer.IssueToken(ctx, r, grant)
	if err == nil && (resp == nil || resp.AccessToken == "") {
		err = errors.New("issuer returned no access token")
	}
	if err != nil {
		var oauthErr *OAuthError
		if !errors.As(err, &oauthErr) {
			h.logger.Error("Token issuance failed",
				"grant_type", grantType,
				"client_id", clientID,
				"ip", clientIP,
				"request_id", requestID,
				"error", err)
			// Don't leak internal error details to the client
			oauthErr = ErrServerError("Internal server error")
		} else {
			h.logger.Info("Token request denied",
				"grant_type", grantType,
				"client_id", clientID,
				"error", oauthErr.Code,
				"ip", clientIP,
				"request_id", requestID)
		}
		status = oauthErr.Status

		h.auditor.LogTokenDenied(grantType, oauthErr.Code, clientIP)
		instrumentation.RecordError(span, err)
		instrumentation.AddOAuthErrorAttributes(span, oauthErr.Code, "")

		h.writeError(w, r, oauthErr)
		return
	}

	h.logger.Info("Token issued",
		"grant_type", grantType,
		"client_id", clientID,
		"ip", clientIP,
		"request_id", requestID)
	if h.metrics != nil {
		h.metrics.RecordTokenIssued(ctx, grantType)
	}
	h.auditor.LogTokenIssued(grantType, resp.Subject, clientID, clientIP, resp.Scope)
	instrumentation.SetSpanSuccess(span)

	h.writeTokenResponse(w, r, resp)
}

// checkRateLimit reports whether the client IP is rate limited
func (h *Handler) checkRateLimit(ctx context.Context, clientIP string) bool {
	if h.rateLimiter == nil || h.rateLimiter.Allow(clientIP) {
		return false
	}

	h.logger.Warn("Rate limit exceeded", "ip", clientIP)
	if h.metrics != nil {
		h.metrics.RecordRateLimitExceeded(ctx, "ip")
	}
	h.auditor.LogRateLimitExceeded(clientIP)
	return true
}

// grantTypeLabel returns a bounded label for the request's grant_type.
// Unregistered values collapse to "unsupported" to keep metric cardinality
// independent of client input.
func (h *Handler) grantTypeLabel(form url.Values) string {
	raw, ok := params.First(form, ParamGrantType)
	if !ok {
		return "none"
	}
	gt, err := ParseGrantType(raw)
	if err != nil {
		return "none"
	}
	if _, ok := h.registry.Lookup(gt); !ok {
		return "unsupported"
	}
	return gt.Value()
}

func (h *Handler) recordGrantRejected(ctx context.Context, grantType, code string) {
	if h.metrics != nil {
		h.metrics.RecordGrantRejected(ctx, grantType, code)
	}
}

func (h *Handler) recordHTTPMetrics(ctx context.Context, method string, status int, startTime time.Time) {
	if h.metrics == nil {
		return
	}
	duration := float64(time.Since(startTime).Microseconds()) / 1000.0
	h.metrics.RecordHTTPRequest(ctx, method, metricsEndpoint, status, duration)
}

// writeTokenResponse writes a successful token response
func (h *Handler) writeTokenResponse(w http.ResponseWriter, r *http.Request, resp *TokenResponse) {
	security.SetTokenResponseHeaders(w, r)

	out := *resp
	if out.TokenType == "" {
		out.TokenType = tokenTypeBearer
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(out)
}

// writeError writes an OAuth error response (RFC 6749 section 5.2)
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, oauthErr *OAuthError) {
	security.SetTokenResponseHeaders(w, r)

	if oauthErr.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Basic realm="token"`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(oauthErr.Status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:            oauthErr.Code,
		ErrorDescription: oauthErr.Description,
	})
}

// toOAuthError extracts the protocol error carried by err
func toOAuthError(err error) *OAuthError {
	var oauthErr *OAuthError
	if errors.As(err, &oauthErr) {
		return oauthErr
	}
	return ErrInvalidRequest(err.Error())
}

// clientIDFromRequest returns the client identifier from HTTP Basic
// authentication or the client_id form parameter
func clientIDFromRequest(r *http.Request) string {
	if user, _, ok := r.BasicAuth(); ok && user != "" {
		if id, err := url.QueryUnescape(user); err == nil {
			return id
		}
		return user
	}
	id, _ := params.First(r.PostForm, ParamClientID)
	return id
}

func hasValue(form url.Values, name string) bool {
	_, ok := params.FirstNonBlank(form, name)
	return ok
}
