// Package instrumentation provides OpenTelemetry instrumentation for the
// oauth-grants library.
//
// It records how token requests are parsed (which grant types arrive, which
// are rejected and why), token endpoint HTTP traffic, rate limiting and audit
// events, and creates spans around grant parsing and token issuance.
//
// # Quick Start
//
//	inst, err := instrumentation.New(instrumentation.Config{
//		ServiceName:    "my-token-endpoint",
//		ServiceVersion: "1.0.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer inst.Shutdown(context.Background())
//
//	handler, err := oauth.NewHandler(oauth.Config{
//		Issuer:          issuer,
//		Instrumentation: inst,
//	})
//
// # Providers
//
// When Enabled is true and no providers are supplied, New creates SDK meter
// and tracer providers without exporters; pass MeterProvider and
// TracerProvider to export data through your own pipeline. When Enabled is
// false, no-op providers are used.
//
// # Metrics
//
//   - oauth.grant.parsed: grants successfully parsed, by grant type
//   - oauth.grant.rejected: token requests rejected while parsing, by grant type and error code
//   - oauth.token.issued: tokens issued, by grant type
//   - oauth.http.requests.total / oauth.http.request.duration: token endpoint traffic
//   - oauth.ratelimit.exceeded: requests rejected by the rate limiter
//   - oauth.audit.events: security audit events
//
// Never record grant values (codes, tokens, assertions, PINs) as attributes.
package instrumentation
