package security

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"
)

// Auditor handles security event logging with PII protection.
type Auditor struct {
	logger  *slog.Logger
	enabled bool

	// onEvent is invoked for every logged event, e.g. to count it in metrics
	onEvent func(eventType string)
}

// NewAuditor creates a new security auditor
func NewAuditor(logger *slog.Logger, enabled bool) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{
		logger:  logger,
		enabled: enabled,
	}
}

// OnEvent registers a callback invoked after each logged event.
// It must be called before the auditor is shared between goroutines.
func (a *Auditor) OnEvent(fn func(eventType string)) {
	a.onEvent = fn
}

// Event represents a security audit event
type Event struct {
	Type      string
	GrantType string
	Subject   string
	ClientID  string
	IPAddress string
	RequestID string
	Details   map[string]any
	Timestamp time.Time
}

// LogEvent logs a security event with the subject hashed
func (a *Auditor) LogEvent(event Event) {
	if a == nil || !a.enabled {
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	attrs := []any{
		"event_type", event.Type,
		"grant_type", event.GrantType,
		"client_id", event.ClientID,
		"ip_address", event.IPAddress,
		"timestamp", event.Timestamp,
	}
	if event.Subject != "" {
		attrs = append(attrs, "subject_hash", hashForLogging(event.Subject))
	}
	if event.RequestID != "" {
		attrs = append(attrs, "request_id", event.RequestID)
	}
	if len(event.Details) > 0 {
		attrs = append(attrs, "details", event.Details)
	}

	a.logger.Info("security_audit", attrs...)

	if a.onEvent != nil {
		a.onEvent(event.Type)
	}
}

// LogGrantParsed logs a successfully parsed grant
func (a *Auditor) LogGrantParsed(grantType, clientID, ipAddress, requestID string) {
	a.LogEvent(Event{
		Type:      EventGrantParsed,
		GrantType: grantType,
		ClientID:  clientID,
		IPAddress: ipAddress,
		RequestID: requestID,
	})
}

// LogGrantRejected logs a token request rejected while parsing the grant.
// description is the OAuth error description returned to the client.
func (a *Auditor) LogGrantRejected(grantType, errorCode, description, ipAddress, requestID string) {
	eventType := EventGrantRejected
	if errorCode == "unsupported_grant_type" {
		eventType = EventUnsupportedGrantType
	}
	a.LogEvent(Event{
		Type:      eventType,
		GrantType: grantType,
		IPAddress: ipAddress,
		RequestID: requestID,
		Details: map[string]any{
			"error":             errorCode,
			"error_description": description,
		},
	})
}

// LogTokenIssued logs when a token is issued
func (a *Auditor) LogTokenIssued(grantType, subject, clientID, ipAddress, scope string) {
	a.LogEvent(Event{
		Type:      EventTokenIssued,
		GrantType: grantType,
		Subject:   subject,
		ClientID:  clientID,
		IPAddress: ipAddress,
		Details: map[string]any{
			"scope": scope,
		},
	})
}

// LogTokenDenied logs when the issuer refused a well-formed grant
func (a *Auditor) LogTokenDenied(grantType, errorCode, ipAddress string) {
	a.LogEvent(Event{
		Type:      EventTokenDenied,
		GrantType: grantType,
		IPAddress: ipAddress,
		Details: map[string]any{
			"error": errorCode,
		},
	})
}

// LogRateLimitExceeded logs a rate limit violation
func (a *Auditor) LogRateLimitExceeded(ipAddress string) {
	a.LogEvent(Event{
		Type:      EventRateLimitExceeded,
		IPAddress: ipAddress,
	})
}

// hashForLogging creates a truncated SHA256 hash of sensitive data for logging
func hashForLogging(sensitive string) string {
	if sensitive == "" {
		return "<empty>"
	}
	hash := sha256.Sum256([]byte(sensitive))
	return hex.EncodeToString(hash[:])[:16]
}
