package oauth

import (
	"errors"
	"fmt"
	"net/http"
)

// OAuth error codes as constants
const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeInvalidGrant         = "invalid_grant"
	ErrorCodeInvalidClient        = "invalid_client"
	ErrorCodeInvalidScope         = "invalid_scope"
	ErrorCodeUnauthorizedClient   = "unauthorized_client"
	ErrorCodeUnsupportedGrantType = "unsupported_grant_type"
	ErrorCodeServerError          = "server_error"
	ErrorCodeAccessDenied         = "access_denied"
	ErrorCodeRateLimitExceeded    = "rate_limit_exceeded"
)

// OAuthError represents an OAuth 2.0 error response
type OAuthError struct {
	Code        string // OAuth error code (e.g., "invalid_request", "invalid_grant")
	Description string // Human-readable error description
	Status      int    // HTTP status code
}

// Error implements the error interface
func (e *OAuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// AppendDescription returns a copy of e with suffix appended to its description.
// The receiver is not modified.
func (e *OAuthError) AppendDescription(suffix string) *OAuthError {
	return &OAuthError{
		Code:        e.Code,
		Description: e.Description + suffix,
		Status:      e.Status,
	}
}

// NewOAuthError creates a new OAuth error
func NewOAuthError(code, description string, status int) *OAuthError {
	return &OAuthError{
		Code:        code,
		Description: description,
		Status:      status,
	}
}

// Common OAuth errors. Each call returns a fresh value.
var (
	// ErrInvalidRequest indicates the request is malformed or missing required parameters
	ErrInvalidRequest = func(desc string) *OAuthError {
		return NewOAuthError(ErrorCodeInvalidRequest, desc, http.StatusBadRequest)
	}

	// ErrInvalidGrant indicates the presented grant is invalid, expired or malformed
	ErrInvalidGrant = func(desc string) *OAuthError {
		return NewOAuthError(ErrorCodeInvalidGrant, desc, http.StatusBadRequest)
	}

	// ErrInvalidClient indicates client authentication failed
	ErrInvalidClient = func(desc string) *OAuthError {
		return NewOAuthError(ErrorCodeInvalidClient, desc, http.StatusUnauthorized)
	}

	// ErrInvalidScope indicates the requested scope is invalid or unsupported
	ErrInvalidScope = func(desc string) *OAuthError {
		return NewOAuthError(ErrorCodeInvalidScope, desc, http.StatusBadRequest)
	}

	// ErrUnauthorizedClient indicates the client is not authorized for the requested grant type
	ErrUnauthorizedClient = func(desc string) *OAuthError {
		return NewOAuthError(ErrorCodeUnauthorizedClient, desc, http.StatusBadRequest)
	}

	// ErrUnsupportedGrantType indicates the grant type is not supported
	ErrUnsupportedGrantType = func(desc string) *OAuthError {
		return NewOAuthError(ErrorCodeUnsupportedGrantType, desc, http.StatusBadRequest)
	}

	// ErrServerError indicates an internal server error occurred
	ErrServerError = func(desc string) *OAuthError {
		return NewOAuthError(ErrorCodeServerError, desc, http.StatusInternalServerError)
	}

	// ErrAccessDenied indicates the resource owner or authorization server denied the request
	ErrAccessDenied = func(desc string) *OAuthError {
		return NewOAuthError(ErrorCodeAccessDenied, desc, http.StatusForbidden)
	}

	// ErrRateLimitExceeded indicates the caller sent too many requests
	ErrRateLimitExceeded = func(desc string) *OAuthError {
		return NewOAuthError(ErrorCodeRateLimitExceeded, desc, http.StatusTooManyRequests)
	}
)

// Base descriptions that parse failures append their message to,
// e.g. "Invalid request: Missing grant_type parameter".
const (
	descInvalidRequest       = "Invalid request"
	descInvalidGrant         = "Invalid grant"
	descUnsupportedGrantType = "Unsupported grant type"
)

// ParseError is returned when a token request parameter map cannot be parsed
// into an authorization grant. It carries a debug message, the protocol-visible
// OAuth error and the underlying cause, if any.
type ParseError struct {
	// Message is the internal, human-readable failure message
	Message string

	// OAuthError is the error object to return to the client
	OAuthError *OAuthError

	// Cause is the error that triggered the failure (may be nil)
	Cause error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return e.Message
}

// Unwrap exposes both the protocol error and the cause to errors.Is / errors.As
func (e *ParseError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.OAuthError != nil {
		errs = append(errs, e.OAuthError)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Code returns the OAuth error code of the failure
func (e *ParseError) Code() string {
	if e.OAuthError == nil {
		return ErrorCodeServerError
	}
	return e.OAuthError.Code
}

// newInvalidRequest builds an invalid_request parse failure
func newInvalidRequest(msg string, cause error) *ParseError {
	return &ParseError{
		Message:    msg,
		OAuthError: ErrInvalidRequest(descInvalidRequest).AppendDescription(": " + msg),
		Cause:      cause,
	}
}

// newInvalidGrant builds an invalid_grant parse failure
func newInvalidGrant(msg string, cause error) *ParseError {
	return &ParseError{
		Message:    msg,
		OAuthError: ErrInvalidGrant(descInvalidGrant).AppendDescription(": " + msg),
		Cause:      cause,
	}
}

// newUnsupportedGrantType builds an unsupported_grant_type parse failure
func newUnsupportedGrantType(msg string, cause error) *ParseError {
	return &ParseError{
		Message:    msg,
		OAuthError: ErrUnsupportedGrantType(descUnsupportedGrantType).AppendDescription(": " + msg),
		Cause:      cause,
	}
}

// ErrorCode extracts the OAuth error code from err.
// Returns an empty string when err carries no OAuth error.
func ErrorCode(err error) string {
	var oauthErr *OAuthError
	if errors.As(err, &oauthErr) {
		return oauthErr.Code
	}
	return ""
}
