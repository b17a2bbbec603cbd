// Package pkce implements the Proof Key for Code Exchange (RFC 7636) values
// carried by OAuth token requests: the code verifier and its derived challenge.
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
)

const (
	// MinVerifierLength is the minimum code_verifier length (RFC 7636 Section 4.1)
	MinVerifierLength = 43

	// MaxVerifierLength is the maximum code_verifier length (RFC 7636 Section 4.1)
	MaxVerifierLength = 128

	// generatedVerifierBytes yields a 43 character verifier after base64url encoding
	generatedVerifierBytes = 32
)

// Method is a code_challenge_method value.
type Method string

const (
	// MethodS256 derives the challenge as BASE64URL(SHA256(verifier))
	MethodS256 Method = "S256"

	// MethodPlain uses the verifier as the challenge. Not recommended.
	MethodPlain Method = "plain"
)

var (
	// ErrVerifierTooShort is returned for verifiers below MinVerifierLength
	ErrVerifierTooShort = errors.New("code verifier too short")

	// ErrVerifierTooLong is returned for verifiers above MaxVerifierLength
	ErrVerifierTooLong = errors.New("code verifier too long")

	// ErrVerifierCharset is returned for verifiers outside [A-Za-z0-9-._~]
	ErrVerifierCharset = errors.New("code verifier contains illegal characters")
)

// CodeVerifier is a validated PKCE code verifier. The zero value is not valid;
// use NewCodeVerifier or GenerateCodeVerifier.
type CodeVerifier struct {
	value string
}

// NewCodeVerifier validates value against the RFC 7636 length and
// unreserved-character rules.
func NewCodeVerifier(value string) (CodeVerifier, error) {
	if len(value) < MinVerifierLength {
		return CodeVerifier{}, fmt.Errorf("%w: %d characters, minimum is %d", ErrVerifierTooShort, len(value), MinVerifierLength)
	}
	if len(value) > MaxVerifierLength {
		return CodeVerifier{}, fmt.Errorf("%w: %d characters, maximum is %d", ErrVerifierTooLong, len(value), MaxVerifierLength)
	}

	// Byte-wise check: any multi-byte UTF-8 sequence fails as well
	for i := 0; i < len(value); i++ {
		if !isUnreserved(value[i]) {
			return CodeVerifier{}, fmt.Errorf("%w: must be [A-Za-z0-9-._~]", ErrVerifierCharset)
		}
	}

	return CodeVerifier{value: value}, nil
}

// GenerateCodeVerifier returns a random verifier with 256 bits of entropy.
func GenerateCodeVerifier() (CodeVerifier, error) {
	b := make([]byte, generatedVerifierBytes)
	if _, err := rand.Read(b); err != nil {
		return CodeVerifier{}, fmt.Errorf("failed to generate code verifier: %w", err)
	}
	return NewCodeVerifier(base64.RawURLEncoding.EncodeToString(b))
}

// Value returns the verifier string.
func (v CodeVerifier) Value() string {
	return v.value
}

// IsZero reports whether v was not produced by a constructor.
func (v CodeVerifier) IsZero() bool {
	return v.value == ""
}

// Challenge computes the code_challenge for v using method.
func (v CodeVerifier) Challenge(method Method) (string, error) {
	switch method {
	case MethodS256:
		hash := sha256.Sum256([]byte(v.value))
		return base64.RawURLEncoding.EncodeToString(hash[:]), nil
	case MethodPlain:
		return v.value, nil
	default:
		return "", fmt.Errorf("unsupported code_challenge_method: %s", method)
	}
}

// Matches reports whether v produces challenge under method.
// The comparison is constant time.
func (v CodeVerifier) Matches(challenge string, method Method) bool {
	computed, err := v.Challenge(method)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(challenge)) == 1
}

// isUnreserved reports whether c is an RFC 3986 Section 2.3 unreserved character
func isUnreserved(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
		c == '-' || c == '.' || c == '_' || c == '~'
}
