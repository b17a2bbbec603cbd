package pkce

import (
	"errors"
	"strings"
	"testing"
)

func TestNewCodeVerifier(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr error
	}{
		{
			name:    "one below minimum length",
			value:   strings.Repeat("a", 42),
			wantErr: ErrVerifierTooShort,
		},
		{
			name:  "minimum length",
			value: strings.Repeat("a", 43),
		},
		{
			name:  "maximum length",
			value: strings.Repeat("Z", 128),
		},
		{
			name:    "one above maximum length",
			value:   strings.Repeat("a", 129),
			wantErr: ErrVerifierTooLong,
		},
		{
			name:  "all unreserved characters",
			value: "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~",
		},
		{
			name:    "contains space",
			value:   strings.Repeat("a", 50) + " " + strings.Repeat("b", 10),
			wantErr: ErrVerifierCharset,
		},
		{
			name:    "contains plus",
			value:   strings.Repeat("a", 43) + "+",
			wantErr: ErrVerifierCharset,
		},
		{
			name:    "contains non-ascii",
			value:   strings.Repeat("a", 43) + "é",
			wantErr: ErrVerifierCharset,
		},
		{
			name:    "empty",
			value:   "",
			wantErr: ErrVerifierTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewCodeVerifier(tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewCodeVerifier() error = %v, want %v", err, tt.wantErr)
				}
				if !v.IsZero() {
					t.Error("rejected verifier should be zero value")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCodeVerifier() unexpected error = %v", err)
			}
			if v.Value() != tt.value {
				t.Errorf("Value() = %q, want %q", v.Value(), tt.value)
			}
		})
	}
}

func TestCodeVerifier_Challenge(t *testing.T) {
	// RFC 7636 Appendix B
	v, err := NewCodeVerifier("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk")
	if err != nil {
		t.Fatalf("NewCodeVerifier() error = %v", err)
	}

	got, err := v.Challenge(MethodS256)
	if err != nil {
		t.Fatalf("Challenge() error = %v", err)
	}
	if want := "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"; got != want {
		t.Errorf("Challenge(S256) = %q, want %q", got, want)
	}

	plain, err := v.Challenge(MethodPlain)
	if err != nil || plain != v.Value() {
		t.Errorf("Challenge(plain) = %q, %v, want verifier", plain, err)
	}

	if _, err := v.Challenge("S512"); err == nil {
		t.Error("Challenge() with unknown method should fail")
	}
}

func TestCodeVerifier_Matches(t *testing.T) {
	v, err := NewCodeVerifier("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk")
	if err != nil {
		t.Fatalf("NewCodeVerifier() error = %v", err)
	}

	if !v.Matches("E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", MethodS256) {
		t.Error("Matches() should accept the RFC 7636 example challenge")
	}
	if v.Matches("wrong", MethodS256) {
		t.Error("Matches() should reject a different challenge")
	}
	if v.Matches("E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", "unknown") {
		t.Error("Matches() should reject an unknown method")
	}
}

func TestGenerateCodeVerifier(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		v, err := GenerateCodeVerifier()
		if err != nil {
			t.Fatalf("GenerateCodeVerifier() error = %v", err)
		}
		if len(v.Value()) < MinVerifierLength || len(v.Value()) > MaxVerifierLength {
			t.Errorf("generated verifier length %d out of range", len(v.Value()))
		}
		if seen[v.Value()] {
			t.Error("GenerateCodeVerifier() produced a duplicate")
		}
		seen[v.Value()] = true
	}
}
