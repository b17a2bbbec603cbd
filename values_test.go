package oauth

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestSecret_NeverPrinted(t *testing.T) {
	s := NewSecret("hunter2")

	if got := fmt.Sprintf("%v %s", s, s); strings.Contains(got, "hunter2") {
		t.Errorf("formatted secret leaked value: %q", got)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("login", "password", s)
	if strings.Contains(buf.String(), "hunter2") {
		t.Errorf("logged secret leaked value: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[REDACTED]") {
		t.Errorf("log output = %q, want redaction marker", buf.String())
	}
}

func TestSecret_Equal(t *testing.T) {
	if !NewSecret("a").Equal(NewSecret("a")) {
		t.Error("equal secrets should compare equal")
	}
	if NewSecret("a").Equal(NewSecret("b")) {
		t.Error("different secrets should not compare equal")
	}
}

func TestSecret_Hash(t *testing.T) {
	s := NewSecret("A3ddj3w")

	hash, err := s.Hash(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !s.MatchesHash(hash) {
		t.Error("MatchesHash() should accept its own hash")
	}
	if NewSecret("wrong").MatchesHash(hash) {
		t.Error("MatchesHash() should reject a different secret")
	}
	if s.MatchesHash([]byte("not a hash")) {
		t.Error("MatchesHash() should reject a malformed hash")
	}
}

func TestNewAuthRequestID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"uuid", "1c266114-a1be-4252-8ad1-04986c5b9ac1", false},
		{"visible ascii", "abc!~{}", false},
		{"empty", "", true},
		{"space", "a b", true},
		{"control character", "a\nb", true},
		{"non-ascii", "ä", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAuthRequestID(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewAuthRequestID(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestParseTokenTypeURI(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{string(TokenTypeAccessToken), false},
		{"https://example.com/token-type/custom", false},
		{"access_token", true},
		{"%zz", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTokenTypeURI(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTokenTypeURI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.input {
				t.Errorf("ParseTokenTypeURI(%q) = %q", tt.input, got)
			}
		})
	}
}
