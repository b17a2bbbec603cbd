package oauth

import (
	"errors"
	"net/url"
	"testing"
)

func TestParseGrantType(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		want          GrantType
		wantExtension bool
		wantErr       bool
	}{
		{"authorization code", "authorization_code", GrantTypeAuthorizationCode, false, false},
		{"refresh token", "refresh_token", GrantTypeRefreshToken, false, false},
		{"password", "password", GrantTypePassword, false, false},
		{"client credentials", "client_credentials", GrantTypeClientCredentials, false, false},
		{"jwt bearer", "urn:ietf:params:oauth:grant-type:jwt-bearer", GrantTypeJWTBearer, false, false},
		{"saml2 bearer", "urn:ietf:params:oauth:grant-type:saml2-bearer", GrantTypeSAML2Bearer, false, false},
		{"device code", "urn:ietf:params:oauth:grant-type:device_code", GrantTypeDeviceCode, false, false},
		{"ciba", "urn:openid:params:grant-type:ciba", GrantTypeCIBA, false, false},
		{"token exchange", "urn:ietf:params:oauth:grant-type:token-exchange", GrantTypeTokenExchange, false, false},
		{"pre-authorized code", "urn:ietf:params:oauth:grant-type:pre-authorized_code", GrantTypePreAuthorizedCode, false, false},
		{"extension", "urn:example:unknown", NewGrantType("urn:example:unknown"), true, false},
		{"case sensitive", "Authorization_Code", NewGrantType("Authorization_Code"), true, false},
		{"empty", "", GrantType{}, false, true},
		{"blank", "  ", GrantType{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGrantType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGrantType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrEmptyGrantType) {
					t.Errorf("error = %v, want ErrEmptyGrantType", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseGrantType(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.IsExtension() != tt.wantExtension {
				t.Errorf("IsExtension() = %v, want %v", got.IsExtension(), tt.wantExtension)
			}
			if got.Value() != tt.input || got.String() != tt.input {
				t.Errorf("Value() = %q, String() = %q, want %q", got.Value(), got.String(), tt.input)
			}
		})
	}
}

func TestGrantType_MapKey(t *testing.T) {
	m := map[GrantType]int{GrantTypeRefreshToken: 1}

	parsed, err := ParseGrantType("refresh_token")
	if err != nil {
		t.Fatalf("ParseGrantType() error = %v", err)
	}
	if m[parsed] != 1 {
		t.Error("parsed grant type should hash like the constant")
	}
	if m[NewGrantType("refresh_token")] != 1 {
		t.Error("constructed grant type should hash like the constant")
	}
}

func TestNewGrantType_PanicsOnBlank(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewGrantType(\"\") should panic")
		}
	}()
	NewGrantType("")
}

func TestEnsureGrantType(t *testing.T) {
	tests := []struct {
		name     string
		params   url.Values
		wantCode string
	}{
		{
			name:   "matching",
			params: url.Values{"grant_type": {"refresh_token"}},
		},
		{
			name:     "missing",
			params:   url.Values{},
			wantCode: ErrorCodeInvalidRequest,
		},
		{
			name:     "different known type",
			params:   url.Values{"grant_type": {"password"}},
			wantCode: ErrorCodeUnsupportedGrantType,
		},
		{
			name:     "unknown type",
			params:   url.Values{"grant_type": {"urn:example:unknown"}},
			wantCode: ErrorCodeUnsupportedGrantType,
		},
		{
			name:     "empty value",
			params:   url.Values{"grant_type": {""}},
			wantCode: ErrorCodeUnsupportedGrantType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EnsureGrantType(GrantTypeRefreshToken, tt.params)
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("EnsureGrantType() error = %v, want nil", err)
				}
				return
			}
			if got := ErrorCode(err); got != tt.wantCode {
				t.Errorf("EnsureGrantType() code = %q, want %q (err = %v)", got, tt.wantCode, err)
			}
		})
	}
}
