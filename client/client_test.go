package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"golang.org/x/oauth2"

	oauth "github.com/giantswarm/oauth-grants"
)

// tokenServer records received forms and answers with a fixed token or error
type tokenServer struct {
	mu    sync.Mutex
	forms []url.Values
	users []string

	status int
	body   map[string]any
}

func (s *tokenServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	user, _, _ := r.BasicAuth()

	s.mu.Lock()
	s.forms = append(s.forms, r.PostForm)
	s.users = append(s.users, user)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(s.status)
	_ = json.NewEncoder(w).Encode(s.body)
}

func newTokenServer(t *testing.T, status int, body map[string]any) (*tokenServer, *httptest.Server) {
	t.Helper()

	ts := &tokenServer{status: status, body: body}
	srv := httptest.NewServer(ts)
	t.Cleanup(srv.Close)
	return ts, srv
}

func TestExchange_SendsGrantParameters(t *testing.T) {
	ts, srv := newTokenServer(t, http.StatusOK, map[string]any{
		"access_token": "at-1",
		"token_type":   "Bearer",
		"expires_in":   3600,
	})

	grant := oauth.NewPreAuthorizedCodeGrant("abc123", nil, "493536", nil)
	tok, err := Exchange(context.Background(), Config{
		ClientID:     "wallet",
		ClientSecret: "s3cret",
		TokenURL:     srv.URL,
		AuthStyle:    oauth2.AuthStyleInHeader,
		HTTPClient:   srv.Client(),
	}, grant)
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}
	if tok.AccessToken != "at-1" {
		t.Errorf("AccessToken = %q, want at-1", tok.AccessToken)
	}

	if len(ts.forms) != 1 {
		t.Fatalf("server received %d requests, want 1", len(ts.forms))
	}
	form := ts.forms[0]
	tests := map[string]string{
		"grant_type":          "urn:ietf:params:oauth:grant-type:pre-authorized_code",
		"pre-authorized_code": "abc123",
		"user_pin":            "493536",
	}
	for k, want := range tests {
		if got := form.Get(k); got != want {
			t.Errorf("form[%s] = %q, want %q", k, got, want)
		}
	}
	if ts.users[0] != "wallet" {
		t.Errorf("basic auth user = %q, want wallet", ts.users[0])
	}

	// The form must parse back into the same grant
	parsed, err := oauth.ParseAuthorizationGrant(form)
	if err != nil {
		t.Fatalf("server-side parse error = %v", err)
	}
	if parsed.Type() != oauth.GrantTypePreAuthorizedCode {
		t.Errorf("parsed type = %v", parsed.Type())
	}
}

func TestExchange_ScopesAndParamsAuth(t *testing.T) {
	ts, srv := newTokenServer(t, http.StatusOK, map[string]any{"access_token": "at", "token_type": "Bearer"})

	_, err := Exchange(context.Background(), Config{
		ClientID:   "svc",
		TokenURL:   srv.URL,
		Scopes:     []string{"read", "write"},
		AuthStyle:  oauth2.AuthStyleInParams,
		HTTPClient: srv.Client(),
	}, oauth.NewClientCredentialsGrant())
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}

	form := ts.forms[0]
	if got := form.Get("grant_type"); got != "client_credentials" {
		t.Errorf("grant_type = %q", got)
	}
	if got := form.Get("scope"); got != "read write" {
		t.Errorf("scope = %q, want %q", got, "read write")
	}
	if got := form.Get("client_id"); got != "svc" {
		t.Errorf("client_id = %q, want svc", got)
	}
}

func TestExchange_ErrorResponse(t *testing.T) {
	_, srv := newTokenServer(t, http.StatusBadRequest, map[string]any{
		"error":             "invalid_grant",
		"error_description": "Pre-authorized code expired",
	})

	_, err := Exchange(context.Background(), Config{
		ClientID:   "wallet",
		TokenURL:   srv.URL,
		AuthStyle:  oauth2.AuthStyleInParams,
		HTTPClient: srv.Client(),
	}, oauth.NewPreAuthorizedCodeGrant("abc123", nil, "", nil))
	if err == nil {
		t.Fatal("Exchange() error = nil, want error")
	}

	var oauthErr *oauth.OAuthError
	if !errors.As(err, &oauthErr) {
		t.Fatalf("error %v does not wrap *oauth.OAuthError", err)
	}
	if oauthErr.Code != oauth.ErrorCodeInvalidGrant || oauthErr.Description != "Pre-authorized code expired" || oauthErr.Status != http.StatusBadRequest {
		t.Errorf("OAuthError = %+v", oauthErr)
	}
	if oauth.ErrorCode(err) != oauth.ErrorCodeInvalidGrant {
		t.Errorf("ErrorCode() = %q", oauth.ErrorCode(err))
	}

	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		t.Error("error should still wrap *oauth2.RetrieveError")
	}
}

func TestExchange_InvalidArguments(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		grant   oauth.AuthorizationGrant
		wantErr error
	}{
		{
			name:    "nil grant",
			cfg:     Config{TokenURL: "https://issuer.example.com/token"},
			wantErr: ErrNilGrant,
		},
		{
			name:    "missing token url",
			cfg:     Config{},
			grant:   oauth.NewClientCredentialsGrant(),
			wantErr: ErrMissingTokenURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Exchange(context.Background(), tt.cfg, tt.grant)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Exchange() error = %v, want %v", err, tt.wantErr)
			}
			if _, err := TokenSource(context.Background(), tt.cfg, tt.grant); !errors.Is(err, tt.wantErr) {
				t.Errorf("TokenSource() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenSource_ReusesToken(t *testing.T) {
	ts, srv := newTokenServer(t, http.StatusOK, map[string]any{
		"access_token": "at-1",
		"token_type":   "Bearer",
		"expires_in":   3600,
	})

	src, err := TokenSource(context.Background(), Config{
		ClientID:   "svc",
		TokenURL:   srv.URL,
		AuthStyle:  oauth2.AuthStyleInParams,
		HTTPClient: srv.Client(),
	}, oauth.NewClientCredentialsGrant())
	if err != nil {
		t.Fatalf("TokenSource() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		tok, err := src.Token()
		if err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if tok.AccessToken != "at-1" {
			t.Errorf("AccessToken = %q", tok.AccessToken)
		}
	}
	if len(ts.forms) != 1 {
		t.Errorf("server received %d requests, want 1 (token should be cached)", len(ts.forms))
	}
}
