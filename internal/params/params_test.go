package params

import (
	"net/url"
	"testing"
)

func TestFirst(t *testing.T) {
	tests := []struct {
		name   string
		params url.Values
		key    string
		want   string
		wantOK bool
	}{
		{
			name:   "single value",
			params: url.Values{"code": {"abc"}},
			key:    "code",
			want:   "abc",
			wantOK: true,
		},
		{
			name:   "multiple values returns first",
			params: url.Values{"code": {"abc", "def"}},
			key:    "code",
			want:   "abc",
			wantOK: true,
		},
		{
			name:   "empty value is present",
			params: url.Values{"code": {""}},
			key:    "code",
			want:   "",
			wantOK: true,
		},
		{
			name:   "empty slice is absent",
			params: url.Values{"code": {}},
			key:    "code",
			wantOK: false,
		},
		{
			name:   "missing key",
			params: url.Values{"other": {"x"}},
			key:    "code",
			wantOK: false,
		},
		{
			name:   "key match is case sensitive",
			params: url.Values{"Code": {"abc"}},
			key:    "code",
			wantOK: false,
		},
		{
			name:   "nil map",
			params: nil,
			key:    "code",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := First(tt.params, tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("First() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFirstNonBlank(t *testing.T) {
	tests := []struct {
		name   string
		value  []string
		wantOK bool
	}{
		{"non blank", []string{"abc"}, true},
		{"empty", []string{""}, false},
		{"whitespace", []string{" \t "}, false},
		{"blank first value wins", []string{"", "abc"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := FirstNonBlank(url.Values{"k": tt.value}, "k")
			if ok != tt.wantOK {
				t.Errorf("FirstNonBlank() ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	p := url.Values{"audience": {"a", "b"}}

	got := All(p, "audience")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("All() = %v, want [a b]", got)
	}

	got[0] = "changed"
	if p["audience"][0] != "a" {
		t.Error("All() must not alias the parameter map")
	}

	if All(p, "missing") != nil {
		t.Error("All() for missing key should be nil")
	}
}

func TestSetIfNotEmpty(t *testing.T) {
	p := url.Values{}
	SetIfNotEmpty(p, "user_pin", "")
	if _, ok := p["user_pin"]; ok {
		t.Error("empty value should not be set")
	}

	SetIfNotEmpty(p, "user_pin", "1234")
	if p.Get("user_pin") != "1234" {
		t.Errorf("user_pin = %q, want %q", p.Get("user_pin"), "1234")
	}
}

func TestCheckURIReference(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://wallet.example.com/cb?x=1&y=a%20b#frag", false},
		{"urn:ietf:wg:oauth:2.0:oob", false},
		{"/relative/path", false},
		{"https://[::1]:8443/cb", false},
		{"", false},
		{"not a uri", true},
		{"https://x/a b", true},
		{"https://x/<script>", true},
		{`https://x/p?q=a"b`, true},
		{"https://x/%zz", true},
		{"https://x/%2", true},
		{"https://x/ä", true},
		{"https://x/{id}", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := CheckURIReference(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckURIReference(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
