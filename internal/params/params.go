package params

import (
	"fmt"
	"net/url"
	"strings"
)

// First returns the first value of the named parameter and whether the
// parameter was present with at least one value.
//
// Example:
//
//	First(url.Values{"code": {"abc", "def"}}, "code") // Returns: "abc", true
//	First(url.Values{"code": {}}, "code")             // Returns: "", false
//	First(nil, "code")                                // Returns: "", false
func First(p url.Values, name string) (string, bool) {
	values, ok := p[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// All returns a copy of every value of the named parameter, or nil.
func All(p url.Values, name string) []string {
	values := p[name]
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// IsBlank reports whether s is empty or consists only of whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// FirstNonBlank returns the first value of the named parameter when it is
// present and not blank.
func FirstNonBlank(p url.Values, name string) (string, bool) {
	v, ok := First(p, name)
	if !ok || IsBlank(v) {
		return "", false
	}
	return v, true
}

// SetIfNotEmpty sets name to value unless value is empty.
// Absent optional fields are omitted rather than serialized as "".
func SetIfNotEmpty(p url.Values, name, value string) {
	if value != "" {
		p.Set(name, value)
	}
}

// CheckURIReference reports an error when s contains a character that may not
// appear in an RFC 3986 URI reference: anything outside the unreserved and
// reserved sets, or a '%' not followed by two hex digits.
func CheckURIReference(s string) error {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '%':
			if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
				return fmt.Errorf("malformed percent-encoding at position %d", i)
			}
			i += 2
		case !isURIChar(c):
			return fmt.Errorf("illegal character %q at position %d", c, i)
		}
	}
	return nil
}

func isURIChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-._~:/?#[]@!$&'()*+,;=", c) >= 0
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
