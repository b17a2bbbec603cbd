package security

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientIPResolver determines the address a request originated from.
//
// SECURITY: only set TrustProxy when the server sits behind reverse proxies
// you control. Otherwise X-Forwarded-For is attacker supplied and every
// per-IP control (rate limiting, audit) can be bypassed.
type ClientIPResolver struct {
	// TrustProxy enables X-Forwarded-For and X-Real-IP handling
	TrustProxy bool

	// TrustedProxyCount is the number of trusted proxies appending to
	// X-Forwarded-For. Zero is treated as one.
	TrustedProxyCount int
}

// ClientIP returns the client address of r
func (c ClientIPResolver) ClientIP(r *http.Request) string {
	if c.TrustProxy {
		if ip, ok := c.fromForwardedFor(r.Header.Values("X-Forwarded-For")); ok {
			return ip
		}
		if ip, ok := parseIP(r.Header.Get("X-Real-IP")); ok {
			return ip
		}
	}
	return remoteIP(r.RemoteAddr)
}

// fromForwardedFor picks the entry left of the trusted proxies.
// With "client, p1, p2" and two trusted proxies the result is "client".
// Multiple header lines are treated as one comma-separated list.
func (c ClientIPResolver) fromForwardedFor(headers []string) (string, bool) {
	var hops []string
	for _, h := range headers {
		for _, hop := range strings.Split(h, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
	}
	if len(hops) == 0 {
		return "", false
	}

	trusted := max(c.TrustedProxyCount, 1)
	idx := max(len(hops)-trusted-1, 0)
	return parseIP(hops[idx])
}

func parseIP(s string) (string, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return addr.Unmap().String(), true
}

func remoteIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
