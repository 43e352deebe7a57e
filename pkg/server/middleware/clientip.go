package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/voterlist/pkg/config"
)

// ClientIP returns the address of the client. X-Forwarded-For and X-Real-IP
// are honored only when the connection comes from a trusted proxy; in
// X-Forwarded-For the client is the rightmost entry that is not itself a
// trusted proxy.
func ClientIP(r *http.Request, cfg *config.Config) string {
	connIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		connIP = host
	}

	if cfg == nil || !cfg.IsTrustedProxy(connIP) {
		return connIP
	}

	if ip, ok := forwardedFor(r, cfg); ok {
		return ip
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" && net.ParseIP(xri) != nil {
		return xri
	}
	return connIP
}

// forwardedFor walks X-Forwarded-For from the right, skipping trusted proxies.
// Entries left of the first untrusted hop are client supplied and ignored.
func forwardedFor(r *http.Request, cfg *config.Config) (string, bool) {
	var hops []string
	for _, header := range r.Header.Values("X-Forwarded-For") {
		hops = append(hops, strings.Split(header, ",")...)
	}
	if len(hops) == 0 {
		return "", false
	}

	var last string
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if net.ParseIP(hop) == nil {
			break
		}
		if !cfg.IsTrustedProxy(hop) {
			return hop, true
		}
		last = hop
	}
	return last, last != ""
}
