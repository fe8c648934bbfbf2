package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// Unknown is the shared identity of clients that cannot be identified.
const Unknown = "unknown"

// ClientID derives the rate-limit identity: the first X-Forwarded-For entry,
// else the peer address, else Unknown.
func ClientID(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	if r.RemoteAddr != "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}
	return Unknown
}
