package types

import (
	"net"
	"net/http"
	"strings"
)

// ClientInfo carries the request origin recorded alongside audit events.
type ClientInfo struct {
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// ExtractClientInfo reads the caller address and agent from the request,
// preferring the first X-Forwarded-For hop when present.
func ExtractClientInfo(r *http.Request) ClientInfo {
	if r == nil {
		return ClientInfo{}
	}

	ip := strings.TrimSpace(strings.SplitN(r.Header.Get("X-Forwarded-For"), ",", 2)[0])
	if ip == "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err == nil {
			ip = host
		} else {
			ip = r.RemoteAddr
		}
	}

	return ClientInfo{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}
