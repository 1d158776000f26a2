package pkg

import (
	"net"
	"net/http"
	"regexp"
	"strings"
)

var localDockerIpRegex = regexp.MustCompile(`^172\.\d{1,3}\.0\.1(:\d{1,5})?$`)

// IsLocalAddr reports whether addr comes from the host itself or the docker bridge.
func IsLocalAddr(addr string) bool {
	if strings.HasPrefix(addr, "127.0.0.1") || strings.HasPrefix(addr, "[::1]") || addr == "::1" {
		return true
	}
	return localDockerIpRegex.MatchString(addr)
}

// ClientIP returns the caller address without the port, preferring the
// headers set by the reverse proxy.
func ClientIP(r *http.Request) string {
	addr := r.Header.Get("X-Real-Ip")
	if addr == "" {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			addr = strings.TrimSpace(strings.Split(forwarded, ",")[0])
		}
	}
	if addr == "" {
		addr = r.RemoteAddr
	}

	if IsLocalAddr(addr) {
		return "localhost"
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
