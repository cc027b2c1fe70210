package handlers

import (
	"net"
	"net/http"
	"strings"
)

// RateLimiter guards the endpoints that reach out to YouTube.
type RateLimiter interface {
	Allow(key string) bool
}

// allowRequest consults limiter with a "<scope>:<client ip>" key.
func allowRequest(limiter RateLimiter, r *http.Request, scope string) bool {
	if limiter == nil {
		return true
	}
	key := clientIP(r)
	if scope != "" {
		key = scope + ":" + key
	}
	return limiter.Allow(key)
}

// clientIP prefers the first well-formed address of X-Forwarded-For and falls
// back to the peer address.
func clientIP(r *http.Request) string {
	for _, candidate := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		if ip := net.ParseIP(strings.TrimSpace(candidate)); ip != nil {
			return ip.String()
		}
	}

	remote := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(remote); err == nil && host != "" {
		return host
	}
	return remote
}
