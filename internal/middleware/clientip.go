package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/sebest/xff"
)

type contextKey string

const (
	ClientIPKey contextKey = "client_ip"
)

// ParseTrustedProxies turns CIDRs or bare addresses into networks for ClientIP
func ParseTrustedProxies(entries []string) ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", entry)
			}
			bits := 128
			if ip.To4() != nil {
				bits = 32
			}
			entry = fmt.Sprintf("%s/%d", entry, bits)
		}
		_, n, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		nets = append(nets, n)
	}
	return nets, nil
}

// ClientIP resolves the caller address once and stores it in the request context.
// X-Forwarded-For and X-Real-IP are honoured only when the direct peer is a trusted proxy;
// with no trusted proxies the peer address is used as is.
func ClientIP(trustedProxies []*net.IPNet) func(http.Handler) http.Handler {
	trusted := func(ip string) bool {
		parsed := net.ParseIP(ip)
		if parsed == nil {
			return false
		}
		for _, n := range trustedProxies {
			if n.Contains(parsed) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ClientIPKey, resolveClientIP(r, trusted))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientIP returns the address stored by ClientIP, or "" outside of it
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ClientIPKey).(string)
	return ip
}

func resolveClientIP(r *http.Request, trusted func(string) bool) string {
	if r.Header.Get("X-Forwarded-For") != "" {
		return hostOnly(xff.GetRemoteAddrIfAllowed(r, trusted))
	}

	peer := hostOnly(r.RemoteAddr)
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" && trusted(peer) && net.ParseIP(xri) != nil {
		return xri
	}
	return peer
}

func hostOnly(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
