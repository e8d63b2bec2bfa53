package server

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// RequestSizeLimitMiddleware limits request body size
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiter counts requests per client IP in fixed windows. A window starts
// at an IP's first request and the entry expires with it.
type RateLimiter struct {
	mu     sync.Mutex
	counts *expirable.LRU[string, *int]
	limit  int
}

// NewRateLimiter allows limit requests per IP per window
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counts: expirable.NewLRU[string, *int](rateLimitMaxClients, nil, window),
		limit:  limit,
	}
}

// Allow records a request from ip and reports whether it is within the limit
func (l *RateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	count, ok := l.counts.Get(ip)
	if !ok {
		n := 0
		count = &n
		l.counts.Add(ip, count)
	}
	*count++

	if *count > l.limit {
		if (*count-l.limit)%100 == 1 {
			slog.Warn(SecurityAlertHighRate, "ip", ip, "count", *count)
		}
		return false
	}
	return true
}

// Count returns the requests recorded for ip in its current window
func (l *RateLimiter) Count(ip string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if count, ok := l.counts.Get(ip); ok {
		return *count
	}
	return 0
}

// RateLimitMiddleware rejects clients over the limit with 429
func RateLimitMiddleware(proxies TrustedProxies, limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(proxies.ClientIP(r)) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TrustedProxies are the peers whose X-Forwarded-For header is believed
type TrustedProxies []netip.Prefix

// ParseTrustedProxies accepts single IPs and CIDR ranges. Invalid entries are
// logged and skipped.
func ParseTrustedProxies(entries []string) TrustedProxies {
	var out TrustedProxies
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if p, err := netip.ParsePrefix(e); err == nil {
			out = append(out, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(e); err == nil {
			out = append(out, netip.PrefixFrom(a, a.BitLen()))
			continue
		}
		slog.Warn(LogMsgInvalidProxy, "entry", e)
	}
	return out
}

func (t TrustedProxies) contains(ip string) bool {
	a, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range t {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// ClientIP returns the client address. X-Forwarded-For is only read when the
// direct peer is a trusted proxy, and then its rightmost entry is used.
func (t TrustedProxies) ClientIP(r *http.Request) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if t.contains(remoteIP) {
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			ips := strings.Split(forwarded, ",")
			if last := strings.TrimSpace(ips[len(ips)-1]); last != "" {
				return last
			}
		}
	}
	return remoteIP
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderContentType, HeaderValueNoSniff)
			w.Header().Set(HeaderFrameOptions, HeaderValueSameOrigin)
			w.Header().Set(HeaderXSSProtection, HeaderValueXSSBlock)
			w.Header().Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)
			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed builds the websocket origin check from the CORS allow-list.
// An empty list or "*" accepts any origin.
func originAllowed(allowed []string) func(r *http.Request) bool {
	for _, o := range allowed {
		if o == "*" {
			return nil
		}
	}
	if len(allowed) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.ToLower(strings.TrimRight(o, "/"))] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}
