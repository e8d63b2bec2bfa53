package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	// ARRANGE
	limiter := NewRateLimiter(5, time.Minute)
	h := RateLimitMiddleware(nil, limiter)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.168.1.100:1234"

	// ACT + ASSERT
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 6, limiter.Count("192.168.1.100"))

	// Other clients are unaffected
	other := httptest.NewRequest(http.MethodGet, "/test", nil)
	other.RemoteAddr = "10.0.0.9:555"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_WindowExpires(t *testing.T) {
	limiter := NewRateLimiter(1, 50*time.Millisecond)

	assert.True(t, limiter.Allow("1.2.3.4"))
	assert.False(t, limiter.Allow("1.2.3.4"))

	assert.Eventually(t, func() bool {
		return limiter.Count("1.2.3.4") == 0
	}, time.Second, 10*time.Millisecond)
	assert.True(t, limiter.Allow("1.2.3.4"))
}

func TestTrustedProxies_ClientIP(t *testing.T) {
	proxies := ParseTrustedProxies([]string{"10.0.0.0/8", "172.16.0.5", "not-an-ip", ""})
	require.Len(t, proxies, 2)

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"direct client", "203.0.113.7:4000", "", "203.0.113.7"},
		{"untrusted peer cannot spoof", "203.0.113.7:4000", "1.1.1.1", "203.0.113.7"},
		{"trusted cidr uses rightmost hop", "10.1.2.3:80", "198.51.100.1, 198.51.100.2", "198.51.100.2"},
		{"trusted single ip", "172.16.0.5:80", "198.51.100.9", "198.51.100.9"},
		{"trusted peer without header", "10.1.2.3:80", "", "10.1.2.3"},
		{"unparseable remote addr", "garbage", "", "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set(HeaderForwardedFor, tt.forwarded)
			}
			assert.Equal(t, tt.want, proxies.ClientIP(req))
		})
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeadersMiddleware()(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
	assert.Equal(t, HeaderValueSameOrigin, rec.Header().Get(HeaderFrameOptions))
	assert.Equal(t, HeaderValueXSSBlock, rec.Header().Get(HeaderXSSProtection))
	assert.Equal(t, HeaderValueReferrerStrictOrigin, rec.Header().Get(HeaderReferrerPolicy))
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	var readErr error
	h := RequestSizeLimitMiddleware(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("short")))
	assert.NoError(t, readErr)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("much too long")))
	assert.Error(t, readErr)
}

func TestOriginAllowed(t *testing.T) {
	assert.Nil(t, originAllowed(nil))
	assert.Nil(t, originAllowed([]string{"https://a.example", "*"}))

	check := originAllowed([]string{"https://Dash.example/"})
	require.NotNil(t, check)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, check(req), "no Origin header")

	req.Header.Set("Origin", "https://dash.example")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(req))
}
