package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert message templates
const (
	SecurityAlertHighRate = "SECURITY ALERT: Blocking high request rate"
)

// Log messages for server lifecycle
const (
	LogMsgServerStarting = "Server starting"
	LogMsgServerStopping = "Server stopping"
	LogMsgInvalidProxy   = "Ignoring invalid trusted proxy"
	LogMsgFeedDisabled   = "Feed hub not configured, websocket feed disabled"
)

// HTTP header names
const (
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// Limits
const (
	// MaxRequestBodyBytes caps every request body
	MaxRequestBodyBytes = 1 << 20

	// RateLimitRequests is how many requests one client IP may make per window
	RateLimitRequests = 1000
	RateLimitWindow   = 5 * time.Minute

	// rateLimitMaxClients bounds the number of tracked IPs
	rateLimitMaxClients = 10_000

	// CORSMaxAge is how long browsers may cache a preflight, in seconds
	CORSMaxAge = 300

	ReadHeaderTimeout = 5 * time.Second
	IdleTimeout       = 120 * time.Second
)
