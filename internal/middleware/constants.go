package middleware

// HeaderRequestID carries the request ID in and out
const HeaderRequestID = "X-Request-ID"

// MaxRequestIDLength bounds a caller supplied request ID
const MaxRequestIDLength = 64

const (
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	RedactedValue          = "[REDACTED]"
	SpanNamePrefix         = "HTTP "
)

// QuietPaths are served without request logs
var QuietPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
}

// redactedHeaders never reach the logs
var redactedHeaders = []string{"Authorization", "X-API-Key", "Cookie"}

// Span attribute keys
const (
	AttrHTTPMethod     = "http.method"
	AttrHTTPTarget     = "http.target"
	AttrHTTPRoute      = "http.route"
	AttrHTTPStatusCode = "http.status_code"
)
