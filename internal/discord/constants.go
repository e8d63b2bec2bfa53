package discord

const (
	// StatusHealthy and StatusDegraded are reported by Health
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"

	// MaxMessageLength is Discord's per-message content limit
	MaxMessageLength = 2000
)

const (
	LogMsgBridgeReady    = "Discord bridge ready"
	LogMsgBridgeStarted  = "Discord bridge connected"
	LogMsgBridgeStopped  = "Discord bridge disconnected"
	LogMsgReplyFailed    = "Failed to send Discord reply"
	LogMsgCloseFailed    = "Failed to close Discord session"
	ErrMsgCreateSession  = "error creating Discord session"
	ErrMsgOpenConnection = "error opening connection"
	ErrMsgNoChannel      = "no announcement channel configured"
)
