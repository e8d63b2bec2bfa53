package feed

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 100

	// ClientEventBuffer is the buffer size for each client's outgoing queue
	ClientEventBuffer = 50

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 10
)

// Connection settings
const (
	// PingInterval is how often the server pings an idle client
	PingInterval = 30 * time.Second

	// PongWait is how long a client may stay silent before it is dropped
	PongWait = 2 * PingInterval

	// WriteTimeout bounds a single frame write
	WriteTimeout = 10 * time.Second

	// MaxReadBytes caps inbound frames; clients only send control frames
	MaxReadBytes = 512
)

// Query parameter selecting event types, comma separated
const QueryTypes = "types"

// MessageTypeConnected is the first frame every client receives
const MessageTypeConnected = "connected"

// Log messages
const (
	LogMsgClientConnected    = "Feed client connected"
	LogMsgClientDisconnected = "Feed client disconnected"
	LogMsgUpgradeFailed      = "Feed websocket upgrade failed"
	LogMsgEventBroadcast     = "Broadcasting feed event"
	LogMsgBroadcastDropped   = "Feed broadcast buffer full, dropping event"
	LogMsgClientLagging      = "Feed client buffer full, skipping event"
	LogMsgWriteError         = "Failed to write feed frame"
	LogMsgSubscriberReady    = "Feed subscriber registered for event types"
)
