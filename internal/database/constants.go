package database

import "time"

const (
	// DefaultMinConns keeps a couple of warm connections for chat bursts
	DefaultMinConns = 2

	// DefaultConnectAttempts covers a database container that is still starting
	DefaultConnectAttempts = 5

	// DefaultConnectBackoff is the wait before the second attempt; it doubles after each failure
	DefaultConnectBackoff = 500 * time.Millisecond
)

const (
	ErrMsgParseConnString = "failed to parse connection string"
	ErrMsgCreatePool      = "failed to create connection pool"
	ErrMsgPingDatabase    = "database unreachable"

	LogMsgConnected    = "Connected to database"
	LogMsgPingRetrying = "Database not ready, retrying"
)
