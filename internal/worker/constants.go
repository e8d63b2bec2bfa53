package worker

import "time"

// Worker names used in logs
const (
	NameTradeExpiry   = "trade expiry worker"
	NamePassiveIncome = "passive income worker"
)

// DefaultTradeSweepInterval is how often stale trades are swept
const DefaultTradeSweepInterval = 30 * time.Second

// IdleRecheckInterval is how long the passive income worker waits before
// reading the configuration again while passive income is switched off
const IdleRecheckInterval = time.Minute

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// LogMsgPoolQueueFull is logged when a job is dropped because the queue is full
const LogMsgPoolQueueFull = "Worker pool queue full, dropping job"

// ============================================================================
// Log Messages - Scheduled Workers
// ============================================================================

const (
	LogMsgWorkerStarted         = "Worker started"
	LogMsgWorkerStopping        = "Shutting down worker"
	LogMsgWorkerStopped         = "Worker shutdown complete"
	LogMsgWorkerShutdownTimeout = "Worker shutdown timeout, a run may still be in progress"

	LogMsgTradeSweepFailed   = "Trade expiry sweep failed"
	LogMsgPassiveRunFailed   = "Passive income run failed"
	LogMsgPassiveConfigError = "Failed to read passive income interval"
	LogMsgPassiveDisabled    = "Passive income disabled, checking again later"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount      = 2
	TestQueueSize        = 10
	TestExpectedJobCount = 2
)
