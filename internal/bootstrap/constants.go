package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of older log files kept next to the new one
	LogFileRetentionCount = 9
)

const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingApp         = "Starting GameBoxBot"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgConfigWarning       = "Configuration warning"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	// EventDefaultMaxRetries is the default number of retry attempts for failed event publishing
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the default base delay between retry attempts (exponential backoff)
	EventDefaultRetryDelay = 2 * time.Second

	// EventDefaultDeadLetterPath is the default file path for dead-letter event logging
	EventDefaultDeadLetterPath = "logs/event_deadletter.jsonl"
)

const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// =============================================================================
// Store
// =============================================================================

const (
	LogMsgStoreOpened          = "Store opened"
	LogMsgMigrationsApplied    = "Database migrations applied"
	ErrMsgUnknownStore         = "unknown store backend"
	ErrMsgFailedConnectDB      = "failed to connect to database"
	ErrMsgFailedApplyMigration = "failed to apply migrations"
)

// =============================================================================
// Seed Sync
// =============================================================================

const (
	LogMsgSyncingEconomyConfig = "Syncing economy config from file..."
	LogMsgEconomyConfigSynced  = "Economy config synced successfully"
	LogMsgSyncingCatalog       = "Syncing catalog from seed file..."
	LogMsgCatalogSynced        = "Catalog synced successfully"

	ErrMsgFailedSyncEconomyConfig = "failed to sync economy config"
	ErrMsgFailedSyncCatalog       = "failed to sync catalog"
)

// =============================================================================
// Event Handler Configuration
// =============================================================================

const (
	// AnnouncerWorkers is the number of goroutines delivering chat announcements
	AnnouncerWorkers = 2

	// AnnouncerQueueSize bounds the announcements waiting for a sink
	AnnouncerQueueSize = 100
)

const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgFeedSubscriberRegistered   = "Live feed subscriber registered"
	LogMsgAnnouncerRegistered        = "Announcer registered"
)

// =============================================================================
// Shutdown
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgShuttingDownWorkers        = "Stopping background workers..."
	LogMsgWorkerShutdownFailed       = " worker shutdown failed"
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgTracerShutdownFailed       = "Tracer shutdown failed"
	LogMsgServerStopped              = "Server stopped"

	WorkerNameTradeExpiry   = "trade expiry"
	WorkerNamePassiveIncome = "passive income"
)
