package logger

// Level and format names accepted in LOG_LEVEL / LOG_FORMAT
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"

	LogFormatJSON = "json"
	LogFormatText = "text"
)

const (
	DefaultServiceName = "gamebox-bot"
	DefaultVersion     = "dev"
)

// Environments, matching config.Config.Environment
const (
	EnvironmentDev        = "dev"
	EnvironmentStaging    = "staging"
	EnvironmentProduction = "prod"
	EnvironmentTest       = "test"
)

// Attribute keys added by the logger
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
	AttrKeyTraceID     = "trace_id"
)

// RedactedValue replaces the value of any attribute named in sensitiveKeys
const RedactedValue = "[redacted]"

var sensitiveKeys = map[string]bool{
	"token":         true,
	"discord_token": true,
	"password":      true,
	"db_password":   true,
	"authorization": true,
}
