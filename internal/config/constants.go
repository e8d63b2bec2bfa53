package config

import "time"

// Environment variable names
const (
	EnvEnvironment         = "ENVIRONMENT"
	EnvVersion             = "VERSION"
	EnvPort                = "PORT"
	EnvLogLevel            = "LOG_LEVEL"
	EnvLogFormat           = "LOG_FORMAT"
	EnvLogDir              = "LOG_DIR"
	EnvStore               = "STORE"
	EnvDBUser              = "DB_USER"
	EnvDBPassword          = "DB_PASSWORD"
	EnvDBHost              = "DB_HOST"
	EnvDBPort              = "DB_PORT"
	EnvDBName              = "DB_NAME"
	EnvDBMaxConns          = "DB_MAX_CONNS"
	EnvDBMaxConnIdleTime   = "DB_MAX_CONN_IDLE_TIME"
	EnvDBMaxConnLifetime   = "DB_MAX_CONN_LIFETIME"
	EnvEconomyConfigPath   = "ECONOMY_CONFIG_PATH"
	EnvCatalogSeedPath     = "CATALOG_SEED_PATH"
	EnvTradeSweepInterval  = "TRADE_SWEEP_INTERVAL"
	EnvEventMaxRetries     = "EVENT_MAX_RETRIES"
	EnvEventRetryDelay     = "EVENT_RETRY_DELAY"
	EnvEventDeadLetterPath = "EVENT_DEADLETTER_PATH"
	EnvDiscordToken        = "DISCORD_TOKEN"
	EnvDiscordChannelID    = "DISCORD_CHANNEL_ID"
	EnvCORSAllowedOrigins  = "CORS_ALLOWED_ORIGINS"
	EnvTrustedProxies      = "TRUSTED_PROXIES"
	EnvTracingEnabled      = "TRACING_ENABLED"
	EnvJaegerEndpoint      = "JAEGER_ENDPOINT"
	EnvShutdownTimeout     = "SHUTDOWN_TIMEOUT"
)

// Store backends
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Defaults
const (
	DefaultPort               = 8080
	DefaultDBMaxConns         = 25
	DefaultDBMaxConnIdleTime  = 30 * time.Minute
	DefaultDBMaxConnLifetime  = time.Hour
	DefaultTradeSweepInterval = 30 * time.Second
	DefaultEventMaxRetries    = 5
	DefaultEventRetryDelay    = 2 * time.Second
	DefaultEventDeadLetter    = "logs/event_deadletter.jsonl"
	DefaultShutdownTimeout    = 15 * time.Second
	DefaultJaegerEndpoint     = "http://localhost:14268/api/traces"
)

const (
	ErrMsgInvalidConfig  = "invalid configuration"
	WarnMsgDefaultDBPass = "DB_PASSWORD is the development default"
	WarnMsgOpenCORS      = "CORS allows every origin"
	WarnMsgNoAnnounce    = "DISCORD_CHANNEL_ID is empty, Discord announcements are off"
)
