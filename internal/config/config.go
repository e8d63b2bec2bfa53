package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the process configuration. Economy rules live in the
// settings service, not here.
type Config struct {
	Environment string `validate:"required,oneof=dev staging prod test"`
	Version     string
	Port        int    `validate:"min=1,max=65535"`
	LogLevel    string `validate:"oneof=debug info warn warning error"`
	LogFormat   string `validate:"oneof=text json"`
	LogDir      string `validate:"required"`

	Store              string `validate:"oneof=memory postgres"`
	DBUser             string `validate:"required_if=Store postgres"`
	DBPassword         string
	DBHost             string `validate:"required_if=Store postgres"`
	DBPort             string `validate:"required_if=Store postgres"`
	DBName             string `validate:"required_if=Store postgres"`
	DBMaxConns         int    `validate:"min=1"`
	DBMaxConnIdleTime  time.Duration
	DBMaxConnLifetime  time.Duration
	EconomyConfigPath  string
	CatalogSeedPath    string
	TradeSweepInterval time.Duration `validate:"min=1s"`

	EventMaxRetries     int `validate:"min=0"`
	EventRetryDelay     time.Duration
	EventDeadLetterPath string `validate:"required"`

	DiscordToken     string
	DiscordChannelID string

	CORSAllowedOrigins []string
	TrustedProxies     []string `validate:"dive,cidr|ip"`

	TracingEnabled  bool
	JaegerEndpoint  string `validate:"required_if=TracingEnabled true,omitempty,url"`
	ShutdownTimeout time.Duration
}

// Load loads the configuration from the environment and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: strings.ToLower(getEnv(EnvEnvironment, "dev")),
		Version:     getEnv(EnvVersion, "dev"),
		Port:        getEnvAsInt(EnvPort, DefaultPort),
		LogLevel:    strings.ToLower(getEnv(EnvLogLevel, "info")),
		LogFormat:   strings.ToLower(getEnv(EnvLogFormat, "text")),
		LogDir:      getEnv(EnvLogDir, "logs"),

		Store:              strings.ToLower(getEnv(EnvStore, StoreMemory)),
		DBUser:             getEnv(EnvDBUser, "postgres"),
		DBPassword:         getEnv(EnvDBPassword, "postgres"),
		DBHost:             getEnv(EnvDBHost, "localhost"),
		DBPort:             getEnv(EnvDBPort, "5432"),
		DBName:             getEnv(EnvDBName, "gameboxbot"),
		DBMaxConns:         getEnvAsInt(EnvDBMaxConns, DefaultDBMaxConns),
		DBMaxConnIdleTime:  getEnvAsDuration(EnvDBMaxConnIdleTime, DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime:  getEnvAsDuration(EnvDBMaxConnLifetime, DefaultDBMaxConnLifetime),
		EconomyConfigPath:  getEnv(EnvEconomyConfigPath, ""),
		CatalogSeedPath:    getEnv(EnvCatalogSeedPath, ""),
		TradeSweepInterval: getEnvAsDuration(EnvTradeSweepInterval, DefaultTradeSweepInterval),

		EventMaxRetries:     getEnvAsInt(EnvEventMaxRetries, DefaultEventMaxRetries),
		EventRetryDelay:     getEnvAsDuration(EnvEventRetryDelay, DefaultEventRetryDelay),
		EventDeadLetterPath: getEnv(EnvEventDeadLetterPath, DefaultEventDeadLetter),

		DiscordToken:     getEnv(EnvDiscordToken, ""),
		DiscordChannelID: getEnv(EnvDiscordChannelID, ""),

		CORSAllowedOrigins: getEnvAsList(EnvCORSAllowedOrigins, []string{"*"}),
		TrustedProxies:     getEnvAsList(EnvTrustedProxies, nil),

		TracingEnabled:  getEnvAsBool(EnvTracingEnabled, false),
		JaegerEndpoint:  getEnv(EnvJaegerEndpoint, DefaultJaegerEndpoint),
		ShutdownTimeout: getEnvAsDuration(EnvShutdownTimeout, DefaultShutdownTimeout),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DiscordEnabled reports whether the Discord bridge should start
func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != ""
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvAsDuration accepts Go durations ("30s") or whole seconds ("30")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key string, defaultValue []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
