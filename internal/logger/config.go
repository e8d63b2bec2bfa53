package logger

import (
	"log/slog"
	"strings"
)

// Config represents logger configuration
type Config struct {
	Level       string
	Format      string
	ServiceName string
	Version     string
	Environment string
	AddSource   bool
}

// ForEnvironment builds a Config from the process settings. Blank level or
// format fall back per environment: dev logs debug text with source
// locations, test logs info text, staging and prod log info JSON.
func ForEnvironment(env, level, format, version string) Config {
	env = strings.ToLower(strings.TrimSpace(env))
	if env == "" {
		env = EnvironmentDev
	}
	if version == "" {
		version = DefaultVersion
	}

	cfg := Config{
		Level:       strings.ToLower(level),
		Format:      strings.ToLower(format),
		ServiceName: DefaultServiceName,
		Version:     version,
		Environment: env,
		AddSource:   env == EnvironmentDev,
	}
	if cfg.Level == "" {
		cfg.Level = LogLevelInfo
		if env == EnvironmentDev {
			cfg.Level = LogLevelDebug
		}
	}
	if cfg.Format == "" {
		cfg.Format = LogFormatText
		if env == EnvironmentStaging || env == EnvironmentProduction {
			cfg.Format = LogFormatJSON
		}
	}
	return cfg
}

// LogLevel converts string level to slog.Level
func (c Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn, LogLevelWarning:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsJSON returns true if format is JSON
func (c Config) IsJSON() bool {
	return strings.ToLower(c.Format) == LogFormatJSON
}

// BaseAttributes returns attributes added to every record. Empty values
// are left out.
func (c Config) BaseAttributes() []slog.Attr {
	var attrs []slog.Attr
	for _, a := range []slog.Attr{
		slog.String(AttrKeyService, c.ServiceName),
		slog.String(AttrKeyVersion, c.Version),
		slog.String(AttrKeyEnvironment, c.Environment),
	} {
		if a.Value.String() != "" {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// redact masks secrets logged under a known key, at any group depth
func redact(_ []string, a slog.Attr) slog.Attr {
	if sensitiveKeys[strings.ToLower(a.Key)] && a.Value.Kind() != slog.KindGroup {
		return slog.String(a.Key, RedactedValue)
	}
	return a
}
