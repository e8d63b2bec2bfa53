package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/osse101/GameBoxBot_Go/internal/config"
	"github.com/osse101/GameBoxBot_Go/internal/event"
)

// EventSystem is the in-process bus plus the retrying publisher in front
// of it. Services publish through Publisher; subscribers attach to Bus.
type EventSystem struct {
	Bus       *event.MemoryBus
	Publisher *event.ResilientPublisher
}

type retryPolicy struct {
	maxRetries     int
	retryDelay     time.Duration
	deadLetterPath string
}

func retryPolicyFrom(cfg *config.Config) retryPolicy {
	p := retryPolicy{
		maxRetries:     cfg.EventMaxRetries,
		retryDelay:     cfg.EventRetryDelay,
		deadLetterPath: cfg.EventDeadLetterPath,
	}
	if p.maxRetries == 0 {
		p.maxRetries = EventDefaultMaxRetries
	}
	if p.retryDelay == 0 {
		p.retryDelay = EventDefaultRetryDelay
	}
	if p.deadLetterPath == "" {
		p.deadLetterPath = EventDefaultDeadLetterPath
	}
	return p
}

// InitializeEventSystem builds the event system. Zero values in cfg take
// the package defaults; the dead-letter directory is created up front.
func InitializeEventSystem(cfg *config.Config) (*EventSystem, error) {
	policy := retryPolicyFrom(cfg)

	if err := os.MkdirAll(filepath.Dir(policy.deadLetterPath), DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}

	bus := event.NewMemoryBus()
	publisher, err := event.NewResilientPublisher(bus, policy.maxRetries, policy.retryDelay, policy.deadLetterPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateResilientPublisher, err)
	}

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", policy.maxRetries,
		"retry_delay", policy.retryDelay,
		"deadletter_path", policy.deadLetterPath)

	return &EventSystem{Bus: bus, Publisher: publisher}, nil
}
