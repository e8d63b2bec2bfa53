package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

type retryItem struct {
	event   Event
	attempt int
	lastErr error
}

// ResilientPublisher wraps a Bus. Failed publishes are retried in the
// background with exponential backoff and dead-lettered once retries run out.
type ResilientPublisher struct {
	inner      Bus
	maxRetries int
	baseDelay  time.Duration
	deadLetter *DeadLetterWriter

	queue     chan retryItem
	shutdown  chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewResilientPublisher creates a publisher and starts its retry worker
func NewResilientPublisher(inner Bus, maxRetries int, baseDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dlw, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dead-letter file: %w", err)
	}

	p := &ResilientPublisher{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		deadLetter: dlw,
		queue:      make(chan retryItem, RetryQueueBufferSize),
		shutdown:   make(chan struct{}),
	}

	p.wg.Add(1)
	go p.run()
	return p, nil
}

// Publish delivers synchronously when possible. A failed delivery is queued
// for retry and nil is returned so callers never fail on event delivery.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return nil
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err)

	select {
	case <-p.shutdown:
		p.writeDeadLetter(event, 1, err)
		return nil
	default:
	}

	select {
	case p.queue <- retryItem{event: event, attempt: 1, lastErr: err}:
	default:
		logger.FromContext(ctx).Error(LogMsgRetryQueueFull, "event_type", event.Type)
		p.writeDeadLetter(event, 1, err)
	}
	return nil
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

func (p *ResilientPublisher) run() {
	defer p.wg.Done()

	for {
		select {
		case item := <-p.queue:
			p.retry(item)
		case <-p.shutdown:
			p.drain()
			return
		}
	}
}

func (p *ResilientPublisher) retry(item retryItem) {
	log := logger.FromContext(context.Background())

	for item.attempt <= p.maxRetries {
		timer := time.NewTimer(CalculateRetryDelay(p.baseDelay, item.attempt))
		select {
		case <-timer.C:
		case <-p.shutdown:
			timer.Stop()
			p.writeDeadLetter(item.event, item.attempt, item.lastErr)
			return
		}

		err := p.inner.Publish(context.Background(), item.event)
		if err == nil {
			log.Info(LogMsgEventRetrySucceeded, "event_type", item.event.Type, "attempt", item.attempt)
			return
		}

		log.Warn(LogMsgEventRetryFailed, "event_type", item.event.Type, "attempt", item.attempt, "error", err)
		item.lastErr = err
		item.attempt++
	}

	log.Error(LogMsgEventRetryExhausted, "event_type", item.event.Type, "attempts", p.maxRetries)
	p.writeDeadLetter(item.event, p.maxRetries, item.lastErr)
}

func (p *ResilientPublisher) drain() {
	drained := 0
	for {
		select {
		case item := <-p.queue:
			p.writeDeadLetter(item.event, item.attempt, item.lastErr)
			drained++
		default:
			if drained > 0 {
				logger.FromContext(context.Background()).Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

func (p *ResilientPublisher) writeDeadLetter(event Event, attempts int, lastErr error) {
	if err := p.deadLetter.Write(event, attempts, lastErr); err != nil {
		logger.FromContext(context.Background()).Error(LogMsgDeadLetterWriteFailed, "error", err)
	}
}

// Shutdown stops the retry worker, dead-letters anything still queued and
// closes the dead-letter file.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.closeOnce.Do(func() { close(p.shutdown) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return p.deadLetter.Close()
	case <-ctx.Done():
		logger.FromContext(ctx).Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
