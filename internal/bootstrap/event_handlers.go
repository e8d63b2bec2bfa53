package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/GameBoxBot_Go/internal/chat"
	"github.com/osse101/GameBoxBot_Go/internal/event"
	"github.com/osse101/GameBoxBot_Go/internal/feed"
	"github.com/osse101/GameBoxBot_Go/internal/metrics"
	"github.com/osse101/GameBoxBot_Go/internal/worker"
)

// EventHandlerDependencies holds what event handler registration needs
type EventHandlerDependencies struct {
	EventBus event.Bus
	FeedHub  *feed.Hub
	Sinks    []chat.Sink
}

// EventHandlers is what RegisterEventHandlers started. AnnouncerPool must
// be stopped on shutdown.
type EventHandlers struct {
	Announcer     *chat.Announcer
	AnnouncerPool *worker.Pool
}

// RegisterEventHandlers sets up all event subscribers:
//   - metrics collector (per-type counters)
//   - live feed subscriber (websocket fan-out), when a hub is given
//   - announcer (rare drops and level ups to chat sinks)
func RegisterEventHandlers(ctx context.Context, deps EventHandlerDependencies) *EventHandlers {
	metrics.NewEventMetricsCollector().Register(deps.EventBus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	if deps.FeedHub != nil {
		feed.NewSubscriber(deps.FeedHub, deps.EventBus).Subscribe()
		slog.Info(LogMsgFeedSubscriberRegistered)
	}

	pool := worker.NewPool(ctx, AnnouncerWorkers, AnnouncerQueueSize)
	pool.Start()
	announcer := chat.NewAnnouncer(pool, deps.Sinks...)
	announcer.Register(deps.EventBus)
	slog.Info(LogMsgAnnouncerRegistered, "sinks", len(deps.Sinks))

	return &EventHandlers{Announcer: announcer, AnnouncerPool: pool}
}
