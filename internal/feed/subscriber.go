package feed

import (
	"context"

	"github.com/osse101/GameBoxBot_Go/internal/event"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

// PublicTypes are the bus events forwarded to feed clients
var PublicTypes = []event.Type{
	event.BoxOpened,
	event.BoxRareDrop,
	event.BoxDepleted,
	event.DailyClaimed,
	event.TradeProposed,
	event.TradeCompleted,
	event.TradeRejected,
	event.TradeExpired,
	event.AccountLevelUp,
	event.CoinsGifted,
}

// Subscriber bridges the event bus to the hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new feed subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{hub: hub, bus: bus}
}

// Subscribe registers the bridge for every public event type
func (s *Subscriber) Subscribe() {
	event.SubscribeAll(s.bus, s.handle, PublicTypes...)
	logger.FromContext(context.Background()).Info(LogMsgSubscriberReady, "types", PublicTypes)
}

// Payloads are already JSON shaped, so events pass through unchanged
func (s *Subscriber) handle(ctx context.Context, evt event.Event) error {
	s.hub.Broadcast(Message{
		ID:        evt.ID,
		Type:      string(evt.Type),
		Timestamp: evt.Timestamp,
		Payload:   evt.Payload,
	})
	logger.FromContext(ctx).Debug(LogMsgEventBroadcast, "type", evt.Type, "event_id", evt.ID)
	return nil
}
