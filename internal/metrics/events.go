package metrics

import (
	"context"

	"github.com/osse101/GameBoxBot_Go/internal/event"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

// EventMetricsCollector subscribes to economy events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all economy events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	event.SubscribeAll(bus, e.HandleEvent,
		event.BoxPurchased,
		event.BoxOpened,
		event.BoxDepleted,
		event.DailyClaimed,
		event.TradeProposed,
		event.TradeCompleted,
		event.TradeRejected,
		event.TradeExpired,
		event.AccountLevelUp,
		event.CoinsGifted,
		event.PassiveIncome,
	)
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch p := evt.Payload.(type) {
	case event.BoxPurchasedPayloadV1:
		BoxesPurchased.Add(float64(p.Quantity))
	case event.BoxOpenedPayloadV1:
		BoxesOpened.Add(float64(p.Opened))
		for _, item := range p.Items {
			ItemDrops.WithLabelValues(SourceBox, string(item.Rarity)).Inc()
		}
	case event.DepletedPayloadV1:
		Depletions.WithLabelValues(string(p.Rarity)).Inc()
	case event.DailyClaimedPayloadV1:
		DailyClaims.WithLabelValues(string(p.Result.Kind)).Inc()
		if p.Result.Item != nil {
			ItemDrops.WithLabelValues(SourceDaily, string(p.Result.Item.Rarity)).Inc()
		}
	case event.TradePayloadV1:
		Trades.WithLabelValues(string(p.Status)).Inc()
	case event.LevelUpPayloadV1:
		LevelUps.Inc()
	case event.CoinsPayloadV1:
		if evt.Type == event.PassiveIncome {
			PassiveIncomePaid.Add(float64(p.Amount * p.Accounts))
		} else {
			CoinsGifted.Add(float64(p.Amount))
		}
	default:
		logger.FromContext(ctx).Debug(LogMsgUnexpectedPayload, "type", evt.Type)
	}
	return nil
}
