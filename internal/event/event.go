package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Event is something the economy did that collaborators may want to surface.
// The core never formats chat text; subscribers do.
type Event struct {
	ID        string      `json:"id"`
	Version   string      `json:"version"`
	Type      Type        `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Economy event types
const (
	BoxPurchased   Type = "box.purchased"
	BoxOpened      Type = "box.opened"
	BoxRareDrop    Type = "box.rare_drop"
	BoxDepleted    Type = "box.depleted"
	DailyClaimed   Type = "daily.claimed"
	TradeProposed  Type = "trade.proposed"
	TradeCompleted Type = "trade.completed"
	TradeRejected  Type = "trade.rejected"
	TradeExpired   Type = "trade.expired"
	AccountLevelUp Type = "account.level_up"
	CoinsGifted    Type = "account.coins_gifted"
	PassiveIncome  Type = "account.passive_income"
	AccountReset   Type = "account.reset"
)

// BoxPurchasedPayloadV1 is the typed payload for box purchases
type BoxPurchasedPayloadV1 struct {
	Username   string `json:"username"`
	Quantity   int    `json:"quantity"`
	CoinsSpent int    `json:"coins_spent"`
}

// BoxOpenedPayloadV1 is the typed payload for a box open call
type BoxOpenedPayloadV1 struct {
	Username string               `json:"username"`
	Opened   int                  `json:"opened"`
	Items    []domain.DroppedItem `json:"items"`
	Depleted []domain.Rarity      `json:"depleted,omitempty"`
}

// RareDropPayloadV1 is published once per announced drop
type RareDropPayloadV1 struct {
	Username string             `json:"username"`
	Item     domain.DroppedItem `json:"item"`
	Source   string             `json:"source"`
}

// DepletedPayloadV1 reports a rolled tier with no eligible items
type DepletedPayloadV1 struct {
	Username string        `json:"username"`
	Rarity   domain.Rarity `json:"rarity"`
}

// DailyClaimedPayloadV1 is the typed payload for daily claims
type DailyClaimedPayloadV1 struct {
	Username string             `json:"username"`
	Result   domain.DailyResult `json:"result"`
}

// TradePayloadV1 is shared by all trade transitions
type TradePayloadV1 struct {
	TradeID       string             `json:"trade_id"`
	Initiator     string             `json:"initiator"`
	Target        string             `json:"target"`
	InitiatorItem string             `json:"initiator_item"`
	TargetItem    string             `json:"target_item"`
	Status        domain.TradeStatus `json:"status"`
	Reason        string             `json:"reason,omitempty"`
}

// LevelUpPayloadV1 is the typed payload for level ups
type LevelUpPayloadV1 struct {
	Username string `json:"username"`
	OldLevel int    `json:"old_level"`
	NewLevel int    `json:"new_level"`
	Title    string `json:"title"`
}

// CoinsPayloadV1 covers gifts and passive income
type CoinsPayloadV1 struct {
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Amount   int    `json:"amount"`
	Accounts int    `json:"accounts,omitempty"`
}

// New creates an event stamped with an ID, schema version and time
func New(t Type, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Version:   EventSchemaVersion,
		Type:      t,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}
}

// NewTradeEvent builds a trade transition event from the stored record
func NewTradeEvent(t Type, trade *domain.Trade, reason string) Event {
	return New(t, TradePayloadV1{
		TradeID:       trade.ID,
		Initiator:     trade.Initiator,
		Target:        trade.Target,
		InitiatorItem: trade.InitiatorItemName,
		TargetItem:    trade.TargetItemName,
		Status:        trade.Status,
		Reason:        reason,
	})
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously and joins their errors
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll subscribes one handler to several event types
func SubscribeAll(bus Bus, handler Handler, types ...Type) {
	for _, t := range types {
		bus.Subscribe(t, handler)
	}
}
