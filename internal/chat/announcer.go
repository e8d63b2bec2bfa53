package chat

import (
	"context"
	"fmt"

	"github.com/osse101/GameBoxBot_Go/internal/daily"
	"github.com/osse101/GameBoxBot_Go/internal/event"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
	"github.com/osse101/GameBoxBot_Go/internal/worker"
)

// Sink posts a line to a chat channel
type Sink interface {
	Say(ctx context.Context, text string) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ctx context.Context, text string) error

// Say calls f
func (f SinkFunc) Say(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Announcer formats rare drops and level ups from the bus and posts them to
// every sink. Delivery runs on a worker pool so a slow transport never holds
// up the economy operation that published the event.
type Announcer struct {
	pool  *worker.Pool
	sinks []Sink
}

// NewAnnouncer creates an Announcer delivering through pool
func NewAnnouncer(pool *worker.Pool, sinks ...Sink) *Announcer {
	return &Announcer{pool: pool, sinks: sinks}
}

// AddSink registers another destination. Call before Register.
func (a *Announcer) AddSink(s Sink) {
	a.sinks = append(a.sinks, s)
}

// Register subscribes the announcer to the events it formats
func (a *Announcer) Register(bus event.Bus) {
	types := []event.Type{event.BoxRareDrop, event.AccountLevelUp}
	event.SubscribeAll(bus, a.handle, types...)
	logger.FromContext(context.Background()).Info(LogMsgAnnouncerReady, "types", types, "sinks", len(a.sinks))
}

func (a *Announcer) handle(ctx context.Context, evt event.Event) error {
	text, ok := Announcement(evt)
	if !ok {
		logger.FromContext(ctx).Warn(LogMsgUnexpectedPayload, "type", evt.Type)
		return nil
	}
	for _, sink := range a.sinks {
		sink := sink
		queued := a.pool.Enqueue(worker.JobFunc(func(ctx context.Context) error {
			if err := sink.Say(ctx, text); err != nil {
				return fmt.Errorf("%s: %w", LogMsgAnnounceFailed, err)
			}
			return nil
		}))
		if !queued {
			logger.FromContext(ctx).Warn(LogMsgAnnounceQueueFull, "type", evt.Type)
		}
	}
	return nil
}

// Announcement renders the chat line for an announced event
func Announcement(evt event.Event) (string, bool) {
	switch p := evt.Payload.(type) {
	case event.RareDropPayloadV1:
		suffix := ""
		if p.Source == daily.EventSourceDaily {
			suffix = AnnounceFromDaily
		}
		return fmt.Sprintf(AnnounceRareDrop, p.Username, p.Item.Name, p.Item.Rarity, suffix), true
	case event.LevelUpPayloadV1:
		return fmt.Sprintf(AnnounceLevelUp, p.Username, p.NewLevel, title(p.Title)), true
	default:
		return "", false
	}
}
