// Package discord bridges a Discord channel to the chat router: messages in
// the channel are handled like stream chat lines and replies go back to it.
package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/GameBoxBot_Go/internal/chat"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

// Handler handles one chat line and returns the replies
type Handler interface {
	Handle(ctx context.Context, msg chat.Message) []string
}

// sender is the part of the discordgo session the bridge writes through
type sender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Config holds the bot configuration
type Config struct {
	Token string
	// ChannelID is the channel the bot listens to and announces in. Empty
	// means every channel the bot can read, with announcements disabled.
	ChannelID string
}

// Bot relays messages between Discord and the chat router
type Bot struct {
	session   *discordgo.Session
	send      sender
	router    Handler
	channelID string

	mu        sync.RWMutex
	selfID    string
	lastSeen  time.Time
	started   time.Time
	connected atomic.Bool
	handled   atomic.Int64
}

// New creates a new Discord bot
func New(cfg Config, router Handler) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateSession, err)
	}
	s.Identify.Intents = discordgo.IntentGuildMessages | discordgo.IntentMessageContent

	b := newBot(s, router, cfg.ChannelID)
	b.session = s
	return b, nil
}

func newBot(send sender, router Handler, channelID string) *Bot {
	return &Bot{
		send:      send,
		router:    router,
		channelID: channelID,
		started:   time.Now(),
	}
}

// Start opens the gateway connection
func (b *Bot) Start() error {
	b.session.AddHandler(b.ready)
	b.session.AddHandler(b.messageCreate)
	b.session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) {
		b.connected.Store(false)
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgOpenConnection, err)
	}
	b.connected.Store(true)
	logger.FromContext(context.Background()).Info(LogMsgBridgeStarted, "channel", b.channelID)
	return nil
}

// Stop closes the gateway connection
func (b *Bot) Stop() {
	b.connected.Store(false)
	if b.session == nil {
		return
	}
	if err := b.session.Close(); err != nil {
		logger.FromContext(context.Background()).Warn(LogMsgCloseFailed, "error", err)
		return
	}
	logger.FromContext(context.Background()).Info(LogMsgBridgeStopped)
}

func (b *Bot) ready(_ *discordgo.Session, r *discordgo.Ready) {
	b.connected.Store(true)
	if r.User == nil {
		return
	}
	b.mu.Lock()
	b.selfID = r.User.ID
	b.mu.Unlock()
	logger.FromContext(context.Background()).Info(LogMsgBridgeReady, "user", r.User.Username)
}

func (b *Bot) messageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	b.handleMessage(context.Background(), m.Message)
}

func (b *Bot) handleMessage(ctx context.Context, m *discordgo.Message) {
	if m == nil || m.Author == nil || m.Author.Bot {
		return
	}
	b.mu.RLock()
	self := b.selfID
	b.mu.RUnlock()
	if m.Author.ID == self {
		return
	}
	if b.channelID != "" && m.ChannelID != b.channelID {
		return
	}

	b.handled.Add(1)
	b.mu.Lock()
	b.lastSeen = time.Now()
	b.mu.Unlock()

	replies := b.router.Handle(ctx, chat.Message{
		Username:    m.Author.Username,
		DisplayName: m.Author.GlobalName,
		Text:        m.Content,
	})
	for _, text := range replies {
		if _, err := b.send.ChannelMessageSend(m.ChannelID, truncate(text)); err != nil {
			logger.FromContext(ctx).Warn(LogMsgReplyFailed, "channel", m.ChannelID, "error", err)
		}
	}
}

// Say posts an announcement to the configured channel. It satisfies chat.Sink.
func (b *Bot) Say(_ context.Context, text string) error {
	if b.channelID == "" {
		return errors.New(ErrMsgNoChannel)
	}
	_, err := b.send.ChannelMessageSend(b.channelID, truncate(text))
	return err
}

func truncate(text string) string {
	r := []rune(text)
	if len(r) <= MaxMessageLength {
		return text
	}
	return string(r[:MaxMessageLength-1]) + "…"
}
