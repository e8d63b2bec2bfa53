package discord

import (
	"time"
)

// HealthStatus represents the bridge's health status
type HealthStatus struct {
	Status           string    `json:"status"`
	Uptime           string    `json:"uptime"`
	Connected        bool      `json:"connected"`
	MessagesHandled  int64     `json:"messages_handled"`
	LastMessageTime  time.Time `json:"last_message_time,omitempty"`
	AnnouncesEnabled bool      `json:"announces_enabled"`
}

// Health reports the bridge's connection state and traffic
func (b *Bot) Health() HealthStatus {
	connected := b.connected.Load()
	status := StatusHealthy
	if !connected {
		status = StatusDegraded
	}

	b.mu.RLock()
	last := b.lastSeen
	b.mu.RUnlock()

	return HealthStatus{
		Status:           status,
		Uptime:           time.Since(b.started).Round(time.Second).String(),
		Connected:        connected,
		MessagesHandled:  b.handled.Load(),
		LastMessageTime:  last,
		AnnouncesEnabled: b.channelID != "",
	}
}
