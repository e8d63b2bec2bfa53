// Package feed streams economy events to dashboards and stream overlays
// over websockets.
package feed

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

// Message is one frame sent to feed clients
type Message struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Client is one connected feed consumer
type Client struct {
	ID       string
	Messages chan Message
	// Filter is nil for all message types
	Filter map[string]bool
}

func (c *Client) wants(msgType string) bool {
	return c.Filter == nil || c.Filter[msgType]
}

// Hub fans broadcast messages out to registered clients
type Hub struct {
	clients    map[string]*Client
	broadcast  chan Message
	register   chan *Client
	unregister chan string
	mu         sync.RWMutex
	shutdown   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan Message, BroadcastBufferSize),
		register:   make(chan *Client, ClientChannelBuffer),
		unregister: make(chan string, ClientChannelBuffer),
		shutdown:   make(chan struct{}),
	}
}

// Start starts the hub's broadcast loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop ends the broadcast loop and closes every client queue
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		for _, client := range h.clients {
			close(client.Messages)
		}
		h.clients = make(map[string]*Client)
		h.mu.Unlock()
	})
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case id := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[id]; ok {
				close(client.Messages)
				delete(h.clients, id)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				if !client.wants(msg.Type) {
					continue
				}
				select {
				case client.Messages <- msg:
				default:
					logger.FromContext(context.Background()).Debug(LogMsgClientLagging, "client_id", client.ID, "type", msg.Type)
				}
			}
			h.mu.RUnlock()

		case <-h.shutdown:
			return
		}
	}
}

// Register adds a client receiving only types, or everything when types is empty
func (h *Hub) Register(types []string) *Client {
	client := &Client{
		ID:       uuid.NewString(),
		Messages: make(chan Message, ClientEventBuffer),
	}
	if len(types) > 0 {
		client.Filter = make(map[string]bool, len(types))
		for _, t := range types {
			client.Filter[t] = true
		}
	}

	select {
	case h.register <- client:
	case <-h.shutdown:
		close(client.Messages)
	}
	return client
}

// Unregister removes a client and closes its queue
func (h *Hub) Unregister(id string) {
	select {
	case h.unregister <- id:
	case <-h.shutdown:
	}
}

// Broadcast queues a message for every interested client. It never blocks;
// when the broadcast buffer is full the message is dropped.
func (h *Hub) Broadcast(msg Message) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}

	select {
	case h.broadcast <- msg:
	default:
		logger.FromContext(context.Background()).Warn(LogMsgBroadcastDropped, "type", msg.Type)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
