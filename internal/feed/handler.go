package feed

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

// Handler upgrades the request to a websocket and streams hub messages.
// checkOrigin may be nil to accept any origin.
func Handler(hub *Hub, checkOrigin func(r *http.Request) bool) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     checkOrigin,
	}
	if upgrader.CheckOrigin == nil {
		upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}

	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var types []string
		if raw := r.URL.Query().Get(QueryTypes); raw != "" {
			for _, t := range strings.Split(raw, ",") {
				if t = strings.TrimSpace(t); t != "" {
					types = append(types, t)
				}
			}
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error
			log.Warn(LogMsgUpgradeFailed, "error", err)
			return
		}
		defer conn.Close()

		client := hub.Register(types)
		log.Info(LogMsgClientConnected, "client_id", client.ID, "filters", types, "total_clients", hub.ClientCount())
		defer func() {
			hub.Unregister(client.ID)
			log.Info(LogMsgClientDisconnected, "client_id", client.ID)
		}()

		closed := readPump(conn)

		hello := Message{
			ID:        client.ID,
			Type:      MessageTypeConnected,
			Timestamp: time.Now().Unix(),
			Payload:   map[string]interface{}{"client_id": client.ID, "filters": types},
		}
		if err := writeJSON(conn, hello); err != nil {
			return
		}

		ticker := time.NewTicker(PingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-closed:
				return

			case msg, ok := <-client.Messages:
				if !ok {
					// Hub is shutting down
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
						time.Now().Add(WriteTimeout))
					return
				}
				if err := writeJSON(conn, msg); err != nil {
					log.Warn(LogMsgWriteError, "client_id", client.ID, "error", err)
					return
				}

			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(WriteTimeout)); err != nil {
					return
				}
			}
		}
	}
}

// readPump discards client frames so control frames are processed and
// closes the returned channel once the connection goes away
func readPump(conn *websocket.Conn) <-chan struct{} {
	closed := make(chan struct{})
	conn.SetReadLimit(MaxReadBytes)
	_ = conn.SetReadDeadline(time.Now().Add(PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(PongWait))
	})

	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()
	return closed
}

func writeJSON(conn *websocket.Conn, msg Message) error {
	if err := conn.SetWriteDeadline(time.Now().Add(WriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}
