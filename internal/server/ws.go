package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/fingermath/internal/realtime"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// BroadcastHandler pushes every value published on a broadcaster to its
// WebSocket clients as JSON.
type BroadcastHandler[T any] struct {
	source  *realtime.Broadcaster[T]
	initial func() (T, bool)
}

// NewBroadcastHandler creates a handler for source. initial, when set,
// supplies the value sent right after the upgrade.
func NewBroadcastHandler[T any](source *realtime.Broadcaster[T], initial func() (T, bool)) *BroadcastHandler[T] {
	return &BroadcastHandler[T]{source: source, initial: initial}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *BroadcastHandler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	updates := h.source.Subscribe()
	defer h.source.Unsubscribe(updates)

	// Clients only read; the read loop notices when they go away.
	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if h.initial != nil {
		if v, ok := h.initial(); ok {
			if err := writeJSON(conn, v); err != nil {
				return
			}
		}
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case v, ok := <-updates:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
				return
			}
			if err := writeJSON(conn, v); err != nil {
				log.Printf("websocket write error: %v", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}
