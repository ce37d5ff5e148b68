package websocket

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer = 64
)

// client is a single websocket connection. The hub owns send and is the only one closing it.
type client struct {
	id     string
	server *Server
	conn   *websocket.Conn
	send   chan []byte
	logger *slog.Logger
}

// readPump forwards decoded frames to the hub until the connection fails.
func (that *client) readPump() {
	log := that.logger.With("method", "readPump")

	defer func() {
		select {
		case that.server.unregister <- that:
		case <-that.server.done:
		}
		that.conn.Close()
	}()

	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("unexpected close", "error", err)
			}
			return
		}

		in, err := decodeInbound(that.id, data)
		if err != nil {
			log.Warn("malformed message dropped", "error", err)
			continue
		}

		select {
		case that.server.inbound <- in:
		case <-that.server.done:
			return
		}
	}
}

// writePump writes queued events, one frame each, and keeps the peer alive with pings.
func (that *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		that.conn.Close()
	}()

	for {
		select {
		case message, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// the hub closed the channel
				_ = that.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				that.logger.Debug("write failed", "error", err)
				return
			}

		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
