package stream

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mzhdanov/bloglist/internal/common/constants"
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) close() {
	close(c.send)
}

// Handler upgrades the connection and attaches it to the hub.
func (h *Hub) Handler() http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			host := r.Host
			return origin == "http://"+host || origin == "https://"+host
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warnf("stream: upgrade failed: %v", err)
			return
		}

		c := &client{
			conn: conn,
			send: make(chan []byte, constants.StreamSendBufSize),
		}

		h.register <- c

		go c.writePump()
		go c.readPump(h)
	}
}

// readPump discards inbound frames; the feed is one-way. It exists to notice
// closes and to answer pings.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(constants.StreamPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(constants.StreamPongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(constants.StreamPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(constants.StreamWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(constants.StreamWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
