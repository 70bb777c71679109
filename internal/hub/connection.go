package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 256
)

// Conn is one websocket client. The read pump feeds decoded envelopes
// into the hub's event channel; outbound frames go through a buffered
// send channel so one slow peer cannot stall the hub.
//
// Ownership: the hub goroutine is the only writer to send (enqueue,
// closeSend); the write pump is its only reader.
type Conn struct {
	ID string

	hub  *Hub
	ws   *websocket.Conn
	log  *log.Logger
	send chan []byte

	wsCloseOnce   sync.Once
	sendCloseOnce sync.Once

	// playerID is set by joinTable. Actor-owned.
	playerID string
}

func newConn(h *Hub, ws *websocket.Conn) *Conn {
	id := uuid.NewString()
	return &Conn{
		ID:   id,
		hub:  h,
		ws:   ws,
		log:  h.log.WithPrefix("conn").With("conn_id", id[:8]),
		send: make(chan []byte, sendBufferSize),
	}
}

func (c *Conn) readPump() {
	defer func() {
		c.closeSocket()
		c.hub.submit(event{kind: evDisconnect, conn: c})
	}()
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("read error", "err", err)
			}
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			env = Envelope{} // empty type reports malformed downstream
		}
		c.hub.submit(event{kind: evMessage, conn: c, env: env})
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.closeSocket()
	}()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue hands a frame to the write pump. Hub goroutine only.
// Reports false when the buffer is full; the hub then drops the conn
// rather than blocking on a slow peer.
func (c *Conn) enqueue(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// closeSend ends the write pump. Hub goroutine only.
func (c *Conn) closeSend() {
	c.sendCloseOnce.Do(func() { close(c.send) })
}

func (c *Conn) closeSocket() {
	c.wsCloseOnce.Do(func() {
		if c.ws != nil {
			_ = c.ws.Close()
		}
	})
}
