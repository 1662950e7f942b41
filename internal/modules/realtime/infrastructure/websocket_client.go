package infrastructure

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// sendTimeout bounds how long a fan-out sweep waits on one stalled client
// before treating it as dead.
const sendTimeout = 250 * time.Millisecond

// Client is one live WebSocket session. The hub owns its registration; the
// topic field is guarded by the hub's lock.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	userID    string
	topic     string
	frames    *FrameProcessor
	closeOnce sync.Once
}

// NewClient builds a client around an upgraded connection with a buffered
// send channel.
func NewClient(hub *Hub, conn *websocket.Conn, userID string, buf int) *Client {
	c := &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, buf),
		done:   make(chan struct{}),
		userID: userID,
	}
	c.frames = NewFrameProcessor(hub)
	return c
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// enqueue hands a frame to the write pump, waiting briefly for a stalled
// client. False means the client should be reaped.
func (c *Client) enqueue(data []byte) bool {
	timer := time.NewTimer(sendTimeout)
	defer timer.Stop()
	select {
	case c.send <- data:
		return true
	case <-c.done:
		return false
	case <-timer.C:
		return false
	}
}

// SendFrame marshals and enqueues a gateway frame; an unresponsive client is
// detached instead of blocking the caller.
func (c *Client) SendFrame(frame any) {
	data, err := json.Marshal(frame)
	if err != nil {
		slog.Error("ws frame marshal error", slog.String("userId", c.userID), slog.Any("error", err))
		return
	}
	if !c.enqueue(data) {
		go c.hub.Detach(c)
	}
}

func (c *Client) WritePump() {
	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case msg := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Warn("ws write error", slog.String("userId", c.userID), slog.Any("error", err))
				c.hub.Detach(c)
				return
			}
		case <-c.done:
			return
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				slog.Warn("ws ping error", slog.String("userId", c.userID), slog.Any("error", err))
				c.hub.Detach(c)
				return
			}
		}
	}
}

func (c *Client) ReadPump() {
	c.conn.SetReadLimit(1 << 16)
	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})
	defer c.hub.Detach(c)
	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("ws read error", slog.String("userId", c.userID), slog.Any("error", err))
			}
			return
		}
		c.frames.Process(c, raw)
	}
}
