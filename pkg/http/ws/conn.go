package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	sendQueueSize  = 64
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 << 10
)

var (
	ErrConnectionNotFound = errors.New("ws: no active connection")
	ErrConnectionClosed   = errors.New("ws: connection closed")
	ErrSendQueueFull      = errors.New("ws: send queue full")
)

// Connection owns one socket. Writes go through a bounded queue drained by
// WritePump; ReadPump is the only reader.
type Connection struct {
	conn      *websocket.Conn
	sendCh    chan Message
	done      chan struct{}
	closeOnce sync.Once
	logger    zerolog.Logger
}

// NewConnection wraps an upgraded socket.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	return &Connection{
		conn:   conn,
		sendCh: make(chan Message, sendQueueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Send queues msg without blocking.
func (c *Connection) Send(msg Message) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}
	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close stops both pumps. Safe to call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// WritePump writes queued messages and keeps the peer alive with pings
// until the connection is closed or a write fails.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.Close()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.sendCh:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug().Err(err).Msg("ws write failed")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// ReadPump decodes incoming envelopes and hands them to handle until the
// peer goes away. Handler errors are logged and do not end the loop.
func (c *Connection) ReadPump(handle func(Message) error) {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn().Err(err).Msg("ws read failed")
			}
			return
		}
		if err := handle(msg); err != nil {
			c.logger.Warn().Err(err).Str("type", msg.Type).Msg("ws message handler failed")
		}
	}
}
