/*
Package collab implements the realtime collaboration relay.

This file defines Connection, one authenticated WebSocket client bound to exactly one room. Outbound
frames go through a buffered send queue drained by WritePump, so every connection sees messages in the
order they were enqueued. ReadPump feeds inbound frames to the Hub and triggers the disconnect path
when the transport fails.
*/
package collab

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"privlib/internal/app/user"
	"privlib/internal/pkg/errs"
	"privlib/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client. Live rooms carry whole
	// documents in content_update and canvas rooms carry full element snapshots on undo/redo.
	maxMessageSize = 4 << 20

	// capacity of the per-connection send queue.
	sendQueueSize = 256
)

// CloseCodeKicked is the close code sent when the server removes a connection whose access was
// revoked while it was open.
const CloseCodeKicked = 4001

var (
	// ErrSendQueueFull is returned when a slow client has not drained its queue.
	ErrSendQueueFull = errors.New("collab: send queue full")

	// ErrConnectionClosed is returned when enqueueing to a connection that is shutting down.
	ErrConnectionClosed = errors.New("collab: connection closed")
)

// Transport is the subset of *websocket.Conn used by a Connection.
type Transport interface {
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Connection is one live client session.
type Connection struct {
	// ID is unique per connection; the same user may hold several.
	ID string

	// Room is fixed for the lifetime of the connection.
	Room RoomKey

	// User is the authenticated identity behind the connection.
	User user.User

	transport Transport
	send      chan []byte
	limiter   *rate.Limiter

	mu         sync.Mutex
	closed     bool
	closeFrame []byte

	disconnectOnce sync.Once

	logger zerolog.Logger
}

func newConnection(t Transport, room RoomKey, u user.User, limiter *rate.Limiter) *Connection {
	id := uuid.NewString()

	return &Connection{
		ID:        id,
		Room:      room,
		User:      u,
		transport: t,
		send:      make(chan []byte, sendQueueSize),
		limiter:   limiter,
		logger: logx.Logger().With().
			Str("conn_id", id).
			Str("room", string(room)).
			Str("username", u.Username).
			Logger(),
	}
}

// Send returns the outbound queue. It is closed once the connection is torn down.
func (c *Connection) Send() <-chan []byte {
	return c.send
}

// enqueue places an encoded frame on the send queue without blocking.
func (c *Connection) enqueue(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.send <- frame:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// sendMessage marshals msg and enqueues it for this connection only.
func (c *Connection) sendMessage(msg Message) error {
	frame, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error marshaling message for connection")
		return err
	}

	return c.enqueue(frame)
}

// SendError reports err to this connection only.
func (c *Connection) SendError(err *errs.CustomError) {
	if sendErr := c.sendMessage(errorMessage(c.Room, err)); sendErr != nil {
		c.logger.Warn().Err(sendErr).Int("code", err.Code).Msg("Failed to queue error message")
	}
}

// closeSend closes the send queue so WritePump emits a close frame and exits. Safe to call twice.
func (c *Connection) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// setCloseFrame records the close frame WritePump writes once the queue is closed. It has no
// effect after the queue was closed.
func (c *Connection) setCloseFrame(code int, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closeFrame = websocket.FormatCloseMessage(code, reason)
}

func (c *Connection) pendingCloseFrame() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closeFrame == nil {
		return []byte{}
	}
	return c.closeFrame
}

// allow consumes one token from the connection's message limiter.
func (c *Connection) allow() bool {
	if c.limiter == nil {
		return true
	}
	return c.limiter.Allow()
}

// ReadPump reads frames until the transport fails, handing each to the hub. It always ends
// with the hub's disconnect path and a transport close.
func (c *Connection) ReadPump(h *Hub) {
	defer func() {
		h.OnDisconnect(c)

		if err := c.transport.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in ReadPump")
		}
	}()

	c.transport.SetReadLimit(maxMessageSize)

	if err := c.transport.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.transport.SetPongHandler(func(string) error {
		return c.transport.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.transport.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Unexpected close while reading")
			}
			return
		}

		h.OnMessage(c, frame)
	}
}

// WritePump drains the send queue to the transport and keeps the connection alive with pings.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.transport.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedMessage(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage returns false when the pump should stop.
func (c *Connection) writeQueuedMessage(frame []byte, ok bool) bool {
	if err := c.transport.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.transport.WriteMessage(websocket.CloseMessage, c.pendingCloseFrame()); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.transport.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Warn().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

func (c *Connection) writePingMessage() bool {
	if err := c.transport.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.transport.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Warn().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
