package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"vtt-bridge/internal/infrastructure/logger"
)

// InboundHandler receives every decoded message read from a connection.
// It must not block: the receive loop keeps draining the socket so replies
// for other in-flight calls are never starved behind a slow handler.
type InboundHandler func(conn Connection, env *Envelope)

// ConnOptions tunes a websocket connection. Zero values fall back to defaults.
type ConnOptions struct {
	WriteTimeout time.Duration
	PongTimeout  time.Duration
	SendBuffer   int
}

func (o ConnOptions) withDefaults() ConnOptions {
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.PongTimeout <= 0 {
		o.PongTimeout = 60 * time.Second
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 256
	}
	return o
}

// WebSocketConnection implements Connection over a gorilla websocket.
type WebSocketConnection struct {
	id   string
	conn *websocket.Conn

	ctx    context.Context
	cancel context.CancelFunc

	closed   bool
	closedMu sync.RWMutex

	logger logger.Logger
	onRead InboundHandler
	opts   ConnOptions

	// Outbound envelopes queue here; writePump owns the socket writes.
	send chan *Envelope
}

// NewWebSocketConnection wraps an upgraded websocket and starts its read and
// write pumps. Every inbound envelope is handed to onRead.
func NewWebSocketConnection(
	id string,
	conn *websocket.Conn,
	onRead InboundHandler,
	log logger.Logger,
	opts ConnOptions,
) *WebSocketConnection {
	ctx, cancel := context.WithCancel(context.Background())
	opts = opts.withDefaults()

	c := &WebSocketConnection{
		id:     id,
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
		logger: log.WithField("connection_id", id),
		onRead: onRead,
		opts:   opts,
		send:   make(chan *Envelope, opts.SendBuffer),
	}

	c.conn.SetReadDeadline(time.Now().Add(opts.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.opts.PongTimeout))
		return nil
	})

	go c.writePump()
	go c.readPump()

	return c
}

// ID returns the connection identity.
func (c *WebSocketConnection) ID() string {
	return c.id
}

// Send queues an envelope for delivery to the remote client.
func (c *WebSocketConnection) Send(ctx context.Context, env *Envelope) error {
	if c.IsClosed() {
		return fmt.Errorf("connection %s is closed", c.id)
	}

	select {
	case c.send <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ctx.Done():
		return fmt.Errorf("connection %s is closed", c.id)
	case <-time.After(c.opts.WriteTimeout):
		return fmt.Errorf("send to connection %s timed out", c.id)
	}
}

// Close shuts the connection down. Safe to call more than once.
func (c *WebSocketConnection) Close() error {
	c.closedMu.Lock()
	defer c.closedMu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	c.cancel()

	c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
	c.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	c.conn.Close()

	c.logger.Info("websocket connection closed")
	return nil
}

// IsClosed reports whether the connection has been closed.
func (c *WebSocketConnection) IsClosed() bool {
	c.closedMu.RLock()
	defer c.closedMu.RUnlock()
	return c.closed
}

// Context is cancelled when the connection closes.
func (c *WebSocketConnection) Context() context.Context {
	return c.ctx
}

// writePump serializes all socket writes and keeps the link alive with
// websocket ping frames.
func (c *WebSocketConnection) writePump() {
	pingInterval := c.opts.PongTimeout * 9 / 10
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case env := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if err := c.conn.WriteJSON(env); err != nil {
				c.logger.Errorf("failed to write envelope: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Errorf("failed to send ping frame: %v", err)
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// readPump drains the socket, decoding each text frame into an Envelope and
// handing it to the inbound handler. Malformed frames are logged and dropped
// so a misbehaving client cannot corrupt call state.
func (c *WebSocketConnection) readPump() {
	defer c.Close()

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseAbnormalClosure,
			) {
				c.logger.Errorf("websocket read error: %v", err)
			}
			return
		}

		if msgType != websocket.TextMessage {
			c.logger.Debugf("ignoring non-text frame of length %d", len(data))
			continue
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warnf("dropping malformed message: %v", err)
			continue
		}
		if env.Type == "" {
			c.logger.Warn("dropping message with no type tag")
			continue
		}

		if c.onRead != nil {
			c.onRead(c, &env)
		}
	}
}
