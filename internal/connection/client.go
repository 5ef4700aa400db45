package connection

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rickgao/stock-stream/internal/metrics"
)

// Client represents a single live WebSocket connection to a subscriber.
//
// All writes go through a buffered outbound queue drained by a dedicated
// write pump, so multiple goroutines (the connection's own handler and
// the broadcast scheduler) can push concurrently without interleaving
// frames. A write failure closes the connection, which in turn unblocks
// the handler's read loop and triggers teardown.
type Client struct {
	id     uuid.UUID
	conn   *websocket.Conn
	cfg    ClientConfig
	logger *slog.Logger

	send chan []byte
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewClient wraps an upgraded WebSocket connection and starts its write pump.
func NewClient(conn *websocket.Conn, cfg ClientConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.New()
	c := &Client{
		id:     id,
		conn:   conn,
		cfg:    cfg,
		logger: logger.With("client", id),
		send:   make(chan []byte, cfg.SendBufferSize),
		done:   make(chan struct{}),
	}

	if conn != nil && cfg.ReadLimit > 0 {
		conn.SetReadLimit(cfg.ReadLimit)
	}

	go c.writePump()

	return c
}

// ID returns the connection's unique identity.
func (c *Client) ID() uuid.UUID {
	return c.id
}

// Done is closed when the connection has been shut down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// IsClosed reports whether Close has been called.
func (c *Client) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Push queues an outbound message. Returns ErrClosed if the connection
// is already shut down. A full outbound queue drops the message rather
// than blocking the caller.
func (c *Client) Push(msg PushMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		metrics.PushDropsTotal.Inc()
		return ErrClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		metrics.PushDropsTotal.Inc()
		return ErrClosed
	default:
		metrics.PushDropsTotal.Inc()
		c.logger.Warn("send buffer full, dropping push")
		return nil
	}
}

// Next blocks until the next inbound frame arrives. A transport-level
// error means the connection is gone and the caller must begin teardown.
func (c *Client) Next() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Close shuts the connection down. Safe to call multiple times.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.done)

	if c.conn != nil {
		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		return c.conn.Close()
	}

	return nil
}

// writePump serializes all outbound frames onto the socket.
func (c *Client) writePump() {
	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				// A broken pipe is detected here, not just on the next
				// read: closing unblocks the handler's read loop so the
				// registry entry is reconciled promptly.
				c.logger.Debug("write failed, closing connection", "error", err)
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}
