package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rickgao/stock-stream/internal/connection"
	"github.com/rickgao/stock-stream/internal/metrics"
)

// handleWS upgrades an HTTP request and serves the connection until it
// closes.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	client := connection.NewClient(conn, s.cfg.Client, s.logger)
	s.registry.Register(client)
	metrics.ConnectedClients.Inc()

	s.wg.Add(1)
	defer s.wg.Done()

	s.serveClient(client)
}

// serveClient runs the connection's read loop until the transport
// closes, then unregisters exactly once.
func (s *Server) serveClient(c *connection.Client) {
	defer func() {
		s.registry.Unregister(c)
		c.Close()
		metrics.ConnectedClients.Dec()
	}()

	for {
		data, err := c.Next()
		if err != nil {
			return
		}
		s.handleMessage(c, data)
	}
}

// handleMessage dispatches one inbound envelope. Malformed payloads and
// unknown actions are logged and ignored; the connection stays open.
func (s *Server) handleMessage(c *connection.Client, data []byte) {
	var msg connection.InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.logger.Warn("ignoring malformed message", "client", c.ID(), "error", err)
		return
	}

	switch msg.Action {
	case connection.ActionSubscribe:
		if msg.Symbol == "" {
			s.logger.Warn("subscribe without symbol", "client", c.ID())
			return
		}
		sym := s.registry.Subscribe(c, msg.Symbol)
		if sym == "" {
			return
		}
		s.logger.Debug("subscribed", "client", c.ID(), "symbol", sym)

		// Push the cached snapshot right away so a fresh subscriber
		// does not wait out a full cycle for its first update.
		if snap, ok := s.store.Get(sym); ok {
			c.Push(connection.StockUpdate(snap))
		}

	case connection.ActionUnsubscribe:
		if msg.Symbol == "" {
			s.logger.Warn("unsubscribe without symbol", "client", c.ID())
			return
		}
		s.registry.Unsubscribe(c, msg.Symbol)
		s.logger.Debug("unsubscribed", "client", c.ID(), "symbol", connection.NormalizeSymbol(msg.Symbol))

	case connection.ActionPing:
		c.Push(connection.Pong(time.Now()))

	default:
		s.logger.Warn("unknown action", "client", c.ID(), "action", msg.Action)
	}
}
