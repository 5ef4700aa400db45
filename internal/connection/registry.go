package connection

import (
	"log/slog"
	"strings"
	"sync"
)

// NormalizeSymbol canonicalizes a ticker for registry and cache keys.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// RegistryStats provides statistics about the connection registry.
type RegistryStats struct {
	Connections   int // Open connections
	Subscriptions int // Total (connection, symbol) pairs
	Symbols       int // Distinct symbols with at least one subscriber
}

// Registry maps live connections to their subscribed symbol sets.
//
// A single RWMutex guards the whole map: connection handlers mutate their
// own entries while the broadcast scheduler reads subscriber sets, so
// readers never observe a half-updated set.
type Registry struct {
	logger *slog.Logger

	mu   sync.RWMutex
	subs map[*Client]map[string]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger: logger,
		subs:   make(map[*Client]map[string]struct{}),
	}
}

// Register creates an empty subscription set for a new connection.
// Registering an already-registered connection is a no-op.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[c]; ok {
		return
	}
	r.subs[c] = make(map[string]struct{})
	r.logger.Info("client connected", "client", c.ID(), "total_clients", len(r.subs))
}

// Unregister removes a connection and its subscriptions. Safe to call
// multiple times and for connections that were never registered.
func (r *Registry) Unregister(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[c]; !ok {
		return
	}
	delete(r.subs, c)
	r.logger.Info("client disconnected", "client", c.ID(), "total_clients", len(r.subs))
}

// Subscribe adds a symbol to a connection's set and returns the
// normalized symbol. Duplicate subscribes are no-ops. Subscribing on an
// unregistered connection has no effect and returns the empty string.
func (r *Registry) Subscribe(c *Client, symbol string) string {
	sym := NormalizeSymbol(symbol)
	if sym == "" {
		return ""
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.subs[c]
	if !ok {
		return ""
	}
	set[sym] = struct{}{}
	return sym
}

// Unsubscribe removes a symbol from a connection's set. Removing a
// non-member symbol is a no-op.
func (r *Registry) Unsubscribe(c *Client, symbol string) {
	sym := NormalizeSymbol(symbol)

	r.mu.Lock()
	defer r.mu.Unlock()

	if set, ok := r.subs[c]; ok {
		delete(set, sym)
	}
}

// Subscribers returns the connections currently subscribed to a symbol.
func (r *Registry) Subscribers(symbol string) []*Client {
	sym := NormalizeSymbol(symbol)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var clients []*Client
	for c, set := range r.subs {
		if _, ok := set[sym]; ok {
			clients = append(clients, c)
		}
	}
	return clients
}

// Symbols returns the union of all subscribed symbols.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	union := make(map[string]struct{})
	for _, set := range r.subs {
		for sym := range set {
			union[sym] = struct{}{}
		}
	}

	symbols := make([]string, 0, len(union))
	for sym := range union {
		symbols = append(symbols, sym)
	}
	return symbols
}

// Connections returns all currently registered connections.
func (r *Registry) Connections() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.subs))
	for c := range r.subs {
		clients = append(clients, c)
	}
	return clients
}

// Stats returns current registry statistics.
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	union := make(map[string]struct{})
	for _, set := range r.subs {
		total += len(set)
		for sym := range set {
			union[sym] = struct{}{}
		}
	}

	return RegistryStats{
		Connections:   len(r.subs),
		Subscriptions: total,
		Symbols:       len(union),
	}
}
