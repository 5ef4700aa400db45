package connection

import (
	"errors"
	"time"

	"github.com/rickgao/stock-stream/internal/model"
)

// Errors
var (
	ErrClosed = errors.New("connection closed")
)

// Inbound actions recognized from clients.
const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
	ActionPing        = "ping"
)

// Outbound message types.
const (
	TypeStockUpdate = "stock_update"
	TypePong        = "pong"
)

// InboundMessage is a client request envelope.
type InboundMessage struct {
	Action string `json:"action"`
	Symbol string `json:"symbol,omitempty"`
}

// PushMessage is a server push envelope.
type PushMessage struct {
	Type      string          `json:"type"`
	Symbol    string          `json:"symbol,omitempty"`
	Data      *model.Snapshot `json:"data,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// StockUpdate builds a stock_update push for a snapshot.
func StockUpdate(snap model.Snapshot) PushMessage {
	return PushMessage{
		Type:   TypeStockUpdate,
		Symbol: snap.Symbol,
		Data:   &snap,
	}
}

// Pong builds a pong reply carrying the server time.
func Pong(now time.Time) PushMessage {
	return PushMessage{
		Type:      TypePong,
		Timestamp: now.Format(time.RFC3339),
	}
}

// ClientConfig configures a client connection.
type ClientConfig struct {
	SendBufferSize int           // Outbound queue depth before pushes are dropped
	WriteTimeout   time.Duration // Write deadline for outbound frames
	ReadLimit      int64         // Max inbound frame size (bytes)
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		SendBufferSize: 64,
		WriteTimeout:   5 * time.Second,
		ReadLimit:      64 * 1024,
	}
}
