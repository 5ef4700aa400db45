// streamclient connects to a running stream server, subscribes to the
// given symbols, and prints the updates it receives to the console.
// Usage: go run ./cmd/streamclient --addr localhost:8765 --symbols AAPL,MSFT
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/stock-stream/internal/connection"
)

func main() {
	addr := flag.String("addr", "localhost:8765", "stream server host:port")
	symbols := flag.String("symbols", "AAPL", "comma-separated symbols to subscribe to")
	verbose := flag.Bool("verbose", false, "print full message JSON")
	pingInterval := flag.Duration("ping", 30*time.Second, "application ping interval (0 disables)")
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	url := fmt.Sprintf("ws://%s/ws", *addr)
	logger.Info("connecting", "url", url)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		logger.Error("failed to connect", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	// Subscribe to each requested symbol
	for _, sym := range strings.Split(*symbols, ",") {
		sym = strings.TrimSpace(sym)
		if sym == "" {
			continue
		}
		msg := connection.InboundMessage{Action: connection.ActionSubscribe, Symbol: sym}
		if err := conn.WriteJSON(msg); err != nil {
			logger.Error("subscribe failed", "symbol", sym, "error", err)
			os.Exit(1)
		}
		logger.Info("subscribed", "symbol", sym)
	}

	// Periodic application-level ping
	if *pingInterval > 0 {
		go func() {
			ticker := time.NewTicker(*pingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					msg := connection.InboundMessage{Action: connection.ActionPing}
					if err := conn.WriteJSON(msg); err != nil {
						logger.Warn("ping write failed", "error", err)
						return
					}
				}
			}
		}()
	}

	// Unblock the read loop on shutdown
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	logger.Info("streaming started - press Ctrl+C to stop")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Error("read failed", "error", err)
			os.Exit(1)
		}

		var msg connection.PushMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warn("unparseable message", "error", err, "data", string(data))
			continue
		}

		switch msg.Type {
		case connection.TypeStockUpdate:
			if *verbose {
				pretty, _ := json.MarshalIndent(msg, "", "  ")
				fmt.Printf("[UPDATE] %s\n", pretty)
			} else if msg.Data != nil {
				fmt.Printf("[UPDATE] symbol=%s price=%.4f size=%d exchange=%d updated=%s\n",
					msg.Symbol, msg.Data.Price, msg.Data.Size, msg.Data.Exchange,
					msg.Data.UpdatedAt.Format(time.RFC3339))
			}
		case connection.TypePong:
			fmt.Printf("[PONG] %s\n", msg.Timestamp)
		default:
			logger.Warn("unknown message type", "type", msg.Type)
		}
	}

	logger.Info("shutdown complete")
}
