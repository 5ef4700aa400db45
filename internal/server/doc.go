// Package server implements the stream server lifecycle and the
// per-connection protocol handler.
//
// The Server owns the listening socket and the broadcast scheduler and
// starts/stops them as one unit. Each accepted WebSocket connection is
// served by its own handler goroutine: register on open, process
// subscribe/unsubscribe/ping messages while open, unregister exactly
// once on closure.
package server
