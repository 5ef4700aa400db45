// Package connection implements client connection state and the
// Connection Registry.
//
// The package provides:
//   - Client: one live WebSocket connection with a buffered outbound
//     queue drained by a dedicated write pump
//   - Registry: the mapping of live connections to their subscribed
//     symbol sets, the sole shared-mutation point between connection
//     handlers and the broadcast scheduler
package connection
