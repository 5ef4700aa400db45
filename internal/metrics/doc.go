// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Connected client count
//   - Upstream fetch totals and failures
//   - Push totals and drops to slow clients
//   - Broadcast cycle duration
package metrics
