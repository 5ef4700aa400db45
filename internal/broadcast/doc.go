// Package broadcast implements the Broadcast Scheduler component.
//
// The scheduler:
//   - Runs a fixed-interval cycle over the union of subscribed symbols
//   - Fetches each symbol concurrently with a per-fetch deadline and a
//     bounded concurrency cap
//   - Updates the snapshot cache and pushes to subscribers only after
//     all fetches for the cycle have settled
//   - Isolates per-symbol fetch failures from the rest of the cycle
package broadcast
