// Package feed implements the Upstream Fetcher component.
//
// The feed client:
//   - Performs one HTTP request per symbol against the upstream last-trade endpoint
//   - Translates transport failures, non-success statuses, and missing payloads
//     into a typed FetchError
//   - Never retries internally; retry policy belongs to the broadcast scheduler
package feed
