// Package cache implements the Symbol Data Cache.
//
// The cache holds the last successfully fetched snapshot per symbol for
// the lifetime of the process. Snapshots are replaced wholesale by the
// broadcast scheduler and read by connection handlers serving the
// immediate push on subscribe.
package cache
