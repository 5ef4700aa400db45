// Package model defines shared data types used across the stock stream service.
//
// Conventions:
//   - Prices: float64 dollars, as reported by the upstream feed
//   - Timestamps: int64 nanoseconds since Unix epoch (upstream trade time)
//   - UpdatedAt: local wall-clock time the snapshot was retrieved
package model
