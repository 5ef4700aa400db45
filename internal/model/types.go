package model

import "time"

// Snapshot is the last fetched trade state for one symbol.
//
// A Snapshot is created whole by the broadcast scheduler after a successful
// upstream fetch and is only ever replaced wholesale, never mutated in
// place, so concurrent readers never observe a torn state.
type Snapshot struct {
	Symbol     string    `json:"-"`          // Uppercase ticker, carried out-of-band in the push envelope
	Price      float64   `json:"price"`      // Last trade price (dollars)
	Size       int64     `json:"size"`       // Trade size (shares)
	Timestamp  int64     `json:"timestamp"`  // Upstream trade timestamp (ns since epoch)
	Exchange   int       `json:"exchange"`   // Upstream exchange code
	Conditions []int     `json:"conditions"` // Trade condition codes
	UpdatedAt  time.Time `json:"updated_at"` // Local retrieval time
}
