package feed

import (
	"errors"
	"fmt"
)

// ErrNoResult indicates the upstream returned a success status but no
// trade payload for the symbol.
var ErrNoResult = errors.New("no result in upstream response")

// APIError represents a non-success response from the upstream feed.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream api error %d: %s", e.StatusCode, e.Message)
}

// FetchError wraps any failure to fetch one symbol's snapshot. It is
// recoverable: the scheduler skips the symbol this cycle and retries
// on the next one.
type FetchError struct {
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// lastTradeResponse mirrors the upstream last-trade payload.
type lastTradeResponse struct {
	Status  string `json:"status"`
	Results *struct {
		Price      float64 `json:"p"`
		Size       int64   `json:"s"`
		Timestamp  int64   `json:"t"`
		Exchange   int     `json:"x"`
		Conditions []int   `json:"c"`
	} `json:"results"`
}
