package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastTrade(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/last/trade/AAPL", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "OK",
			"results": {"p": 150.25, "s": 100, "t": 1700000000000000000, "x": 4, "c": [12, 37]}
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", WithTimeout(5*time.Second))

	snap, err := c.LastTrade(context.Background(), "aapl")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", snap.Symbol)
	assert.Equal(t, 150.25, snap.Price)
	assert.Equal(t, int64(100), snap.Size)
	assert.Equal(t, int64(1700000000000000000), snap.Timestamp)
	assert.Equal(t, 4, snap.Exchange)
	assert.Equal(t, []int{12, 37}, snap.Conditions)
	assert.WithinDuration(t, time.Now(), snap.UpdatedAt, 5*time.Second)
}

func TestLastTrade_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	c := NewClient(server.URL, "")

	_, err := c.LastTrade(context.Background(), "MSFT")
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "MSFT", fetchErr.Symbol)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestLastTrade_MissingResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "NOT_FOUND"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "")

	_, err := c.LastTrade(context.Background(), "ZZZZ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestLastTrade_ContextTimeout(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	c := NewClient(server.URL, "")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.LastTrade(ctx, "AAPL")
	require.Error(t, err)

	var fetchErr *FetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLastTrade_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "")

	_, err := c.LastTrade(context.Background(), "AAPL")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "AAPL", fetchErr.Symbol)
}
