package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rickgao/stock-stream/internal/model"
)

// LastTrade fetches one fresh snapshot for a symbol. Any failure is
// returned as a *FetchError; the call never retries and respects the
// context deadline set by the caller.
func (c *Client) LastTrade(ctx context.Context, symbol string) (model.Snapshot, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	body, err := c.doRequest(ctx, "/v2/last/trade/"+url.PathEscape(symbol))
	if err != nil {
		return model.Snapshot{}, &FetchError{Symbol: symbol, Err: err}
	}

	var resp lastTradeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.Snapshot{}, &FetchError{Symbol: symbol, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	if resp.Results == nil {
		return model.Snapshot{}, &FetchError{Symbol: symbol, Err: ErrNoResult}
	}

	return model.Snapshot{
		Symbol:     symbol,
		Price:      resp.Results.Price,
		Size:       resp.Results.Size,
		Timestamp:  resp.Results.Timestamp,
		Exchange:   resp.Results.Exchange,
		Conditions: resp.Results.Conditions,
		UpdatedAt:  time.Now(),
	}, nil
}

// doRequest performs a single GET against the feed.
func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	fullURL := c.baseURL + path
	if c.apiKey != "" {
		fullURL += "?apiKey=" + url.QueryEscape(c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}
