package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *StreamerConfig) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got %d", c.Server.Port)
	}
	if c.Server.SendBufferSize < 1 {
		return errors.New("server.send_buffer_size must be >= 1")
	}
	if c.Server.WriteTimeout <= 0 {
		return errors.New("server.write_timeout must be positive")
	}

	if c.Feed.BaseURL == "" {
		return errors.New("feed.base_url is required")
	}
	if c.Feed.Timeout <= 0 {
		return errors.New("feed.timeout must be positive")
	}

	if c.Broadcast.Interval <= 0 {
		return errors.New("broadcast.interval must be positive")
	}
	if c.Broadcast.FetchTimeout <= 0 {
		return errors.New("broadcast.fetch_timeout must be positive")
	}
	if c.Broadcast.FetchTimeout > c.Broadcast.Interval {
		return fmt.Errorf("broadcast.fetch_timeout (%s) cannot exceed broadcast.interval (%s)",
			c.Broadcast.FetchTimeout, c.Broadcast.Interval)
	}
	if c.Broadcast.Concurrency < 1 {
		return errors.New("broadcast.concurrency must be >= 1")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}
