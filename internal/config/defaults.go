package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultHost           = "localhost"
	DefaultPort           = 8765
	DefaultSendBufferSize = 64
	DefaultWriteTimeout   = 5 * time.Second
	DefaultReadLimit      = 64 * 1024
	DefaultFeedURL        = "https://api.polygon.io"
	DefaultFeedTimeout    = 10 * time.Second
	DefaultInterval       = 5 * time.Second
	DefaultFetchTimeout   = 2 * time.Second
	DefaultConcurrency    = 16
	DefaultMetricsPort    = 9090
	DefaultMetricsPath    = "/metrics"
)

// Default returns a fully defaulted configuration.
func Default() *StreamerConfig {
	cfg := &StreamerConfig{}
	cfg.applyDefaults()
	return cfg
}

func (c *StreamerConfig) applyDefaults() {
	// Server defaults
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.SendBufferSize == 0 {
		c.Server.SendBufferSize = DefaultSendBufferSize
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ReadLimit == 0 {
		c.Server.ReadLimit = DefaultReadLimit
	}

	// Feed defaults
	if c.Feed.BaseURL == "" {
		c.Feed.BaseURL = DefaultFeedURL
	}
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = DefaultFeedTimeout
	}

	// Broadcast defaults
	if c.Broadcast.Interval == 0 {
		c.Broadcast.Interval = DefaultInterval
	}
	if c.Broadcast.FetchTimeout == 0 {
		c.Broadcast.FetchTimeout = DefaultFetchTimeout
	}
	if c.Broadcast.Concurrency == 0 {
		c.Broadcast.Concurrency = DefaultConcurrency
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
