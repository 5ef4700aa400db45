package config

import "time"

// StreamerConfig is the top-level configuration for the stream server.
type StreamerConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Feed      FeedConfig      `yaml:"feed"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig holds the WebSocket listening endpoint settings.
type ServerConfig struct {
	Disabled       bool          `yaml:"disabled"` // Skip starting the stream server entirely
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	SendBufferSize int           `yaml:"send_buffer_size"` // Per-connection outbound queue depth
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	ReadLimit      int64         `yaml:"read_limit"` // Max inbound frame size (bytes)
}

// FeedConfig holds upstream market-data feed settings.
type FeedConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"` // HTTP client timeout (outer bound)
}

// BroadcastConfig holds broadcast scheduler settings.
type BroadcastConfig struct {
	Interval     time.Duration `yaml:"interval"`      // Time between cycle starts
	FetchTimeout time.Duration `yaml:"fetch_timeout"` // Per-symbol fetch deadline
	Concurrency  int           `yaml:"concurrency"`   // Max concurrent fetches per cycle
}

// MetricsConfig holds the health/metrics HTTP endpoint settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
