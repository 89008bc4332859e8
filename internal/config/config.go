// Package config loads the client configuration file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ClientConfig is the client.yaml schema.
type ClientConfig struct {
	Version int `yaml:"version"`
	Server  struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Editing struct {
		TextDebounceMs    int `yaml:"text_debounce_ms"`
		NumericDebounceMs int `yaml:"numeric_debounce_ms"`
	} `yaml:"editing"`
	Viewer struct {
		RetrySeconds int `yaml:"retry_seconds"`
	} `yaml:"viewer"`
}

// Default returns the configuration used when no file is given.
func Default() *ClientConfig {
	return &ClientConfig{Version: 1}
}

// Load reads and validates a client configuration file.
func Load(path string) (*ClientConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg ClientConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}

	if cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported client.yaml version: %d", cfg.Version)
	}

	return &cfg, nil
}

// ServerAddress returns the configured server address, defaulting to the
// standard local port.
func (c *ClientConfig) ServerAddress() string {
	if c.Server.Address == "" {
		return "http://localhost:64637"
	}
	return c.Server.Address
}

// ListenURL returns the websocket listen endpoint derived from the server
// address.
func (c *ClientConfig) ListenURL() string {
	addr := c.ServerAddress()
	switch {
	case strings.HasPrefix(addr, "https://"):
		return "wss://" + strings.TrimPrefix(addr, "https://") + "/listen"
	case strings.HasPrefix(addr, "http://"):
		return "ws://" + strings.TrimPrefix(addr, "http://") + "/listen"
	}
	return "ws://" + addr + "/listen"
}

// TextDebounce returns the free-text debounce window, defaulting to 1 s.
func (c *ClientConfig) TextDebounce() time.Duration {
	if c.Editing.TextDebounceMs == 0 {
		return 1000 * time.Millisecond
	}
	return time.Duration(c.Editing.TextDebounceMs) * time.Millisecond
}

// NumericDebounce returns the numeric debounce window, defaulting to 100 ms.
func (c *ClientConfig) NumericDebounce() time.Duration {
	if c.Editing.NumericDebounceMs == 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.Editing.NumericDebounceMs) * time.Millisecond
}

// RetryInterval returns the live-channel reconnect interval, defaulting to
// 5 s.
func (c *ClientConfig) RetryInterval() time.Duration {
	if c.Viewer.RetrySeconds == 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Viewer.RetrySeconds) * time.Second
}
