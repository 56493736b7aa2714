package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL      = "http://localhost:8080/api"
	DefaultAPITimeout   = 10 * time.Second
	DefaultPollInterval = 60 * time.Second
	DefaultPollTimeout  = 30 * time.Second
	DefaultServerPort   = 8090
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 20 * time.Second
	DefaultTableID      = "shares-table"
	DefaultMetricsPath  = "/metrics"
)

func (c *DashboardConfig) applyDefaults() {
	// API defaults. max_retries stays 0: one attempt per tick.
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Timeout == 0 {
		c.Poller.Timeout = min(DefaultPollTimeout, c.Poller.Interval)
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.TableID == "" {
		c.Server.TableID = DefaultTableID
	}

	// Metrics defaults
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
