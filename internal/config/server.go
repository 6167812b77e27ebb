// SPDX-License-Identifier: MIT

package config

import "time"

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration

	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout time.Duration

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown
	ShutdownTimeout time.Duration

	// MaxHeaderBytes limits the size of request headers
	MaxHeaderBytes int
}

// ParseServerConfig builds the HTTP server configuration from the
// environment with conservative defaults.
func ParseServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:      ParseString("FOAMD_LISTEN", ":8080"),
		ReadTimeout:     ParseDuration("FOAMD_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    ParseDuration("FOAMD_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:     ParseDuration("FOAMD_IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout: ParseDuration("FOAMD_SHUTDOWN_TIMEOUT", 15*time.Second),
		MaxHeaderBytes:  ParseInt("FOAMD_MAX_HEADER_BYTES", 1<<20),
	}
}
