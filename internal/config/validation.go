// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
)

// Validate checks the effective configuration. NOTES_ROOT must name an
// existing, readable directory; everything else has safe defaults.
func Validate(cfg AppConfig) error {
	if cfg.NotesRoot == "" {
		return &ConfigurationError{Field: "NOTES_ROOT", Err: ErrNotesRootUnset}
	}

	info, err := os.Stat(cfg.NotesRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return &ConfigurationError{Field: "NOTES_ROOT", Value: cfg.NotesRoot, Err: ErrNotesRootMissing}
		}
		return &ConfigurationError{Field: "NOTES_ROOT", Value: cfg.NotesRoot, Err: err}
	}
	if !info.IsDir() {
		return &ConfigurationError{Field: "NOTES_ROOT", Value: cfg.NotesRoot, Err: ErrNotesRootNotADir}
	}

	f, err := os.Open(cfg.NotesRoot) // #nosec G304 -- validated operator path
	if err != nil {
		return &ConfigurationError{Field: "NOTES_ROOT", Value: cfg.NotesRoot, Err: ErrNotesRootUnreadable}
	}
	_ = f.Close()

	if cfg.IndexNote == "" {
		return fmt.Errorf("configuration: index note must not be empty")
	}
	if cfg.RateLimitRPM <= 0 && cfg.RateLimitEnabled {
		return fmt.Errorf("configuration: rate limit must be positive, got %d", cfg.RateLimitRPM)
	}
	switch cfg.TracingExporter {
	case "", "http", "grpc":
	default:
		return fmt.Errorf("configuration: unsupported tracing exporter %q (supported: http, grpc)", cfg.TracingExporter)
	}

	return nil
}
