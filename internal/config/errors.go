// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
)

// Sentinel errors for configuration failures. Startup code matches on these
// to refuse to serve rather than serve an empty or wrong root.
var (
	ErrNotesRootUnset      = errors.New("NOTES_ROOT is not set: point it at your notes directory")
	ErrNotesRootMissing    = errors.New("notes root does not exist")
	ErrNotesRootNotADir    = errors.New("notes root is not a directory")
	ErrNotesRootUnreadable = errors.New("notes root is not readable")
)

// ConfigurationError wraps a sentinel with the offending value for reporting.
type ConfigurationError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("configuration: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("configuration: %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
