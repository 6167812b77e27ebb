// SPDX-License-Identifier: MIT

// Package jobs implements the operator-triggered maintenance operations:
// syncing the notes submodule and rebuilding the note index.
package jobs

import "time"

// Status reports the outcome of the most recent job run.
type Status struct {
	LastRun time.Time `json:"last_run"`
	Notes   int       `json:"notes"`
	Error   string    `json:"error,omitempty"`
}
