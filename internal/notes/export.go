// SPDX-License-Identifier: MIT

package notes

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/renameio/v2"
)

// Snapshot is the exported index document written after each scan.
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at"`
	Notes       []Note    `json:"notes"`
}

// WriteSnapshot exports the index as JSON to path. The write is atomic and
// durable: readers either see the previous snapshot or the new one.
func (ix *Index) WriteSnapshot(path string) error {
	snap := Snapshot{
		GeneratedAt: time.Now().UTC(),
		Notes:       ix.Notes(),
	}

	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending snapshot file: %w", err)
	}
	defer func() {
		_ = pending.Cleanup()
	}()

	enc := json.NewEncoder(pending)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace snapshot: %w", err)
	}
	return nil
}
