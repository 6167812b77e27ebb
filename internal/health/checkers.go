// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"fmt"
	"os"

	"github.com/foamd/foamd/internal/store"
)

// NotesRootChecker verifies that the notes root is still a readable directory.
type NotesRootChecker struct {
	root string
}

// NewNotesRootChecker creates a checker for the notes root directory.
func NewNotesRootChecker(root string) *NotesRootChecker {
	return &NotesRootChecker{root: root}
}

func (c *NotesRootChecker) Name() string {
	return "notes_root"
}

func (c *NotesRootChecker) Check(_ context.Context) CheckResult {
	info, err := os.Stat(c.root)
	if err != nil {
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  fmt.Sprintf("notes root not accessible: %v", err),
		}
	}
	if !info.IsDir() {
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  fmt.Sprintf("notes root is not a directory: %s", c.root),
		}
	}
	if f, err := os.Open(c.root); err != nil {
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  fmt.Sprintf("notes root not readable: %v", err),
		}
	} else {
		f.Close()
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: fmt.Sprintf("notes root readable: %s", c.root),
	}
}

// StoreChecker verifies that the cache store is open. A broken cache degrades
// the service but does not make it unable to serve notes.
type StoreChecker struct {
	store *store.Store
}

// NewStoreChecker creates a checker for the render cache store.
func NewStoreChecker(s *store.Store) *StoreChecker {
	return &StoreChecker{store: s}
}

func (c *StoreChecker) Name() string {
	return "cache_store"
}

func (c *StoreChecker) Check(_ context.Context) CheckResult {
	if c.store == nil {
		return CheckResult{
			Status:  StatusDegraded,
			Message: "cache store not configured",
		}
	}
	if err := c.store.Ping(); err != nil {
		return CheckResult{
			Status: StatusDegraded,
			Error:  fmt.Sprintf("cache store unavailable: %v", err),
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: "cache store open",
	}
}
