// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithoutNotesRootFails(t *testing.T) {
	t.Setenv("NOTES_ROOT", "")

	_, err := NewLoader("", "test").Load()
	if err == nil {
		t.Fatal("expected error when NOTES_ROOT is unset")
	}

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %T: %v", err, err)
	}
	if !errors.Is(err, ErrNotesRootUnset) {
		t.Errorf("expected ErrNotesRootUnset, got %v", err)
	}
}

func TestLoadWithMissingDirectoryFails(t *testing.T) {
	t.Setenv("NOTES_ROOT", filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := NewLoader("", "test").Load()
	if !errors.Is(err, ErrNotesRootMissing) {
		t.Fatalf("expected ErrNotesRootMissing, got %v", err)
	}
}

func TestLoadWithFileAsRootFails(t *testing.T) {
	root := filepath.Join(t.TempDir(), "notes")
	if err := os.WriteFile(root, []byte("not a dir"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NOTES_ROOT", root)

	_, err := NewLoader("", "test").Load()
	if !errors.Is(err, ErrNotesRootNotADir) {
		t.Fatalf("expected ErrNotesRootNotADir, got %v", err)
	}
}

func TestLoadAppliesDerivedDefaults(t *testing.T) {
	root := t.TempDir()
	t.Setenv("NOTES_ROOT", root)
	t.Setenv("FOAMD_CACHE_DIR", "")
	t.Setenv("FOAMD_REPO_DIR", "")

	cfg, err := NewLoader("", "v1.2.3").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.CacheDir != filepath.Join(root, ".cache") {
		t.Errorf("CacheDir = %q, want %q", cfg.CacheDir, filepath.Join(root, ".cache"))
	}
	if cfg.RepoDir != root {
		t.Errorf("RepoDir = %q, want %q", cfg.RepoDir, root)
	}
	if cfg.IndexNote != "readme" {
		t.Errorf("IndexNote = %q, want readme", cfg.IndexNote)
	}
	if cfg.Version != "v1.2.3" {
		t.Errorf("Version = %q, want v1.2.3", cfg.Version)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "notesRoot: /from/file\nindexNote: home\nserver:\n  listen: \":7070\"\n"
	if err := os.WriteFile(cfgFile, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("NOTES_ROOT", root)

	cfg, err := NewLoader(cfgFile, "test").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.NotesRoot != root {
		t.Errorf("NotesRoot = %q, env should win over file", cfg.NotesRoot)
	}
	if cfg.IndexNote != "home" {
		t.Errorf("IndexNote = %q, want home (from file)", cfg.IndexNote)
	}
	if cfg.ListenAddr != ":7070" {
		t.Errorf("ListenAddr = %q, want :7070 (from file)", cfg.ListenAddr)
	}
}

func TestParseHelpers(t *testing.T) {
	t.Setenv("FOAMD_TEST_STR", "value")
	t.Setenv("FOAMD_TEST_EMPTY", "")
	t.Setenv("FOAMD_TEST_BOOL", "true")
	t.Setenv("FOAMD_TEST_BAD_BOOL", "yep")
	t.Setenv("FOAMD_TEST_INT", "42")
	t.Setenv("FOAMD_TEST_DUR", "5s")

	if got := ParseString("FOAMD_TEST_STR", "d"); got != "value" {
		t.Errorf("ParseString = %q", got)
	}
	if got := ParseString("FOAMD_TEST_EMPTY", "d"); got != "d" {
		t.Errorf("ParseString empty = %q, want default", got)
	}
	if !ParseBool("FOAMD_TEST_BOOL", false) {
		t.Error("ParseBool = false, want true")
	}
	if ParseBool("FOAMD_TEST_BAD_BOOL", false) {
		t.Error("ParseBool on invalid value should return default")
	}
	if got := ParseInt("FOAMD_TEST_INT", 0); got != 42 {
		t.Errorf("ParseInt = %d", got)
	}
	if got := ParseDuration("FOAMD_TEST_DUR", time.Minute); got != 5*time.Second {
		t.Errorf("ParseDuration = %v", got)
	}
}

func TestValidateRejectsBadTracingExporter(t *testing.T) {
	cfg := Defaults()
	cfg.NotesRoot = t.TempDir()
	applyDerivedDefaults(&cfg)
	cfg.TracingExporter = "udp"

	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for unsupported tracing exporter")
	}
}
