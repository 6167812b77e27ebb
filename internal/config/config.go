// SPDX-License-Identifier: MIT

// Package config loads and validates foamd configuration with the
// precedence ENV > config file > defaults.
package config

import (
	"path/filepath"
	"strings"
)

// AppConfig holds the runtime configuration of the foamd daemon.
type AppConfig struct {
	// NotesRoot is the directory containing the notes, from NOTES_ROOT.
	NotesRoot string

	// CacheDir holds the badger store and exported index snapshot.
	// Defaults to <NotesRoot>/.cache.
	CacheDir string

	// RepoDir is the git repository used for submodule sync.
	// Defaults to NotesRoot.
	RepoDir string

	// IndexNote is the stem served at "/". Defaults to "readme".
	IndexNote string

	// IgnoreCache bypasses render cache reads (writes still happen).
	IgnoreCache bool

	// SyncOnStart runs a submodule sync before serving.
	SyncOnStart bool

	ListenAddr     string
	MetricsEnabled bool
	MetricsAddr    string

	AllowedOrigins []string

	RateLimitEnabled bool
	RateLimitRPM     int

	TracingEnabled  bool
	TracingExporter string // "http" or "grpc"
	TracingEndpoint string
	Environment     string

	LogLevel   string
	LogService string

	Version string
}

// Defaults returns the built-in configuration defaults. NotesRoot has no
// default: it must come from the environment or the config file.
func Defaults() AppConfig {
	return AppConfig{
		IndexNote:        "readme",
		ListenAddr:       ":8080",
		MetricsEnabled:   true,
		MetricsAddr:      ":9090",
		RateLimitEnabled: true,
		RateLimitRPM:     300,
		TracingExporter:  "http",
		Environment:      "development",
		LogLevel:         "info",
		LogService:       "foamd",
	}
}

// Loader loads configuration from file and environment.
type Loader struct {
	filePath string
	version  string
}

// NewLoader creates a loader. filePath may be empty for ENV-only operation.
func NewLoader(filePath, version string) *Loader {
	return &Loader{filePath: filePath, version: version}
}

// Load builds the effective configuration: defaults, then file values, then
// environment overrides, then validation.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()
	cfg.Version = l.version

	if l.filePath != "" {
		if err := mergeFile(&cfg, l.filePath); err != nil {
			return AppConfig{}, err
		}
	}

	mergeEnv(&cfg)
	applyDerivedDefaults(&cfg)

	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func mergeEnv(cfg *AppConfig) {
	cfg.NotesRoot = ParseString("NOTES_ROOT", cfg.NotesRoot)
	cfg.CacheDir = ParseString("FOAMD_CACHE_DIR", cfg.CacheDir)
	cfg.RepoDir = ParseString("FOAMD_REPO_DIR", cfg.RepoDir)
	cfg.IndexNote = ParseString("FOAMD_INDEX_NOTE", cfg.IndexNote)
	cfg.IgnoreCache = ParseBool("FOAMD_IGNORE_CACHE", cfg.IgnoreCache)
	cfg.SyncOnStart = ParseBool("FOAMD_SYNC_ON_START", cfg.SyncOnStart)
	cfg.ListenAddr = ParseString("FOAMD_LISTEN", cfg.ListenAddr)
	cfg.MetricsEnabled = ParseBool("FOAMD_METRICS", cfg.MetricsEnabled)
	cfg.MetricsAddr = ParseString("FOAMD_METRICS_LISTEN", cfg.MetricsAddr)
	cfg.RateLimitEnabled = ParseBool("FOAMD_RATE_LIMIT", cfg.RateLimitEnabled)
	cfg.RateLimitRPM = ParseInt("FOAMD_RATE_LIMIT_RPM", cfg.RateLimitRPM)
	cfg.TracingEnabled = ParseBool("FOAMD_TRACING", cfg.TracingEnabled)
	cfg.TracingExporter = ParseString("FOAMD_TRACING_EXPORTER", cfg.TracingExporter)
	cfg.TracingEndpoint = ParseString("FOAMD_TRACING_ENDPOINT", cfg.TracingEndpoint)
	cfg.Environment = ParseString("FOAMD_ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = ParseString("FOAMD_LOG_LEVEL", cfg.LogLevel)
	cfg.LogService = ParseString("FOAMD_LOG_SERVICE", cfg.LogService)

	if raw := ParseString("FOAMD_ALLOWED_ORIGINS", ""); raw != "" {
		cfg.AllowedOrigins = splitCSV(raw)
	}
}

func applyDerivedDefaults(cfg *AppConfig) {
	if cfg.CacheDir == "" && cfg.NotesRoot != "" {
		cfg.CacheDir = filepath.Join(cfg.NotesRoot, ".cache")
	}
	if cfg.RepoDir == "" {
		cfg.RepoDir = cfg.NotesRoot
	}
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
