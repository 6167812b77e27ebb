// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML config file schema. All fields are optional;
// anything unset keeps its previous (default) value.
type fileConfig struct {
	NotesRoot   *string `yaml:"notesRoot"`
	CacheDir    *string `yaml:"cacheDir"`
	RepoDir     *string `yaml:"repoDir"`
	IndexNote   *string `yaml:"indexNote"`
	IgnoreCache *bool   `yaml:"ignoreCache"`
	SyncOnStart *bool   `yaml:"syncOnStart"`

	Server struct {
		Listen         *string  `yaml:"listen"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
		RateLimit      *bool    `yaml:"rateLimit"`
		RateLimitRPM   *int     `yaml:"rateLimitRPM"`
	} `yaml:"server"`

	Metrics struct {
		Enabled *bool   `yaml:"enabled"`
		Listen  *string `yaml:"listen"`
	} `yaml:"metrics"`

	Tracing struct {
		Enabled  *bool   `yaml:"enabled"`
		Exporter *string `yaml:"exporter"`
		Endpoint *string `yaml:"endpoint"`
	} `yaml:"tracing"`

	Log struct {
		Level   *string `yaml:"level"`
		Service *string `yaml:"service"`
	} `yaml:"log"`
}

// mergeFile overlays values from a YAML file onto cfg. A missing file is an
// error: the loader only passes a path the operator asked for.
func mergeFile(cfg *AppConfig, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.NotesRoot, fc.NotesRoot)
	setString(&cfg.CacheDir, fc.CacheDir)
	setString(&cfg.RepoDir, fc.RepoDir)
	setString(&cfg.IndexNote, fc.IndexNote)
	setBool(&cfg.IgnoreCache, fc.IgnoreCache)
	setBool(&cfg.SyncOnStart, fc.SyncOnStart)

	setString(&cfg.ListenAddr, fc.Server.Listen)
	if len(fc.Server.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.Server.AllowedOrigins
	}
	setBool(&cfg.RateLimitEnabled, fc.Server.RateLimit)
	setInt(&cfg.RateLimitRPM, fc.Server.RateLimitRPM)

	setBool(&cfg.MetricsEnabled, fc.Metrics.Enabled)
	setString(&cfg.MetricsAddr, fc.Metrics.Listen)

	setBool(&cfg.TracingEnabled, fc.Tracing.Enabled)
	setString(&cfg.TracingExporter, fc.Tracing.Exporter)
	setString(&cfg.TracingEndpoint, fc.Tracing.Endpoint)

	setString(&cfg.LogLevel, fc.Log.Level)
	setString(&cfg.LogService, fc.Log.Service)

	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
