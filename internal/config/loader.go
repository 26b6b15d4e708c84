package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML configuration. Every field is optional; unset
// fields leave the corresponding Config value untouched, so the file only
// needs to name what it overrides.
type File struct {
	// Endpoint overrides the API endpoint.
	Endpoint string `yaml:"endpoint,omitempty"`

	// CacheDir overrides the response cache directory.
	CacheDir string `yaml:"cache_dir,omitempty"`

	// Timeout overrides the per-request timeout, in Go duration syntax
	// ("30s", "2m").
	Timeout string `yaml:"timeout,omitempty"`

	// BatchSize overrides the content-fetch batch size.
	BatchSize int `yaml:"batch_size,omitempty"`

	// MemberLimit overrides the membership listing page size.
	MemberLimit int `yaml:"member_limit,omitempty"`

	// Workers overrides the concurrent exploration limit.
	Workers int `yaml:"workers,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"user_agent,omitempty"`

	// DBDir overrides the run database directory.
	DBDir string `yaml:"db_dir,omitempty"`
}

// LoadFile loads the config file and applies it to cfg.
//
// If cfg.ConfigFilePath is set, that file must exist and parse. Otherwise
// the file is searched at ./.wikigraph.yaml and then in the XDG config
// directory; a missing file is not an error, the defaults simply stand.
func LoadFile(cfg *Config) error {
	path := cfg.ConfigFilePath
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return file.applyTo(cfg, path)
}

// findConfigFile returns the first config file present in the default
// search order, or empty if none exists.
func findConfigFile() string {
	candidates := []string{
		ConfigFileName,
		filepath.Join(XDGConfigDir(), "config.yaml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// applyTo copies the file's set fields onto cfg.
func (f *File) applyTo(cfg *Config, path string) error {
	if f.Endpoint != "" {
		cfg.Endpoint = f.Endpoint
	}
	if f.CacheDir != "" {
		cfg.CacheDir = f.CacheDir
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout in %s: %w", path, err)
		}
		cfg.Timeout = d
	}
	if f.BatchSize != 0 {
		cfg.BatchSize = f.BatchSize
	}
	if f.MemberLimit != 0 {
		cfg.MemberLimit = f.MemberLimit
	}
	if f.Workers != 0 {
		cfg.Workers = f.Workers
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.DBDir != "" {
		cfg.DBDir = f.DBDir
	}
	return nil
}

// WriteSample writes a commented starter config file to path. It refuses
// to overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	sample := `# wikigraph configuration.
# Every setting is optional; CLI flags override this file.

# MediaWiki API endpoint to crawl.
#endpoint: https://commons.wikimedia.org/w/api.php

# Response cache directory (the historical default is ./.cache).
#cache_dir: .cache

# Per-request timeout (Go duration syntax).
#timeout: 30s

# Member titles per content fetch (API caps this at 50).
#batch_size: 50

# Membership listing page size (API caps this at 500).
#member_limit: 500

# Concurrently explored categories. 1 = sequential depth-first crawl.
#workers: 1

# Custom User-Agent for API requests.
#user_agent: wikigraph/1.0 (contact: you@example.org)

# Run database directory for 'wikigraph compare'.
#db_dir: ~/.local/share/wikigraph
`
	if err := os.WriteFile(path, []byte(sample), 0600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
