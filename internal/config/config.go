// Package config defines the options that drive a bootstrap run: the
// project root, include/exclude glob patterns, the per-file size cap, and
// the Tier 0/Tier 1 deadlines. Values come from defaults, an optional
// on-disk .bootstrap.kdl, and direct caller overrides, in that order, then
// pass through Validate before Start will accept them.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bootstrapkit/tierengine/internal/bootstraperr"
)

const (
	DefaultMaxFileSizeBytes = 1024 * 1024
	DefaultTier0DeadlineMs  = 5000
	DefaultTier1DeadlineMs  = 30000
)

// Config holds the options for a single bootstrap run.
type Config struct {
	Root             string
	IncludePatterns  []string
	ExcludePatterns  []string
	MaxFileSizeBytes int64
	Tier0DeadlineMs  int
	Tier1DeadlineMs  int
}

// Default returns a Config with the spec's default values and empty
// IncludePatterns and ExcludePatterns. Discovery still applies its own
// default include pattern, the universal-excludes list and any .gitignore
// exclusions on top of these fields.
func Default(root string) *Config {
	return &Config{
		Root:             root,
		IncludePatterns:  nil,
		ExcludePatterns:  nil,
		MaxFileSizeBytes: DefaultMaxFileSizeBytes,
		Tier0DeadlineMs:  DefaultTier0DeadlineMs,
		Tier1DeadlineMs:  DefaultTier1DeadlineMs,
	}
}

// Load builds a Config for root: defaults, then an optional .bootstrap.kdl
// on top, then validates the result.
func Load(root string) (*Config, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}

	cfg := Default(absRoot)

	onDisk, err := LoadKDL(absRoot)
	if err != nil {
		return nil, err
	}
	if onDisk != nil {
		cfg = onDisk
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects nonsense option values before Tier 0 starts. A
// rootPath that doesn't exist is not rejected here: discovery tolerates a
// missing root by finding nothing, rather than failing the whole run.
func (c *Config) Validate() error {
	if c.Root == "" {
		return bootstraperr.NewConfigError("Root", "", fmt.Errorf("root must not be empty"))
	}
	if info, err := os.Stat(c.Root); err == nil && !info.IsDir() {
		return bootstraperr.NewConfigError("Root", c.Root, fmt.Errorf("root is not a directory"))
	}
	if c.MaxFileSizeBytes <= 0 {
		return bootstraperr.NewConfigError("MaxFileSizeBytes", fmt.Sprint(c.MaxFileSizeBytes), fmt.Errorf("must be positive"))
	}
	if c.Tier0DeadlineMs <= 0 {
		return bootstraperr.NewConfigError("Tier0DeadlineMs", fmt.Sprint(c.Tier0DeadlineMs), fmt.Errorf("must be positive"))
	}
	if c.Tier1DeadlineMs <= 0 {
		return bootstraperr.NewConfigError("Tier1DeadlineMs", fmt.Sprint(c.Tier1DeadlineMs), fmt.Errorf("must be positive"))
	}
	if c.Tier1DeadlineMs < c.Tier0DeadlineMs {
		return bootstraperr.NewConfigError("Tier1DeadlineMs", fmt.Sprint(c.Tier1DeadlineMs), fmt.Errorf("must be >= Tier0DeadlineMs"))
	}
	return nil
}
