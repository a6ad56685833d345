package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// projectConfig mirrors lualint.toml. The file is optional and every
// field has a zero-value default; command-line flags override it.
type projectConfig struct {
	Lint lintConfig `toml:"lint"`
}

type lintConfig struct {
	// Path is the module search path (';'-separated templates).
	Path string `toml:"path"`
	// Relaxed makes relaxed mode the default for all targets.
	Relaxed bool `toml:"relaxed"`
	// Jobs is the default worker count; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs"`
	// NoUnresolved silences unresolved-import diagnostics.
	NoUnresolved bool `toml:"no_unresolved"`
	// Luac overrides the compiler binary.
	Luac string `toml:"luac"`
}

// findLualintToml walks up from startDir looking for lualint.toml.
func findLualintToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "lualint.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectConfig returns the nearest config, or a zero config when
// none exists. The second return is the config file path, if any.
func loadProjectConfig(startDir string) (projectConfig, string, error) {
	path, ok, err := findLualintToml(startDir)
	if err != nil || !ok {
		return projectConfig{}, "", err
	}
	var cfg projectConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return projectConfig{}, path, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, path, nil
}
