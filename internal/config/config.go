// Package config loads the optional per-project configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is looked up in the project root.
const FileName = ".phpdoc-reader.yaml"

type Config struct {
	// IgnorePhpDocErrors resolves unresolvable doc comment types to "no type".
	IgnorePhpDocErrors bool `yaml:"ignore_phpdoc_errors"`
	// Paths are the scan roots. Empty means the composer autoload directories.
	Paths    []string `yaml:"paths"`
	SkipDirs []string `yaml:"skip_dirs"`
	CacheDir string   `yaml:"cache_dir"`
	Watch    bool     `yaml:"watch"`
}

// Load reads FileName from projectRoot. A missing file yields the zero configuration.
// Relative paths in the file are relative to projectRoot.
func Load(projectRoot string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(filepath.Join(projectRoot, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	for i, path := range cfg.Paths {
		cfg.Paths[i] = resolvePath(projectRoot, path)
	}
	if cfg.CacheDir != "" {
		cfg.CacheDir = resolvePath(projectRoot, cfg.CacheDir)
	}

	return cfg, nil
}

func resolvePath(projectRoot, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(projectRoot, path)
}

// ProjectCacheDir returns, and creates, the cache directory of a project below the user
// config directory.
func ProjectCacheDir(projectRoot string) (string, error) {
	configDir, err := userConfigDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(configDir, "phpdoc-reader", projectSlug(projectRoot))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	return dir, nil
}

func projectSlug(projectRoot string) string {
	return strings.NewReplacer("/", "_", ":", "_", `\`, "_").Replace(projectRoot)
}

func userConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil {
		return configDir, nil
	}

	usr, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}
	return filepath.Join(usr.HomeDir, ".config"), nil
}
