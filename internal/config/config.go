// Package config holds ambient, non-scientific settings: working
// directories, the identification-store snapshot path, the optional
// search index path, and default thread counts/binary paths for
// external tools. This is distinct from the in-domain Parameter Tree
// (internal/paramtree), which is typed/restricted and round-trips
// through its own Param-flavored XML format.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/msplatform/mscore/internal/paths"
)

// Config represents the mscore configuration.
type Config struct {
	DataDirectory string            `yaml:"data_directory"`
	Store         StoreConfig       `yaml:"store"`
	Search        SearchConfig      `yaml:"search"`
	ExternalTools ExternalToolsConfig `yaml:"external_tools"`
}

// StoreConfig controls the identification data store's optional SQLite
// snapshot.
type StoreConfig struct {
	SnapshotPath string `yaml:"snapshot_path"`
	CacheSize    int    `yaml:"cache_size"`   // in KB
	MMapSize     int64  `yaml:"mmap_size"`    // in bytes
	JournalMode  string `yaml:"journal_mode"` // WAL
}

// SearchConfig controls the optional bleve secondary index.
type SearchConfig struct {
	Enabled   bool   `yaml:"enabled"`
	IndexPath string `yaml:"index_path"`
}

// ExternalToolsConfig holds default invocation settings for the
// Percolator/MSFragger process-level adapters (§5 "Thread count for
// external tool").
type ExternalToolsConfig struct {
	PercolatorBinary string `yaml:"percolator_binary"`
	MSFraggerBinary  string `yaml:"msfragger_binary"`
	DefaultThreads   int    `yaml:"default_threads"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	p := paths.GetPaths()

	return &Config{
		DataDirectory: p.DataDir,
		Store: StoreConfig{
			SnapshotPath: filepath.Join(p.DataDir, "mscore.db"),
			CacheSize:    10000,     // ~10MB
			MMapSize:     268435456, // 256MB
			JournalMode:  "WAL",
		},
		Search: SearchConfig{
			Enabled:   true,
			IndexPath: filepath.Join(p.CacheDir, "index"),
		},
		ExternalTools: ExternalToolsConfig{
			PercolatorBinary: "percolator",
			MSFraggerBinary:  "msfragger",
			DefaultThreads:   4,
		},
	}
}

// Load loads configuration from a file, falling back to defaults for a
// missing file.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.DataDirectory = expandPath(config.DataDirectory)
	config.Store.SnapshotPath = expandPath(config.Store.SnapshotPath)
	config.Search.IndexPath = expandPath(config.Search.IndexPath)

	return config, nil
}

// Save saves the configuration to a file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config file path.
func GetConfigPath() string {
	if path := os.Getenv("MSCORE_CONFIG"); path != "" {
		return path
	}

	if _, err := os.Stat("mscore.yaml"); err == nil {
		return "mscore.yaml"
	}

	p := paths.GetPaths()
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// EnsureDirectories creates necessary directories.
func (c *Config) EnsureDirectories() error {
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	dirs := []string{
		c.DataDirectory,
		filepath.Dir(c.Store.SnapshotPath),
		filepath.Dir(c.Search.IndexPath),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// expandPath expands ~ to the home directory.
func expandPath(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// IsSearchEnabled returns true if the bleve secondary index is enabled.
func (c *Config) IsSearchEnabled() bool {
	return c.Search.Enabled
}
